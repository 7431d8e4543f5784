package cart

import (
	"errors"
	"net/http"
)

// Domain error taxonomy. Messages are user-facing: the storefront surfaces
// them directly, so they name the offending value and the allowed ones.

// ValidationError flags missing or malformed input
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError flags an absent user, product, cart, or line item
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// OutOfStockError flags insufficient product quantity
type OutOfStockError struct{ Message string }

func (e *OutOfStockError) Error() string { return e.Message }

// InvalidSelectionError flags a size or color the product does not offer
type InvalidSelectionError struct{ Message string }

func (e *InvalidSelectionError) Error() string { return e.Message }

// DuplicateError flags a wishlist re-add of the same (product, size, color)
type DuplicateError struct{ Message string }

func (e *DuplicateError) Error() string { return e.Message }

// PricingError flags a price that is not a positive amount
type PricingError struct{ Message string }

func (e *PricingError) Error() string { return e.Message }

// HTTPStatus maps a domain error to its response status code. Anything
// outside the taxonomy is a storage failure and maps to 500.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		outOfStock *OutOfStockError
		selection  *InvalidSelectionError
		duplicate  *DuplicateError
		pricing    *PricingError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation),
		errors.As(err, &outOfStock),
		errors.As(err, &selection),
		errors.As(err, &duplicate),
		errors.As(err, &pricing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-service/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Normalize lowercases and trims a size/color token. Every identity check
// and selection comparison goes through this.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// UnitPrice applies a percent discount to a price. Results stay unrounded;
// rounding happens only at persistence and response boundaries.
func UnitPrice(price decimal.Decimal, discountPercent float64) decimal.Decimal {
	if discountPercent > 0 {
		discount := decimal.NewFromFloat(discountPercent)
		return price.Sub(price.Mul(discount).Div(hundred))
	}
	return price
}

// Round2 rounds a money amount to two decimal places
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ParseArrayField reads a sizes/colors field defensively: it accepts a
// native list, a JSON-encoded string, or a comma-separated string. Empty or
// unrecognized input yields an empty list.
func ParseArrayField(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		var parsed []string
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return parsed
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		return out
	default:
		return []string{}
	}
}

// ValidateSelection checks a requested size/color against the product's
// configured options, case-insensitively. A product that declares no sizes
// (or colors) accepts any value for that field.
func ValidateSelection(p *model.Product, size, color string) error {
	if size != "" && len(p.Sizes) > 0 && !containsNormalized(p.Sizes, size) {
		return &InvalidSelectionError{fmt.Sprintf(
			"Size '%s' is not available for this product. Available sizes: %s",
			size, strings.Join(p.Sizes, ", "))}
	}
	if color != "" && len(p.Colors) > 0 && !containsNormalized(p.Colors, color) {
		return &InvalidSelectionError{fmt.Sprintf(
			"Color '%s' is not available for this product. Available colors: %s",
			color, strings.Join(p.Colors, ", "))}
	}
	return nil
}

func containsNormalized(options []string, value string) bool {
	normalized := Normalize(value)
	for _, option := range options {
		if Normalize(option) == normalized {
			return true
		}
	}
	return false
}

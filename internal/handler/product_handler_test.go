package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/cart"
	"storefront-service/internal/model"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func storedProduct() model.Product {
	return model.Product{
		ID:          1,
		Name:        "Linen Shirt",
		Description: "Breathable summer shirt",
		Category:    "men",
		SubCategory: "shirts",
		Price:       decimal.RequireFromString("100"),
		Discount:    20,
		Quantity:    10,
		Stock:       model.StockInStock,
		Sizes:       []string{"S", "M", "L"},
		Colors:      []string{"#FF0000"},
	}
}

func TestApplyProductUpdatePartial(t *testing.T) {
	product := storedProduct()

	// Only the price is sent; everything else must survive.
	err := applyProductUpdate(&product, &ProductUpdateRequest{Price: decPtr("20")})
	require.NoError(t, err)

	assert.True(t, product.Price.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, "Linen Shirt", product.Name)
	assert.Equal(t, "Breathable summer shirt", product.Description)
	assert.Equal(t, "men", product.Category)
	assert.Equal(t, 10, product.Quantity)
	assert.Equal(t, model.StockInStock, product.Stock)
	assert.Equal(t, []string{"S", "M", "L"}, product.Sizes)
	assert.Equal(t, []string{"#FF0000"}, product.Colors)
	assert.Equal(t, 20.0, product.Discount)
}

func TestApplyProductUpdateRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-5"} {
		product := storedProduct()
		err := applyProductUpdate(&product, &ProductUpdateRequest{Price: decPtr(price)})

		var valErr *cart.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.True(t, product.Price.Equal(decimal.RequireFromString("100")))
	}
}

func TestApplyProductUpdateRejectsBadDiscount(t *testing.T) {
	for _, discount := range []float64{-1, 101} {
		product := storedProduct()
		err := applyProductUpdate(&product, &ProductUpdateRequest{
			Name:     strPtr("Renamed"),
			Discount: floatPtr(discount),
		})

		var valErr *cart.ValidationError
		require.ErrorAs(t, err, &valErr)
		// Validation failure must leave the product untouched.
		assert.Equal(t, "Linen Shirt", product.Name)
		assert.Equal(t, 20.0, product.Discount)
	}
}

func TestApplyProductUpdateMultipleFields(t *testing.T) {
	product := storedProduct()

	err := applyProductUpdate(&product, &ProductUpdateRequest{
		Name:     strPtr("Cotton Shirt"),
		Quantity: intPtr(0),
		Sizes:    `["XS","S"]`,
	})
	require.NoError(t, err)

	assert.Equal(t, "Cotton Shirt", product.Name)
	assert.Equal(t, 0, product.Quantity)
	assert.Equal(t, []string{"XS", "S"}, product.Sizes)
	// Fields not in the request keep their values.
	assert.True(t, product.Price.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, []string{"#FF0000"}, product.Colors)
}

package cart

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func sampleProduct(t *testing.T) *model.Product {
	t.Helper()
	return &model.Product{
		ID:       1,
		Name:     "Linen Shirt",
		Price:    dec(t, "100"),
		Discount: 20,
		Quantity: 10,
		Stock:    model.StockInStock,
		Sizes:    []string{"S", "M", "L"},
		Colors:   []string{"Red", "Blue"},
	}
}

func TestAdd(t *testing.T) {
	t.Run("snapshots discounted price and reserves stock", func(t *testing.T) {
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}

		err := Add(c, p, AddParams{Quantity: 2, Size: "M", Color: "Red"})
		require.NoError(t, err)

		require.Len(t, c.Items, 1)
		item := c.Items[0]
		assert.Equal(t, p.ID, item.ProductID)
		assert.Equal(t, 2, item.Quantity)
		assertDecimal(t, "80", item.UnitPrice)
		assertDecimal(t, "100", item.OriginalPrice)
		assert.Equal(t, 20.0, item.Discount)
		assertDecimal(t, "160", item.TotalPrice)

		assert.Equal(t, 8, p.Quantity)
		assert.Equal(t, model.StockInStock, p.Stock)
	})

	t.Run("merges duplicate selection and refreshes the snapshot", func(t *testing.T) {
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}
		require.NoError(t, Add(c, p, AddParams{Quantity: 2, Size: "M", Color: "Red"}))

		// The price changed between the two adds; the merged line must
		// carry the newer snapshot.
		p.Price = dec(t, "90")
		require.NoError(t, Add(c, p, AddParams{Quantity: 1, Size: "m", Color: "RED"}))

		require.Len(t, c.Items, 1)
		item := c.Items[0]
		assert.Equal(t, 3, item.Quantity)
		assertDecimal(t, "72", item.UnitPrice)
		assertDecimal(t, "90", item.OriginalPrice)
		assertDecimal(t, "216", item.TotalPrice)
		assert.Equal(t, 7, p.Quantity)
	})

	t.Run("different selection opens a new line", func(t *testing.T) {
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}
		require.NoError(t, Add(c, p, AddParams{Quantity: 1, Size: "M", Color: "Red"}))
		require.NoError(t, Add(c, p, AddParams{Quantity: 1, Size: "L", Color: "Red"}))

		assert.Len(t, c.Items, 2)
		assert.Equal(t, 8, p.Quantity)
	})

	t.Run("reserving the last unit flips the stock flag", func(t *testing.T) {
		p := sampleProduct(t)
		p.Quantity = 2
		c := &model.Cart{UserID: 7}

		require.NoError(t, Add(c, p, AddParams{Quantity: 2}))

		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, model.StockOutOfStock, p.Stock)
	})

	t.Run("rejects quantity beyond stock without mutating anything", func(t *testing.T) {
		p := sampleProduct(t)
		p.Quantity = 1
		c := &model.Cart{UserID: 7}

		err := Add(c, p, AddParams{Quantity: 2})

		var stockErr *OutOfStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Only 1 items available in stock", err.Error())
		assert.Empty(t, c.Items)
		assert.Equal(t, 1, p.Quantity)
		assert.Equal(t, model.StockInStock, p.Stock)
	})

	t.Run("rejects an out of stock product", func(t *testing.T) {
		p := sampleProduct(t)
		p.Quantity = 0
		p.Stock = model.StockOutOfStock
		c := &model.Cart{UserID: 7}

		err := Add(c, p, AddParams{Quantity: 1})

		var stockErr *OutOfStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Empty(t, c.Items)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}

		for _, qty := range []int{0, -1} {
			err := Add(c, p, AddParams{Quantity: qty})
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
		}
		assert.Equal(t, 10, p.Quantity)
	})

	t.Run("rejects a selection the product does not offer", func(t *testing.T) {
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}

		err := Add(c, p, AddParams{Quantity: 1, Size: "XXL"})

		var selErr *InvalidSelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Empty(t, c.Items)
		assert.Equal(t, 10, p.Quantity)
	})

	t.Run("rejects a non-positive product price", func(t *testing.T) {
		p := sampleProduct(t)
		p.Price = decimal.Zero
		c := &model.Cart{UserID: 7}

		err := Add(c, p, AddParams{Quantity: 1})

		var priceErr *PricingError
		require.ErrorAs(t, err, &priceErr)
		assert.Empty(t, c.Items)
	})
}

func TestUpdateQuantity(t *testing.T) {
	setup := func(t *testing.T) (*model.Cart, *model.Product) {
		t.Helper()
		p := sampleProduct(t)
		c := &model.Cart{UserID: 7}
		require.NoError(t, Add(c, p, AddParams{Quantity: 3, Size: "M", Color: "Red"}))
		require.Equal(t, 7, p.Quantity)
		return c, p
	}

	t.Run("decrease releases stock and reprices from the current product", func(t *testing.T) {
		c, p := setup(t)
		p.Price = dec(t, "50")
		p.Discount = 0

		removed, err := UpdateQuantity(c, p, 1, "M", "Red")
		require.NoError(t, err)
		assert.Nil(t, removed)

		item := c.Items[0]
		assert.Equal(t, 1, item.Quantity)
		assertDecimal(t, "50", item.UnitPrice)
		assertDecimal(t, "50", item.TotalPrice)
		assert.Equal(t, 9, p.Quantity)
	})

	t.Run("increase reserves only the delta", func(t *testing.T) {
		c, p := setup(t)

		_, err := UpdateQuantity(c, p, 5, "M", "Red")
		require.NoError(t, err)

		assert.Equal(t, 5, c.Items[0].Quantity)
		assertDecimal(t, "400", c.Items[0].TotalPrice)
		assert.Equal(t, 5, p.Quantity)
	})

	t.Run("increase beyond stock reports the shortfall", func(t *testing.T) {
		c, p := setup(t)

		_, err := UpdateQuantity(c, p, 20, "M", "Red")

		var stockErr *OutOfStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Cannot add 17 more items. Only 7 available in stock.", err.Error())
		assert.Equal(t, 3, c.Items[0].Quantity)
		assert.Equal(t, 7, p.Quantity)
	})

	t.Run("zero removes the line and restores the full reservation", func(t *testing.T) {
		c, p := setup(t)
		p.Quantity = 0
		p.Stock = model.StockOutOfStock

		removed, err := UpdateQuantity(c, p, 0, "M", "Red")
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, 3, removed.Quantity)

		assert.Empty(t, c.Items)
		assert.Equal(t, 3, p.Quantity)
		assert.Equal(t, model.StockInStock, p.Stock)
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		c, p := setup(t)
		_, err := UpdateQuantity(c, p, -1, "M", "Red")
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("missing line is not found", func(t *testing.T) {
		c, p := setup(t)
		_, err := UpdateQuantity(c, p, 1, "L", "Blue")
		var nfErr *NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})
}

func TestRemove(t *testing.T) {
	p := sampleProduct(t)
	c := &model.Cart{UserID: 7}
	require.NoError(t, Add(c, p, AddParams{Quantity: 4, Size: "S", Color: "Blue"}))
	require.Equal(t, 6, p.Quantity)

	t.Run("missing line", func(t *testing.T) {
		_, err := Remove(c, p, "M", "Blue")
		var nfErr *NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})

	t.Run("releases the reservation", func(t *testing.T) {
		removed, err := Remove(c, p, "s", "BLUE")
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, 4, removed.Quantity)
		assert.Empty(t, c.Items)
		assert.Equal(t, 10, p.Quantity)
	})
}

func TestReserveRestock(t *testing.T) {
	t.Run("reserve clamps at zero", func(t *testing.T) {
		p := &model.Product{Quantity: 2, Stock: model.StockInStock}
		Reserve(p, 5)
		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, model.StockOutOfStock, p.Stock)
	})

	t.Run("restock lifts the flag only when it was out", func(t *testing.T) {
		p := &model.Product{Quantity: 0, Stock: model.StockOutOfStock}
		Restock(p, 3)
		assert.Equal(t, 3, p.Quantity)
		assert.Equal(t, model.StockInStock, p.Stock)

		q := &model.Product{Quantity: 1, Stock: model.StockInStock}
		Restock(q, 2)
		assert.Equal(t, 3, q.Quantity)
		assert.Equal(t, model.StockInStock, q.Stock)
	})
}

func TestFindItem(t *testing.T) {
	items := []model.CartItem{
		{ProductID: 1, Size: "M", Color: "Red"},
		{ProductID: 2, Size: " L ", Color: "Navy Blue"},
	}

	assert.Equal(t, 0, FindItem(items, 1, "m", "RED"))
	assert.Equal(t, 1, FindItem(items, 2, "l", "navy blue"))
	assert.Equal(t, -1, FindItem(items, 1, "L", "Red"))
	assert.Equal(t, -1, FindItem(items, 3, "M", "Red"))
}

func TestPrune(t *testing.T) {
	c := &model.Cart{Items: []model.CartItem{
		{ID: 10, ProductID: 1, Quantity: 1},
		{ID: 11, ProductID: 0, Quantity: 2},
		{ID: 12, ProductID: 3, Quantity: 1},
	}}

	dropped := Prune(c)

	require.Len(t, dropped, 1)
	assert.Equal(t, uint(11), dropped[0].ID)
	require.Len(t, c.Items, 2)
	assert.Equal(t, uint(1), c.Items[0].ProductID)
	assert.Equal(t, uint(3), c.Items[1].ProductID)
}

func TestTotals(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		total, count, savings := Totals(nil)
		assertDecimal(t, "0", total)
		assert.Equal(t, 0, count)
		assertDecimal(t, "0", savings)
	})

	t.Run("aggregates across lines", func(t *testing.T) {
		items := []model.CartItem{
			{Quantity: 2, UnitPrice: dec(t, "80"), OriginalPrice: dec(t, "100"), TotalPrice: dec(t, "160")},
			{Quantity: 1, UnitPrice: dec(t, "50"), OriginalPrice: dec(t, "50"), TotalPrice: dec(t, "50")},
		}

		total, count, savings := Totals(items)

		assertDecimal(t, "210", total)
		assert.Equal(t, 3, count)
		assertDecimal(t, "40", savings)
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", &NotFoundError{"missing"}, http.StatusNotFound},
		{"validation", &ValidationError{"bad"}, http.StatusBadRequest},
		{"out of stock", &OutOfStockError{"none left"}, http.StatusBadRequest},
		{"invalid selection", &InvalidSelectionError{"no such size"}, http.StatusBadRequest},
		{"duplicate", &DuplicateError{"already there"}, http.StatusBadRequest},
		{"pricing", &PricingError{"bad price"}, http.StatusBadRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

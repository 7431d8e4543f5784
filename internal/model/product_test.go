package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHexColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"keyword", "red", "#FF0000"},
		{"keyword mixed case", " Navy ", "#000080"},
		{"short hex uppercased", "#abc", "#ABC"},
		{"long hex uppercased", "#aabbcc", "#AABBCC"},
		{"already uppercase", "#FF0000", "#FF0000"},
		{"unknown passes through", "heather", "heather"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToHexColor(tt.input))
		})
	}
}

func TestProductBeforeSave(t *testing.T) {
	t.Run("zero quantity forces out of stock", func(t *testing.T) {
		p := &Product{Quantity: 0, Stock: StockInStock, Price: decimal.NewFromInt(10)}
		require.NoError(t, p.BeforeSave(nil))
		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, StockOutOfStock, p.Stock)
	})

	t.Run("negative quantity clamps to zero", func(t *testing.T) {
		p := &Product{Quantity: -3, Stock: StockInStock}
		require.NoError(t, p.BeforeSave(nil))
		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, StockOutOfStock, p.Stock)
	})

	t.Run("missing flag defaults to in stock", func(t *testing.T) {
		p := &Product{Quantity: 5}
		require.NoError(t, p.BeforeSave(nil))
		assert.Equal(t, StockInStock, p.Stock)
	})

	t.Run("colors are normalized to hex", func(t *testing.T) {
		p := &Product{Quantity: 5, Colors: []string{"red", "#abc", "heather"}}
		require.NoError(t, p.BeforeSave(nil))
		assert.Equal(t, []string{"#FF0000", "#ABC", "heather"}, p.Colors)
	})
}

package handler

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
	"storefront-service/pkg/config"
	"storefront-service/prometheus"
)

func TestCartResponseEmpty(t *testing.T) {
	resp := cartResponse(7, nil, map[uint]model.Product{})

	assert.Equal(t, uint(7), resp["userId"])
	assert.Empty(t, resp["items"])
	assert.Equal(t, 0, resp["totalItems"])
	assert.True(t, resp["cartTotal"].(decimal.Decimal).IsZero())

	summary := resp["cartSummary"].(echo.Map)
	assert.Equal(t, 0, summary["totalProducts"])
	assert.Equal(t, 0, summary["totalQuantity"])
	assert.True(t, summary["totalAmount"].(decimal.Decimal).IsZero())
	assert.True(t, summary["totalSavings"].(decimal.Decimal).IsZero())
}

func TestCartResponseJoinsProducts(t *testing.T) {
	items := []model.CartItem{
		{
			ID:            1,
			ProductID:     10,
			Quantity:      2,
			Size:          "M",
			Color:         "#FF0000",
			UnitPrice:     decimal.RequireFromString("80"),
			OriginalPrice: decimal.RequireFromString("100"),
			Discount:      20,
			TotalPrice:    decimal.RequireFromString("160"),
		},
		{
			ID:            2,
			ProductID:     11,
			Quantity:      1,
			UnitPrice:     decimal.RequireFromString("50"),
			OriginalPrice: decimal.RequireFromString("50"),
			TotalPrice:    decimal.RequireFromString("50"),
		},
	}
	products := map[uint]model.Product{
		10: {
			ID:          10,
			Name:        "Linen Shirt",
			Category:    "men",
			SubCategory: "shirts",
			Images:      []string{"front.jpg", "back.jpg"},
			Sizes:       []string{"S", "M", "L"},
			Colors:      []string{"#FF0000"},
			Quantity:    8,
			Stock:       model.StockInStock,
		},
		11: {ID: 11, Name: "Belt", Quantity: 3, Stock: model.StockInStock},
	}

	resp := cartResponse(7, items, products)

	formatted := resp["items"].([]echo.Map)
	require.Len(t, formatted, 2)

	first := formatted[0]
	assert.Equal(t, uint(10), first["productId"])
	assert.Equal(t, "Linen Shirt", first["productName"])
	assert.Equal(t, "front.jpg", first["productImage"])
	assert.Equal(t, []string{"S", "M", "L"}, first["availableSizes"])
	assert.Equal(t, 8, first["availableQuantity"])
	assert.Equal(t, model.StockInStock, first["stock"])

	assert.Equal(t, 3, resp["totalItems"])
	assert.True(t, resp["cartTotal"].(decimal.Decimal).Equal(decimal.RequireFromString("210")))

	summary := resp["cartSummary"].(echo.Map)
	assert.Equal(t, 2, summary["totalProducts"])
	assert.True(t, summary["totalSavings"].(decimal.Decimal).Equal(decimal.RequireFromString("40")))
}

func TestCartResponseDropsDanglingLines(t *testing.T) {
	items := []model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1,
			UnitPrice:     decimal.RequireFromString("30"),
			OriginalPrice: decimal.RequireFromString("30"),
			TotalPrice:    decimal.RequireFromString("30")},
		{ID: 2, ProductID: 99, Quantity: 5,
			UnitPrice:     decimal.RequireFromString("10"),
			OriginalPrice: decimal.RequireFromString("10"),
			TotalPrice:    decimal.RequireFromString("50")},
	}
	products := map[uint]model.Product{
		10: {ID: 10, Name: "Scarf", Quantity: 4, Stock: model.StockInStock},
	}

	resp := cartResponse(7, items, products)

	formatted := resp["items"].([]echo.Map)
	require.Len(t, formatted, 1)
	assert.Equal(t, uint(10), formatted[0]["productId"])

	// The dangling line must not leak into the totals either.
	assert.Equal(t, 1, resp["totalItems"])
	assert.True(t, resp["cartTotal"].(decimal.Decimal).Equal(decimal.RequireFromString("30")))
}

func TestSetInventoryGaugeTracksQuantity(t *testing.T) {
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "handlertest"}})

	p := &model.Product{ID: 42, Quantity: 7}
	setInventoryGauge(p)
	assert.Equal(t, 7.0, testutil.ToFloat64(prometheus.ProductInventoryGauge.WithLabelValues("42")))

	p.Quantity = 0
	setInventoryGauge(p)
	assert.Equal(t, 0.0, testutil.ToFloat64(prometheus.ProductInventoryGauge.WithLabelValues("42")))
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"zero rejected", "0", 0, true},
		{"not a number", "abc", 0, true},
		{"negative", "-1", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUserID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

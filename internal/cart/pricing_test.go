package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)),
		"want %s, got %s", want, got.String())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "red", "red"},
		{"uppercase", "XL", "xl"},
		{"surrounding whitespace", "  Navy Blue  ", "navy blue"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount float64
		expected string
	}{
		{"20 percent off 100", "100", 20, "80"},
		{"no discount", "100", 0, "100"},
		{"negative discount ignored", "100", -10, "100"},
		{"fractional result stays unrounded", "99.99", 33, "66.9933"},
		{"full discount", "50", 100, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitPrice(dec(t, tt.price), tt.discount)
			assertDecimal(t, tt.expected, got)
		})
	}
}

func TestRound2(t *testing.T) {
	assertDecimal(t, "66.99", Round2(dec(t, "66.9933")))
	assertDecimal(t, "67", Round2(dec(t, "66.995")))
	assertDecimal(t, "0", Round2(decimal.Zero))
}

func TestParseArrayField(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected []string
	}{
		{"nil", nil, []string{}},
		{"native list", []string{"S", "M", "L"}, []string{"S", "M", "L"}},
		{"interface list", []interface{}{"red", "blue"}, []string{"red", "blue"}},
		{"json encoded string", `["S","L"]`, []string{"S", "L"}},
		{"comma separated", "S, M ,L", []string{"S", "M", "L"}},
		{"single token", "red", []string{"red"}},
		{"empty string", "", []string{}},
		{"blank string", "   ", []string{}},
		{"unsupported type", 42, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseArrayField(tt.input))
		})
	}
}

func TestValidateSelection(t *testing.T) {
	product := &model.Product{
		Sizes:  []string{"S", "L"},
		Colors: []string{"Red", "Blue"},
	}

	t.Run("valid size and color", func(t *testing.T) {
		assert.NoError(t, ValidateSelection(product, "s", "RED"))
	})

	t.Run("empty selection accepted", func(t *testing.T) {
		assert.NoError(t, ValidateSelection(product, "", ""))
	})

	t.Run("unavailable size names the options", func(t *testing.T) {
		err := ValidateSelection(product, "M", "")
		require.Error(t, err)
		var selErr *InvalidSelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Equal(t, "Size 'M' is not available for this product. Available sizes: S, L", err.Error())
	})

	t.Run("unavailable color names the options", func(t *testing.T) {
		err := ValidateSelection(product, "S", "green")
		require.Error(t, err)
		var selErr *InvalidSelectionError
		require.ErrorAs(t, err, &selErr)
		assert.Equal(t, "Color 'green' is not available for this product. Available colors: Red, Blue", err.Error())
	})

	t.Run("product with no options accepts anything", func(t *testing.T) {
		bare := &model.Product{}
		assert.NoError(t, ValidateSelection(bare, "XXL", "chartreuse"))
	})
}

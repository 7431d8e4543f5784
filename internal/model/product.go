package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock flag values. Quantity is the source of truth; the flag is stored
// redundantly for the storefront and must stay derived-consistent.
const (
	StockInStock    = "inStock"
	StockOutOfStock = "outOfStock"
)

// Product represents the catalog master data
type Product struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"type:varchar(100);not null"`
	SubCategory string          `json:"subCategory" gorm:"type:varchar(100);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Discount    float64         `json:"discount" gorm:"default:0;comment:'Discount percent, 0-100'"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	Stock       string          `json:"stock" gorm:"type:varchar(20);not null;default:'inStock'"`
	Images      []string        `json:"images" gorm:"serializer:json"`
	Sizes       []string        `json:"sizes" gorm:"serializer:json"`
	Colors      []string        `json:"colors" gorm:"serializer:json"`
	Bestseller  bool            `json:"bestseller" gorm:"default:false"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeSave re-asserts the quantity/stock invariant on every write path and
// normalizes colors to hex form.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.Stock = StockOutOfStock
	}
	if p.Stock == "" {
		p.Stock = StockInStock
	}
	for i, c := range p.Colors {
		p.Colors[i] = ToHexColor(c)
	}
	return nil
}

var hexColorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// colorKeywords maps the CSS color names the storefront actually uses.
var colorKeywords = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"red":     "#FF0000",
	"green":   "#008000",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"brown":   "#A52A2A",
	"gray":    "#808080",
	"grey":    "#808080",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"silver":  "#C0C0C0",
	"gold":    "#FFD700",
	"beige":   "#F5F5DC",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
	"khaki":   "#F0E68C",
	"lavender": "#E6E6FA",
}

// ToHexColor converts a color keyword or hex shorthand to uppercase hex.
// Unknown values pass through untouched.
func ToHexColor(val string) string {
	if val == "" {
		return val
	}
	if hexColorPattern.MatchString(val) {
		return strings.ToUpper(val)
	}
	if hex, ok := colorKeywords[strings.ToLower(strings.TrimSpace(val))]; ok {
		return hex
	}
	return val
}

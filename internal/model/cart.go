package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user cart document, unique on user
type Cart struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	UserID    uint       `json:"userId" gorm:"uniqueIndex;not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one cart line, identified by (product, size, color). The price
// fields are a snapshot captured when the line was last touched, not a live
// view of the product.
type CartItem struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	CartID        uint            `json:"-" gorm:"index;not null"`
	ProductID     uint            `json:"productId" gorm:"index;not null"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Size          string          `json:"size" gorm:"type:varchar(50)"`
	Color         string          `json:"color" gorm:"type:varchar(50)"`
	UnitPrice     decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	OriginalPrice decimal.Decimal `json:"originalPrice" gorm:"type:decimal(10,2);not null"`
	Discount      float64         `json:"discount" gorm:"default:0"`
	TotalPrice    decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

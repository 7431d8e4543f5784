package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses accepted by the status update endpoint
var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

// Order is an immutable snapshot of cart contents at creation time
type Order struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	UserID        uint            `json:"userId" gorm:"index;not null"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice    decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	AddressID     uint            `json:"addressId" gorm:"not null"`
	PaymentMethod string          `json:"paymentMethod" gorm:"type:varchar(50);not null"`
	PaymentStatus string          `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'pending'"`
	Status        string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem records the unit price actually charged, copied from the cart
// line's snapshot when the order was placed.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrderID   uint            `json:"-" gorm:"index;not null"`
	ProductID uint            `json:"productId" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Size      string          `json:"size" gorm:"type:varchar(50)"`
	Color     string          `json:"color" gorm:"type:varchar(50)"`
}

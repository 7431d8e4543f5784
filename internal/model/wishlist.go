package model

import "time"

// Wishlist is the per-user wishlist document
type Wishlist struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	UserID    uint           `json:"userId" gorm:"uniqueIndex;not null"`
	Items     []WishlistItem `json:"items" gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WishlistItem carries no price snapshot; price is read live from the
// product at display time.
type WishlistItem struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	WishlistID uint      `json:"-" gorm:"index;not null"`
	ProductID  uint      `json:"productId" gorm:"index;not null"`
	Size       string    `json:"size" gorm:"type:varchar(50)"`
	Color      string    `json:"color" gorm:"type:varchar(50)"`
	AddedAt    time.Time `json:"addedAt"`
}

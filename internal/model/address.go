package model

import "time"

// Address is a shipping address in a user's address book. Exactly one active
// address per user may be flagged default; deletion is soft (IsActive flag).
type Address struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"userId" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"type:varchar(20);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null"`
	AddressLine1 string    `json:"addressLine1" gorm:"type:varchar(200);not null"`
	AddressLine2 string    `json:"addressLine2" gorm:"type:varchar(200)"`
	Landmark     string    `json:"landmark" gorm:"type:varchar(100)"`
	City         string    `json:"city" gorm:"type:varchar(50);not null"`
	State        string    `json:"state" gorm:"type:varchar(50);not null"`
	Pincode      string    `json:"pincode" gorm:"type:varchar(10);not null"`
	IsDefault    bool      `json:"isDefault" gorm:"default:false"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

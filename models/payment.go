package models

import (
	"time"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Reference   string    `gorm:"size:36;not null;unique" json:"reference"`
	ListingID   uint      `gorm:"index" json:"listing_id"`
	Listing     Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	BuyerID     uint      `json:"buyer_id"`
	Buyer       User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Status      string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

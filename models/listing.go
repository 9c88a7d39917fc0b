package models

import (
	"time"
)

const (
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusRemoved = "removed"
)

type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	Category    string    `gorm:"size:64;index" json:"category"`
	Location    string    `gorm:"size:255" json:"location,omitempty"`
	Status      string    `gorm:"size:20;default:'active';index" json:"status"`
	UserID      uint      `json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import (
	"time"
)

const (
	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
)

type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"index" json:"listing_id"`
	Listing    Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	ReporterID uint      `json:"reporter_id"`
	Reporter   User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reason     string    `gorm:"type:text;not null" json:"reason"`
	Status     string    `gorm:"size:20;default:'open'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

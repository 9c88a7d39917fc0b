package models

import (
	"time"
)

// Message content is stored encrypted; controllers decrypt before responding.
type Message struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Content           string    `gorm:"type:text;not null" json:"content"`
	ListingID         uint      `gorm:"index" json:"listing_id"`
	Listing           Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	SenderID          uint      `json:"sender_id"`
	Sender            User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID        uint      `json:"receiver_id"`
	Receiver          User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	DeletedBySender   bool      `gorm:"default:false" json:"-"`
	DeletedByReceiver bool      `gorm:"default:false" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

package models

import "gorm.io/gorm"

// Chat is the single conversation for a (property, client, realtor) triple.
// The composite unique index is what enforces at-most-one per triple; creation
// races collapse onto the existing row.
type Chat struct {
	gorm.Model
	PropertyID uint `json:"propertyID" gorm:"not null;uniqueIndex:idx_chats_triple"`
	ClientID   uint `json:"clientID" gorm:"not null;uniqueIndex:idx_chats_triple;index"`
	RealtorID  uint `json:"realtorID" gorm:"not null;uniqueIndex:idx_chats_triple;index"`

	// Denormalized pointer to the newest message, kept consistent on every append
	LastMessageID *uint    `json:"lastMessageID"`
	LastMessage   *Message `json:"lastMessage" gorm:"foreignKey:LastMessageID"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
	Client   User     `json:"client" gorm:"foreignKey:ClientID;references:ID"`
	Realtor  User     `json:"realtor" gorm:"foreignKey:RealtorID;references:ID"`
}

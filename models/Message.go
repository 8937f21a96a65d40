package models

import "gorm.io/gorm"

// Message is immutable once created except for IsRead, which only ever
// transitions false -> true.
type Message struct {
	gorm.Model
	ChatID   uint   `json:"chatID" gorm:"not null;index"`
	SenderID uint   `json:"senderID" gorm:"not null;index"`
	Content  string `json:"content" gorm:"type:text"`
	IsRead   bool   `json:"isRead" gorm:"default:false;index"`
}

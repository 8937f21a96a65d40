package models

import "time"

// Favorite is a membership pair, not an independently mutable entity.
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userID" gorm:"not null;uniqueIndex:idx_favorites_pair"`
	PropertyID uint      `json:"propertyID" gorm:"not null;uniqueIndex:idx_favorites_pair;index"`
	CreatedAt  time.Time `json:"createdAt"`

	User     User     `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Property Property `json:"-" gorm:"foreignKey:PropertyID;references:ID"`
}

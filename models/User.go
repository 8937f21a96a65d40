package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleClient  = "client"
	RoleRealtor = "realtor"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"uniqueIndex"`
	Password       string `json:"-"`
	SocialLogin    bool   `json:"socialLogin"`
	SocialProvider string `json:"socialProvider"`
	AvatarURL      string `json:"avatarURL"`

	// Public contact fields shown on listings
	PhoneNumber string `json:"phoneNumber"`
	Whatsapp    string `json:"whatsapp"`
	Telegram    string `json:"telegram"`
	Address     string `json:"address"`

	Role       string `json:"role" gorm:"type:varchar(20);default:client;index"` // client, realtor, admin
	IsApproved *bool  `json:"isApproved" gorm:"default:false"`

	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`

	Properties []Property `json:"properties" gorm:"foreignKey:RealtorID;references:ID"`
}

// Custom JSON marshaling so JSON columns render as arrays, never raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	return json.Marshal(aux)
}

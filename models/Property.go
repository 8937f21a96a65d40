package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

// PriceTypes are the accepted rental period units for Property.PriceType.
var PriceTypes = []string{"day", "month", "year"}

type Property struct {
	gorm.Model
	RealtorID   uint    `json:"realtorID" gorm:"not null;index"`
	Title       string  `json:"title"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price"`
	PriceType   string  `json:"priceType" gorm:"type:varchar(10);default:month"` // day, month, year
	Location    string  `json:"location"`
	District    string  `json:"district"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	Area        float32 `json:"area"`

	Images   datatypes.JSON `json:"images"`   // JSON array of URLs
	Features datatypes.JSON `json:"features"` // JSON array of strings

	Status     string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	AdminNotes string `json:"adminNotes" gorm:"type:text"`
	Available  *bool  `json:"available" gorm:"default:true"`

	Realtor User `json:"realtor" gorm:"foreignKey:RealtorID;references:ID"`
}

func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images   []string `json:"images"`
		Features []string `json:"features"`
		*Alias
	}{
		Images:   []string{},
		Features: []string{},
		Alias:    (*Alias)(p),
	}

	if p.Images != nil {
		var images []string
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}
	if p.Features != nil {
		var features []string
		if err := json.Unmarshal(p.Features, &features); err == nil {
			aux.Features = features
		}
	}

	return json.Marshal(aux)
}

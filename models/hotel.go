package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Hotel is a listing owned by a single hotel owner (identity-provider user id).
type Hotel struct {
	gorm.Model

	OwnerID             string         `gorm:"column:owner_id;size:128;index;not null" json:"ownerId"`
	Title               string         `gorm:"size:255;not null" json:"title"`
	Description         string         `gorm:"type:text" json:"description"`
	Image               string         `gorm:"size:512" json:"image"`
	Country             string         `gorm:"size:100;index" json:"country"`
	State               string         `gorm:"size:100" json:"state"`
	City                string         `gorm:"size:100" json:"city"`
	LocationDescription string         `gorm:"column:location_description;type:text" json:"locationDescription"`
	Amenities           datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

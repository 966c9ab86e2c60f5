package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	HotelID       uint   `gorm:"column:hotel_id;index;not null" json:"hotelId"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Image         string `gorm:"size:512" json:"image"`
	BedCount      int    `gorm:"column:bed_count" json:"bedCount"`
	BathroomCount int    `gorm:"column:bathroom_count" json:"bathroomCount"`
	GuestCount    int    `gorm:"column:guest_count" json:"guestCount"`
	KingBed       int    `gorm:"column:king_bed" json:"kingBed"`
	QueenBed      int    `gorm:"column:queen_bed" json:"queenBed"`

	// Per-night rates in the deployment currency.
	RoomPrice      float64  `gorm:"column:room_price;not null" json:"roomPrice"`
	BreakfastPrice *float64 `gorm:"column:breakfast_price" json:"breakfastPrice,omitempty"`

	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	Hotel *Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}

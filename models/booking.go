package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking ties a user, a room, a date interval and a payment intent together.
// PaymentIntentID is globally unique so an intent can never be shared across users.
type Booking struct {
	gorm.Model

	UserID       string `gorm:"column:user_id;size:128;index;not null" json:"userId"`
	UserName     string `gorm:"column:user_name;size:255" json:"userName"`
	UserEmail    string `gorm:"column:user_email;size:255" json:"userEmail"`
	HotelID      uint   `gorm:"column:hotel_id;index;not null" json:"hotelId"`
	RoomID       uint   `gorm:"column:room_id;index;not null" json:"roomId"`
	HotelOwnerID string `gorm:"column:hotel_owner_id;size:128;index;not null" json:"hotelOwnerId"`

	StartDate         time.Time `gorm:"column:start_date;not null" json:"startDate"`
	EndDate           time.Time `gorm:"column:end_date;not null" json:"endDate"`
	BreakfastIncluded bool      `gorm:"column:breakfast_included;default:false" json:"breakfastIncluded"`
	Currency          string    `gorm:"size:8" json:"currency"`
	TotalPrice        float64   `gorm:"column:total_price" json:"totalPrice"`

	PaymentIntentID *string    `gorm:"column:payment_intent_id;size:255;uniqueIndex" json:"paymentIntentId,omitempty"`
	PaymentStatus   bool       `gorm:"column:payment_status;default:false;index" json:"paymentStatus"`
	Status          string     `gorm:"size:32;index;default:pending" json:"status"`
	BookedAt        time.Time  `gorm:"column:booked_at" json:"bookedAt"`
	PaidAt          *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	Room  *Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}

// IntentID returns the payment-intent id or "" when none has been issued yet.
func (b *Booking) IntentID() string {
	if b.PaymentIntentID == nil {
		return ""
	}
	return *b.PaymentIntentID
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus || b.Status == BookingStatusPaid
}

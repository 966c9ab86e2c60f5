package models

import "time"

// BookingDraft is the per-user "current booking" a client is checking out.
// It lives in Redis with a TTL and is never persisted to SQL.
type BookingDraft struct {
	UserID            string    `json:"userId"`
	RoomID            uint      `json:"roomId"`
	HotelID           uint      `json:"hotelId"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`
	TotalPrice        float64   `json:"totalPrice"`
	PaymentIntentID   string    `json:"paymentIntentId,omitempty"`
	ClientSecret      string    `json:"clientSecret,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

package events

import (
	"context"
	"errors"
	"time"

	"hotel-booking/models"
)

const (
	TypeIntentCreated   = "booking.intent_created"
	TypeIntentUpdated   = "booking.intent_updated"
	TypeBookingPaid     = "booking.paid"
	TypeBookingConflict = "booking.conflict"
	TypeBookingExpired  = "booking.expired"
)

// BookingEvent is the payload every publisher receives.
type BookingEvent struct {
	Type            string    `json:"type"`
	BookingID       uint      `json:"bookingId"`
	RoomID          uint      `json:"roomId"`
	HotelID         uint      `json:"hotelId"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName,omitempty"`
	UserEmail       string    `json:"userEmail,omitempty"`
	HotelOwnerID    string    `json:"hotelOwnerId"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	TotalPrice      float64   `json:"totalPrice"`
	Currency        string    `json:"currency"`
	Reason          string    `json:"reason,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// NewBookingEvent fills the event from a booking record.
func NewBookingEvent(eventType string, b *models.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		RoomID:          b.RoomID,
		HotelID:         b.HotelID,
		UserID:          b.UserID,
		UserName:        b.UserName,
		UserEmail:       b.UserEmail,
		HotelOwnerID:    b.HotelOwnerID,
		PaymentIntentID: b.IntentID(),
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalPrice:      b.TotalPrice,
		Currency:        b.Currency,
		OccurredAt:      at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, BookingEvent) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev BookingEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter only forwards the listed event types.
type Filter struct {
	Next  Publisher
	Types []string
}

func (f Filter) Publish(ctx context.Context, ev BookingEvent) error {
	for _, t := range f.Types {
		if t == ev.Type {
			return f.Next.Publish(ctx, ev)
		}
	}
	return nil
}

package services

import (
	"context"
	"time"

	"hotel-booking/models"
)

// BookingStore is the persistent store the reservation flow runs against.
// Lookups that miss return an error wrapping gorm.ErrRecordNotFound.
type BookingStore interface {
	FindRoom(ctx context.Context, roomID uint) (*models.Room, error)
	FindByIntentAndUser(ctx context.Context, intentID, userID string) (*models.Booking, error)
	FindByIntent(ctx context.Context, intentID string) (*models.Booking, error)
	RoomBookings(ctx context.Context, roomID uint, paidOnly bool) ([]models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Booking, error)

	// WithinRoomTx runs fn in a single transaction that holds the room's row lock.
	WithinRoomTx(ctx context.Context, roomID uint, fn func(tx BookingStore) error) error
}

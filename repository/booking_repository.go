package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/models"
	"hotel-booking/services"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository is the gorm implementation of services.BookingStore.
type BookingRepository struct {
	DB *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

var _ services.BookingStore = (*BookingRepository)(nil)

// ErrDuplicatePaymentIntent is returned when a payment intent id is already attached to a booking.
var ErrDuplicatePaymentIntent = errors.New("payment intent already attached to a booking")

// IsDuplicateKey reports unique constraint violations for both MySQL and SQLite.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return false
}

func (r *BookingRepository) FindRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := r.DB.WithContext(ctx).Preload("Hotel").First(&room, roomID).Error; err != nil {
		return nil, fmt.Errorf("find room %d: %w", roomID, err)
	}
	return &room, nil
}

func (r *BookingRepository) FindByIntentAndUser(ctx context.Context, intentID, userID string) (*models.Booking, error) {
	var b models.Booking
	err := r.DB.WithContext(ctx).
		Where("payment_intent_id = ? AND user_id = ?", intentID, userID).
		First(&b).Error
	if err != nil {
		return nil, fmt.Errorf("find booking by intent and user: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) FindByIntent(ctx context.Context, intentID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.DB.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&b).Error; err != nil {
		return nil, fmt.Errorf("find booking by intent: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) RoomBookings(ctx context.Context, roomID uint, paidOnly bool) ([]models.Booking, error) {
	var list []models.Booking
	q := r.DB.WithContext(ctx).Where("room_id = ?", roomID)
	if paidOnly {
		q = q.Where("payment_status = ?", true)
	}
	if err := q.Order("start_date ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list room bookings: %w", err)
	}
	return list, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if err := r.DB.WithContext(ctx).Create(b).Error; err != nil {
		if IsDuplicateKey(err) {
			return fmt.Errorf("create booking: %w", ErrDuplicatePaymentIntent)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	res := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"user_name":          b.UserName,
			"user_email":         b.UserEmail,
			"start_date":         b.StartDate,
			"end_date":           b.EndDate,
			"breakfast_included": b.BreakfastIncluded,
			"total_price":        b.TotalPrice,
			"payment_status":     b.PaymentStatus,
			"status":             b.Status,
			"paid_at":            b.PaidAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update booking %d: %w", b.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var list []models.Booking
	if err := r.DB.WithContext(ctx).
		Preload("Room").
		Preload("Hotel").
		Where("user_id = ?", userID).
		Order("booked_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return list, nil
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	var list []models.Booking
	if err := r.DB.WithContext(ctx).
		Preload("Room").
		Preload("Hotel").
		Where("hotel_owner_id = ?", ownerID).
		Order("booked_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list owner bookings: %w", err)
	}
	return list, nil
}

func (r *BookingRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Booking, error) {
	var list []models.Booking
	q := r.DB.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND booked_at < ?", models.BookingStatusPending, false, olderThan).
		Order("booked_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list stale pending bookings: %w", err)
	}
	return list, nil
}

// WithinRoomTx locks the room row with SELECT ... FOR UPDATE and hands fn a
// store bound to the transaction. SQLite has no row locks; there the database
// write lock is the serialization point.
func (r *BookingRepository) WithinRoomTx(ctx context.Context, roomID uint, fn func(tx services.BookingStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&room, roomID).Error; err != nil {
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		return fn(&BookingRepository{DB: tx})
	})
}

package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hotel-booking/config"
	"hotel-booking/models"
	"hotel-booking/services"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) (*BookingRepository, *models.Room) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	hotel := &models.Hotel{OwnerID: "owner_1", Title: "Hill Top"}
	require.NoError(t, db.Create(hotel).Error)
	room := &models.Room{HotelID: hotel.ID, Title: "Attic", RoomPrice: 60}
	require.NoError(t, db.Create(room).Error)
	return NewBookingRepository(db), room
}

func newBooking(room *models.Room, user, intent string, start time.Time, nights int) *models.Booking {
	return &models.Booking{
		UserID:          user,
		HotelID:         room.HotelID,
		RoomID:          room.ID,
		HotelOwnerID:    "owner_1",
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, nights),
		PaymentIntentID: &intent,
		Status:          models.BookingStatusPending,
		BookedAt:        time.Now().UTC(),
	}
}

func TestBookingRepository_CreateAndFind(t *testing.T) {
	repo, room := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	b := newBooking(room, "user_1", "pi_1", start, 2)
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.ID)

	got, err := repo.FindByIntent(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = repo.FindByIntentAndUser(ctx, "pi_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = repo.FindByIntentAndUser(ctx, "pi_1", "user_2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	r, err := repo.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, r.Hotel)
	assert.Equal(t, "owner_1", r.Hotel.OwnerID)

	_, err = repo.FindRoom(ctx, 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_IntentIsUnique(t *testing.T) {
	repo, room := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newBooking(room, "user_1", "pi_dup", start, 1)))
	err := repo.Create(ctx, newBooking(room, "user_2", "pi_dup", start, 1))
	assert.ErrorIs(t, err, ErrDuplicatePaymentIntent)
}

func TestBookingRepository_UpdateAndRoomBookings(t *testing.T) {
	repo, room := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	a := newBooking(room, "user_1", "pi_a", start, 2)
	b := newBooking(room, "user_2", "pi_b", start.AddDate(0, 0, -5), 2)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	paidAt := time.Now().UTC()
	a.PaymentStatus = true
	a.Status = models.BookingStatusPaid
	a.PaidAt = &paidAt
	require.NoError(t, repo.Update(ctx, a))

	paid, err := repo.RoomBookings(ctx, room.ID, true)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, a.ID, paid[0].ID)

	all, err := repo.RoomBookings(ctx, room.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "ordered by start date")

	missing := &models.Booking{}
	missing.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, missing), gorm.ErrRecordNotFound)
}

func TestBookingRepository_Lists(t *testing.T) {
	repo, room := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	older := newBooking(room, "user_1", "pi_old", start, 1)
	older.BookedAt = time.Now().UTC().Add(-2 * time.Hour)
	newer := newBooking(room, "user_1", "pi_new", start, 1)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	mine, err := repo.ListByUser(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	require.NotNil(t, mine[0].Room)
	assert.Equal(t, "Attic", mine[0].Room.Title)

	owned, err := repo.ListByOwner(ctx, "owner_1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	stale, err := repo.ListStalePending(ctx, time.Now().UTC().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, older.ID, stale[0].ID)
}

func TestBookingRepository_WithinRoomTx(t *testing.T) {
	repo, room := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	rollback := errors.New("rollback")
	err := repo.WithinRoomTx(ctx, room.ID, func(tx services.BookingStore) error {
		require.NoError(t, tx.Create(ctx, newBooking(room, "user_1", "pi_tx", start, 1)))
		return rollback
	})
	assert.ErrorIs(t, err, rollback)
	_, err = repo.FindByIntent(ctx, "pi_tx")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "rolled back")

	err = repo.WithinRoomTx(ctx, room.ID, func(tx services.BookingStore) error {
		return tx.Create(ctx, newBooking(room, "user_1", "pi_tx", start, 1))
	})
	require.NoError(t, err)
	_, err = repo.FindByIntent(ctx, "pi_tx")
	assert.NoError(t, err)

	err = repo.WithinRoomTx(ctx, 404, func(services.BookingStore) error { return nil })
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1045}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}

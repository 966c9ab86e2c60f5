package services_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hotel-booking/config"
	"hotel-booking/events"
	"hotel-booking/models"
	"hotel-booking/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const ownerID = "owner_1"

var (
	guest      = models.Identity{UserID: "user_a", Email: "a@example.com", Name: "Guest A"}
	otherGuest = models.Identity{UserID: "user_b", Email: "b@example.com", Name: "Guest B"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "booking.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

// seedRoom creates a hotel owned by ownerID with one room at 100/night and breakfast at 20/night.
func seedRoom(t *testing.T, db *gorm.DB) (*models.Hotel, *models.Room) {
	t.Helper()
	breakfast := 20.0
	hotel := &models.Hotel{
		OwnerID:             ownerID,
		Title:               "Harbour View",
		Description:         "Rooms over the old harbour",
		Image:               "https://img.example.com/h.jpg",
		Country:             "IN",
		City:                "Kochi",
		LocationDescription: "Next to the ferry terminal",
	}
	require.NoError(t, db.Create(hotel).Error)
	room := &models.Room{
		HotelID:        hotel.ID,
		Title:          "Sea Room",
		Description:    "Balcony facing the sea",
		BedCount:       1,
		BathroomCount:  1,
		GuestCount:     2,
		RoomPrice:      100,
		BreakfastPrice: &breakfast,
	}
	require.NoError(t, db.Create(room).Error)
	return hotel, room
}

// fakeProcessor keeps payment intents in memory.
type fakeProcessor struct {
	mu          sync.Mutex
	seq         int
	intents     map[string]*services.PaymentIntent
	calls       map[string]int
	failCreate  error
	declineNext bool
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{intents: map[string]*services.PaymentIntent{}, calls: map[string]int{}}
}

func (p *fakeProcessor) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *fakeProcessor) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*services.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["create"]++
	if p.failCreate != nil {
		return nil, p.failCreate
	}
	p.seq++
	id := fmt.Sprintf("pi_%d", p.seq)
	pi := &services.PaymentIntent{ID: id, ClientSecret: id + "_secret", Amount: amount, Currency: currency, Status: "requires_payment_method"}
	p.intents[id] = pi
	cp := *pi
	return &cp, nil
}

func (p *fakeProcessor) get(id string) (*services.PaymentIntent, error) {
	pi, ok := p.intents[id]
	if !ok {
		return nil, errors.New("no such payment_intent")
	}
	return pi, nil
}

func (p *fakeProcessor) UpdateIntent(_ context.Context, id string, amount int64) (*services.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["update"]++
	pi, err := p.get(id)
	if err != nil {
		return nil, err
	}
	pi.Amount = amount
	cp := *pi
	return &cp, nil
}

func (p *fakeProcessor) RetrieveIntent(_ context.Context, id string) (*services.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["retrieve"]++
	pi, err := p.get(id)
	if err != nil {
		return nil, err
	}
	cp := *pi
	return &cp, nil
}

func (p *fakeProcessor) ConfirmIntent(_ context.Context, id string) (*services.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["confirm"]++
	pi, err := p.get(id)
	if err != nil {
		return nil, err
	}
	if p.declineNext {
		p.declineNext = false
		pi.Status = "requires_payment_method"
	} else {
		pi.Status = services.IntentStatusSucceeded
	}
	cp := *pi
	return &cp, nil
}

func (p *fakeProcessor) CancelIntent(_ context.Context, id string) (*services.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["cancel"]++
	pi, err := p.get(id)
	if err != nil {
		return nil, err
	}
	if pi.Status != services.IntentStatusSucceeded {
		pi.Status = services.IntentStatusCanceled
	}
	cp := *pi
	return &cp, nil
}

// mockProcessor records calls for assertions on what was (not) reached.
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*services.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency, metadata)
	pi, _ := args.Get(0).(*services.PaymentIntent)
	return pi, args.Error(1)
}

func (m *mockProcessor) UpdateIntent(ctx context.Context, id string, amount int64) (*services.PaymentIntent, error) {
	args := m.Called(ctx, id, amount)
	pi, _ := args.Get(0).(*services.PaymentIntent)
	return pi, args.Error(1)
}

func (m *mockProcessor) RetrieveIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	args := m.Called(ctx, id)
	pi, _ := args.Get(0).(*services.PaymentIntent)
	return pi, args.Error(1)
}

func (m *mockProcessor) ConfirmIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	args := m.Called(ctx, id)
	pi, _ := args.Get(0).(*services.PaymentIntent)
	return pi, args.Error(1)
}

func (m *mockProcessor) CancelIntent(ctx context.Context, id string) (*services.PaymentIntent, error) {
	args := m.Called(ctx, id)
	pi, _ := args.Get(0).(*services.PaymentIntent)
	return pi, args.Error(1)
}

// mockStore fails the test on any call that was not set up with On.
type mockStore struct {
	mock.Mock
}

var _ services.BookingStore = (*mockStore)(nil)

func (m *mockStore) FindRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	r, _ := args.Get(0).(*models.Room)
	return r, args.Error(1)
}

func (m *mockStore) FindByIntentAndUser(ctx context.Context, intentID, userID string) (*models.Booking, error) {
	args := m.Called(ctx, intentID, userID)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockStore) FindByIntent(ctx context.Context, intentID string) (*models.Booking, error) {
	args := m.Called(ctx, intentID)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockStore) RoomBookings(ctx context.Context, roomID uint, paidOnly bool) ([]models.Booking, error) {
	args := m.Called(ctx, roomID, paidOnly)
	list, _ := args.Get(0).([]models.Booking)
	return list, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) Update(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Booking)
	return list, args.Error(1)
}

func (m *mockStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]models.Booking)
	return list, args.Error(1)
}

func (m *mockStore) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.Booking, error) {
	args := m.Called(ctx, olderThan, limit)
	list, _ := args.Get(0).([]models.Booking)
	return list, args.Error(1)
}

func (m *mockStore) WithinRoomTx(ctx context.Context, roomID uint, fn func(tx services.BookingStore) error) error {
	args := m.Called(ctx, roomID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

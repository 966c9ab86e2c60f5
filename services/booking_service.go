// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotel-booking/events"
	"hotel-booking/metrics"
	"hotel-booking/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type BookingConfig struct {
	Currency string
	// ProcessorTimeout bounds each processor call made while the room row is locked.
	ProcessorTimeout time.Duration
	// PrecheckAvailability rejects an intent whose dates are already paid for,
	// before any money moves. Confirmation still re-checks.
	PrecheckAvailability bool
}

// BookingService coordinates reservations with the payment processor.
type BookingService struct {
	store     BookingStore
	processor PaymentProcessor
	locker    RoomLocker
	publisher events.Publisher
	cfg       BookingConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewBookingService(
	store BookingStore,
	processor PaymentProcessor,
	locker RoomLocker,
	publisher events.Publisher,
	cfg BookingConfig,
	logger *zerolog.Logger,
) *BookingService {
	if locker == nil {
		locker = NoopLocker{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "inr"
	}
	if cfg.ProcessorTimeout <= 0 {
		cfg.ProcessorTimeout = 15 * time.Second
	}
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "booking").Logger()
	}
	return &BookingService{
		store:     store,
		processor: processor,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

type IntentRequest struct {
	User              models.Identity
	RoomID            uint
	HotelID           uint
	HotelOwnerID      string
	StartDate         time.Time
	EndDate           time.Time
	BreakfastIncluded bool
	PaymentIntentID   string
}

type IntentResult struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	ClientSecret    string          `json:"clientSecret"`
	Created         bool            `json:"created"`
	Booking         *models.Booking `json:"booking"`
}

type ConfirmRequest struct {
	RoomID          uint
	StartDate       time.Time
	EndDate         time.Time
	PaymentIntentID string
}

type ConfirmResult struct {
	Reserved bool            `json:"reserved"`
	Booking  *models.Booking `json:"booking"`
}

// Validate checks the request without touching the store or the processor.
func (r IntentRequest) Validate() error {
	if strings.TrimSpace(r.User.UserID) == "" {
		return newAuthorization("error.unauthenticated", "please sign in to book a room")
	}
	if strings.TrimSpace(r.HotelOwnerID) == "" {
		return newAuthorization("error.hotelOwnerMissing", "hotel owner is not found")
	}
	if r.RoomID == 0 {
		return newValidation("error.roomIdRequired", "room id is required")
	}
	if r.HotelID == 0 {
		return newValidation("error.hotelIdRequired", "hotel id is required")
	}
	if err := ValidateRange(r.StartDate, r.EndDate); err != nil {
		return err
	}
	if NightCount(r.StartDate, r.EndDate) <= 0 {
		return newValidation("error.invalidNightCount", "a booking must cover at least one night")
	}
	return nil
}

// RequestIntent creates or re-prices the payment intent for a booking attempt.
// The processor is always called before anything is written, so a processor
// failure never leaves a booking behind.
func (s *BookingService) RequestIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	req.StartDate = CalendarDate(req.StartDate)
	req.EndDate = CalendarDate(req.EndDate)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.store.FindRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("error.roomNotFound", "room not found")
		}
		return nil, newPersistence("failed to load room", err)
	}
	if room.HotelID != req.HotelID {
		return nil, newValidation("error.roomHotelMismatch", "room does not belong to the hotel")
	}
	if room.Hotel != nil && room.Hotel.OwnerID != req.HotelOwnerID {
		return nil, newValidation("error.hotelOwnerMismatch", "hotel owner does not match the hotel")
	}

	nights := NightCount(req.StartDate, req.EndDate)
	amount, err := computeTotalMinor(nights, room.RoomPrice, room.BreakfastPrice, req.BreakfastIncluded)
	if err != nil {
		return nil, err
	}

	if s.cfg.PrecheckAvailability {
		if err := s.ensureAvailable(ctx, s.store, req.RoomID, 0, req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}

	if req.PaymentIntentID != "" {
		existing, err := s.store.FindByIntentAndUser(ctx, req.PaymentIntentID, req.User.UserID)
		switch {
		case err == nil && existing.IsPaid():
			return nil, newConflict("error.bookingAlreadyPaid", "this booking has already been paid")
		case err == nil && existing.Status != models.BookingStatusExpired &&
			existing.RoomID == req.RoomID && existing.HotelID == req.HotelID:
			return s.updateIntent(ctx, existing, req, amount)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, newPersistence("failed to look up booking", err)
		}
	}

	return s.createIntent(ctx, req, amount)
}

func (s *BookingService) updateIntent(ctx context.Context, b *models.Booking, req IntentRequest, amount int64) (*IntentResult, error) {
	intent, err := s.processor.UpdateIntent(ctx, b.IntentID(), amount)
	if err != nil {
		metrics.IncIntent("failed")
		return nil, newProcessor("failed to update payment", err)
	}

	b.StartDate = req.StartDate
	b.EndDate = req.EndDate
	b.BreakfastIncluded = req.BreakfastIncluded
	b.TotalPrice = FromMinorUnits(amount)
	b.UserName = req.User.Name
	b.UserEmail = req.User.Email

	if err := s.store.Update(ctx, b); err != nil {
		s.log.Error().Err(err).Str("payment_intent_id", intent.ID).Uint("booking_id", b.ID).
			Msg("payment intent updated but booking write failed")
		metrics.IncIntent("failed")
		return nil, newPersistence("failed to update booking", err)
	}

	metrics.IncIntent("updated")
	s.publish(ctx, events.TypeIntentUpdated, b, "")
	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Booking:         b,
	}, nil
}

func (s *BookingService) createIntent(ctx context.Context, req IntentRequest, amount int64) (*IntentResult, error) {
	intent, err := s.processor.CreateIntent(ctx, amount, s.cfg.Currency, map[string]string{
		"room_id":  strconv.FormatUint(uint64(req.RoomID), 10),
		"hotel_id": strconv.FormatUint(uint64(req.HotelID), 10),
		"user_id":  req.User.UserID,
	})
	if err != nil {
		metrics.IncIntent("failed")
		return nil, newProcessor("failed to create payment", err)
	}

	intentID := intent.ID
	b := &models.Booking{
		UserID:            req.User.UserID,
		UserName:          req.User.Name,
		UserEmail:         req.User.Email,
		HotelID:           req.HotelID,
		RoomID:            req.RoomID,
		HotelOwnerID:      req.HotelOwnerID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		BreakfastIncluded: req.BreakfastIncluded,
		Currency:          s.cfg.Currency,
		TotalPrice:        FromMinorUnits(amount),
		PaymentIntentID:   &intentID,
		PaymentStatus:     false,
		Status:            models.BookingStatusPending,
		BookedAt:          s.now().UTC(),
	}

	if err := s.store.Create(ctx, b); err != nil {
		s.log.Error().Err(err).Str("payment_intent_id", intentID).Uint("room_id", req.RoomID).
			Msg("payment intent created but booking write failed")
		metrics.IncIntent("failed")
		return nil, newPersistence("failed to create booking", err)
	}

	metrics.IncIntent("created")
	s.publish(ctx, events.TypeIntentCreated, b, "")
	return &IntentResult{
		PaymentIntentID: intentID,
		ClientSecret:    intent.ClientSecret,
		Created:         true,
		Booking:         b,
	}, nil
}

func (r ConfirmRequest) validate() error {
	if r.RoomID == 0 {
		return newValidation("error.roomIdRequired", "room id is required")
	}
	if strings.TrimSpace(r.PaymentIntentID) == "" {
		return newValidation("error.paymentIntentRequired", "payment intent id is required")
	}
	return ValidateRange(r.StartDate, r.EndDate)
}

// ConfirmPayment is the enforcement point for "no two paid bookings overlap".
// The overlap check and the paid flag are committed in one room-scoped
// transaction, under the room lock when one is configured.
func (s *BookingService) ConfirmPayment(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	req.StartDate = CalendarDate(req.StartDate)
	req.EndDate = CalendarDate(req.EndDate)
	if err := req.validate(); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, req.RoomID)
	if err != nil {
		metrics.IncConfirmation("failed")
		if KindOf(err) != "" {
			return nil, err
		}
		return nil, newPersistence("failed to lock room", err)
	}
	defer unlock()

	var (
		booking      *models.Booking
		alreadyPaid  bool
		conflictSeen bool
	)

	txErr := s.store.WithinRoomTx(ctx, req.RoomID, func(tx BookingStore) error {
		b, err := tx.FindByIntent(ctx, req.PaymentIntentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newNotFound("error.bookingNotFound", "booking not found for this payment")
			}
			return newPersistence("failed to look up booking", err)
		}
		booking = b

		if b.RoomID != req.RoomID {
			return newValidation("error.roomMismatch", "payment does not belong to this room")
		}
		if b.IsPaid() {
			alreadyPaid = true
			return nil
		}
		if b.Status == models.BookingStatusExpired {
			return newValidation("error.bookingExpired", "this booking has expired, please book again")
		}
		if NightCount(b.StartDate, req.StartDate) != 0 || NightCount(b.EndDate, req.EndDate) != 0 {
			return newValidation("error.intervalMismatch", "dates do not match the booking being paid")
		}

		if err := s.ensureAvailable(ctx, tx, req.RoomID, b.ID, req.StartDate, req.EndDate); err != nil {
			if IsKind(err, KindConflict) {
				conflictSeen = true
			}
			return err
		}

		if err := s.settleIntent(ctx, req.PaymentIntentID); err != nil {
			return err
		}

		paidAt := s.now().UTC()
		b.PaymentStatus = true
		b.Status = models.BookingStatusPaid
		b.PaidAt = &paidAt
		if err := tx.Update(ctx, b); err != nil {
			s.log.Error().Err(err).Str("payment_intent_id", req.PaymentIntentID).Uint("booking_id", b.ID).
				Msg("payment succeeded but booking could not be marked paid")
			return newPersistence("failed to mark booking paid", err)
		}
		return nil
	})

	if txErr != nil {
		if conflictSeen {
			metrics.IncConfirmation("conflict")
			s.log.Warn().Str("payment_intent_id", req.PaymentIntentID).Uint("room_id", req.RoomID).
				Msg("confirmation rejected: dates already booked")
			if booking != nil {
				s.publish(ctx, events.TypeBookingConflict, booking, ErrRoomAlreadyBooked.Message)
			}
		} else {
			metrics.IncConfirmation("failed")
		}
		if KindOf(txErr) == "" {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return nil, newNotFound("error.roomNotFound", "room not found")
			}
			return nil, newPersistence("failed to confirm booking", txErr)
		}
		return nil, txErr
	}

	if !alreadyPaid {
		metrics.IncConfirmation("reserved")
		s.log.Info().Str("payment_intent_id", req.PaymentIntentID).Uint("room_id", req.RoomID).
			Uint("booking_id", booking.ID).Msg("room reserved")
		s.publish(ctx, events.TypeBookingPaid, booking, "")
	}
	return &ConfirmResult{Reserved: true, Booking: booking}, nil
}

// settleIntent makes sure the intent has succeeded, confirming it if needed.
// It runs while the room row is locked, so the processor calls are bounded.
func (s *BookingService) settleIntent(ctx context.Context, intentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProcessorTimeout)
	defer cancel()

	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		return newProcessor("failed to retrieve payment", err)
	}
	if intent.Succeeded() {
		return nil
	}
	intent, err = s.processor.ConfirmIntent(ctx, intentID)
	if err != nil {
		return newProcessor("failed to confirm payment", err)
	}
	if !intent.Succeeded() {
		return newProcessor("payment was not completed", fmt.Errorf("intent %s status %q", intent.ID, intent.Status))
	}
	return nil
}

// ensureAvailable fails with ErrRoomAlreadyBooked when a paid booking other
// than excludeID overlaps the dates.
func (s *BookingService) ensureAvailable(ctx context.Context, store BookingStore, roomID, excludeID uint, start, end time.Time) error {
	existing, err := store.RoomBookings(ctx, roomID, true)
	if err != nil {
		return newPersistence("failed to load room bookings", err)
	}
	ranges := make([]DateRange, 0, len(existing))
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		ranges = append(ranges, DateRange{StartDate: b.StartDate, EndDate: b.EndDate})
	}
	overlap, err := HasOverlap(start, end, ranges)
	if err != nil {
		return err
	}
	if overlap {
		return ErrRoomAlreadyBooked
	}
	return nil
}

// RoomBookedRanges lists the paid stays of a room, for disabling dates in a calendar.
func (s *BookingService) RoomBookedRanges(ctx context.Context, roomID uint) ([]DateRange, error) {
	if roomID == 0 {
		return nil, newValidation("error.roomIdRequired", "room id is required")
	}
	list, err := s.store.RoomBookings(ctx, roomID, true)
	if err != nil {
		return nil, newPersistence("failed to load room bookings", err)
	}
	out := make([]DateRange, 0, len(list))
	for _, b := range list {
		out = append(out, DateRange{StartDate: b.StartDate, EndDate: b.EndDate})
	}
	return out, nil
}

// CheckAvailability is the non-authoritative preview of ConfirmPayment's overlap check.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint, start, end time.Time) (bool, error) {
	ranges, err := s.RoomBookedRanges(ctx, roomID)
	if err != nil {
		return false, err
	}
	overlap, err := HasOverlap(start, end, ranges)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

type Quote struct {
	Nights            int     `json:"nights"`
	RoomPrice         float64 `json:"roomPrice"`
	BreakfastPrice    float64 `json:"breakfastPrice,omitempty"`
	BreakfastIncluded bool    `json:"breakfastIncluded"`
	TotalPrice        float64 `json:"totalPrice"`
	Currency          string  `json:"currency"`
}

// QuoteStay prices a stay from the stored room rates.
func (s *BookingService) QuoteStay(ctx context.Context, roomID uint, start, end time.Time, breakfast bool) (*Quote, error) {
	if roomID == 0 {
		return nil, newValidation("error.roomIdRequired", "room id is required")
	}
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	room, err := s.store.FindRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFound("error.roomNotFound", "room not found")
		}
		return nil, newPersistence("failed to load room", err)
	}
	nights := NightCount(start, end)
	total, err := ComputeTotal(nights, room.RoomPrice, room.BreakfastPrice, breakfast)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Nights:            nights,
		RoomPrice:         room.RoomPrice,
		BreakfastIncluded: breakfast && room.BreakfastPrice != nil,
		TotalPrice:        total,
		Currency:          s.cfg.Currency,
	}
	if room.BreakfastPrice != nil {
		q.BreakfastPrice = *room.BreakfastPrice
	}
	return q, nil
}

func (s *BookingService) UserBookings(ctx context.Context, user models.Identity) ([]models.Booking, error) {
	if strings.TrimSpace(user.UserID) == "" {
		return nil, newAuthorization("error.unauthenticated", "please sign in")
	}
	list, err := s.store.ListByUser(ctx, user.UserID)
	if err != nil {
		return nil, newPersistence("failed to retrieve bookings", err)
	}
	return list, nil
}

func (s *BookingService) OwnerBookings(ctx context.Context, owner models.Identity) ([]models.Booking, error) {
	if strings.TrimSpace(owner.UserID) == "" {
		return nil, newAuthorization("error.unauthenticated", "please sign in")
	}
	list, err := s.store.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return nil, newPersistence("failed to retrieve bookings", err)
	}
	return list, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *models.Booking, reason string) {
	ev := events.NewBookingEvent(eventType, b, s.now())
	ev.Reason = reason
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Uint("booking_id", b.ID).Msg("failed to publish booking event")
	}
}

package services

import (
	"context"
	"time"

	"hotel-booking/events"
	"hotel-booking/metrics"
	"hotel-booking/models"

	"github.com/rs/zerolog"
)

// PendingReaper expires bookings that never got paid within the TTL and
// cancels their payment intents so a late payment cannot capture money for a
// booking that no longer holds anything.
type PendingReaper struct {
	store     BookingStore
	processor PaymentProcessor
	publisher events.Publisher
	ttl       time.Duration
	batch     int
	log       zerolog.Logger
	now       func() time.Time
}

func NewPendingReaper(store BookingStore, processor PaymentProcessor, publisher events.Publisher, ttl time.Duration, logger zerolog.Logger) *PendingReaper {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &PendingReaper{
		store:     store,
		processor: processor,
		publisher: publisher,
		ttl:       ttl,
		batch:     100,
		log:       logger.With().Str("component", "pending_reaper").Logger(),
		now:       time.Now,
	}
}

// Run sweeps every interval until ctx is done. A zero TTL disables the reaper.
func (r *PendingReaper) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 {
		r.log.Info().Msg("pending booking expiry disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := r.Sweep(ctx); err != nil {
			r.log.Error().Err(err).Msg("pending booking sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep expires one batch of stale pending bookings and returns how many it expired.
func (r *PendingReaper) Sweep(ctx context.Context) (int, error) {
	cutoff := r.now().UTC().Add(-r.ttl)
	stale, err := r.store.ListStalePending(ctx, cutoff, r.batch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		b := &stale[i]
		if id := b.IntentID(); id != "" && r.processor != nil {
			if !r.cancelIntent(ctx, id) {
				continue
			}
		}

		err := r.store.WithinRoomTx(ctx, b.RoomID, func(tx BookingStore) error {
			current, err := tx.FindByIntent(ctx, b.IntentID())
			if err != nil {
				return err
			}
			if current.IsPaid() || current.Status != models.BookingStatusPending {
				return nil
			}
			current.Status = models.BookingStatusExpired
			if err := tx.Update(ctx, current); err != nil {
				return err
			}
			b.Status = current.Status
			return nil
		})
		if err != nil {
			r.log.Error().Err(err).Uint("booking_id", b.ID).Msg("failed to expire booking")
			continue
		}
		if b.Status != models.BookingStatusExpired {
			continue
		}
		expired++
		ev := events.NewBookingEvent(events.TypeBookingExpired, b, r.now())
		if err := r.publisher.Publish(ctx, ev); err != nil {
			r.log.Warn().Err(err).Uint("booking_id", b.ID).Msg("failed to publish expiry")
		}
	}

	if expired > 0 {
		metrics.AddExpired(expired)
		r.log.Info().Int("expired", expired).Msg("expired stale pending bookings")
	}
	return expired, nil
}

// cancelIntent reports whether the intent is canceled and the booking may expire.
// A canceled intent is left alone, so a sweep that failed after cancelling can
// finish the expiry on a later run.
func (r *PendingReaper) cancelIntent(ctx context.Context, id string) bool {
	intent, err := r.processor.RetrieveIntent(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("payment_intent_id", id).Msg("could not retrieve payment intent")
		return false
	}
	switch intent.Status {
	case IntentStatusSucceeded:
		// paid in the meantime; confirmation decides what happens to it
		return false
	case IntentStatusCanceled:
		return true
	}
	intent, err = r.processor.CancelIntent(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("payment_intent_id", id).Msg("could not cancel payment intent")
		return false
	}
	return !intent.Succeeded()
}

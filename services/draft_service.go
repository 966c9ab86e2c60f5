package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-booking/models"

	"github.com/redis/go-redis/v9"
)

// DraftStore keeps one checkout draft per user in Redis.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

func draftKey(userID string) string {
	return fmt.Sprintf("booking_draft:%s", userID)
}

// Get returns nil, nil when the user has no draft.
func (d *DraftStore) Get(ctx context.Context, userID string) (*models.BookingDraft, error) {
	if d == nil || d.client == nil {
		return nil, nil
	}
	val, err := d.client.Get(ctx, draftKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from redis: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (d *DraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	if d == nil || d.client == nil {
		return nil
	}
	if draft.UserID == "" {
		return newAuthorization("error.unauthenticated", "please sign in")
	}
	draft.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := d.client.Set(ctx, draftKey(draft.UserID), data, d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set draft in redis: %w", err)
	}
	return nil
}

func (d *DraftStore) Clear(ctx context.Context, userID string) error {
	if d == nil || d.client == nil {
		return nil
	}
	if err := d.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from redis: %w", err)
	}
	return nil
}

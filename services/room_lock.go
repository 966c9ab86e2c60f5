package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RoomLocker serializes confirmations for one room across service instances.
type RoomLocker interface {
	Lock(ctx context.Context, roomID uint) (unlock func(), err error)
}

// NoopLocker relies on the store transaction alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, uint) (func(), error) { return func() {}, nil }

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

var errRoomBusy = &BookingError{
	Kind:    KindConflict,
	Code:    "error.roomBusy",
	Message: "Another reservation for this room is being processed, please retry",
}

type RedisRoomLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisRoomLocker holds each lock for at most ttl and waits up to wait to acquire one.
func NewRedisRoomLocker(client *redis.Client, ttl, wait time.Duration) *RedisRoomLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &RedisRoomLocker{client: client, ttl: ttl, wait: wait, retry: 50 * time.Millisecond}
}

func roomLockKey(roomID uint) string {
	return fmt.Sprintf("room_lock:%d", roomID)
}

func (l *RedisRoomLocker) Lock(ctx context.Context, roomID uint) (func(), error) {
	if l.client == nil {
		return nil, errors.New("redis client is nil")
	}
	key := roomLockKey(roomID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire room lock: %w", err)
		}
		if ok {
			return func() {
				_ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, errRoomBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

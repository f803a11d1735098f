package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEntryNotFound is returned by Load when no entry exists for a key
var ErrEntryNotFound = errors.New("idempotency entry not found")

// IdempotencyEntry is what is stored per idempotency key. An in-progress
// entry holds the lock; a completed one holds the response to replay.
type IdempotencyEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdempotencyStore keeps idempotency entries in Redis
type IdempotencyStore struct {
	rdb     *redis.Client
	lockTTL time.Duration
	ttl     time.Duration
}

// NewIdempotencyStore holds locks for lockTTL and completed responses for ttl
func NewIdempotencyStore(rdb *redis.Client, lockTTL, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, lockTTL: lockTTL, ttl: ttl}
}

// Reserve stores an in-progress entry unless the key is already taken
func (s *IdempotencyStore) Reserve(ctx context.Context, key, bodyHash string) (bool, error) {
	payload, err := json.Marshal(IdempotencyEntry{
		InProgress: true,
		BodySHA256: bodyHash,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

// Load returns the entry stored under key
func (s *IdempotencyStore) Load(ctx context.Context, key string) (*IdempotencyEntry, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry IdempotencyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Complete replaces the lock with the final response
func (s *IdempotencyStore) Complete(ctx context.Context, key string, entry IdempotencyEntry) error {
	entry.InProgress = false
	entry.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// Release drops the lock so the request can be retried
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

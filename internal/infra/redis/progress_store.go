package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"adaptive-assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ProgressStore keeps the session snapshot as a JSON string under one key.
// Every save overwrites the whole value.
type ProgressStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewProgressStore returns a store for key. A zero ttl keeps the value forever.
func NewProgressStore(client *redis.Client, key string, ttl time.Duration) *ProgressStore {
	if key == "" {
		key = "assessment:progress"
	}
	return &ProgressStore{client: client, key: key, ttl: ttl}
}

func (s *ProgressStore) Load(ctx context.Context) (domain.Progress, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Progress{}, domain.ErrProgressNotFound
	}
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Progress{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	return p, nil
}

func (s *ProgressStore) Save(ctx context.Context, progress domain.Progress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

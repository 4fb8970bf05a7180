package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"datahub-portal-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// SelectionStore shares view selections between instances. Values are
// JSON and expire after ttl; every Save refreshes the expiry.
type SelectionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSelectionStore(rdb *redis.Client, ttl time.Duration) *SelectionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SelectionStore{rdb: rdb, ttl: ttl}
}

var _ contract.SelectionStore = (*SelectionStore)(nil)

func (s *SelectionStore) Get(ctx context.Context, key string) (*contract.ViewSelection, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read selection %s: %w", key, err)
	}

	var view contract.ViewSelection
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false, fmt.Errorf("failed to decode selection %s: %w", key, err)
	}
	return &view, true, nil
}

func (s *SelectionStore) Save(ctx context.Context, key string, view contract.ViewSelection) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save selection %s: %w", key, err)
	}
	return nil
}

func (s *SelectionStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *SelectionStore) DeletePrefix(ctx context.Context, prefix string, keep ...string) ([]string, error) {
	var deleted []string
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if key := iter.Val(); !slices.Contains(keep, key) {
			deleted = append(deleted, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan selections: %w", err)
	}
	if len(deleted) == 0 {
		return nil, nil
	}
	if err := s.rdb.Del(ctx, deleted...).Err(); err != nil {
		return nil, fmt.Errorf("failed to delete selections: %w", err)
	}
	return deleted, nil
}

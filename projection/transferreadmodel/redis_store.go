package transferreadmodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const transferKeyPrefix = "transfer:"

// RedisStore is a Store backed by Redis, with one JSON value per transfer.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithTTL sets an expiry on transfer records. Zero (the default) keeps them forever.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore creates a RedisStore using the given client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	store := &RedisStore{
		client: client,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Save stores the record, overwriting any previous version.
func (s *RedisStore) Save(ctx context.Context, record TransferRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal transfer record %s: %w", record.TransferID, err)
	}

	if err := s.client.Set(ctx, transferKeyPrefix+record.TransferID, recordJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("save transfer record %s: %w", record.TransferID, err)
	}

	return nil
}

// UpdateState sets the state of an existing record. Updating an unknown
// transfer returns ErrTransferNotFound.
func (s *RedisStore) UpdateState(ctx context.Context, transferID string, state string, updatedAt time.Time) error {
	record, err := s.FindByID(ctx, transferID)
	if err != nil {
		return err
	}

	record.State = state
	record.UpdatedAt = updatedAt

	return s.Save(ctx, record)
}

// FindByID returns the record for the transfer id, or ErrTransferNotFound.
func (s *RedisStore) FindByID(ctx context.Context, transferID string) (TransferRecord, error) {
	recordJSON, err := s.client.Get(ctx, transferKeyPrefix+transferID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TransferRecord{}, ErrTransferNotFound
		}

		return TransferRecord{}, fmt.Errorf("find transfer record %s: %w", transferID, err)
	}

	var record TransferRecord
	if err := jsoniter.ConfigFastest.Unmarshal(recordJSON, &record); err != nil {
		return TransferRecord{}, fmt.Errorf("unmarshal transfer record %s: %w", transferID, err)
	}

	return record, nil
}

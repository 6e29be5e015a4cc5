package bankaccountlookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	accountHolderKeyPrefix = "account-holder:"
	bankAccountKeyPrefix   = "bank-account-owner:"
)

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a RedisCache using the given client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// SaveAccount registers the holder of an account.
func (c *RedisCache) SaveAccount(ctx context.Context, accountID string, holderID string) error {
	if err := c.client.Set(ctx, accountHolderKeyPrefix+accountID, holderID, 0).Err(); err != nil {
		return fmt.Errorf("save account holder %s: %w", accountID, err)
	}

	return nil
}

// SaveBankAccount registers the owning account of a bank account.
func (c *RedisCache) SaveBankAccount(ctx context.Context, bankAccountID string, accountID string) error {
	if err := c.client.Set(ctx, bankAccountKeyPrefix+bankAccountID, accountID, 0).Err(); err != nil {
		return fmt.Errorf("save bank account owner %s: %w", bankAccountID, err)
	}

	return nil
}

// Resolve returns the owner of the bank account, or ErrUnknownBankAccount.
func (c *RedisCache) Resolve(ctx context.Context, bankAccountID string) (Entry, error) {
	accountID, err := c.client.Get(ctx, bankAccountKeyPrefix+bankAccountID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, ErrUnknownBankAccount
		}

		return Entry{}, fmt.Errorf("resolve bank account %s: %w", bankAccountID, err)
	}

	holderID, err := c.client.Get(ctx, accountHolderKeyPrefix+accountID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("resolve account holder %s: %w", accountID, err)
	}

	return Entry{
		AccountID: accountID,
		HolderID:  holderID,
	}, nil
}

// Package bankaccountlookup maintains a cache resolving a bank account id to
// the account and holder it belongs to. Transfer initiation uses it to accept
// bank account ids alone, without the caller knowing the owning accounts.
package bankaccountlookup

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownBankAccount is returned by Resolve for an id the cache has not seen.
var ErrUnknownBankAccount = errors.New("unknown bank account")

// Entry identifies the owner of a bank account.
type Entry struct {
	AccountID string `json:"accountId"`
	HolderID  string `json:"holderId"`
}

// Cache stores the ownership mapping. Accounts are registered before their
// bank accounts, mirroring the order of events in the Account stream.
type Cache interface {
	SaveAccount(ctx context.Context, accountID string, holderID string) error
	SaveBankAccount(ctx context.Context, bankAccountID string, accountID string) error
	Resolve(ctx context.Context, bankAccountID string) (Entry, error)
}

// MemoryCache is an in-memory Cache for tests and single-process setups.
type MemoryCache struct {
	mu           sync.RWMutex
	holders      map[string]string // account id -> holder id
	bankAccounts map[string]string // bank account id -> account id
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		holders:      make(map[string]string),
		bankAccounts: make(map[string]string),
	}
}

// SaveAccount registers the holder of an account.
func (c *MemoryCache) SaveAccount(_ context.Context, accountID string, holderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holders[accountID] = holderID

	return nil
}

// SaveBankAccount registers the owning account of a bank account.
func (c *MemoryCache) SaveBankAccount(_ context.Context, bankAccountID string, accountID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bankAccounts[bankAccountID] = accountID

	return nil
}

// Resolve returns the owner of the bank account, or ErrUnknownBankAccount.
func (c *MemoryCache) Resolve(_ context.Context, bankAccountID string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	accountID, ok := c.bankAccounts[bankAccountID]
	if !ok {
		return Entry{}, ErrUnknownBankAccount
	}

	return Entry{
		AccountID: accountID,
		HolderID:  c.holders[accountID],
	}, nil
}

package bankaccountlookup

import (
	"context"

	"github.com/AlexanderZavoykin/event-sourcing-bank/dispatcher"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

// SubscriptionGroup is the dispatcher group id feeding this cache.
const SubscriptionGroup = "accounts::bank-accounts-cache"

// Projector folds Account stream creation events into the Cache.
type Projector struct {
	cache Cache
}

// NewProjector creates a Projector writing to the given cache.
func NewProjector(cache Cache) *Projector {
	return &Projector{
		cache: cache,
	}
}

// Register wires the projector's subscription group into the dispatcher.
func (p *Projector) Register(d *dispatcher.Dispatcher) {
	d.Subscribe(core.AccountStreamType, SubscriptionGroup, p.HandleEvent)
}

// HandleEvent applies one Account stream event to the cache. Both writes are
// overwrites of immutable facts, so redelivery is harmless.
func (p *Projector) HandleEvent(ctx context.Context, event core.DomainEvent, _ eventlog.StoredEvent) error {
	switch e := event.(type) {
	case core.AccountCreated:
		return p.cache.SaveAccount(ctx, e.AccountID, e.HolderID)

	case core.BankAccountCreated:
		return p.cache.SaveBankAccount(ctx, e.BankAccountID, e.AccountID)

	default:
		return nil
	}
}

package transferreadmodel

import (
	"context"

	"github.com/AlexanderZavoykin/event-sourcing-bank/dispatcher"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

// SubscriptionGroup is the dispatcher group id feeding this projection.
const SubscriptionGroup = "transfers::projection"

// Transfer read-model states, mirroring the transfer lifecycle.
const (
	StatePending   = "pending"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// Projector folds Transfer stream events into the Store.
type Projector struct {
	store Store
}

// NewProjector creates a Projector writing to the given store.
func NewProjector(store Store) *Projector {
	return &Projector{
		store: store,
	}
}

// Register wires the projector's subscription group into the dispatcher.
func (p *Projector) Register(d *dispatcher.Dispatcher) {
	d.Subscribe(core.TransferStreamType, SubscriptionGroup, p.HandleEvent)
}

// HandleEvent applies one Transfer stream event to the read model. Saving a
// record is an overwrite and state updates are absorbing, so redelivery is
// harmless.
func (p *Projector) HandleEvent(ctx context.Context, event core.DomainEvent, _ eventlog.StoredEvent) error {
	switch e := event.(type) {
	case core.TransferInitiated:
		return p.store.Save(ctx, TransferRecord{
			TransferID:               e.TransferID,
			SourceAccountID:          e.SourceAccountID,
			SourceBankAccountID:      e.SourceBankAccountID,
			DestinationAccountID:     e.DestinationAccountID,
			DestinationBankAccountID: e.DestinationBankAccountID,
			Amount:                   e.Amount,
			State:                    StatePending,
			InitiatedAt:              e.HasOccurredAt(),
			UpdatedAt:                e.HasOccurredAt(),
		})

	case core.TransferSucceeded:
		return p.store.UpdateState(ctx, e.TransferID, StateSucceeded, e.HasOccurredAt())

	case core.TransferFailed:
		return p.store.UpdateState(ctx, e.TransferID, StateFailed, e.HasOccurredAt())

	default:
		return nil
	}
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// AccountCreatedEventType is the event type identifier.
const AccountCreatedEventType = "AccountCreated"

// AccountCreated represents when a new account is created for a holder.
type AccountCreated struct {
	AccountID  AccountIDString
	HolderID   HolderIDString
	OccurredAt OccurredAtTS
}

// BuildAccountCreated creates a new AccountCreated event.
func BuildAccountCreated(accountID uuid.UUID, holderID uuid.UUID, occurredAt time.Time) AccountCreated {
	return AccountCreated{
		AccountID:  accountID.String(),
		HolderID:   holderID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e AccountCreated) EventType() EventTypeString {
	return AccountCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AccountCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e AccountCreated) IsRejectionEvent() bool {
	return false
}

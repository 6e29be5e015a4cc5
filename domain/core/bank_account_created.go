package core

import (
	"time"

	"github.com/google/uuid"
)

// BankAccountCreatedEventType is the event type identifier.
const BankAccountCreatedEventType = "BankAccountCreated"

// BankAccountCreated represents when a new bank account (sub-account) is allocated within an account.
type BankAccountCreated struct {
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	OccurredAt    OccurredAtTS
}

// BuildBankAccountCreated creates a new BankAccountCreated event.
func BuildBankAccountCreated(
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	occurredAt time.Time,
) BankAccountCreated {

	return BankAccountCreated{
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e BankAccountCreated) EventType() EventTypeString {
	return BankAccountCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BankAccountCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e BankAccountCreated) IsRejectionEvent() bool {
	return false
}

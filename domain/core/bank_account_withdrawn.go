package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountWithdrawnEventType is the event type identifier.
const BankAccountWithdrawnEventType = "BankAccountWithdrawn"

// BankAccountWithdrawn represents when money is withdrawn from a bank account through the direct API.
type BankAccountWithdrawn struct {
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildBankAccountWithdrawn creates a new BankAccountWithdrawn event.
func BuildBankAccountWithdrawn(
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) BankAccountWithdrawn {

	return BankAccountWithdrawn{
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e BankAccountWithdrawn) EventType() EventTypeString {
	return BankAccountWithdrawnEventType
}

// HasOccurredAt returns when this event occurred.
func (e BankAccountWithdrawn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e BankAccountWithdrawn) IsRejectionEvent() bool {
	return false
}

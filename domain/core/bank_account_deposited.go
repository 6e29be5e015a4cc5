package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountDepositedEventType is the event type identifier.
const BankAccountDepositedEventType = "BankAccountDeposited"

// BankAccountDeposited represents when money is deposited to a bank account through the direct API.
type BankAccountDeposited struct {
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildBankAccountDeposited creates a new BankAccountDeposited event.
func BuildBankAccountDeposited(
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) BankAccountDeposited {

	return BankAccountDeposited{
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e BankAccountDeposited) EventType() EventTypeString {
	return BankAccountDepositedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BankAccountDeposited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e BankAccountDeposited) IsRejectionEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InternalMoneyTransferredEventType is the event type identifier.
const InternalMoneyTransferredEventType = "InternalMoneyTransferred"

// InternalMoneyTransferred represents when money moves between two bank accounts of the same account.
// Both legs are applied atomically within the one aggregate, so no saga is involved.
type InternalMoneyTransferred struct {
	AccountID         AccountIDString
	FromBankAccountID BankAccountIDString
	ToBankAccountID   BankAccountIDString
	Amount            decimal.Decimal
	OccurredAt        OccurredAtTS
}

// BuildInternalMoneyTransferred creates a new InternalMoneyTransferred event.
func BuildInternalMoneyTransferred(
	accountID uuid.UUID,
	fromBankAccountID uuid.UUID,
	toBankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) InternalMoneyTransferred {

	return InternalMoneyTransferred{
		AccountID:         accountID.String(),
		FromBankAccountID: fromBankAccountID.String(),
		ToBankAccountID:   toBankAccountID.String(),
		Amount:            amount,
		OccurredAt:        ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e InternalMoneyTransferred) EventType() EventTypeString {
	return InternalMoneyTransferredEventType
}

// HasOccurredAt returns when this event occurred.
func (e InternalMoneyTransferred) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e InternalMoneyTransferred) IsRejectionEvent() bool {
	return false
}

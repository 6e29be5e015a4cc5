package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDepositPerformedEventType is the event type identifier.
const TransferDepositPerformedEventType = "TransferDepositPerformed"

// TransferDepositPerformed represents when the deposit leg of a transfer was applied to the destination bank account.
type TransferDepositPerformed struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildTransferDepositPerformed creates a new TransferDepositPerformed event.
func BuildTransferDepositPerformed(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) TransferDepositPerformed {

	return TransferDepositPerformed{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferDepositPerformed) EventType() EventTypeString {
	return TransferDepositPerformedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferDepositPerformed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferDepositPerformed) IsRejectionEvent() bool {
	return false
}

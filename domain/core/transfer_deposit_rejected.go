package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDepositRejectedEventType is the event type identifier.
const TransferDepositRejectedEventType = "TransferDepositRejected"

// TransferDepositRejected represents when the deposit leg of a transfer was rejected.
// The coordinator reacts by compensating the already performed withdraw leg.
type TransferDepositRejected struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
	Reason        string
}

// BuildTransferDepositRejected creates a new TransferDepositRejected event.
func BuildTransferDepositRejected(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	reason string,
	occurredAt time.Time,
) TransferDepositRejected {

	return TransferDepositRejected{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
		Reason:        reason,
	}
}

// EventType returns the event type identifier.
func (e TransferDepositRejected) EventType() EventTypeString {
	return TransferDepositRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferDepositRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns true since this event records a rejected saga step.
func (e TransferDepositRejected) IsRejectionEvent() bool {
	return true
}

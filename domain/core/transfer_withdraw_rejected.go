package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferWithdrawRejectedEventType is the event type identifier.
const TransferWithdrawRejectedEventType = "TransferWithdrawRejected"

// TransferWithdrawRejected represents when the withdraw leg of a transfer was rejected.
// No funds were touched; the coordinator reacts by failing the transfer.
type TransferWithdrawRejected struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
	Reason        string
}

// BuildTransferWithdrawRejected creates a new TransferWithdrawRejected event.
func BuildTransferWithdrawRejected(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	reason string,
	occurredAt time.Time,
) TransferWithdrawRejected {

	return TransferWithdrawRejected{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
		Reason:        reason,
	}
}

// EventType returns the event type identifier.
func (e TransferWithdrawRejected) EventType() EventTypeString {
	return TransferWithdrawRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferWithdrawRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns true since this event records a rejected saga step.
func (e TransferWithdrawRejected) IsRejectionEvent() bool {
	return true
}

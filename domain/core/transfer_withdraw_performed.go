package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferWithdrawPerformedEventType is the event type identifier.
const TransferWithdrawPerformedEventType = "TransferWithdrawPerformed"

// TransferWithdrawPerformed represents when the withdraw leg of a transfer was applied to the source bank account.
type TransferWithdrawPerformed struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildTransferWithdrawPerformed creates a new TransferWithdrawPerformed event.
func BuildTransferWithdrawPerformed(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) TransferWithdrawPerformed {

	return TransferWithdrawPerformed{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferWithdrawPerformed) EventType() EventTypeString {
	return TransferWithdrawPerformedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferWithdrawPerformed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferWithdrawPerformed) IsRejectionEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferWithdrawRolledBackEventType is the event type identifier.
const TransferWithdrawRolledBackEventType = "TransferWithdrawRolledBack"

// TransferWithdrawRolledBack represents when a performed withdraw leg was compensated, restoring the source balance.
type TransferWithdrawRolledBack struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildTransferWithdrawRolledBack creates a new TransferWithdrawRolledBack event.
func BuildTransferWithdrawRolledBack(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) TransferWithdrawRolledBack {

	return TransferWithdrawRolledBack{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferWithdrawRolledBack) EventType() EventTypeString {
	return TransferWithdrawRolledBackEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferWithdrawRolledBack) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferWithdrawRolledBack) IsRejectionEvent() bool {
	return false
}

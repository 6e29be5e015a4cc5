package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDepositRolledBackEventType is the event type identifier.
const TransferDepositRolledBackEventType = "TransferDepositRolledBack"

// TransferDepositRolledBack represents when a performed deposit leg was compensated, reverting the destination balance.
type TransferDepositRolledBack struct {
	TransferID    TransferIDString
	AccountID     AccountIDString
	BankAccountID BankAccountIDString
	Amount        decimal.Decimal
	OccurredAt    OccurredAtTS
}

// BuildTransferDepositRolledBack creates a new TransferDepositRolledBack event.
func BuildTransferDepositRolledBack(
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) TransferDepositRolledBack {

	return TransferDepositRolledBack{
		TransferID:    transferID.String(),
		AccountID:     accountID.String(),
		BankAccountID: bankAccountID.String(),
		Amount:        amount,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferDepositRolledBack) EventType() EventTypeString {
	return TransferDepositRolledBackEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferDepositRolledBack) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferDepositRolledBack) IsRejectionEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferInitiatedEventType is the event type identifier.
const TransferInitiatedEventType = "TransferInitiated"

// TransferInitiated represents when a new transfer between two bank accounts was requested.
// It is the causal predecessor of every other event in the transfer's saga.
type TransferInitiated struct {
	TransferID               TransferIDString
	SourceAccountID          AccountIDString
	SourceBankAccountID      BankAccountIDString
	DestinationAccountID     AccountIDString
	DestinationBankAccountID BankAccountIDString
	Amount                   decimal.Decimal
	OccurredAt               OccurredAtTS
}

// BuildTransferInitiated creates a new TransferInitiated event.
func BuildTransferInitiated(
	transferID uuid.UUID,
	sourceAccountID uuid.UUID,
	sourceBankAccountID uuid.UUID,
	destinationAccountID uuid.UUID,
	destinationBankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) TransferInitiated {

	return TransferInitiated{
		TransferID:               transferID.String(),
		SourceAccountID:          sourceAccountID.String(),
		SourceBankAccountID:      sourceBankAccountID.String(),
		DestinationAccountID:     destinationAccountID.String(),
		DestinationBankAccountID: destinationBankAccountID.String(),
		Amount:                   amount,
		OccurredAt:               ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferInitiated) EventType() EventTypeString {
	return TransferInitiatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferInitiated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferInitiated) IsRejectionEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// TransferFailedEventType is the event type identifier.
const TransferFailedEventType = "TransferFailed"

// TransferFailed represents when a transfer reached its terminal failed state.
type TransferFailed struct {
	TransferID TransferIDString
	OccurredAt OccurredAtTS
}

// BuildTransferFailed creates a new TransferFailed event.
func BuildTransferFailed(
	transferID uuid.UUID,
	occurredAt time.Time,
) TransferFailed {

	return TransferFailed{
		TransferID: transferID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferFailed) EventType() EventTypeString {
	return TransferFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferFailed) IsRejectionEvent() bool {
	return false
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// TransferSucceededEventType is the event type identifier.
const TransferSucceededEventType = "TransferSucceeded"

// TransferSucceeded represents when a transfer reached its terminal successful state.
type TransferSucceeded struct {
	TransferID TransferIDString
	OccurredAt OccurredAtTS
}

// BuildTransferSucceeded creates a new TransferSucceeded event.
func BuildTransferSucceeded(
	transferID uuid.UUID,
	occurredAt time.Time,
) TransferSucceeded {

	return TransferSucceeded{
		TransferID: transferID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// EventType returns the event type identifier.
func (e TransferSucceeded) EventType() EventTypeString {
	return TransferSucceededEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferSucceeded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsRejectionEvent returns false since this event represents a successful operation.
func (e TransferSucceeded) IsRejectionEvent() bool {
	return false
}

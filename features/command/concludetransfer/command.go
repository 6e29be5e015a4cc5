package concludetransfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "ConcludeTransfer"
)

// Outcome is the terminal state a transfer is concluded with.
type Outcome string

const (
	// OutcomeSucceeded concludes the transfer as succeeded.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed concludes the transfer as failed.
	OutcomeFailed Outcome = "failed"
)

// Command represents the saga coordinator's instruction to move a transfer
// into one of its terminal states.
type Command struct {
	TransferID uuid.UUID
	Outcome    Outcome
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(transferID uuid.UUID, outcome Outcome, occurredAt time.Time) Command {
	return Command{
		TransferID: transferID,
		Outcome:    outcome,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

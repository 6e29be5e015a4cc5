package openaccount

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "OpenAccount"
)

// Command represents the intent to open a new account for a holder.
type Command struct {
	AccountID  uuid.UUID
	HolderID   uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(accountID uuid.UUID, holderID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AccountID:  accountID,
		HolderID:   holderID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

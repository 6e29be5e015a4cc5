package openbankaccount

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "OpenBankAccount"
)

// Command represents the intent to open a new bank account within an account.
type Command struct {
	AccountID     uuid.UUID
	BankAccountID uuid.UUID
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(accountID uuid.UUID, bankAccountID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AccountID:     accountID,
		BankAccountID: bankAccountID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

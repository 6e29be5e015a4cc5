package withdraw

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "Withdraw"
)

// Command represents the intent to withdraw money from a bank account.
type Command struct {
	AccountID     uuid.UUID
	BankAccountID uuid.UUID
	Amount        decimal.Decimal
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) Command {

	return Command{
		AccountID:     accountID,
		BankAccountID: bankAccountID,
		Amount:        amount,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

package transferinternal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "TransferInternal"
)

// Command represents the intent to move money between two bank accounts of the
// same account. This is a single-aggregate operation with no saga involved.
type Command struct {
	AccountID         uuid.UUID
	FromBankAccountID uuid.UUID
	ToBankAccountID   uuid.UUID
	Amount            decimal.Decimal
	OccurredAt        core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	accountID uuid.UUID,
	fromBankAccountID uuid.UUID,
	toBankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) Command {

	return Command{
		AccountID:         accountID,
		FromBankAccountID: fromBankAccountID,
		ToBankAccountID:   toBankAccountID,
		Amount:            amount,
		OccurredAt:        core.ToOccurredAt(occurredAt),
	}
}

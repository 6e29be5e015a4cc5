package performtransferdeposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "PerformTransferDeposit"
)

// Command represents the saga coordinator's instruction to deposit the
// transfer amount into the destination bank account.
type Command struct {
	TransferID    uuid.UUID
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
	transferID uuid.UUID,
	accountID uuid.UUID,
	bankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) Command {

	return Command{
		TransferID:    transferID,
		AccountID:     accountID,
		BankAccountID: bankAccountID,
		Amount:        amount,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

package rollbacktransferwithdraw

import (
	"time"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "RollbackTransferWithdraw"
)

// Command represents the saga coordinator's instruction to compensate a
// previously performed withdraw leg. The amount to refund is taken from the
// recorded leg, not from the command, so the command carries no amount.
type Command struct {
	TransferID    uuid.UUID
	AccountID     uuid.UUID
	BankAccountID uuid.UUID
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
	occurredAt time.Time,
) Command {

	return Command{
		TransferID:    transferID,
		AccountID:     accountID,
		BankAccountID: bankAccountID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

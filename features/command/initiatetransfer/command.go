package initiatetransfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	commandType = "InitiateTransfer"
)

// Command represents the intent to start a new transfer between two bank
// accounts, possibly belonging to different accounts.
type Command struct {
	TransferID               uuid.UUID
	SourceAccountID          uuid.UUID
	SourceBankAccountID      uuid.UUID
	DestinationAccountID     uuid.UUID
	DestinationBankAccountID uuid.UUID
	Amount                   decimal.Decimal
	OccurredAt               core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	transferID uuid.UUID,
	sourceAccountID uuid.UUID,
	sourceBankAccountID uuid.UUID,
	destinationAccountID uuid.UUID,
	destinationBankAccountID uuid.UUID,
	amount decimal.Decimal,
	occurredAt time.Time,
) Command {

	return Command{
		TransferID:               transferID,
		SourceAccountID:          sourceAccountID,
		SourceBankAccountID:      sourceBankAccountID,
		DestinationAccountID:     destinationAccountID,
		DestinationBankAccountID: destinationBankAccountID,
		Amount:                   amount,
		OccurredAt:               core.ToOccurredAt(occurredAt),
	}
}

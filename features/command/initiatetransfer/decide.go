package initiatetransfer

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic to determine whether a new transfer should be initiated.
//
// Only the shape of the request is validated here: the source and destination
// account states live in other streams and are checked asynchronously by the
// saga when the legs execute. An initiated transfer whose participants turn
// out to be invalid simply ends in the failed state.
//
// Business Rules:
//
//	GIVEN: A transfer stream identified by TransferID
//	WHEN: InitiateTransfer command is received
//	THEN: TransferInitiated event is generated with state pending
//	ERROR: ErrInvalidArgument if the amount is not positive or source and
//	       destination bank accounts are the same
//	IDEMPOTENCY: If the transfer was already initiated, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	transfer := core.ReduceTransfer(history)

	if transfer.Exists() {
		return core.IdempotentDecision() // idempotency - the transfer was already initiated
	}

	if !command.Amount.IsPositive() {
		return core.ErrorDecision(core.ErrInvalidArgument)
	}

	if command.SourceBankAccountID == command.DestinationBankAccountID {
		return core.ErrorDecision(core.ErrInvalidArgument)
	}

	return core.SuccessDecision(
		core.BuildTransferInitiated(
			command.TransferID,
			command.SourceAccountID,
			command.SourceBankAccountID,
			command.DestinationAccountID,
			command.DestinationBankAccountID,
			command.Amount,
			command.OccurredAt,
		),
	)
}

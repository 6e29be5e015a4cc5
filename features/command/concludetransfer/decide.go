package concludetransfer

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic to determine whether a transfer should
// be moved into a terminal state.
//
// Terminal states stick. A conclude command against an already concluded
// transfer is a no-op regardless of the requested outcome, so re-delivered
// saga events can never flip succeeded to failed or vice versa.
//
// Business Rules:
//
//	GIVEN: An initiated transfer identified by TransferID
//	WHEN: ConcludeTransfer command is received
//	THEN: TransferSucceeded or TransferFailed event is generated per Outcome
//	ERROR: ErrTransferNotInitiated if the transfer does not exist
//	ERROR: ErrInvalidArgument if the outcome is unknown
//	IDEMPOTENCY: If the transfer is already in a terminal state, no event
//	             generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	transfer := core.ReduceTransfer(history)

	if !transfer.Exists() {
		return core.ErrorDecision(core.ErrTransferNotInitiated)
	}

	if transfer.State.IsTerminal() {
		return core.IdempotentDecision() // idempotency - the transfer was already concluded
	}

	switch command.Outcome {
	case OutcomeSucceeded:
		return core.SuccessDecision(
			core.BuildTransferSucceeded(command.TransferID, command.OccurredAt),
		)
	case OutcomeFailed:
		return core.SuccessDecision(
			core.BuildTransferFailed(command.TransferID, command.OccurredAt),
		)
	default:
		return core.ErrorDecision(core.ErrInvalidArgument)
	}
}

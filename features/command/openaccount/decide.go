package openaccount

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic to determine whether a new account should be opened.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the decision based on the business rules.
//
// Business Rules:
//
//	GIVEN: An account stream identified by AccountID
//	WHEN: OpenAccount command is received
//	THEN: AccountCreated event is generated
//	IDEMPOTENCY: If the account already exists, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := core.ReduceAccount(history)

	if account.Exists() {
		return core.IdempotentDecision() // idempotency - the account was already created
	}

	return core.SuccessDecision(
		core.BuildAccountCreated(
			command.AccountID,
			command.HolderID,
			command.OccurredAt,
		),
	)
}

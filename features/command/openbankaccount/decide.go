package openbankaccount

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic to determine whether a new bank account should be opened.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the decision based on the business rules.
//
// Business Rules:
//
//	GIVEN: An existing account identified by AccountID
//	WHEN: OpenBankAccount command is received
//	THEN: BankAccountCreated event is generated
//	ERROR: ErrNoSuchAccount if the account does not exist
//	ERROR: ErrLimitExceeded if the account already has the maximum number of bank accounts
//	IDEMPOTENCY: If the bank account already exists, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := core.ReduceAccount(history)

	if !account.Exists() {
		return core.ErrorDecision(core.ErrNoSuchAccount)
	}

	if _, ok := account.BankAccount(command.BankAccountID.String()); ok {
		return core.IdempotentDecision() // idempotency - this bank account was already created
	}

	if len(account.BankAccounts) >= core.MaxBankAccountsPerAccount {
		return core.ErrorDecision(core.ErrLimitExceeded)
	}

	return core.SuccessDecision(
		core.BuildBankAccountCreated(
			command.AccountID,
			command.BankAccountID,
			command.OccurredAt,
		),
	)
}

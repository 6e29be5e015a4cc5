package deposit

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic to determine whether a deposit should be accepted.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the decision based on the business rules.
//
// Business Rules:
//
//	GIVEN: An existing bank account identified by AccountID and BankAccountID
//	WHEN: Deposit command is received
//	THEN: BankAccountDeposited event is generated
//	ERROR: ErrInvalidArgument if the amount is not positive
//	ERROR: ErrNoSuchAccount if the account does not exist
//	ERROR: ErrNoSuchBankAccount if the bank account does not exist
//	ERROR: ErrInvariantViolation if the deposit would exceed the bank account
//	       balance cap or the account total balance cap
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Amount.IsPositive() {
		return core.ErrorDecision(core.ErrInvalidArgument)
	}

	account := core.ReduceAccount(history)

	if !account.Exists() {
		return core.ErrorDecision(core.ErrNoSuchAccount)
	}

	bankAccount, ok := account.BankAccount(command.BankAccountID.String())
	if !ok {
		return core.ErrorDecision(core.ErrNoSuchBankAccount)
	}

	if bankAccount.Balance.Add(command.Amount).GreaterThan(core.MaxBankAccountBalance) {
		return core.ErrorDecision(core.ErrInvariantViolation)
	}

	if account.TotalBalance().Add(command.Amount).GreaterThan(core.MaxAccountTotalBalance) {
		return core.ErrorDecision(core.ErrInvariantViolation)
	}

	return core.SuccessDecision(
		core.BuildBankAccountDeposited(
			command.AccountID,
			command.BankAccountID,
			command.Amount,
			command.OccurredAt,
		),
	)
}

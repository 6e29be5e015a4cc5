package transferinternal

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic for moving money between two bank accounts
// of the same account. Both balance adjustments are recorded atomically in a single
// event, so the account total balance is unaffected and needs no cap check.
//
// Business Rules:
//
//	GIVEN: An existing account with two distinct bank accounts
//	WHEN: TransferInternal command is received
//	THEN: InternalMoneyTransferred event is generated
//	ERROR: ErrInvalidArgument if the amount is not positive or both bank accounts are the same
//	ERROR: ErrNoSuchAccount if the account does not exist
//	ERROR: ErrNoSuchBankAccount if either bank account does not exist
//	ERROR: ErrInsufficientFunds if the amount exceeds the source balance
//	ERROR: ErrInvariantViolation if the destination would exceed the bank account balance cap
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Amount.IsPositive() {
		return core.ErrorDecision(core.ErrInvalidArgument)
	}

	if command.FromBankAccountID == command.ToBankAccountID {
		return core.ErrorDecision(core.ErrInvalidArgument)
	}

	account := core.ReduceAccount(history)

	if !account.Exists() {
		return core.ErrorDecision(core.ErrNoSuchAccount)
	}

	from, ok := account.BankAccount(command.FromBankAccountID.String())
	if !ok {
		return core.ErrorDecision(core.ErrNoSuchBankAccount)
	}

	to, ok := account.BankAccount(command.ToBankAccountID.String())
	if !ok {
		return core.ErrorDecision(core.ErrNoSuchBankAccount)
	}

	if command.Amount.GreaterThan(from.Balance) {
		return core.ErrorDecision(core.ErrInsufficientFunds)
	}

	if to.Balance.Add(command.Amount).GreaterThan(core.MaxBankAccountBalance) {
		return core.ErrorDecision(core.ErrInvariantViolation)
	}

	return core.SuccessDecision(
		core.BuildInternalMoneyTransferred(
			command.AccountID,
			command.FromBankAccountID,
			command.ToBankAccountID,
			command.Amount,
			command.OccurredAt,
		),
	)
}

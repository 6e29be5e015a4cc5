package rollbacktransferdeposit

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

// Decide implements the business logic for compensating a performed deposit leg.
//
// Compensation requires evidence: a deposit leg recorded for this transfer on
// this bank account. A missing leg means the causal chain is broken, and that
// must abort processing of the triggering event rather than be swallowed.
//
// Business Rules:
//
//	GIVEN: A deposit leg recorded for TransferID on the bank account
//	WHEN: RollbackTransferDeposit command is received
//	THEN: TransferDepositRolledBack event is generated reclaiming the leg amount
//	ERROR: ErrNoSuchAccount / ErrNoSuchBankAccount if the target does not exist
//	ERROR: ErrNoSuchTransferLeg if no deposit leg is recorded for this transfer
//	IDEMPOTENCY: If the leg is already rolled back, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := core.ReduceAccount(history)

	if !account.Exists() {
		return core.ErrorDecision(core.ErrNoSuchAccount)
	}

	bankAccount, ok := account.BankAccount(command.BankAccountID.String())
	if !ok {
		return core.ErrorDecision(core.ErrNoSuchBankAccount)
	}

	leg, hasLeg := bankAccount.Leg(command.TransferID.String())
	if !hasLeg || leg.Direction != core.LegDeposit {
		return core.ErrorDecision(core.ErrNoSuchTransferLeg)
	}

	if leg.State == core.LegRolledBack {
		return core.IdempotentDecision() // idempotency - this leg was already compensated
	}

	return core.SuccessDecision(
		core.BuildTransferDepositRolledBack(
			command.TransferID,
			command.AccountID,
			command.BankAccountID,
			leg.Amount,
			command.OccurredAt,
		),
	)
}

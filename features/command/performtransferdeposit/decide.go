package performtransferdeposit

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	failureReasonBankAccountCap  = "bank account balance limit exceeded"
	failureReasonTotalBalanceCap = "account total balance limit exceeded"
)

// Decide implements the business logic for the deposit leg of a transfer.
//
// This command is issued by the saga coordinator, so a business rule violation
// is recorded as a TransferDepositRejected event which the coordinator reacts
// to by compensating the withdraw leg. Errors are reserved for broken
// preconditions that the coordinator cannot recover from.
//
// Business Rules:
//
//	GIVEN: An existing bank account identified by AccountID and BankAccountID
//	WHEN: PerformTransferDeposit command is received
//	THEN: TransferDepositPerformed event is generated and a deposit leg recorded
//	REJECTION: TransferDepositRejected if the deposit would exceed the bank
//	           account balance cap or the account total balance cap
//	ERROR: ErrNoSuchAccount / ErrNoSuchBankAccount if the target does not exist
//	IDEMPOTENCY: If a leg for this transfer is already recorded on the bank
//	             account, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := core.ReduceAccount(history)

	if !account.Exists() {
		return core.ErrorDecision(core.ErrNoSuchAccount)
	}

	bankAccount, ok := account.BankAccount(command.BankAccountID.String())
	if !ok {
		return core.ErrorDecision(core.ErrNoSuchBankAccount)
	}

	if _, hasLeg := bankAccount.Leg(command.TransferID.String()); hasLeg {
		return core.IdempotentDecision() // idempotency - this leg was already processed
	}

	if bankAccount.Balance.Add(command.Amount).GreaterThan(core.MaxBankAccountBalance) {
		return core.RejectionDecision(
			core.BuildTransferDepositRejected(
				command.TransferID,
				command.AccountID,
				command.BankAccountID,
				command.Amount,
				failureReasonBankAccountCap,
				command.OccurredAt,
			),
		)
	}

	if account.TotalBalance().Add(command.Amount).GreaterThan(core.MaxAccountTotalBalance) {
		return core.RejectionDecision(
			core.BuildTransferDepositRejected(
				command.TransferID,
				command.AccountID,
				command.BankAccountID,
				command.Amount,
				failureReasonTotalBalanceCap,
				command.OccurredAt,
			),
		)
	}

	return core.SuccessDecision(
		core.BuildTransferDepositPerformed(
			command.TransferID,
			command.AccountID,
			command.BankAccountID,
			command.Amount,
			command.OccurredAt,
		),
	)
}

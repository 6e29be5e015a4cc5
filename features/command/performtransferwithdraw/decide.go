package performtransferwithdraw

import (
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

const (
	failureReasonInsufficientFunds = "insufficient funds on source bank account"
)

// Decide implements the business logic for the withdraw leg of a transfer.
//
// This command is issued by the saga coordinator, not by a synchronous caller,
// so a business rule violation must not surface as an error: it is recorded as
// a TransferWithdrawRejected event which the coordinator reacts to by failing
// the transfer. Errors are reserved for broken preconditions that the
// coordinator cannot recover from.
//
// Business Rules:
//
//	GIVEN: An existing bank account identified by AccountID and BankAccountID
//	WHEN: PerformTransferWithdraw command is received
//	THEN: TransferWithdrawPerformed event is generated and a withdraw leg recorded
//	REJECTION: TransferWithdrawRejected if the amount exceeds the current balance
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

	if command.Amount.GreaterThan(bankAccount.Balance) {
		return core.RejectionDecision(
			core.BuildTransferWithdrawRejected(
				command.TransferID,
				command.AccountID,
				command.BankAccountID,
				command.Amount,
				failureReasonInsufficientFunds,
				command.OccurredAt,
			),
		)
	}

	return core.SuccessDecision(
		core.BuildTransferWithdrawPerformed(
			command.TransferID,
			command.AccountID,
			command.BankAccountID,
			command.Amount,
			command.OccurredAt,
		),
	)
}

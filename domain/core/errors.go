package core

import "errors"

// Domain error taxonomy.
//
// The first group surfaces synchronously to direct callers. The saga never
// sees them: saga-issued commands translate the same violations into
// rejection events instead (see DecisionResult).
var (
	// ErrInvalidArgument indicates a malformed request, e.g. a non-positive
	// amount or identical source and destination bank accounts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoSuchAccount indicates an unknown account.
	ErrNoSuchAccount = errors.New("no such account")

	// ErrNoSuchBankAccount indicates an unknown bank account within an account.
	ErrNoSuchBankAccount = errors.New("no such bank account")

	// ErrInsufficientFunds indicates a withdrawal exceeding the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded indicates the bank accounts per account cap was hit.
	ErrLimitExceeded = errors.New("bank account limit exceeded")

	// ErrInvariantViolation indicates a deposit would exceed a balance cap.
	ErrInvariantViolation = errors.New("balance invariant violation")

	// ErrTransferNotInitiated indicates an operation against a transfer that
	// was never initiated.
	ErrTransferNotInitiated = errors.New("transfer was not initiated")
)

// ErrNoSuchTransferLeg indicates compensation was attempted without a prior
// matching performed leg. This is a broken causal assumption in the saga, not
// a business rejection: it must abort processing of the triggering event so an
// operator can investigate, never be silently swallowed.
var ErrNoSuchTransferLeg = errors.New("no such transfer leg")

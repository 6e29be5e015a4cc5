package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// AccountIDString represents an account identifier.
type AccountIDString = string

// HolderIDString represents an account holder identifier.
type HolderIDString = string

// BankAccountIDString represents a bank account (sub-account) identifier.
type BankAccountIDString = string

// TransferIDString represents a transfer identifier.
type TransferIDString = string

// EventTypeString represents an event type identifier.
type EventTypeString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// AccountStreamType is the stream type of the Account aggregate.
const AccountStreamType = "Account"

// TransferStreamType is the stream type of the Transfer aggregate.
const TransferStreamType = "Transfer"

// Ledger invariants, enforced by the Account aggregate's command handlers.
var (
	// MaxBankAccountBalance is the upper bound for one bank account's balance.
	MaxBankAccountBalance = decimal.NewFromInt(10_000_000)

	// MaxAccountTotalBalance is the upper bound for the sum of balances across
	// all bank accounts of one Account.
	MaxAccountTotalBalance = decimal.NewFromInt(25_000_000)
)

// MaxBankAccountsPerAccount is the upper bound for the number of bank accounts one Account may own.
const MaxBankAccountsPerAccount = 5

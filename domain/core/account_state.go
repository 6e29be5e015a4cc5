package core

import (
	"github.com/shopspring/decimal"
)

// TransferLegDirection is the side of a transfer a leg records on a bank account.
type TransferLegDirection string

const (
	// LegDeposit marks a deposit leg.
	LegDeposit TransferLegDirection = "deposit"

	// LegWithdraw marks a withdraw leg.
	LegWithdraw TransferLegDirection = "withdraw"
)

// TransferLegState is the lifecycle state of a transfer leg.
type TransferLegState string

const (
	// LegPerformed marks a leg whose balance effect is currently applied.
	LegPerformed TransferLegState = "performed"

	// LegRolledBack marks a leg whose balance effect was compensated.
	LegRolledBack TransferLegState = "rolled_back"
)

// TransferLeg is the durable record of one side of a transfer's effect on a
// bank account. It is the evidence consulted for idempotency checks and for
// compensation eligibility; it is never deleted.
type TransferLeg struct {
	TransferID TransferIDString
	Amount     decimal.Decimal
	Direction  TransferLegDirection
	State      TransferLegState
}

// BankAccount is one sub-account of an Account.
type BankAccount struct {
	ID      BankAccountIDString
	Balance decimal.Decimal
	Legs    map[TransferIDString]TransferLeg
}

// Leg returns the transfer leg recorded for the given transfer id, if any.
func (b BankAccount) Leg(transferID TransferIDString) (TransferLeg, bool) {
	leg, ok := b.Legs[transferID]
	return leg, ok
}

// Account is the ledger aggregate state, rebuilt by replaying its event stream.
// The set of bank account ids only grows, and never beyond MaxBankAccountsPerAccount.
type Account struct {
	AccountID    AccountIDString
	HolderID     HolderIDString
	BankAccounts map[BankAccountIDString]BankAccount
}

// Exists reports whether the account was created.
func (a Account) Exists() bool {
	return a.AccountID != ""
}

// BankAccount returns the sub-account with the given id, if any.
func (a Account) BankAccount(bankAccountID BankAccountIDString) (BankAccount, bool) {
	bankAccount, ok := a.BankAccounts[bankAccountID]
	return bankAccount, ok
}

// TotalBalance returns the sum of balances across all bank accounts of this account.
func (a Account) TotalBalance() decimal.Decimal {
	total := decimal.Zero

	for _, bankAccount := range a.BankAccounts {
		total = total.Add(bankAccount.Balance)
	}

	return total
}

// AccountReducerFunc is a pure state-transition function applying one event to the state.
type AccountReducerFunc func(Account, DomainEvent) Account

// accountReducers maps event types to their state-transition function.
// The replay path applies it uniformly; unknown event types are skipped.
// Rejected events carry no entry on purpose: a rejected attempt never touched
// funds, so it has no effect on the account's own state.
var accountReducers = map[EventTypeString]AccountReducerFunc{
	AccountCreatedEventType:             applyAccountCreated,
	BankAccountCreatedEventType:         applyBankAccountCreated,
	BankAccountDepositedEventType:       applyBankAccountDeposited,
	BankAccountWithdrawnEventType:       applyBankAccountWithdrawn,
	InternalMoneyTransferredEventType:   applyInternalMoneyTransferred,
	TransferWithdrawPerformedEventType:  applyTransferWithdrawPerformed,
	TransferDepositPerformedEventType:   applyTransferDepositPerformed,
	TransferWithdrawRolledBackEventType: applyTransferWithdrawRolledBack,
	TransferDepositRolledBackEventType:  applyTransferDepositRolledBack,
}

// ReduceAccount rebuilds the Account state by replaying all events from the history.
func ReduceAccount(history DomainEvents) Account {
	state := Account{
		BankAccounts: make(map[BankAccountIDString]BankAccount),
	}

	for _, event := range history {
		if reduce, ok := accountReducers[event.EventType()]; ok {
			state = reduce(state, event)
		}
	}

	return state
}

// ApplyAccountEvent applies a single event to the state through the reducer table.
// Applying the same event twice yields the identical state: the transfer leg
// reducers check the recorded leg before touching the balance.
func ApplyAccountEvent(state Account, event DomainEvent) Account {
	if reduce, ok := accountReducers[event.EventType()]; ok {
		return reduce(state, event)
	}

	return state
}

func applyAccountCreated(state Account, event DomainEvent) Account {
	e, ok := event.(AccountCreated)
	if !ok {
		return state
	}

	state.AccountID = e.AccountID
	state.HolderID = e.HolderID

	return state
}

func applyBankAccountCreated(state Account, event DomainEvent) Account {
	e, ok := event.(BankAccountCreated)
	if !ok {
		return state
	}

	if _, exists := state.BankAccounts[e.BankAccountID]; exists {
		return state
	}

	state.BankAccounts[e.BankAccountID] = BankAccount{
		ID:      e.BankAccountID,
		Balance: decimal.Zero,
		Legs:    make(map[TransferIDString]TransferLeg),
	}

	return state
}

func applyBankAccountDeposited(state Account, event DomainEvent) Account {
	e, ok := event.(BankAccountDeposited)
	if !ok {
		return state
	}

	return adjustBalance(state, e.BankAccountID, e.Amount)
}

func applyBankAccountWithdrawn(state Account, event DomainEvent) Account {
	e, ok := event.(BankAccountWithdrawn)
	if !ok {
		return state
	}

	return adjustBalance(state, e.BankAccountID, e.Amount.Neg())
}

func applyInternalMoneyTransferred(state Account, event DomainEvent) Account {
	e, ok := event.(InternalMoneyTransferred)
	if !ok {
		return state
	}

	state = adjustBalance(state, e.FromBankAccountID, e.Amount.Neg())
	state = adjustBalance(state, e.ToBankAccountID, e.Amount)

	return state
}

func applyTransferWithdrawPerformed(state Account, event DomainEvent) Account {
	e, ok := event.(TransferWithdrawPerformed)
	if !ok {
		return state
	}

	return applyPerformedLeg(state, e.BankAccountID, e.TransferID, e.Amount, LegWithdraw)
}

func applyTransferDepositPerformed(state Account, event DomainEvent) Account {
	e, ok := event.(TransferDepositPerformed)
	if !ok {
		return state
	}

	return applyPerformedLeg(state, e.BankAccountID, e.TransferID, e.Amount, LegDeposit)
}

func applyTransferWithdrawRolledBack(state Account, event DomainEvent) Account {
	e, ok := event.(TransferWithdrawRolledBack)
	if !ok {
		return state
	}

	return applyRolledBackLeg(state, e.BankAccountID, e.TransferID, LegWithdraw)
}

func applyTransferDepositRolledBack(state Account, event DomainEvent) Account {
	e, ok := event.(TransferDepositRolledBack)
	if !ok {
		return state
	}

	return applyRolledBackLeg(state, e.BankAccountID, e.TransferID, LegDeposit)
}

// applyPerformedLeg records a performed leg and applies its balance effect.
// A leg already recorded for this transfer id makes the application a no-op,
// which keeps reapplication of a redelivered event from double-moving funds.
func applyPerformedLeg(
	state Account,
	bankAccountID BankAccountIDString,
	transferID TransferIDString,
	amount decimal.Decimal,
	direction TransferLegDirection,
) Account {

	bankAccount, exists := state.BankAccounts[bankAccountID]
	if !exists {
		return state
	}

	if _, alreadyApplied := bankAccount.Legs[transferID]; alreadyApplied {
		return state
	}

	balanceEffect := amount
	if direction == LegWithdraw {
		balanceEffect = amount.Neg()
	}

	bankAccount.Balance = bankAccount.Balance.Add(balanceEffect)
	bankAccount.Legs[transferID] = TransferLeg{
		TransferID: transferID,
		Amount:     amount,
		Direction:  direction,
		State:      LegPerformed,
	}
	state.BankAccounts[bankAccountID] = bankAccount

	return state
}

// applyRolledBackLeg reverses a performed leg's balance effect and flips the
// leg state. A leg already rolled back, or never performed, is a no-op.
func applyRolledBackLeg(
	state Account,
	bankAccountID BankAccountIDString,
	transferID TransferIDString,
	direction TransferLegDirection,
) Account {

	bankAccount, exists := state.BankAccounts[bankAccountID]
	if !exists {
		return state
	}

	leg, hasLeg := bankAccount.Legs[transferID]
	if !hasLeg || leg.State != LegPerformed || leg.Direction != direction {
		return state
	}

	balanceEffect := leg.Amount
	if direction == LegDeposit {
		balanceEffect = leg.Amount.Neg()
	}

	bankAccount.Balance = bankAccount.Balance.Add(balanceEffect)
	leg.State = LegRolledBack
	bankAccount.Legs[transferID] = leg
	state.BankAccounts[bankAccountID] = bankAccount

	return state
}

func adjustBalance(state Account, bankAccountID BankAccountIDString, delta decimal.Decimal) Account {
	bankAccount, exists := state.BankAccounts[bankAccountID]
	if !exists {
		return state
	}

	bankAccount.Balance = bankAccount.Balance.Add(delta)
	state.BankAccounts[bankAccountID] = bankAccount

	return state
}

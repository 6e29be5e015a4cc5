package core

import (
	"github.com/shopspring/decimal"
)

// TransferState is the lifecycle state of one transfer saga record.
type TransferState string

const (
	// TransferPending is the initial state, set on initiation.
	TransferPending TransferState = "pending"

	// TransferSucceededState is terminal.
	TransferSucceededState TransferState = "succeeded"

	// TransferFailedState is terminal.
	TransferFailedState TransferState = "failed"
)

// IsTerminal reports whether no further state transitions are accepted.
func (s TransferState) IsTerminal() bool {
	return s == TransferSucceededState || s == TransferFailedState
}

// Transfer is the saga record aggregate state: the participants and amount of
// one transfer plus its lifecycle state. The saga coordinator is the only
// writer of state transitions.
type Transfer struct {
	TransferID               TransferIDString
	SourceAccountID          AccountIDString
	SourceBankAccountID      BankAccountIDString
	DestinationAccountID     AccountIDString
	DestinationBankAccountID BankAccountIDString
	Amount                   decimal.Decimal
	State                    TransferState
}

// Exists reports whether the transfer was initiated.
func (t Transfer) Exists() bool {
	return t.TransferID != ""
}

// TransferReducerFunc is a pure state-transition function applying one event to the state.
type TransferReducerFunc func(Transfer, DomainEvent) Transfer

var transferReducers = map[EventTypeString]TransferReducerFunc{
	TransferInitiatedEventType: applyTransferInitiated,
	TransferSucceededEventType: applyTransferSucceeded,
	TransferFailedEventType:    applyTransferFailed,
}

// ReduceTransfer rebuilds the Transfer state by replaying all events from the history.
func ReduceTransfer(history DomainEvents) Transfer {
	state := Transfer{}

	for _, event := range history {
		if reduce, ok := transferReducers[event.EventType()]; ok {
			state = reduce(state, event)
		}
	}

	return state
}

func applyTransferInitiated(state Transfer, event DomainEvent) Transfer {
	e, ok := event.(TransferInitiated)
	if !ok {
		return state
	}

	state.TransferID = e.TransferID
	state.SourceAccountID = e.SourceAccountID
	state.SourceBankAccountID = e.SourceBankAccountID
	state.DestinationAccountID = e.DestinationAccountID
	state.DestinationBankAccountID = e.DestinationBankAccountID
	state.Amount = e.Amount
	state.State = TransferPending

	return state
}

// Terminal states stick: a duplicate or conflicting terminal event does not
// flip a transfer that already settled.
func applyTransferSucceeded(state Transfer, event DomainEvent) Transfer {
	if _, ok := event.(TransferSucceeded); !ok {
		return state
	}

	if state.State.IsTerminal() {
		return state
	}

	state.State = TransferSucceededState

	return state
}

func applyTransferFailed(state Transfer, event DomainEvent) Transfer {
	if _, ok := event.(TransferFailed); !ok {
		return state
	}

	if state.State.IsTerminal() {
		return state
	}

	state.State = TransferFailedState

	return state
}

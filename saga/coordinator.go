// Package saga implements the transfer saga coordinator.
//
// The coordinator is the only component that reacts to transfer-related
// events with commands. It subscribes to three durable dispatcher groups and
// drives every transfer from initiation through its legs to a terminal state,
// compensating the withdraw leg when the deposit leg is rejected.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/dispatcher"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/shell"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/concludetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferdeposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferwithdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/rollbacktransferwithdraw"
)

// Subscription group ids. The prefix names the aggregate the group issues
// commands against, the suffix names the feed it consumes.
const (
	TransferProcessingGroup  = "accounts::transfer-processing"
	AccountTransactionsGroup = "accounts::account-transaction-processing"
	TransferConclusionsGroup = "transfers::account-transaction-processing"
)

// EventLog is the read side needed to resolve transfer parameters from the
// Transfer stream.
type EventLog interface {
	Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
		eventlog.StoredEvents,
		eventlog.VersionUint,
		error,
	)
}

// Coordinator reacts to transfer saga events with the next command.
// All reactions are idempotent under redelivery: the command handlers
// detect already-processed legs and already-concluded transfers.
type Coordinator struct {
	eventLog         EventLog
	performWithdraw  performtransferwithdraw.CommandHandler
	performDeposit   performtransferdeposit.CommandHandler
	rollbackWithdraw rollbacktransferwithdraw.CommandHandler
	conclude         concludetransfer.CommandHandler
}

// NewCoordinator creates a Coordinator issuing commands through the given handlers.
func NewCoordinator(
	eventLog EventLog,
	performWithdraw performtransferwithdraw.CommandHandler,
	performDeposit performtransferdeposit.CommandHandler,
	rollbackWithdraw rollbacktransferwithdraw.CommandHandler,
	conclude concludetransfer.CommandHandler,
) *Coordinator {

	return &Coordinator{
		eventLog:         eventLog,
		performWithdraw:  performWithdraw,
		performDeposit:   performDeposit,
		rollbackWithdraw: rollbackWithdraw,
		conclude:         conclude,
	}
}

// Register wires the coordinator's subscription groups into the dispatcher.
func (c *Coordinator) Register(d *dispatcher.Dispatcher) {
	d.Subscribe(core.TransferStreamType, TransferProcessingGroup, c.HandleTransferEvent)
	d.Subscribe(core.AccountStreamType, AccountTransactionsGroup, c.HandleAccountTransactionEvent)
	d.Subscribe(core.AccountStreamType, TransferConclusionsGroup, c.HandleConclusionEvent)
}

// HandleTransferEvent reacts to Transfer stream events: an initiated transfer
// starts its withdraw leg.
func (c *Coordinator) HandleTransferEvent(ctx context.Context, event core.DomainEvent, _ eventlog.StoredEvent) error {
	e, ok := event.(core.TransferInitiated)
	if !ok {
		return nil
	}

	transferID, accountID, bankAccountID, err := parseIDs(e.TransferID, e.SourceAccountID, e.SourceBankAccountID)
	if err != nil {
		return dispatcher.Fatal(err)
	}

	command := performtransferwithdraw.BuildCommand(
		transferID, accountID, bankAccountID, e.Amount, e.HasOccurredAt(),
	)

	_, handleErr := c.performWithdraw.Handle(ctx, command)

	return c.classify(handleErr)
}

// HandleAccountTransactionEvent reacts to Account stream events that demand
// the next account-side step: a performed withdraw leg starts the deposit
// leg, a rejected deposit leg starts compensation of the withdraw leg.
func (c *Coordinator) HandleAccountTransactionEvent(ctx context.Context, event core.DomainEvent, _ eventlog.StoredEvent) error {
	switch e := event.(type) {
	case core.TransferWithdrawPerformed:
		return c.startDepositLeg(ctx, e)

	case core.TransferDepositRejected:
		return c.compensateWithdrawLeg(ctx, e)

	default:
		return nil
	}
}

// HandleConclusionEvent reacts to Account stream events that decide a
// transfer's terminal state.
func (c *Coordinator) HandleConclusionEvent(ctx context.Context, event core.DomainEvent, _ eventlog.StoredEvent) error {
	switch e := event.(type) {
	case core.TransferDepositPerformed:
		return c.concludeTransfer(ctx, e.TransferID, concludetransfer.OutcomeSucceeded, e.HasOccurredAt())

	case core.TransferWithdrawRejected:
		return c.concludeTransfer(ctx, e.TransferID, concludetransfer.OutcomeFailed, e.HasOccurredAt())

	case core.TransferWithdrawRolledBack:
		// Compensation acknowledged: only now is it safe to fail the transfer.
		return c.concludeTransfer(ctx, e.TransferID, concludetransfer.OutcomeFailed, e.HasOccurredAt())

	default:
		return nil
	}
}

func (c *Coordinator) startDepositLeg(ctx context.Context, e core.TransferWithdrawPerformed) error {
	transfer, err := c.lookupTransfer(ctx, e.TransferID)
	if err != nil {
		return err
	}

	transferID, accountID, bankAccountID, parseErr := parseIDs(
		transfer.TransferID, transfer.DestinationAccountID, transfer.DestinationBankAccountID,
	)
	if parseErr != nil {
		return dispatcher.Fatal(parseErr)
	}

	command := performtransferdeposit.BuildCommand(
		transferID, accountID, bankAccountID, transfer.Amount, e.HasOccurredAt(),
	)

	_, handleErr := c.performDeposit.Handle(ctx, command)

	return c.classify(handleErr)
}

func (c *Coordinator) compensateWithdrawLeg(ctx context.Context, e core.TransferDepositRejected) error {
	transfer, err := c.lookupTransfer(ctx, e.TransferID)
	if err != nil {
		return err
	}

	transferID, accountID, bankAccountID, parseErr := parseIDs(
		transfer.TransferID, transfer.SourceAccountID, transfer.SourceBankAccountID,
	)
	if parseErr != nil {
		return dispatcher.Fatal(parseErr)
	}

	command := rollbacktransferwithdraw.BuildCommand(
		transferID, accountID, bankAccountID, e.HasOccurredAt(),
	)

	_, handleErr := c.rollbackWithdraw.Handle(ctx, command)

	return c.classify(handleErr)
}

func (c *Coordinator) concludeTransfer(
	ctx context.Context,
	transferID core.TransferIDString,
	outcome concludetransfer.Outcome,
	occurredAt time.Time,
) error {
	id, err := uuid.Parse(transferID)
	if err != nil {
		return dispatcher.Fatal(fmt.Errorf("malformed transfer id %q: %w", transferID, err))
	}

	command := concludetransfer.BuildCommand(id, outcome, occurredAt)

	_, handleErr := c.conclude.Handle(ctx, command)

	return c.classify(handleErr)
}

// lookupTransfer resolves a transfer's participants and amount by replaying
// its stream. Leg events are causally preceded by initiation, so an empty
// stream here is a broken assumption, not a transient condition.
func (c *Coordinator) lookupTransfer(ctx context.Context, transferID core.TransferIDString) (core.Transfer, error) {
	storedEvents, _, err := c.eventLog.Load(ctx, core.TransferStreamType, transferID)
	if err != nil {
		return core.Transfer{}, err
	}

	history, err := shell.DomainEventsFrom(storedEvents)
	if err != nil {
		return core.Transfer{}, dispatcher.Fatal(err)
	}

	transfer := core.ReduceTransfer(history)
	if !transfer.Exists() {
		return core.Transfer{}, dispatcher.Fatal(
			fmt.Errorf("%w: %s", core.ErrTransferNotInitiated, transferID),
		)
	}

	return transfer, nil
}

// classify splits handler errors into fatal (broken causal assumptions, park
// the group) and retryable (infrastructure trouble, redeliver).
func (c *Coordinator) classify(err error) error {
	if err == nil {
		return nil
	}

	for _, fatal := range []error{
		core.ErrNoSuchAccount,
		core.ErrNoSuchBankAccount,
		core.ErrNoSuchTransferLeg,
		core.ErrTransferNotInitiated,
		core.ErrInvalidArgument,
	} {
		if errors.Is(err, fatal) {
			return dispatcher.Fatal(err)
		}
	}

	return err
}

func parseIDs(transferID, accountID, bankAccountID string) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	tid, err := uuid.Parse(transferID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, fmt.Errorf("malformed transfer id %q: %w", transferID, err)
	}

	aid, err := uuid.Parse(accountID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, fmt.Errorf("malformed account id %q: %w", accountID, err)
	}

	bid, err := uuid.Parse(bankAccountID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, fmt.Errorf("malformed bank account id %q: %w", bankAccountID, err)
	}

	return tid, aid, bid, nil
}

package saga_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderZavoykin/event-sourcing-bank/dispatcher"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/shell"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/memoryengine"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/concludetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/deposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/initiatetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openbankaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferdeposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferwithdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/rollbacktransferwithdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
	"github.com/AlexanderZavoykin/event-sourcing-bank/saga"
)

// fixture wires the full choreography in memory: event log, dispatcher,
// coordinator, and the transfer read model.
type fixture struct {
	log       *memoryengine.EventLog
	offsets   *dispatcher.MemoryOffsetStore
	d         *dispatcher.Dispatcher
	transfers *transferreadmodel.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := memoryengine.NewEventLog()
	offsets := dispatcher.NewMemoryOffsetStore()
	d := dispatcher.NewDispatcher(log, offsets)

	coordinator := saga.NewCoordinator(
		log,
		performtransferwithdraw.NewCommandHandler(log),
		performtransferdeposit.NewCommandHandler(log),
		rollbacktransferwithdraw.NewCommandHandler(log),
		concludetransfer.NewCommandHandler(log),
	)
	coordinator.Register(d)

	transfers := transferreadmodel.NewMemoryStore()
	transferreadmodel.NewProjector(transfers).Register(d)

	return &fixture{log: log, offsets: offsets, d: d, transfers: transfers}
}

func (f *fixture) givenAccountWithFunds(t *testing.T, amount decimal.Decimal) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	accountID := uuid.New()
	bankAccountID := uuid.New()

	_, err := openaccount.NewCommandHandler(f.log).Handle(ctx, openaccount.BuildCommand(accountID, uuid.New(), time.Now()))
	require.NoError(t, err)

	_, err = openbankaccount.NewCommandHandler(f.log).Handle(ctx, openbankaccount.BuildCommand(accountID, bankAccountID, time.Now()))
	require.NoError(t, err)

	if amount.IsPositive() {
		_, err = deposit.NewCommandHandler(f.log).Handle(ctx, deposit.BuildCommand(accountID, bankAccountID, amount, time.Now()))
		require.NoError(t, err)
	}

	return accountID, bankAccountID
}

func (f *fixture) initiateTransfer(
	t *testing.T,
	sourceAccountID, sourceBankAccountID, destinationAccountID, destinationBankAccountID uuid.UUID,
	amount decimal.Decimal,
) uuid.UUID {
	t.Helper()

	transferID := uuid.New()
	command := initiatetransfer.BuildCommand(
		transferID, sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID, amount, time.Now(),
	)

	_, err := initiatetransfer.NewCommandHandler(f.log).Handle(context.Background(), command)
	require.NoError(t, err)

	return transferID
}

func (f *fixture) transferState(t *testing.T, transferID uuid.UUID) core.Transfer {
	t.Helper()

	storedEvents, _, err := f.log.Load(context.Background(), core.TransferStreamType, transferID.String())
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storedEvents)
	require.NoError(t, err)

	return core.ReduceTransfer(history)
}

func (f *fixture) accountState(t *testing.T, accountID uuid.UUID) core.Account {
	t.Helper()

	storedEvents, _, err := f.log.Load(context.Background(), core.AccountStreamType, accountID.String())
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storedEvents)
	require.NoError(t, err)

	return core.ReduceAccount(history)
}

func Test_Transfer_Succeeds_AndMovesMoney(t *testing.T) {
	// arrange
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(1000))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(50))

	// act
	transferID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(300),
	)
	require.NoError(t, f.d.CatchUp(context.Background()))

	// assert - transfer concluded
	transfer := f.transferState(t, transferID)
	assert.Equal(t, core.TransferSucceededState, transfer.State)

	// assert - money moved
	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(700)))
	assert.True(t, destination.Balance.Equal(decimal.NewFromInt(350)))

	// assert - legs recorded as performed on both sides
	sourceLeg, ok := source.Leg(transferID.String())
	require.True(t, ok)
	assert.Equal(t, core.LegWithdraw, sourceLeg.Direction)
	assert.Equal(t, core.LegPerformed, sourceLeg.State)

	destinationLeg, ok := destination.Leg(transferID.String())
	require.True(t, ok)
	assert.Equal(t, core.LegDeposit, destinationLeg.Direction)

	// assert - read model follows
	record, err := f.transfers.FindByID(context.Background(), transferID.String())
	require.NoError(t, err)
	assert.Equal(t, transferreadmodel.StateSucceeded, record.State)
}

func Test_Transfer_Fails_WhenWithdrawRejected_NoBalancesTouched(t *testing.T) {
	// arrange - source has less than the transfer amount
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(100))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, decimal.Zero)

	// act
	transferID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(500),
	)
	require.NoError(t, f.d.CatchUp(context.Background()))

	// assert
	transfer := f.transferState(t, transferID)
	assert.Equal(t, core.TransferFailedState, transfer.State)

	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, destination.Balance.Equal(decimal.Zero))

	_, hasLeg := source.Leg(transferID.String())
	assert.False(t, hasLeg, "a rejected withdraw must not record a leg")

	record, err := f.transfers.FindByID(context.Background(), transferID.String())
	require.NoError(t, err)
	assert.Equal(t, transferreadmodel.StateFailed, record.State)
}

func Test_Transfer_Fails_WhenDepositRejected_WithdrawIsCompensated(t *testing.T) {
	// arrange - destination is at its balance cap, the deposit leg will be rejected
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(1000))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, core.MaxBankAccountBalance)

	// act
	transferID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(300),
	)
	require.NoError(t, f.d.CatchUp(context.Background()))

	// assert - transfer failed, both balances as before
	transfer := f.transferState(t, transferID)
	assert.Equal(t, core.TransferFailedState, transfer.State)

	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(1000)), "withdraw must be compensated")
	assert.True(t, destination.Balance.Equal(core.MaxBankAccountBalance))

	// assert - the source leg is recorded as rolled back
	sourceLeg, ok := source.Leg(transferID.String())
	require.True(t, ok)
	assert.Equal(t, core.LegWithdraw, sourceLeg.Direction)
	assert.Equal(t, core.LegRolledBack, sourceLeg.State)

	// assert - no leg on the destination
	_, hasLeg := destination.Leg(transferID.String())
	assert.False(t, hasLeg)
}

func Test_Transfer_Redelivery_CausesNoDoubleEffects(t *testing.T) {
	// arrange - a completed successful transfer
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(1000))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, decimal.Zero)

	transferID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(300),
	)
	ctx := context.Background()
	require.NoError(t, f.d.CatchUp(ctx))

	// act - rewind every saga group and replay the whole history
	for _, groupID := range []string{
		saga.TransferProcessingGroup,
		saga.AccountTransactionsGroup,
		saga.TransferConclusionsGroup,
	} {
		require.NoError(t, f.offsets.Save(ctx, groupID, 0))
	}
	require.NoError(t, f.d.CatchUp(ctx))

	// assert - same balances, same state, no duplicated legs
	transfer := f.transferState(t, transferID)
	assert.Equal(t, core.TransferSucceededState, transfer.State)

	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(700)), "redelivery must not withdraw twice")
	assert.True(t, destination.Balance.Equal(decimal.NewFromInt(300)), "redelivery must not deposit twice")
}

func Test_Transfer_ContendingTransfers_ExactlyOneSucceeds(t *testing.T) {
	// arrange - two transfers that together exceed the source balance
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(500))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, decimal.Zero)

	firstID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(300),
	)
	secondID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(300),
	)

	// act
	require.NoError(t, f.d.CatchUp(context.Background()))

	// assert - the first withdraw wins, the second is rejected for insufficient funds
	assert.Equal(t, core.TransferSucceededState, f.transferState(t, firstID).State)
	assert.Equal(t, core.TransferFailedState, f.transferState(t, secondID).State)

	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(200)), "source must never go negative")
	assert.True(t, destination.Balance.Equal(decimal.NewFromInt(300)))
}

func Test_Transfer_ConcurrentTransfers_BothSettle(t *testing.T) {
	// arrange - two transfers initiated before any saga step ran
	f := newFixture(t)
	sourceAccountID, sourceBankAccountID := f.givenAccountWithFunds(t, decimal.NewFromInt(1000))
	destinationAccountID, destinationBankAccountID := f.givenAccountWithFunds(t, decimal.Zero)

	firstID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(400),
	)
	secondID := f.initiateTransfer(t,
		sourceAccountID, sourceBankAccountID,
		destinationAccountID, destinationBankAccountID,
		decimal.NewFromInt(500),
	)

	// act
	require.NoError(t, f.d.CatchUp(context.Background()))

	// assert - both transfers reached a terminal state and the ledger is consistent
	assert.Equal(t, core.TransferSucceededState, f.transferState(t, firstID).State)
	assert.Equal(t, core.TransferSucceededState, f.transferState(t, secondID).State)

	source, _ := f.accountState(t, sourceAccountID).BankAccount(sourceBankAccountID.String())
	destination, _ := f.accountState(t, destinationAccountID).BankAccount(destinationBankAccountID.String())
	assert.True(t, source.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, destination.Balance.Equal(decimal.NewFromInt(900)))
}

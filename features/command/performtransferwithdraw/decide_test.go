package performtransferwithdraw_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferwithdraw"
)

func Test_Decide_Success_WhenBalanceCoversAmount(t *testing.T) {
	// arrange
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-3*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-2*time.Hour)),
		core.BuildBankAccountDeposited(accountID, bankAccountID, decimal.NewFromInt(500), now.Add(-1*time.Hour)),
	}

	command := performtransferwithdraw.BuildCommand(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now)

	// act
	result := performtransferwithdraw.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	assert.NoError(t, result.HasError())

	event, ok := result.Event.(core.TransferWithdrawPerformed)
	assert.True(t, ok, "Expected TransferWithdrawPerformed event")
	assert.Equal(t, transferID.String(), event.TransferID)
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(200)))
}

func Test_Decide_Rejection_WhenInsufficientFunds(t *testing.T) {
	// arrange
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-3*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-2*time.Hour)),
		core.BuildBankAccountDeposited(accountID, bankAccountID, decimal.NewFromInt(100), now.Add(-1*time.Hour)),
	}

	command := performtransferwithdraw.BuildCommand(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now)

	// act
	result := performtransferwithdraw.Decide(events, command)

	// assert - a rejection appends an event but raises no error
	assert.Equal(t, "rejection", result.Outcome)
	assert.NoError(t, result.HasError())

	event, ok := result.Event.(core.TransferWithdrawRejected)
	assert.True(t, ok, "Expected TransferWithdrawRejected event")
	assert.True(t, event.IsRejectionEvent())
	assert.NotEmpty(t, event.Reason)
}

func Test_Decide_Idempotent_WhenLegAlreadyRecorded(t *testing.T) {
	// arrange
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-4*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-3*time.Hour)),
		core.BuildBankAccountDeposited(accountID, bankAccountID, decimal.NewFromInt(500), now.Add(-2*time.Hour)),
		core.BuildTransferWithdrawPerformed(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-1*time.Hour)),
	}

	command := performtransferwithdraw.BuildCommand(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now)

	// act
	result := performtransferwithdraw.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
	assert.Nil(t, result.Event)
	assert.NoError(t, result.HasError())
}

func Test_Decide_Idempotent_EvenAfterLegWasRolledBack(t *testing.T) {
	// arrange - a rolled back leg still blocks re-execution of the same transfer
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-5*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-4*time.Hour)),
		core.BuildBankAccountDeposited(accountID, bankAccountID, decimal.NewFromInt(500), now.Add(-3*time.Hour)),
		core.BuildTransferWithdrawPerformed(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-2*time.Hour)),
		core.BuildTransferWithdrawRolledBack(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-1*time.Hour)),
	}

	command := performtransferwithdraw.BuildCommand(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now)

	// act
	result := performtransferwithdraw.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
}

func Test_Decide_Error_WhenTargetMissing(t *testing.T) {
	// arrange
	accountID := uuid.New()
	now := time.Now()

	command := performtransferwithdraw.BuildCommand(
		uuid.New(), accountID, uuid.New(), decimal.NewFromInt(100), now,
	)

	// act - account exists but the bank account does not
	result := performtransferwithdraw.Decide([]core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now),
	}, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNoSuchBankAccount)
	assert.Nil(t, result.Event)
}

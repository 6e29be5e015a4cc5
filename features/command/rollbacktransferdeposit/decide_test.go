package rollbacktransferdeposit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/rollbacktransferdeposit"
)

func Test_Decide_Success_ReclaimsTheRecordedLegAmount(t *testing.T) {
	// arrange
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-3*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-2*time.Hour)),
		core.BuildTransferDepositPerformed(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-1*time.Hour)),
	}

	command := rollbacktransferdeposit.BuildCommand(transferID, accountID, bankAccountID, now)

	// act
	result := rollbacktransferdeposit.Decide(events, command)

	// assert - reclaimed amount comes from the recorded leg
	assert.Equal(t, "success", result.Outcome)
	assert.NoError(t, result.HasError())

	event, ok := result.Event.(core.TransferDepositRolledBack)
	assert.True(t, ok, "Expected TransferDepositRolledBack event")
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(200)))
}

func Test_Decide_Idempotent_WhenLegAlreadyRolledBack(t *testing.T) {
	// arrange
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildAccountCreated(accountID, uuid.New(), now.Add(-4*time.Hour)),
		core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-3*time.Hour)),
		core.BuildTransferDepositPerformed(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-2*time.Hour)),
		core.BuildTransferDepositRolledBack(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-1*time.Hour)),
	}

	command := rollbacktransferdeposit.BuildCommand(transferID, accountID, bankAccountID, now)

	// act
	result := rollbacktransferdeposit.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
	assert.Nil(t, result.Event)
	assert.NoError(t, result.HasError())
}

func Test_Decide_Error_WhenNoDepositLegRecorded(t *testing.T) {
	transferID := uuid.New()
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	testCases := []struct {
		name   string
		events []core.DomainEvent
	}{
		{
			name: "no leg at all",
			events: []core.DomainEvent{
				core.BuildAccountCreated(accountID, uuid.New(), now.Add(-2*time.Hour)),
				core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-1*time.Hour)),
			},
		},
		{
			name: "leg has withdraw direction",
			events: []core.DomainEvent{
				core.BuildAccountCreated(accountID, uuid.New(), now.Add(-4*time.Hour)),
				core.BuildBankAccountCreated(accountID, bankAccountID, now.Add(-3*time.Hour)),
				core.BuildBankAccountDeposited(accountID, bankAccountID, decimal.NewFromInt(500), now.Add(-2*time.Hour)),
				core.BuildTransferWithdrawPerformed(transferID, accountID, bankAccountID, decimal.NewFromInt(200), now.Add(-1*time.Hour)),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := rollbacktransferdeposit.BuildCommand(transferID, accountID, bankAccountID, now)

			// act
			result := rollbacktransferdeposit.Decide(tc.events, command)

			// assert
			assert.ErrorIs(t, result.HasError(), core.ErrNoSuchTransferLeg)
			assert.Nil(t, result.Event)
		})
	}
}

package withdraw_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/withdraw"
)

func Test_Decide_Success_WhenBalanceCoversAmount(t *testing.T) {
	// arrange
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenAccountCreated(t, accountID, now.Add(-3*time.Hour)),
		givenBankAccountCreated(t, accountID, bankAccountID, now.Add(-2*time.Hour)),
		givenDeposited(t, accountID, bankAccountID, decimal.NewFromInt(500), now.Add(-1*time.Hour)),
	}

	command := withdraw.BuildCommand(accountID, bankAccountID, decimal.NewFromInt(500), now)

	// act
	result := withdraw.Decide(events, command)

	// assert - withdrawing the full balance is allowed
	assert.Equal(t, "success", result.Outcome)
	assert.NoError(t, result.HasError())

	event, ok := result.Event.(core.BankAccountWithdrawn)
	assert.True(t, ok, "Expected BankAccountWithdrawn event")
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(500)))
}

func Test_Decide_BusinessErrors(t *testing.T) {
	accountID := uuid.New()
	bankAccountID := uuid.New()
	now := time.Now()

	testCases := []struct {
		name        string
		events      []core.DomainEvent
		amount      decimal.Decimal
		expectedErr error
	}{
		{
			name:        "non-positive amount",
			events:      []core.DomainEvent{givenAccountCreated(t, accountID, now)},
			amount:      decimal.NewFromInt(-5),
			expectedErr: core.ErrInvalidArgument,
		},
		{
			name:        "account does not exist",
			events:      nil,
			amount:      decimal.NewFromInt(100),
			expectedErr: core.ErrNoSuchAccount,
		},
		{
			name:        "bank account does not exist",
			events:      []core.DomainEvent{givenAccountCreated(t, accountID, now)},
			amount:      decimal.NewFromInt(100),
			expectedErr: core.ErrNoSuchBankAccount,
		},
		{
			name: "insufficient funds",
			events: []core.DomainEvent{
				givenAccountCreated(t, accountID, now.Add(-3*time.Hour)),
				givenBankAccountCreated(t, accountID, bankAccountID, now.Add(-2*time.Hour)),
				givenDeposited(t, accountID, bankAccountID, decimal.NewFromInt(99), now.Add(-1*time.Hour)),
			},
			amount:      decimal.NewFromInt(100),
			expectedErr: core.ErrInsufficientFunds,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := withdraw.BuildCommand(accountID, bankAccountID, tc.amount, now)

			// act
			result := withdraw.Decide(tc.events, command)

			// assert
			assert.Equal(t, "error", result.Outcome)
			assert.Nil(t, result.Event, "Expected no event for error decision")
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
		})
	}
}

func givenAccountCreated(t *testing.T, accountID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildAccountCreated(accountID, uuid.New(), at)
}

func givenBankAccountCreated(t *testing.T, accountID, bankAccountID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildBankAccountCreated(accountID, bankAccountID, at)
}

func givenDeposited(t *testing.T, accountID, bankAccountID uuid.UUID, amount decimal.Decimal, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildBankAccountDeposited(accountID, bankAccountID, amount, at)
}

package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
)

func Test_ReduceTransfer_InitiationSetsPendingState(t *testing.T) {
	// arrange
	transferID := uuid.New()
	now := time.Now()

	history := []core.DomainEvent{
		givenTransferInitiated(t, transferID, decimal.NewFromInt(100), now),
	}

	// act
	transfer := core.ReduceTransfer(history)

	// assert
	assert.True(t, transfer.Exists())
	assert.Equal(t, core.TransferPending, transfer.State)
	assert.False(t, transfer.State.IsTerminal())
	assert.True(t, transfer.Amount.Equal(decimal.NewFromInt(100)))
}

func Test_ReduceTransfer_TerminalStatesStick(t *testing.T) {
	transferID := uuid.New()
	now := time.Now()

	testCases := []struct {
		name     string
		history  []core.DomainEvent
		expected core.TransferState
	}{
		{
			name: "succeeded then failed stays succeeded",
			history: []core.DomainEvent{
				givenTransferInitiated(t, transferID, decimal.NewFromInt(100), now.Add(-2*time.Hour)),
				core.BuildTransferSucceeded(transferID, now.Add(-1*time.Hour)),
				core.BuildTransferFailed(transferID, now),
			},
			expected: core.TransferSucceededState,
		},
		{
			name: "failed then succeeded stays failed",
			history: []core.DomainEvent{
				givenTransferInitiated(t, transferID, decimal.NewFromInt(100), now.Add(-2*time.Hour)),
				core.BuildTransferFailed(transferID, now.Add(-1*time.Hour)),
				core.BuildTransferSucceeded(transferID, now),
			},
			expected: core.TransferFailedState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			transfer := core.ReduceTransfer(tc.history)

			// assert
			assert.Equal(t, tc.expected, transfer.State)
			assert.True(t, transfer.State.IsTerminal())
		})
	}
}

func givenTransferInitiated(t *testing.T, transferID uuid.UUID, amount decimal.Decimal, at time.Time) core.DomainEvent {
	t.Helper()
	return core.BuildTransferInitiated(
		transferID,
		uuid.New(),
		uuid.New(),
		uuid.New(),
		uuid.New(),
		amount,
		at,
	)
}

package transferreadmodel_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
)

func Test_Projector_TracksTransferLifecycle(t *testing.T) {
	// arrange
	store := transferreadmodel.NewMemoryStore()
	projector := transferreadmodel.NewProjector(store)
	ctx := context.Background()

	transferID := uuid.New()
	now := time.Now()

	initiated := core.BuildTransferInitiated(
		transferID, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(250), now.Add(-1*time.Hour),
	)

	// act - initiation
	require.NoError(t, projector.HandleEvent(ctx, initiated, eventlog.StoredEvent{}))

	// assert
	record, err := store.FindByID(ctx, transferID.String())
	require.NoError(t, err)
	assert.Equal(t, transferreadmodel.StatePending, record.State)
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(250)))

	// act - conclusion
	require.NoError(t, projector.HandleEvent(ctx, core.BuildTransferSucceeded(transferID, now), eventlog.StoredEvent{}))

	// assert
	record, err = store.FindByID(ctx, transferID.String())
	require.NoError(t, err)
	assert.Equal(t, transferreadmodel.StateSucceeded, record.State)
}

func Test_Projector_RedeliveredInitiationKeepsLaterState(t *testing.T) {
	// arrange - initiation redelivered after the transfer already concluded
	store := transferreadmodel.NewMemoryStore()
	projector := transferreadmodel.NewProjector(store)
	ctx := context.Background()

	transferID := uuid.New()
	now := time.Now()

	initiated := core.BuildTransferInitiated(
		transferID, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(250), now.Add(-2*time.Hour),
	)

	require.NoError(t, projector.HandleEvent(ctx, initiated, eventlog.StoredEvent{}))
	require.NoError(t, projector.HandleEvent(ctx, core.BuildTransferFailed(transferID, now.Add(-1*time.Hour)), eventlog.StoredEvent{}))

	// act - replay from the beginning, in order
	require.NoError(t, projector.HandleEvent(ctx, initiated, eventlog.StoredEvent{}))
	require.NoError(t, projector.HandleEvent(ctx, core.BuildTransferFailed(transferID, now.Add(-1*time.Hour)), eventlog.StoredEvent{}))

	// assert
	record, err := store.FindByID(ctx, transferID.String())
	require.NoError(t, err)
	assert.Equal(t, transferreadmodel.StateFailed, record.State)
}

func Test_MemoryStore_FindByID_UnknownTransfer(t *testing.T) {
	// arrange
	store := transferreadmodel.NewMemoryStore()

	// act
	_, err := store.FindByID(context.Background(), uuid.NewString())

	// assert
	assert.ErrorIs(t, err, transferreadmodel.ErrTransferNotFound)
}

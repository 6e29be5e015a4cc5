package openaccount_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/memoryengine"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openaccount"
)

func Test_Handle_AppendsAccountCreated(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	handler := openaccount.NewCommandHandler(log)
	accountID := uuid.New()
	holderID := uuid.New()

	// act
	result, err := handler.Handle(context.Background(), openaccount.BuildCommand(accountID, holderID, time.Now()))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	stream, version, loadErr := log.Load(context.Background(), core.AccountStreamType, accountID.String())
	require.NoError(t, loadErr)
	assert.Equal(t, eventlog.VersionUint(1), version)
	require.Len(t, stream, 1)
	assert.Equal(t, core.AccountCreatedEventType, stream[0].EventType)
	assert.NotEqual(t, "{}", string(stream[0].MetadataJSON), "event metadata should carry message ids")
}

func Test_Handle_SecondCallIsIdempotent(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	handler := openaccount.NewCommandHandler(log)
	accountID := uuid.New()
	holderID := uuid.New()
	command := openaccount.BuildCommand(accountID, holderID, time.Now())

	_, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert - no error, no second event
	require.NoError(t, err)
	assert.True(t, result.Idempotent)

	stream, _, loadErr := log.Load(context.Background(), core.AccountStreamType, accountID.String())
	require.NoError(t, loadErr)
	assert.Len(t, stream, 1)
}

package memoryengine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/memoryengine"
)

func Test_Append_Load_RoundTrip(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	ctx := context.Background()

	first := givenStorableEvent(t, "SomethingHappened", 1)
	second := givenStorableEvent(t, "SomethingElseHappened", 2)

	// act
	require.NoError(t, log.Append(ctx, "Account", "stream-1", 0, first))
	require.NoError(t, log.Append(ctx, "Account", "stream-1", 1, second))

	stream, version, err := log.Load(ctx, "Account", "stream-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, eventlog.VersionUint(2), version)
	require.Len(t, stream, 2)
	assert.Equal(t, "SomethingHappened", stream[0].EventType)
	assert.Equal(t, eventlog.VersionUint(1), stream[0].Version)
	assert.Equal(t, eventlog.VersionUint(2), stream[1].Version)
	assert.Less(t, stream[0].GlobalSequence, stream[1].GlobalSequence)
}

func Test_Append_ReturnsConcurrencyConflict_OnStaleVersion(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "Account", "stream-1", 0, givenStorableEvent(t, "SomethingHappened", 1)))

	// act - both writers observed version 0
	err := log.Append(ctx, "Account", "stream-1", 0, givenStorableEvent(t, "SomethingElseHappened", 2))

	// assert
	assert.ErrorIs(t, err, eventlog.ErrConcurrencyConflict)

	stream, version, loadErr := log.Load(ctx, "Account", "stream-1")
	require.NoError(t, loadErr)
	assert.Equal(t, eventlog.VersionUint(1), version)
	assert.Len(t, stream, 1, "the losing append must not be persisted")
}

func Test_Load_UnknownStream_ReturnsEmptyStreamAtVersionZero(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()

	// act
	stream, version, err := log.Load(context.Background(), "Account", "unknown")

	// assert
	require.NoError(t, err)
	assert.Empty(t, stream)
	assert.Equal(t, eventlog.VersionUint(0), version)
}

func Test_ReadSince_FiltersByStreamTypeAndSequence(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "Account", "a-1", 0, givenStorableEvent(t, "AccountEvent", 1)))
	require.NoError(t, log.Append(ctx, "Transfer", "t-1", 0, givenStorableEvent(t, "TransferEvent", 2)))
	require.NoError(t, log.Append(ctx, "Account", "a-2", 0, givenStorableEvent(t, "AccountEvent", 3)))

	// act
	all, err := log.ReadSince(ctx, "Account", 0, 10)
	require.NoError(t, err)

	tail, tailErr := log.ReadSince(ctx, "Account", all[0].GlobalSequence, 10)
	require.NoError(t, tailErr)

	// assert
	assert.Len(t, all, 2)
	assert.Equal(t, "AccountEvent", all[0].EventType)
	require.Len(t, tail, 1)
	assert.Equal(t, all[1].GlobalSequence, tail[0].GlobalSequence)
}

func Test_ReadSince_RespectsLimit(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, "Account", "a-1", eventlog.VersionUint(i), givenStorableEvent(t, "AccountEvent", i)))
	}

	// act
	batch, err := log.ReadSince(ctx, "Account", 0, 3)

	// assert
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}

func Test_Append_RejectsEmptyStreamIdentity(t *testing.T) {
	// arrange
	log := memoryengine.NewEventLog()
	ctx := context.Background()
	event := givenStorableEvent(t, "SomethingHappened", 1)

	// act + assert
	assert.ErrorIs(t, log.Append(ctx, "", "stream-1", 0, event), eventlog.ErrEmptyStreamType)
	assert.ErrorIs(t, log.Append(ctx, "Account", "", 0, event), eventlog.ErrEmptyStreamID)
}

func givenStorableEvent(t *testing.T, eventType string, seed int) eventlog.StorableEvent {
	t.Helper()

	event, err := eventlog.BuildStorableEventWithEmptyMetadata(
		eventType,
		time.Now(),
		[]byte(fmt.Sprintf(`{"Seed":%d}`, seed)),
	)
	require.NoError(t, err)

	return event
}

// Package memoryengine provides an in-memory event log engine with the same
// contract as the Postgres engine: per-stream optimistic appends and a global
// append order for subscription tailing.
//
// It is intended for tests and single-node development setups.
package memoryengine

import (
	"context"
	"sync"

	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

type streamKey struct {
	streamType eventlog.StreamTypeString
	streamID   eventlog.StreamIDString
}

// EventLog keeps all events in memory, ordered by a single global sequence.
type EventLog struct {
	mu      sync.RWMutex
	all     eventlog.StoredEvents
	streams map[streamKey][]int // indexes into all, in version order
}

// NewEventLog creates an empty in-memory event log.
func NewEventLog() *EventLog {
	return &EventLog{
		streams: make(map[streamKey][]int),
	}
}

// Load returns all events of one stream in version order,
// together with the current stream version (0 for an unknown stream).
func (l *EventLog) Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
	eventlog.StoredEvents,
	eventlog.VersionUint,
	error,
) {

	if err := validateStream(streamType, streamID); err != nil {
		return nil, 0, err
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	indexes := l.streams[streamKey{streamType: streamType, streamID: streamID}]
	stream := make(eventlog.StoredEvents, 0, len(indexes))

	for _, idx := range indexes {
		stream = append(stream, l.all[idx])
	}

	version := eventlog.VersionUint(0)
	if len(stream) > 0 {
		version = stream[len(stream)-1].Version
	}

	return stream, version, nil
}

// Append appends the given events to one stream if the stream is still at
// expectedVersion, otherwise it returns eventlog.ErrConcurrencyConflict.
func (l *EventLog) Append(
	ctx context.Context,
	streamType eventlog.StreamTypeString,
	streamID eventlog.StreamIDString,
	expectedVersion eventlog.VersionUint,
	events ...eventlog.StorableEvent,
) error {

	if err := validateStream(streamType, streamID); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := streamKey{streamType: streamType, streamID: streamID}
	indexes := l.streams[key]

	currentVersion := eventlog.VersionUint(0)
	if len(indexes) > 0 {
		currentVersion = l.all[indexes[len(indexes)-1]].Version
	}

	if currentVersion != expectedVersion {
		return eventlog.ErrConcurrencyConflict
	}

	for i, event := range events {
		stored := eventlog.StoredEvent{
			StorableEvent:  event,
			StreamType:     streamType,
			StreamID:       streamID,
			Version:        expectedVersion + eventlog.VersionUint(i) + 1,
			GlobalSequence: eventlog.GlobalSequenceUint64(len(l.all)) + 1,
		}

		l.all = append(l.all, stored)
		l.streams[key] = append(l.streams[key], len(l.all)-1)
	}

	return nil
}

// ReadSince returns up to limit events of one stream type whose global
// sequence is greater than afterGlobalSequence, in global order.
// Global order implies per-stream order.
func (l *EventLog) ReadSince(
	ctx context.Context,
	streamType eventlog.StreamTypeString,
	afterGlobalSequence eventlog.GlobalSequenceUint64,
	limit int,
) (eventlog.StoredEvents, error) {

	if streamType == "" {
		return nil, eventlog.ErrEmptyStreamType
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	batch := make(eventlog.StoredEvents, 0)

	for _, stored := range l.all {
		if stored.GlobalSequence <= afterGlobalSequence || stored.StreamType != streamType {
			continue
		}

		batch = append(batch, stored)

		if limit > 0 && len(batch) >= limit {
			break
		}
	}

	return batch, nil
}

func validateStream(streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) error {
	if streamType == "" {
		return eventlog.ErrEmptyStreamType
	}

	if streamID == "" {
		return eventlog.ErrEmptyStreamID
	}

	return nil
}

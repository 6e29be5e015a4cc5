package eventlog

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrInvalidPayloadJSON  = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
	ErrEmptyStreamType     = errors.New("empty stream type supplied")
	ErrEmptyStreamID       = errors.New("empty stream id supplied")

	// ErrConcurrencyConflict is returned by Append when the stream has advanced
	// past the expected version, meaning a concurrent writer won the race.
	ErrConcurrencyConflict = errors.New("concurrency conflict, stream version has advanced")
)

// StreamTypeString identifies an aggregate type, e.g. "Account" or "Transfer".
type StreamTypeString = string

// StreamIDString identifies one aggregate instance within its type.
type StreamIDString = string

// VersionUint is the per-stream version of the last event in a stream.
// A stream that does not exist yet has version 0.
type VersionUint = uint

// GlobalSequenceUint64 is the position of an event in the store-wide append order.
type GlobalSequenceUint64 = uint64

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is the DTO the event log accepts for appending.
//
// It is built on scalars to stay agnostic of the domain event implementation
// in client code. While its properties are exported, it should only be
// constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if !json.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is a factory method for StorableEvent
// which creates valid empty JSON for MetadataJSON.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// StoredEvents is an alias type for a slice of StoredEvent.
type StoredEvents = []StoredEvent

// StoredEvent is a StorableEvent as it was persisted: enriched with its stream
// identity, its per-stream version and its store-wide global sequence.
type StoredEvent struct {
	StorableEvent
	StreamType     StreamTypeString
	StreamID       StreamIDString
	Version        VersionUint
	GlobalSequence GlobalSequenceUint64
}

// Logger interface for engine query logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

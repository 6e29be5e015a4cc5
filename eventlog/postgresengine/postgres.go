// Package postgresengine implements the event log on Postgres.
//
// All events live in one table with a store-wide global sequence and a
// per-stream version. Appends are conditional inserts guarded by the
// expected stream version, so optimistic concurrency needs no locks.
//
// Expected schema:
//
//	CREATE TABLE events (
//	    global_sequence BIGSERIAL PRIMARY KEY,
//	    stream_type     TEXT        NOT NULL,
//	    stream_id       TEXT        NOT NULL,
//	    version         BIGINT      NOT NULL,
//	    event_type      TEXT        NOT NULL,
//	    occurred_at     TIMESTAMPTZ NOT NULL,
//	    payload         JSONB       NOT NULL,
//	    metadata        JSONB       NOT NULL,
//	    UNIQUE (stream_type, stream_id, version)
//	);
//	CREATE INDEX events_stream_tail_idx ON events (stream_type, global_sequence);
package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	logMsgBuildQueryFailed         = "failed to build query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventlog operation: "
	logMsgStreamLoaded             = "stream loaded"
	logMsgEventsAppended           = "events appended"
	logMsgTailRead                 = "tail read"

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEventType        = "event_type"
	logAttrStreamType       = "stream_type"
	logAttrStreamID         = "stream_id"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedVersion  = "expected_version"
	logAttrRowsAffected     = "rows_affected"
	logActionLoad           = "load"
	logActionAppend         = "append"
	logActionReadSince      = "read since"

	colGlobalSequence = "global_sequence"
	colStreamType     = "stream_type"
	colStreamID       = "stream_id"
	colVersion        = "version"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"

	cteContext          = "context"
	aliasCurrentVersion = "current_version"
	dialectPostgres     = "postgres"
	castText            = "?::text"
	castBigint          = "?::bigint"
	castTimestamp       = "?::timestamp with time zone"
	castJsonb           = "?::jsonb"
)

var (
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")
	ErrBuildingQueryFailed   = errors.New("building query failed")
	ErrQueryingEventsFailed  = errors.New("querying events failed")
	ErrAppendingEventsFailed = errors.New("appending events failed")
	ErrScanningDBRowFailed   = errors.New("scanning database row failed")
	ErrNoEventsSupplied      = errors.New("no events supplied for append")
)

type sqlQueryString = string

// EventLog implements the event log contract on top of a Postgres database,
// reachable through a database adapter (pgx pool or sqlx).
type EventLog struct {
	db             adapters.DBAdapter
	eventTableName string
	logger         eventlog.Logger
}

// Option defines a functional option for configuring EventLog.
type Option func(*EventLog) error

// WithTableName sets the events table name.
func WithTableName(tableName string) Option {
	return func(el *EventLog) error {
		if tableName == "" {
			return eventlog.ErrEmptyStreamType
		}

		el.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger.
//
// Debug level: SQL queries with execution timing (development use)
// Info level: event counts, durations, concurrency conflicts (production-safe)
// Error level: failures that cause operation errors.
func WithLogger(logger eventlog.Logger) Option {
	return func(el *EventLog) error {
		el.logger = logger
		return nil
	}
}

// NewEventLogFromPGXPool creates a new EventLog using a pgx pool.
func NewEventLogFromPGXPool(pool *pgxpool.Pool, options ...Option) (*EventLog, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEventLog(adapters.NewPGXAdapter(pool), options...)
}

// NewEventLogFromSQLX creates a new EventLog using a sqlx.DB.
func NewEventLogFromSQLX(db *sqlx.DB, options ...Option) (*EventLog, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newEventLog(adapters.NewSQLXAdapter(db), options...)
}

func newEventLog(db adapters.DBAdapter, options ...Option) (*EventLog, error) {
	el := &EventLog{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(el); err != nil {
			return nil, err
		}
	}

	return el, nil
}

// Load retrieves all events of one stream in version order and returns them
// together with the current stream version (0 for an unknown stream).
func (el *EventLog) Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
	eventlog.StoredEvents,
	eventlog.VersionUint,
	error,
) {

	selectStmt := goqu.Dialect(dialectPostgres).
		From(el.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colVersion, colGlobalSequence).
		Where(goqu.Ex{colStreamType: streamType, colStreamID: streamID}).
		Order(goqu.I(colVersion).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		el.logError(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error())
		return nil, 0, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	stream, err := el.queryStoredEvents(ctx, sqlQuery, streamType, streamID, logActionLoad)
	if err != nil {
		return nil, 0, err
	}

	version := eventlog.VersionUint(0)
	if len(stream) > 0 {
		version = stream[len(stream)-1].Version
	}

	el.logOperation(logMsgStreamLoaded,
		logAttrStreamType, streamType,
		logAttrStreamID, streamID,
		logAttrEventCount, len(stream))

	return stream, version, nil
}

// Append attempts to append one or multiple events onto one stream,
// respecting the optimistic concurrency constraint: the insert only happens
// if the stream is still at expectedVersion, otherwise zero rows are affected
// and eventlog.ErrConcurrencyConflict is returned.
func (el *EventLog) Append(
	ctx context.Context,
	streamType eventlog.StreamTypeString,
	streamID eventlog.StreamIDString,
	expectedVersion eventlog.VersionUint,
	events ...eventlog.StorableEvent,
) error {

	if len(events) == 0 {
		return ErrNoEventsSupplied
	}

	sqlQuery, buildErr := el.buildAppendQuery(streamType, streamID, expectedVersion, events)
	if buildErr != nil {
		el.logError(logMsgBuildQueryFailed, logAttrError, buildErr.Error(), logAttrEventCount, len(events))
		return errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	start := time.Now()
	result, execErr := el.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	el.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		el.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		return errors.Join(ErrAppendingEventsFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		el.logError(logMsgRowsAffectedFailed, logAttrError, rowsErr.Error())
		return errors.Join(ErrAppendingEventsFailed, rowsErr)
	}

	if rowsAffected < int64(len(events)) {
		el.logOperation(logMsgConcurrencyConflict,
			logAttrStreamType, streamType,
			logAttrStreamID, streamID,
			logAttrExpectedVersion, expectedVersion,
			logAttrRowsAffected, rowsAffected)

		return eventlog.ErrConcurrencyConflict
	}

	el.logOperation(logMsgEventsAppended,
		logAttrStreamType, streamType,
		logAttrStreamID, streamID,
		logAttrEventCount, len(events),
		logAttrDurationMS, durationToMilliseconds(duration))

	return nil
}

// ReadSince returns up to limit events of one stream type whose global
// sequence is greater than afterGlobalSequence, in global order.
func (el *EventLog) ReadSince(
	ctx context.Context,
	streamType eventlog.StreamTypeString,
	afterGlobalSequence eventlog.GlobalSequenceUint64,
	limit int,
) (eventlog.StoredEvents, error) {

	selectStmt := goqu.Dialect(dialectPostgres).
		From(el.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colVersion, colGlobalSequence, colStreamID).
		Where(
			goqu.C(colStreamType).Eq(streamType),
			goqu.C(colGlobalSequence).Gt(afterGlobalSequence),
		).
		Order(goqu.I(colGlobalSequence).Asc())

	if limit > 0 {
		selectStmt = selectStmt.Limit(uint(limit))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		el.logError(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error())
		return nil, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	batch, err := el.queryStoredEventsWithStreamID(ctx, sqlQuery, streamType, logActionReadSince)
	if err != nil {
		return nil, err
	}

	el.logOperation(logMsgTailRead,
		logAttrStreamType, streamType,
		logAttrEventCount, len(batch))

	return batch, nil
}

func (el *EventLog) buildAppendQuery(
	streamType eventlog.StreamTypeString,
	streamID eventlog.StreamIDString,
	expectedVersion eventlog.VersionUint,
	events eventlog.StorableEvents,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// CTE resolving the current version of the stream at insert time.
	cteStmt := builder.
		From(el.eventTableName).
		Select(goqu.COALESCE(goqu.MAX(colVersion), 0).As(aliasCurrentVersion)).
		Where(goqu.Ex{colStreamType: streamType, colStreamID: streamID})

	// One SELECT per event, versions preassigned relative to expectedVersion.
	unionStatements := make([]*goqu.SelectDataset, len(events))
	for i, event := range events {
		unionStatements[i] = builder.
			Select(
				goqu.L(castText, streamType).As(colStreamType),
				goqu.L(castText, streamID).As(colStreamID),
				goqu.L(castBigint, expectedVersion+eventlog.VersionUint(i)+1).As(colVersion),
				goqu.L(castText, event.EventType).As(colEventType),
				goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, event.PayloadJSON).As(colPayload),
				goqu.L(castJsonb, event.MetadataJSON).As(colMetadata),
			)
	}

	valuesStmt := unionStatements[0]
	for i := 1; i < len(unionStatements); i++ {
		valuesStmt = valuesStmt.UnionAll(unionStatements[i])
	}

	valsCols := make([]any, 0, 7)
	for _, col := range []string{colStreamType, colStreamID, colVersion, colEventType, colOccurredAt, colPayload, colMetadata} {
		valsCols = append(valsCols, fmt.Sprintf("vals.%s", col))
	}

	insertStmt := builder.
		Insert(el.eventTableName).
		Cols(colStreamType, colStreamID, colVersion, colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With("vals", valuesStmt).
		FromQuery(
			builder.From(cteContext, "vals").
				Select(valsCols...).
				Where(goqu.C(aliasCurrentVersion).Eq(goqu.V(expectedVersion))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", toSQLErr
	}

	return sqlQuery, nil
}

// queryStoredEvents runs a SELECT that does not include the stream_id column
// because all rows belong to the given stream.
func (el *EventLog) queryStoredEvents(
	ctx context.Context,
	sqlQuery sqlQueryString,
	streamType eventlog.StreamTypeString,
	streamID eventlog.StreamIDString,
	action string,
) (eventlog.StoredEvents, error) {

	rows, err := el.executeQuery(ctx, sqlQuery, action)
	if err != nil {
		return nil, err
	}
	defer el.closeRows(rows)

	stream := make(eventlog.StoredEvents, 0)

	for rows.Next() {
		var (
			eventType      string
			occurredAt     time.Time
			payload        []byte
			metadata       []byte
			version        int64
			globalSequence int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &version, &globalSequence); scanErr != nil {
			el.logError(logMsgScanRowFailed, logAttrError, scanErr.Error())
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		stored, buildErr := buildStoredEvent(eventType, occurredAt, payload, metadata, streamType, streamID, version, globalSequence)
		if buildErr != nil {
			el.logError(logMsgBuildStorableEventFailed, logAttrError, buildErr.Error(), logAttrEventType, eventType)
			return nil, buildErr
		}

		stream = append(stream, stored)
	}

	return stream, nil
}

// queryStoredEventsWithStreamID runs a SELECT across streams, the stream_id
// column being the last one selected.
func (el *EventLog) queryStoredEventsWithStreamID(
	ctx context.Context,
	sqlQuery sqlQueryString,
	streamType eventlog.StreamTypeString,
	action string,
) (eventlog.StoredEvents, error) {

	rows, err := el.executeQuery(ctx, sqlQuery, action)
	if err != nil {
		return nil, err
	}
	defer el.closeRows(rows)

	batch := make(eventlog.StoredEvents, 0)

	for rows.Next() {
		var (
			eventType      string
			occurredAt     time.Time
			payload        []byte
			metadata       []byte
			version        int64
			globalSequence int64
			streamID       string
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &version, &globalSequence, &streamID); scanErr != nil {
			el.logError(logMsgScanRowFailed, logAttrError, scanErr.Error())
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		stored, buildErr := buildStoredEvent(eventType, occurredAt, payload, metadata, streamType, streamID, version, globalSequence)
		if buildErr != nil {
			el.logError(logMsgBuildStorableEventFailed, logAttrError, buildErr.Error(), logAttrEventType, eventType)
			return nil, buildErr
		}

		batch = append(batch, stored)
	}

	return batch, nil
}

func buildStoredEvent(
	eventType string,
	occurredAt time.Time,
	payload []byte,
	metadata []byte,
	streamType eventlog.StreamTypeString,
	streamID eventlog.StreamIDString,
	version int64,
	globalSequence int64,
) (eventlog.StoredEvent, error) {

	storable, err := eventlog.BuildStorableEvent(eventType, occurredAt, payload, metadata)
	if err != nil {
		return eventlog.StoredEvent{}, err
	}

	return eventlog.StoredEvent{
		StorableEvent:  storable,
		StreamType:     streamType,
		StreamID:       streamID,
		Version:        eventlog.VersionUint(version),
		GlobalSequence: eventlog.GlobalSequenceUint64(globalSequence),
	}, nil
}

func (el *EventLog) executeQuery(ctx context.Context, sqlQuery sqlQueryString, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := el.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	el.logQueryWithDuration(sqlQuery, action, duration)

	if queryErr != nil {
		el.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		return nil, errors.Join(ErrQueryingEventsFailed, queryErr)
	}

	return rows, nil
}

func (el *EventLog) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if el.logger != nil {
			el.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (el *EventLog) logQueryWithDuration(sqlQuery sqlQueryString, action string, duration time.Duration) {
	if el.logger != nil {
		el.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (el *EventLog) logOperation(action string, args ...any) {
	if el.logger != nil {
		el.logger.Info(logMsgOperation+action, args...)
	}
}

func (el *EventLog) logError(msg string, args ...any) {
	if el.logger != nil {
		el.logger.Error(msg, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

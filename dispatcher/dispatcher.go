// Package dispatcher delivers stored events to subscription groups.
//
// Each group tracks its own offset into a stream type's global sequence, so
// independent consumers (the saga coordinator, projections) progress at their
// own pace over the same log. Delivery is at-least-once: handlers must be
// idempotent. Within a group, events are delivered strictly in global
// sequence order by a single worker.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/shell"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

const (
	defaultPollInterval  = 100 * time.Millisecond
	defaultRetryDelay    = 250 * time.Millisecond
	defaultBatchSize     = 100
	defaultChannelBuffer = 64
)

const (
	logAttrGroupID        = "group_id"
	logAttrStreamType     = "stream_type"
	logAttrGlobalSequence = "global_sequence"
	logAttrEventType      = "event_type"
)

// EventLogReader is the read side of the event log needed by the Dispatcher.
type EventLogReader interface {
	ReadSince(
		ctx context.Context,
		streamType eventlog.StreamTypeString,
		afterGlobalSequence eventlog.GlobalSequenceUint64,
		limit int,
	) (eventlog.StoredEvents, error)
}

// HandlerFunc processes one delivered event. Returning a plain error causes
// redelivery after a delay; returning a Fatal-wrapped error parks the group.
type HandlerFunc func(ctx context.Context, event core.DomainEvent, stored eventlog.StoredEvent) error

type group struct {
	streamType eventlog.StreamTypeString
	groupID    string
	handler    HandlerFunc
	events     chan eventlog.StoredEvent
}

// Dispatcher polls the event log and feeds subscription groups through
// buffered channels, decoupling log reads from handler execution.
type Dispatcher struct {
	log           EventLogReader
	offsets       OffsetStore
	logger        eventlog.Logger
	pollInterval  time.Duration
	retryDelay    time.Duration
	batchSize     int
	channelBuffer int
	groups        []*group
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for operational logging.
func WithLogger(logger eventlog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithPollInterval sets the idle delay between polls of the event log.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		d.pollInterval = interval
	}
}

// WithRetryDelay sets the delay before redelivering an event after a handler error.
func WithRetryDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		d.retryDelay = delay
	}
}

// WithBatchSize sets how many events one poll reads at most.
func WithBatchSize(size int) Option {
	return func(d *Dispatcher) {
		d.batchSize = size
	}
}

// NewDispatcher creates a Dispatcher reading from the given log and tracking
// group offsets in the given store.
func NewDispatcher(log EventLogReader, offsets OffsetStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:           log,
		offsets:       offsets,
		pollInterval:  defaultPollInterval,
		retryDelay:    defaultRetryDelay,
		batchSize:     defaultBatchSize,
		channelBuffer: defaultChannelBuffer,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a handler for all events of a stream type under the
// given group id. Must be called before Start or CatchUp.
func (d *Dispatcher) Subscribe(streamType eventlog.StreamTypeString, groupID string, handler HandlerFunc) {
	d.groups = append(d.groups, &group{
		streamType: streamType,
		groupID:    groupID,
		handler:    handler,
		events:     make(chan eventlog.StoredEvent, d.channelBuffer),
	})
}

// Start launches one poller and one worker goroutine per subscription group
// and blocks until the context is canceled and all goroutines have stopped.
func (d *Dispatcher) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for _, g := range d.groups {
		wg.Add(2)

		go func(g *group) {
			defer wg.Done()
			d.poll(ctx, g)
		}(g)

		go func(g *group) {
			defer wg.Done()
			d.work(ctx, g)
		}(g)
	}

	wg.Wait()
}

// poll reads batches past the group's persisted offset and feeds the group's
// channel. It only consults the offset store on startup; afterwards it tracks
// the read position in memory, since the worker is the only acknowledger.
func (d *Dispatcher) poll(ctx context.Context, g *group) {
	defer close(g.events)

	since, err := d.offsets.Load(ctx, g.groupID)
	if err != nil {
		d.logError("loading subscription offset failed", err, g, 0)
		return
	}

	for {
		batch, readErr := d.log.ReadSince(ctx, g.streamType, since, d.batchSize)
		if readErr != nil {
			if ctx.Err() != nil {
				return
			}

			d.logError("reading event log failed", readErr, g, since)

			if !sleepCtx(ctx, d.pollInterval) {
				return
			}

			continue
		}

		for _, stored := range batch {
			select {
			case g.events <- stored:
				since = stored.GlobalSequence
			case <-ctx.Done():
				return
			}
		}

		if len(batch) < d.batchSize {
			if !sleepCtx(ctx, d.pollInterval) {
				return
			}
		}
	}
}

// work consumes the group's channel, delivering each event to the handler and
// acknowledging it in the offset store on success. Plain handler errors are
// retried in place; fatal errors park the group.
func (d *Dispatcher) work(ctx context.Context, g *group) {
	for stored := range g.events {
		if err := d.deliver(ctx, g, stored); err != nil {
			return // group parked, or context canceled
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, g *group, stored eventlog.StoredEvent) error {
	event, err := shell.DomainEventFrom(stored.StorableEvent)
	if err != nil {
		d.logError("parking group: undecodable event", err, g, stored.GlobalSequence)
		return err
	}

	for {
		handleErr := g.handler(ctx, event, stored)
		if handleErr == nil {
			break
		}

		if IsFatal(handleErr) {
			d.logError("parking group: fatal handler error", handleErr, g, stored.GlobalSequence)
			return handleErr
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		d.logWarn("handler error, will retry", handleErr, g, stored)

		if !sleepCtx(ctx, d.retryDelay) {
			return ctx.Err()
		}
	}

	if saveErr := d.offsets.Save(ctx, g.groupID, stored.GlobalSequence); saveErr != nil {
		d.logError("saving subscription offset failed", saveErr, g, stored.GlobalSequence)
		return saveErr
	}

	return nil
}

// CatchUp synchronously delivers all pending events across all groups until a
// full pass over every group makes no progress. Handlers may append events
// consumed by other groups, which is why passes repeat. A handler error stops
// the catch-up and is returned.
//
// CatchUp must not run concurrently with Start.
func (d *Dispatcher) CatchUp(ctx context.Context) error {
	for {
		progressed := false

		for _, g := range d.groups {
			since, err := d.offsets.Load(ctx, g.groupID)
			if err != nil {
				return err
			}

			batch, err := d.log.ReadSince(ctx, g.streamType, since, d.batchSize)
			if err != nil {
				return err
			}

			for _, stored := range batch {
				event, decodeErr := shell.DomainEventFrom(stored.StorableEvent)
				if decodeErr != nil {
					return decodeErr
				}

				if handleErr := g.handler(ctx, event, stored); handleErr != nil {
					return fmt.Errorf("group %s at sequence %d: %w", g.groupID, stored.GlobalSequence, handleErr)
				}

				if saveErr := d.offsets.Save(ctx, g.groupID, stored.GlobalSequence); saveErr != nil {
					return saveErr
				}

				progressed = true
			}
		}

		if !progressed {
			return nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) logError(msg string, err error, g *group, sequence eventlog.GlobalSequenceUint64) {
	if d.logger == nil {
		return
	}

	d.logger.Error(msg,
		"error", err.Error(),
		logAttrGroupID, g.groupID,
		logAttrStreamType, string(g.streamType),
		logAttrGlobalSequence, sequence,
	)
}

func (d *Dispatcher) logWarn(msg string, err error, g *group, stored eventlog.StoredEvent) {
	if d.logger == nil {
		return
	}

	d.logger.Warn(msg,
		"error", err.Error(),
		logAttrGroupID, g.groupID,
		logAttrEventType, stored.EventType,
		logAttrGlobalSequence, stored.GlobalSequence,
	)
}

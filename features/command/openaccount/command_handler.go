package openaccount

import (
	"context"

	"github.com/google/uuid"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/shell"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
)

// EventLog defines the interface needed by the CommandHandler for event log operations.
type EventLog interface {
	Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
		eventlog.StoredEvents,
		eventlog.VersionUint,
		error,
	)
	Append(
		ctx context.Context,
		streamType eventlog.StreamTypeString,
		streamID eventlog.StreamIDString,
		expectedVersion eventlog.VersionUint,
		events ...eventlog.StorableEvent,
	) error
}

// CommandHandler orchestrates the complete command processing workflow:
// Load -> Unmarshal -> Decide -> Append, with retry on concurrency conflicts.
type CommandHandler struct {
	eventLog     EventLog
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventLog EventLog, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventLog: eventLog,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// It delegates business logic to executeCommand and handles retry with
// exponential backoff on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	storedEvents, currentVersion, loadErr := h.eventLog.Load(ctx, core.AccountStreamType, command.AccountID.String())
	if loadErr != nil {
		return false, loadErr
	}

	history, unmarshalErr := shell.DomainEventsFrom(storedEvents)
	if unmarshalErr != nil {
		return false, unmarshalErr
	}

	result := Decide(history, command)

	if decideErr := result.HasError(); decideErr != nil {
		return false, decideErr
	}

	if !result.HasEventToAppend() {
		return true, nil // Idempotent - no event to append
	}

	messageID := uuid.New()
	eventMetadata := shell.BuildEventMetadata(messageID, messageID, messageID)

	storableEvent, marshalErr := shell.StorableEventFrom(result.Event, eventMetadata)
	if marshalErr != nil {
		return false, marshalErr
	}

	return false, h.eventLog.Append(ctx, core.AccountStreamType, command.AccountID.String(), currentVersion, storableEvent)
}

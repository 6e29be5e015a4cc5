package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided
// factory methods: IdempotentDecision(), SuccessDecision(event),
// RejectionDecision(event), or ErrorDecision(err).
// Do not construct DecisionResult directly to ensure type safety.
//
// The rejection outcome is what makes saga-issued commands safe: the business
// rule violation is recorded as an event to append, and the command itself
// succeeds so the asynchronous caller has nothing to catch. Direct commands
// use the error outcome instead, which appends nothing and surfaces the error
// to the synchronous caller.
type DecisionResult struct {
	Outcome string      // "idempotent", "success", "rejection", or "error"
	Event   DomainEvent // nil for idempotent and error decisions
	Err     error       // nil except for error decisions
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	rejectionOutcome  = "rejection"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult indicating a successful state change with an event to append.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// RejectionDecision creates a DecisionResult indicating a business rule violation
// on a saga-issued command: a rejection event to append, no error.
func RejectionDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: rejectionOutcome,
		Event:   event,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation
// on a direct command: an error for the caller, nothing to append.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventToAppend returns true if there is an event to append to the event log.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Event != nil
}

// IsIdempotent returns true if the decision requires no state change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}

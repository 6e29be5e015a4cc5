package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures the idempotency outcome and retry metadata without coupling the
// handler to a specific observability implementation.
type HandlerResult struct {
	// Idempotent indicates whether the operation was idempotent (no state change needed).
	// This is a first-class business outcome, not an error condition.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration
}

// NewSuccessResult creates a HandlerResult for successful operations (non-idempotent).
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:      false,
		RetryAttempts:   retryMetrics.Attempts,
		TotalRetryDelay: retryMetrics.TotalDelay,
	}
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:      true,
		RetryAttempts:   retryMetrics.Attempts,
		TotalRetryDelay: retryMetrics.TotalDelay,
	}
}

// NewErrorResult creates a HandlerResult for failed operations that still
// reports retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:      false,
		RetryAttempts:   retryMetrics.Attempts,
		TotalRetryDelay: retryMetrics.TotalDelay,
	}
}

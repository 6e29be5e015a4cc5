package dispatcher

import (
	"errors"
	"fmt"
)

// FatalError marks a handler failure that must not be retried. The dispatcher
// parks the subscription group that produced it: the event stays unacknowledged
// and no further events are delivered to that group until an operator restarts
// the process.
type FatalError struct {
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s", e.Err)
}

// Unwrap returns the wrapped error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps an error so the dispatcher parks the group instead of retrying.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return &FatalError{Err: err}
}

// IsFatal reports whether err is or wraps a FatalError.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

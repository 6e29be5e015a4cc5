package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexanderZavoykin/event-sourcing-bank/domain/core"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/bankaccountlookup"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
)

// respondError maps a domain or infrastructure error to an HTTP status.
//
// Malformed requests are 400, unknown resources 404, business rule violations
// 422, exhausted optimistic concurrency retries 409. Everything else is an
// internal error with no detail leaked to the client.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrNoSuchAccount),
		errors.Is(err, core.ErrNoSuchBankAccount),
		errors.Is(err, bankaccountlookup.ErrUnknownBankAccount),
		errors.Is(err, transferreadmodel.ErrTransferNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrLimitExceeded),
		errors.Is(err, core.ErrInvariantViolation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, eventlog.ErrConcurrencyConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

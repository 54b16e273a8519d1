package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loyalty-system/internal/metrics"
	"loyalty-system/internal/service"
)

// respondError maps domain errors onto HTTP statuses with a short
// human-readable message. Anything unmapped is a 500 with a generic body so
// internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrVoucherNotFound),
		errors.Is(err, service.ErrVoucherTypeNotFound),
		errors.Is(err, service.ErrTierNotFound),
		errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientPoints),
		errors.Is(err, service.ErrVoucherUsed),
		errors.Is(err, service.ErrVoucherExpired),
		errors.Is(err, service.ErrBelowThreshold),
		errors.Is(err, service.ErrBillRequired),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPhoneTaken),
		errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotStaff):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		// Transient: the caller may retry with the same idempotency key.
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "operation timed out"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// recordLedgerOp counts a ledger operation by outcome.
func recordLedgerOp(m *metrics.Metrics, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.LedgerOperations.WithLabelValues(op, outcome).Inc()
}

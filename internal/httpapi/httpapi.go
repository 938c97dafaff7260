// Package httpapi holds the shared HTTP plumbing: request IDs and the
// mapping from the application's error types to response codes.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collecthub/internal/scraper"
	"collecthub/internal/store"
)

// RequestID stamps every request with an X-Request-ID, generating one when
// the client did not send its own.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Error renders err with the status the error taxonomy prescribes:
// fetch and parse failures are the caller's problem (400), a missing
// document is 404, anything else is a database-side 500. Every body carries
// a human-readable detail string.
func Error(c *gin.Context, err error) {
	var fetchErr *scraper.FetchError
	var parseErr *scraper.ParseError

	switch {
	case errors.As(err, &parseErr), errors.As(err, &fetchErr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

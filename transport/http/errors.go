package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

type apiError struct {
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": apiError{Message: message}})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": apiError{Message: message}})
}

// statusForError maps domain errors to HTTP statuses with deliberately
// uninformative authentication messages: the caller never learns which
// sub-check failed.
func statusForError(err error, production bool) (int, string) {
	switch {
	case errors.Is(err, core.ErrAuthentication),
		errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrUnauthorizedWallet),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrInvalidSignature),
		errors.Is(err, core.ErrMalformedSignature):
		return http.StatusUnauthorized, "Invalid credentials"

	case errors.Is(err, core.ErrAuthorization):
		return http.StatusForbidden, "Insufficient permissions"

	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "Not found"

	case errors.Is(err, core.ErrChallengeConsumed),
		errors.Is(err, core.ErrChallengeExpired),
		errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidAddress),
		errors.Is(err, core.ErrCSRF):
		if production {
			return http.StatusBadRequest, "Invalid request data"
		}
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"

	default:
		if production {
			return http.StatusInternalServerError, "Internal server error"
		}
		return http.StatusInternalServerError, err.Error()
	}
}

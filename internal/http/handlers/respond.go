package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
)

// respondError maps domain errors to HTTP responses. Credential failures all
// collapse into the same 401 body so responses cannot be used to probe which
// accounts or factors exist.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Try again later."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrMFARequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "MFA code required", "mfa_required": true})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
	case errors.Is(err, domain.ErrMFAAlreadyEnabled),
		errors.Is(err, domain.ErrMFANotEnabled),
		errors.Is(err, domain.ErrMFASetupNotStarted),
		errors.Is(err, domain.ErrMFACodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMFAProofRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "Re-authentication required"})
	case errors.Is(err, domain.ErrInsufficientRole), errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// contextUserID returns the authenticated user id placed by the auth
// middleware.
func contextUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// contextSessionID returns the Redis session id placed by the auth
// middleware.
func contextSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

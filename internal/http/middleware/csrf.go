package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
)

// CSRFMiddleware requires a valid X-CSRF-Token header on state-changing
// requests. Safe methods pass through. Runs after AuthMiddleware, which puts
// the session id in the context.
func CSRFMiddleware(csrfSvc domain.CSRFService) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sessionID, exists := c.Get("session_id")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF validation requires a session"})
			c.Abort()
			return
		}

		token := c.GetHeader("X-CSRF-Token")
		if !csrfSvc.Validate(c.Request.Context(), sessionID.(string), token) {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token missing or invalid"})
			c.Abort()
			return
		}

		c.Next()
	}
}

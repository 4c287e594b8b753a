package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
)

// AuthHandlers handles authentication HTTP requests.
type AuthHandlers struct {
	authSvc domain.AuthService
	csrfSvc domain.CSRFService
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authSvc domain.AuthService, csrfSvc domain.CSRFService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, csrfSvc: csrfSvc}
}

// RegisterRequest represents a self-registration request.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request. MFA fields are optional; the
// service decides whether the account needs them.
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password"`
	MFACode    string `json:"mfa_code"`
	BackupCode string `json:"backup_code"`
}

// Register handles user registration.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "User registered successfully",
			"user_id": user.ID,
		},
	})
}

// Login handles user login, including the second factor when the account has
// MFA enabled.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &domain.LoginRequest{
		Username:   req.Username,
		Password:   req.Password,
		MFACode:    req.MFACode,
		BackupCode: req.BackupCode,
		ClientIP:   c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"csrf_token":   result.CSRFToken,
			"user": gin.H{
				"id":          result.User.ID,
				"username":    result.User.Username,
				"email":       result.User.Email,
				"role":        result.User.Role,
				"mfa_enabled": result.User.MFAEnabled,
				"last_login":  result.User.LastLogin,
			},
		},
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"role":        user.Role,
			"is_active":   user.IsActive,
			"mfa_enabled": user.MFAEnabled,
			"worker_id":   user.WorkerID,
			"last_login":  user.LastLogin,
			"created_at":  user.CreatedAt,
			"updated_at":  user.UpdatedAt,
		},
	})
}

// CSRFToken returns the CSRF token bound to the current session, for
// clients that lost the copy handed out at login. Issuing is idempotent,
// so refetching never rotates the token.
func (h *AuthHandlers) CSRFToken(c *gin.Context) {
	sessionID, ok := contextSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session ID not found in context"})
		return
	}

	token, err := h.csrfSvc.IssueForSession(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"csrf_token": token}})
}

// Logout destroys the current session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out successfully"}})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
)

// UserAdminHandlers handles administrator account management.
type UserAdminHandlers struct {
	userAdminSvc domain.UserAdminService
}

// NewUserAdminHandlers creates new user admin handlers.
func NewUserAdminHandlers(userAdminSvc domain.UserAdminService) *UserAdminHandlers {
	return &UserAdminHandlers{userAdminSvc: userAdminSvc}
}

// CreateUserRequest is the admin account-provisioning payload. Password may
// be empty for accounts that will authenticate with MFA alone.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required"`
	WorkerID *uint  `json:"worker_id"`
}

func userJSON(u *domain.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"role":        u.Role,
		"is_active":   u.IsActive,
		"mfa_enabled": u.MFAEnabled,
		"worker_id":   u.WorkerID,
		"last_login":  u.LastLogin,
		"created_at":  u.CreatedAt,
	}
}

// Create handles POST /admin/users. The MFA secret, QR code, and backup
// codes in the response are shown exactly once; the administrator hands them
// to the account holder out of band.
func (h *UserAdminHandlers) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, enrollment, backupCodes, err := h.userAdminSvc.CreateUser(
		c.Request.Context(), req.Username, req.Email, req.Password, req.Role, req.WorkerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user": userJSON(user),
			"mfa": gin.H{
				"secret":       enrollment.Secret,
				"qr_code":      enrollment.QRCode,
				"backup_codes": backupCodes,
			},
		},
	})
}

// List handles GET /admin/users.
func (h *UserAdminHandlers) List(c *gin.Context) {
	users, err := h.userAdminSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Get handles GET /admin/users/:id.
func (h *UserAdminHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userAdminSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": userJSON(user)})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PUT /admin/users/:id/active.
func (h *UserAdminHandlers) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userAdminSvc.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "User updated"}})
}

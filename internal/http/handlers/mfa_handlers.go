package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
)

// MFAHandlers handles the TOTP enrollment lifecycle for the authenticated
// user.
type MFAHandlers struct {
	authSvc domain.AuthService
}

// NewMFAHandlers creates new MFA handlers.
func NewMFAHandlers(authSvc domain.AuthService) *MFAHandlers {
	return &MFAHandlers{authSvc: authSvc}
}

// Setup starts enrollment: generates a secret and returns it with a QR code.
// MFA stays off until Enable proves the user's authenticator works.
func (h *MFAHandlers) Setup(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	enrollment, err := h.authSvc.SetupMFA(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"secret":  enrollment.Secret,
			"qr_code": enrollment.QRCode,
		},
	})
}

type mfaEnableRequest struct {
	Code string `json:"code" binding:"required"`
}

// Enable completes enrollment. The response carries the backup codes; they
// are never shown again.
func (h *MFAHandlers) Enable(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req mfaEnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	codes, err := h.authSvc.EnableMFA(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":      "MFA enabled",
			"backup_codes": codes,
		},
	})
}

type mfaDisableRequest struct {
	Password   string `json:"password"`
	MFACode    string `json:"mfa_code"`
	BackupCode string `json:"backup_code"`
}

// Disable turns MFA off after fresh proof of possession: password, TOTP
// code, or backup code.
func (h *MFAHandlers) Disable(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	var req mfaDisableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.DisableMFA(c.Request.Context(), userID, req.Password, req.MFACode, req.BackupCode); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "MFA disabled"}})
}

// RegenerateBackupCodes replaces the account's backup code set.
func (h *MFAHandlers) RegenerateBackupCodes(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	codes, err := h.authSvc.RegenerateBackupCodes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"backup_codes": codes}})
}

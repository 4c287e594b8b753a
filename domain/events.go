package domain

import "time"

// AuditEventType defines the type of security audit event.
type AuditEventType string

const (
	// Authentication events
	LoginSucceededEvent AuditEventType = "LOGIN_SUCCEEDED"
	LoginFailedEvent    AuditEventType = "LOGIN_FAILED"
	LoginRateLimited    AuditEventType = "LOGIN_RATE_LIMITED"
	UserRegisteredEvent AuditEventType = "USER_REGISTERED"
	UserLogoutEvent     AuditEventType = "USER_LOGOUT"

	// MFA lifecycle events
	MFASetupStartedEvent        AuditEventType = "MFA_SETUP_STARTED"
	MFAEnabledEvent             AuditEventType = "MFA_ENABLED"
	MFADisabledEvent            AuditEventType = "MFA_DISABLED"
	MFAVerifyFailedEvent        AuditEventType = "MFA_VERIFY_FAILED"
	BackupCodesRegeneratedEvent AuditEventType = "BACKUP_CODES_REGENERATED"
	DevBypassCodeUsedEvent      AuditEventType = "DEV_BYPASS_CODE_USED"
)

// AuditEvent is a security event record. The submitted password or code
// value is never carried on the event, only the username and outcome.
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	Username  string         `json:"username,omitempty"`
	UserID    uint           `json:"user_id,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	Detail    string         `json:"detail,omitempty"`
}

// AuditLogger records security events.
type AuditLogger interface {
	Log(event *AuditEvent)
}

// NewAuditEvent creates an audit event with common fields populated.
func NewAuditEvent(eventType AuditEventType, username string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Username:  username,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithFailure marks the event failed with a short reason.
func (e *AuditEvent) WithFailure(detail string) *AuditEvent {
	e.Success = false
	e.Detail = detail
	return e
}

// WithIP sets the client address.
func (e *AuditEvent) WithIP(ip string) *AuditEvent {
	e.IPAddress = ip
	return e
}

// WithUserID sets the account id.
func (e *AuditEvent) WithUserID(id uint) *AuditEvent {
	e.UserID = id
	return e
}

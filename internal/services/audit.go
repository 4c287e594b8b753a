package services

import (
	"log"

	"github.com/kensudogit/job-assistance/domain"
)

// LogAuditLogger implements domain.AuditLogger on the standard logger as
// structured single-line events.
type LogAuditLogger struct{}

// NewLogAuditLogger creates the default audit logger.
func NewLogAuditLogger() domain.AuditLogger {
	return &LogAuditLogger{}
}

// Log implements domain.AuditLogger.
func (l *LogAuditLogger) Log(event *domain.AuditEvent) {
	log.Printf("EVENT: type=%s username=%s user_id=%d ip=%s success=%t detail=%q",
		event.EventType, event.Username, event.UserID, event.IPAddress, event.Success, event.Detail)
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/kensudogit/job-assistance/domain"
)

const csrfTokenBytes = 32

// CSRFServiceImpl implements domain.CSRFService. Tokens live on the session
// record, so they expire with the session and every instance sees the same
// token.
type CSRFServiceImpl struct {
	sessionRepo domain.SessionRepository
}

// NewCSRFService creates a session-bound CSRF token service.
func NewCSRFService(sessionRepo domain.SessionRepository) domain.CSRFService {
	return &CSRFServiceImpl{sessionRepo: sessionRepo}
}

// IssueForSession implements domain.CSRFService. The first call mints a
// token and stores it on the session; later calls return the same token.
func (s *CSRFServiceImpl) IssueForSession(ctx context.Context, sessionID string) (string, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	session.CSRFToken = hex.EncodeToString(buf)

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store CSRF token: %w", err)
	}
	return session.CSRFToken, nil
}

// Validate implements domain.CSRFService. A missing session, an unissued
// token, or a mismatch all fail; the comparison is constant time.
func (s *CSRFServiceImpl) Validate(ctx context.Context, sessionID, token string) bool {
	if token == "" {
		return false
	}
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil || session.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(session.CSRFToken), []byte(token)) == 1
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/mocks"
)

// authServiceDeps bundles the mock dependencies so each test can override
// only what it cares about.
type authServiceDeps struct {
	userRepo    *mocks.MockUserRepository
	workerRepo  *mocks.MockWorkerRepository
	sessionRepo *mocks.MockSessionRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	mfaSvc      *mocks.MockMFAService
	csrfSvc     *mocks.MockCSRFService
	rateLimiter *mocks.MockRateLimiter
	notifySvc   *mocks.MockNotificationService
	encryptor   *mocks.MockFieldEncryptor
	audit       *mocks.MockAuditLogger
}

func newAuthServiceDeps(t *testing.T) *authServiceDeps {
	t.Helper()
	return &authServiceDeps{
		userRepo:    mocks.NewMockUserRepository(),
		workerRepo:  mocks.NewMockWorkerRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		mfaSvc:      mocks.NewMockMFAService(),
		csrfSvc:     mocks.NewMockCSRFService(),
		rateLimiter: mocks.NewMockRateLimiter(),
		notifySvc:   mocks.NewMockNotificationService(),
		encryptor:   mocks.NewMockFieldEncryptor(),
		audit:       mocks.NewMockAuditLogger(),
	}
}

func (d *authServiceDeps) build(config AuthConfig) domain.AuthService {
	if config.SessionTTL == 0 {
		config.SessionTTL = time.Hour
	}
	if config.AccessTTL == 0 {
		config.AccessTTL = 15 * time.Minute
	}
	return NewAuthService(
		d.userRepo, d.workerRepo, d.sessionRepo, d.passwordSvc, d.tokenSvc,
		d.mfaSvc, d.csrfSvc, d.rateLimiter, d.notifySvc, d.encryptor,
		d.audit, config,
	)
}

// createValidUser creates an active password-only account.
func createValidUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           1,
		Username:     "tanaka",
		Email:        "tanaka@example.com",
		PasswordHash: "hashed_password123",
		Role:         domain.RoleTrainee,
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createMFAUser creates an active account with MFA enabled on top of its
// password.
func createMFAUser(t *testing.T) *domain.User {
	t.Helper()
	user := createValidUser(t)
	user.MFAEnabled = true
	user.MFASecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
	user.BackupCodes = []string{"aabbccdd", "11223344"}
	return user
}

func createTestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// findUserByName wires the user repo to return the given user for its
// username and not-found for anything else.
func findUserByName(repo *mocks.MockUserRepository, user *domain.User) {
	repo.FindByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
		if username == user.Username {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
}

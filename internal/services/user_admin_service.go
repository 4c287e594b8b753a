package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// UserAdminServiceImpl implements domain.UserAdminService.
type UserAdminServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	mfaSvc      domain.MFAService
	audit       domain.AuditLogger
}

// NewUserAdminService creates the administrator account-management service.
func NewUserAdminService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	mfaSvc domain.MFAService,
	audit domain.AuditLogger,
) domain.UserAdminService {
	return &UserAdminServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		mfaSvc:      mfaSvc,
		audit:       audit,
	}
}

var validRoles = map[string]struct{}{
	domain.RoleAdministrator: {},
	domain.RoleAuditor:       {},
	domain.RoleTrainee:       {},
}

// CreateUser implements domain.UserAdminService. Accounts provisioned by an
// administrator come back with MFA already enabled; the secret and backup
// codes in the response are the only time they are ever shown.
func (s *UserAdminServiceImpl) CreateUser(ctx context.Context, username, email, password, role string, workerID *uint) (*domain.User, *domain.MFAEnrollment, []string, error) {
	if _, err := validation.String(username, 80); err != nil {
		return nil, nil, nil, err
	}
	if _, err := validation.Email(email, 255); err != nil {
		return nil, nil, nil, err
	}
	if _, ok := validRoles[role]; !ok {
		return nil, nil, nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}

	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, nil, nil, domain.ErrUserAlreadyExists
	}
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, nil, domain.ErrUserAlreadyExists
	}

	var hashed string
	if password != "" {
		if err := validation.PasswordStrength(password); err != nil {
			return nil, nil, nil, err
		}
		var err error
		hashed, err = s.passwordSvc.Hash(password)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	secret, err := s.mfaSvc.GenerateSecret()
	if err != nil {
		return nil, nil, nil, err
	}
	qr, err := s.mfaSvc.EnrollmentQR(secret, email)
	if err != nil {
		return nil, nil, nil, err
	}
	backupCodes, err := s.mfaSvc.GenerateBackupCodes(BackupCodeSets)
	if err != nil {
		return nil, nil, nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		MFAEnabled:   true,
		MFASecret:    secret,
		BackupCodes:  backupCodes,
		IsActive:     true,
		WorkerID:     workerID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.UserRegisteredEvent, username).WithUserID(user.ID))
	s.audit.Log(domain.NewAuditEvent(domain.MFAEnabledEvent, username).WithUserID(user.ID))

	return user, &domain.MFAEnrollment{Secret: secret, QRCode: qr}, backupCodes, nil
}

// ListUsers implements domain.UserAdminService.
func (s *UserAdminServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.FindAll(ctx)
}

// GetUser implements domain.UserAdminService.
func (s *UserAdminServiceImpl) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// SetUserActive implements domain.UserAdminService. Deactivation blocks
// login without destroying the account's credentials or MFA enrollment.
func (s *UserAdminServiceImpl) SetUserActive(ctx context.Context, id uint, active bool) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

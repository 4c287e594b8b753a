package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// AuthConfig controls session lifetimes and the development MFA bypass.
// DevMFABypass must stay false outside local development; config loading
// refuses it in production mode.
type AuthConfig struct {
	SessionTTL   time.Duration
	AccessTTL    time.Duration
	DevMFABypass bool
}

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	workerRepo  domain.WorkerRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	mfaSvc      domain.MFAService
	csrfSvc     domain.CSRFService
	rateLimiter domain.RateLimiter
	notifySvc   domain.NotificationService
	encryptor   domain.FieldEncryptor
	audit       domain.AuditLogger
	config      AuthConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo domain.UserRepository,
	workerRepo domain.WorkerRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	mfaSvc domain.MFAService,
	csrfSvc domain.CSRFService,
	rateLimiter domain.RateLimiter,
	notifySvc domain.NotificationService,
	encryptor domain.FieldEncryptor,
	audit domain.AuditLogger,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		workerRepo:  workerRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		mfaSvc:      mfaSvc,
		csrfSvc:     csrfSvc,
		rateLimiter: rateLimiter,
		notifySvc:   notifySvc,
		encryptor:   encryptor,
		audit:       audit,
		config:      config,
	}
}

// Register implements domain.AuthService. Self-registered accounts always
// start as trainees; privileged accounts are created through the admin API.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := validation.String(username, 80); err != nil {
		return nil, err
	}
	if _, err := validation.Email(email, 255); err != nil {
		return nil, err
	}
	if err := validation.PasswordStrength(password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleTrainee,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.UserRegisteredEvent, username).WithUserID(user.ID))
	return user, nil
}

// Login implements domain.AuthService. Every credential failure surfaces as
// domain.ErrInvalidCredentials so responses cannot be used to probe which
// accounts exist; the one exception is domain.ErrMFARequired, which tells a
// correctly-passworded client to submit its second factor.
func (s *AuthServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResult, error) {
	allowed, err := s.rateLimiter.Allow(ctx, limiterKey(req))
	if err != nil {
		return nil, fmt.Errorf("rate limiter unavailable: %w", err)
	}
	if !allowed {
		s.audit.Log(domain.NewAuditEvent(domain.LoginRateLimited, req.Username).WithIP(req.ClientIP).WithFailure("too many attempts"))
		return nil, domain.ErrRateLimited
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logLoginFailure(req, "unknown user")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logLoginFailure(req, "inactive account")
		return nil, domain.ErrInvalidCredentials
	}

	if user.HasPassword() {
		if req.Password == "" || !s.passwordSvc.Verify(user.PasswordHash, req.Password) {
			s.logLoginFailure(req, "bad password")
			return nil, domain.ErrInvalidCredentials
		}
	} else if !user.MFAEnabled {
		// No factor on record at all; nothing can authenticate this account.
		s.logLoginFailure(req, "no credentials on account")
		return nil, domain.ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if req.MFACode == "" && req.BackupCode == "" {
			return nil, domain.ErrMFARequired
		}
		if !s.verifySecondFactor(ctx, user, req) {
			s.audit.Log(domain.NewAuditEvent(domain.MFAVerifyFailedEvent, user.Username).WithUserID(user.ID).WithIP(req.ClientIP).WithFailure("invalid code"))
			s.logLoginFailure(req, "bad MFA code")
			return nil, domain.ErrInvalidCredentials
		}
	}

	if err := s.rateLimiter.Reset(ctx, limiterKey(req)); err != nil {
		log.Printf("WARN: failed to reset rate limit for %s: %v", req.Username, err)
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.config.SessionTTL),
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	csrfToken, err := s.csrfSvc.IssueForSession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue CSRF token: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("WARN: failed to record last login for user %d: %v", user.ID, err)
	}
	user.LastLogin = &now

	s.audit.Log(domain.NewAuditEvent(domain.LoginSucceededEvent, user.Username).WithUserID(user.ID).WithIP(req.ClientIP))

	return &domain.AuthResult{
		User:        user,
		AccessToken: accessToken,
		SessionID:   session.ID,
		CSRFToken:   csrfToken,
		ExpiresIn:   int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// verifySecondFactor checks the submitted TOTP or backup code. A consumed
// backup code is persisted immediately so it can never be replayed.
func (s *AuthServiceImpl) verifySecondFactor(ctx context.Context, user *domain.User, req *domain.LoginRequest) bool {
	if req.MFACode != "" {
		if s.config.DevMFABypass && isDevBypassCode(req.MFACode) {
			s.audit.Log(domain.NewAuditEvent(domain.DevBypassCodeUsedEvent, user.Username).WithUserID(user.ID).WithIP(req.ClientIP))
			return true
		}
		if s.mfaSvc.VerifyTOTP(user.MFASecret, req.MFACode) {
			return true
		}
	}
	if req.BackupCode != "" {
		ok, remaining := s.mfaSvc.VerifyBackupCode(user.BackupCodes, req.BackupCode)
		if ok {
			user.BackupCodes = remaining
			if err := s.userRepo.Update(ctx, user); err != nil {
				log.Printf("ERROR: failed to consume backup code for user %d: %v", user.ID, err)
				return false
			}
			return true
		}
	}
	return false
}

// limiterKey picks the rate-limit identifier: the caller's address, so one
// attacker cannot lock out an account, with the username as a fallback when
// no address is available.
func limiterKey(req *domain.LoginRequest) string {
	if req.ClientIP != "" {
		return req.ClientIP
	}
	return req.Username
}

func (s *AuthServiceImpl) logLoginFailure(req *domain.LoginRequest, detail string) {
	s.audit.Log(domain.NewAuditEvent(domain.LoginFailedEvent, req.Username).WithIP(req.ClientIP).WithFailure(detail))
}

// Logout implements domain.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.audit.Log(domain.NewAuditEvent(domain.UserLogoutEvent, "").WithUserID(session.UserID))
	return nil
}

// GetUserProfile implements domain.AuthService.
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// SetupMFA implements domain.AuthService. It moves the account from disabled
// to secret_generated: the secret is stored but MFA stays off until the user
// proves possession with EnableMFA. Calling it again before enabling rotates
// the pending secret.
func (s *AuthServiceImpl) SetupMFA(ctx context.Context, userID uint) (*domain.MFAEnrollment, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, domain.ErrMFAAlreadyEnabled
	}

	secret, err := s.mfaSvc.GenerateSecret()
	if err != nil {
		return nil, err
	}
	qr, err := s.mfaSvc.EnrollmentQR(secret, user.Email)
	if err != nil {
		return nil, err
	}

	user.MFASecret = secret
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.MFASetupStartedEvent, user.Username).WithUserID(user.ID))
	return &domain.MFAEnrollment{Secret: secret, QRCode: qr}, nil
}

// EnableMFA implements domain.AuthService. The code must verify against the
// pending secret; the returned backup codes are shown to the user exactly
// once.
func (s *AuthServiceImpl) EnableMFA(ctx context.Context, userID uint, code string) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, domain.ErrMFAAlreadyEnabled
	}
	if user.MFASecret == "" {
		return nil, domain.ErrMFASetupNotStarted
	}

	if !s.verifyEnrollmentCode(user, code) {
		s.audit.Log(domain.NewAuditEvent(domain.MFAVerifyFailedEvent, user.Username).WithUserID(user.ID).WithFailure("enrollment code rejected"))
		return nil, domain.ErrMFACodeInvalid
	}

	codes, err := s.mfaSvc.GenerateBackupCodes(BackupCodeSets)
	if err != nil {
		return nil, err
	}

	user.MFAEnabled = true
	user.BackupCodes = codes
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to enable MFA: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.MFAEnabledEvent, user.Username).WithUserID(user.ID))
	return codes, nil
}

func (s *AuthServiceImpl) verifyEnrollmentCode(user *domain.User, code string) bool {
	if s.config.DevMFABypass && isDevBypassCode(code) {
		s.audit.Log(domain.NewAuditEvent(domain.DevBypassCodeUsedEvent, user.Username).WithUserID(user.ID))
		return true
	}
	return s.mfaSvc.VerifyTOTP(user.MFASecret, code)
}

// DisableMFA implements domain.AuthService. Turning MFA off demands fresh
// proof of possession: any one of the account password, a valid TOTP code,
// or an unused backup code. A bearer token alone is not enough.
func (s *AuthServiceImpl) DisableMFA(ctx context.Context, userID uint, password, mfaCode, backupCode string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled {
		return domain.ErrMFANotEnabled
	}

	proven := false
	if password != "" && user.HasPassword() && s.passwordSvc.Verify(user.PasswordHash, password) {
		proven = true
	}
	if !proven && mfaCode != "" && s.verifyEnrollmentCode(user, mfaCode) {
		proven = true
	}
	if !proven && backupCode != "" {
		ok, remaining := s.mfaSvc.VerifyBackupCode(user.BackupCodes, backupCode)
		if ok {
			user.BackupCodes = remaining
			proven = true
		}
	}
	if !proven {
		s.audit.Log(domain.NewAuditEvent(domain.MFAVerifyFailedEvent, user.Username).WithUserID(user.ID).WithFailure("disable proof rejected"))
		return domain.ErrMFAProofRequired
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	user.BackupCodes = nil
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to disable MFA: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.MFADisabledEvent, user.Username).WithUserID(user.ID))
	s.sendSecurityAlert(ctx, user, "Two-factor authentication was disabled on your training account. Contact support if this was not you.")
	return nil
}

// RegenerateBackupCodes implements domain.AuthService. The previous set is
// invalidated in full.
func (s *AuthServiceImpl) RegenerateBackupCodes(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.MFAEnabled {
		return nil, domain.ErrMFANotEnabled
	}

	codes, err := s.mfaSvc.GenerateBackupCodes(BackupCodeSets)
	if err != nil {
		return nil, err
	}
	user.BackupCodes = codes
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store backup codes: %w", err)
	}

	s.audit.Log(domain.NewAuditEvent(domain.BackupCodesRegeneratedEvent, user.Username).WithUserID(user.ID))
	s.sendSecurityAlert(ctx, user, "Your backup codes were regenerated. The old codes no longer work.")
	return codes, nil
}

// sendSecurityAlert texts the linked worker's phone about a security-relevant
// account change. Alert delivery is best effort and never fails the request.
func (s *AuthServiceImpl) sendSecurityAlert(ctx context.Context, user *domain.User, message string) {
	if user.WorkerID == nil {
		return
	}
	worker, err := s.workerRepo.FindByID(ctx, *user.WorkerID)
	if err != nil {
		return
	}
	phone := s.encryptor.Decrypt(worker.Phone)
	if phone == "" {
		return
	}
	if err := s.notifySvc.SendSMS(phone, message); err != nil {
		log.Printf("WARN: failed to send security alert SMS for user %d: %v", user.ID, err)
	}
}

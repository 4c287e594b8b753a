// Package mocks provides function-field test doubles for the domain
// interfaces. Each mock returns a neutral default until the test assigns the
// corresponding Func field.
package mocks

import (
	"context"
	"time"

	"github.com/kensudogit/job-assistance/domain"
)

// MockUserRepository implements domain.UserRepository.
type MockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *domain.User) error
	FindByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	FindByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc        func(ctx context.Context, id uint) (*domain.User, error)
	FindAllFunc         func(ctx context.Context) ([]*domain.User, error)
	UpdateFunc          func(ctx context.Context, user *domain.User) error
	UpdateLastLoginFunc func(ctx context.Context, userID uint, at time.Time) error
}

// NewMockUserRepository creates a mock user repository.
func NewMockUserRepository() *MockUserRepository { return &MockUserRepository{} }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, userID, at)
	}
	return nil
}

// MockWorkerRepository implements domain.WorkerRepository.
type MockWorkerRepository struct {
	CreateFunc  func(ctx context.Context, worker *domain.Worker) error
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Worker, error)
	FindAllFunc func(ctx context.Context) ([]*domain.Worker, error)
	UpdateFunc  func(ctx context.Context, worker *domain.Worker) error
	DeleteFunc  func(ctx context.Context, id uint) error

	CreateProgressNoteFunc func(ctx context.Context, note *domain.ProgressNote) error
	FindProgressNotesFunc  func(ctx context.Context, workerID uint) ([]*domain.ProgressNote, error)
	FindProgressNoteFunc   func(ctx context.Context, workerID, noteID uint) (*domain.ProgressNote, error)
	UpdateProgressNoteFunc func(ctx context.Context, note *domain.ProgressNote) error
	DeleteProgressNoteFunc func(ctx context.Context, workerID, noteID uint) error

	CreateProficiencyFunc func(ctx context.Context, p *domain.JapaneseProficiency) error
	FindProficienciesFunc func(ctx context.Context, workerID uint) ([]*domain.JapaneseProficiency, error)
	UpdateProficiencyFunc func(ctx context.Context, p *domain.JapaneseProficiency) error
	DeleteProficiencyFunc func(ctx context.Context, workerID, profID uint) error
}

// NewMockWorkerRepository creates a mock worker repository.
func NewMockWorkerRepository() *MockWorkerRepository { return &MockWorkerRepository{} }

func (m *MockWorkerRepository) Create(ctx context.Context, worker *domain.Worker) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, worker)
	}
	return nil
}

func (m *MockWorkerRepository) FindByID(ctx context.Context, id uint) (*domain.Worker, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockWorkerRepository) FindAll(ctx context.Context) ([]*domain.Worker, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockWorkerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, worker)
	}
	return nil
}

func (m *MockWorkerRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockWorkerRepository) CreateProgressNote(ctx context.Context, note *domain.ProgressNote) error {
	if m.CreateProgressNoteFunc != nil {
		return m.CreateProgressNoteFunc(ctx, note)
	}
	return nil
}

func (m *MockWorkerRepository) FindProgressNotes(ctx context.Context, workerID uint) ([]*domain.ProgressNote, error) {
	if m.FindProgressNotesFunc != nil {
		return m.FindProgressNotesFunc(ctx, workerID)
	}
	return nil, nil
}

func (m *MockWorkerRepository) FindProgressNote(ctx context.Context, workerID, noteID uint) (*domain.ProgressNote, error) {
	if m.FindProgressNoteFunc != nil {
		return m.FindProgressNoteFunc(ctx, workerID, noteID)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockWorkerRepository) UpdateProgressNote(ctx context.Context, note *domain.ProgressNote) error {
	if m.UpdateProgressNoteFunc != nil {
		return m.UpdateProgressNoteFunc(ctx, note)
	}
	return nil
}

func (m *MockWorkerRepository) DeleteProgressNote(ctx context.Context, workerID, noteID uint) error {
	if m.DeleteProgressNoteFunc != nil {
		return m.DeleteProgressNoteFunc(ctx, workerID, noteID)
	}
	return nil
}

func (m *MockWorkerRepository) CreateProficiency(ctx context.Context, p *domain.JapaneseProficiency) error {
	if m.CreateProficiencyFunc != nil {
		return m.CreateProficiencyFunc(ctx, p)
	}
	return nil
}

func (m *MockWorkerRepository) FindProficiencies(ctx context.Context, workerID uint) ([]*domain.JapaneseProficiency, error) {
	if m.FindProficienciesFunc != nil {
		return m.FindProficienciesFunc(ctx, workerID)
	}
	return nil, nil
}

func (m *MockWorkerRepository) UpdateProficiency(ctx context.Context, p *domain.JapaneseProficiency) error {
	if m.UpdateProficiencyFunc != nil {
		return m.UpdateProficiencyFunc(ctx, p)
	}
	return nil
}

func (m *MockWorkerRepository) DeleteProficiency(ctx context.Context, workerID, profID uint) error {
	if m.DeleteProficiencyFunc != nil {
		return m.DeleteProficiencyFunc(ctx, workerID, profID)
	}
	return nil
}

// MockTrainingRepository implements domain.TrainingRepository.
type MockTrainingRepository struct {
	CreateMenuFunc   func(ctx context.Context, menu *domain.TrainingMenu) error
	FindMenuByIDFunc func(ctx context.Context, id uint) (*domain.TrainingMenu, error)
	FindMenusFunc    func(ctx context.Context) ([]*domain.TrainingMenu, error)
	UpdateMenuFunc   func(ctx context.Context, menu *domain.TrainingMenu) error
	DeleteMenuFunc   func(ctx context.Context, id uint) error

	UpsertSessionFunc           func(ctx context.Context, session *domain.TrainingSession) error
	FindSessionByExternalIDFunc func(ctx context.Context, sessionID string) (*domain.TrainingSession, error)
	FindSessionsByWorkerFunc    func(ctx context.Context, workerID uint) ([]*domain.TrainingSession, error)
	SaveKPIScoreFunc            func(ctx context.Context, score *domain.KPIScore) error
}

// NewMockTrainingRepository creates a mock training repository.
func NewMockTrainingRepository() *MockTrainingRepository { return &MockTrainingRepository{} }

func (m *MockTrainingRepository) CreateMenu(ctx context.Context, menu *domain.TrainingMenu) error {
	if m.CreateMenuFunc != nil {
		return m.CreateMenuFunc(ctx, menu)
	}
	return nil
}

func (m *MockTrainingRepository) FindMenuByID(ctx context.Context, id uint) (*domain.TrainingMenu, error) {
	if m.FindMenuByIDFunc != nil {
		return m.FindMenuByIDFunc(ctx, id)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockTrainingRepository) FindMenus(ctx context.Context) ([]*domain.TrainingMenu, error) {
	if m.FindMenusFunc != nil {
		return m.FindMenusFunc(ctx)
	}
	return nil, nil
}

func (m *MockTrainingRepository) UpdateMenu(ctx context.Context, menu *domain.TrainingMenu) error {
	if m.UpdateMenuFunc != nil {
		return m.UpdateMenuFunc(ctx, menu)
	}
	return nil
}

func (m *MockTrainingRepository) DeleteMenu(ctx context.Context, id uint) error {
	if m.DeleteMenuFunc != nil {
		return m.DeleteMenuFunc(ctx, id)
	}
	return nil
}

func (m *MockTrainingRepository) UpsertSession(ctx context.Context, session *domain.TrainingSession) error {
	if m.UpsertSessionFunc != nil {
		return m.UpsertSessionFunc(ctx, session)
	}
	return nil
}

func (m *MockTrainingRepository) FindSessionByExternalID(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	if m.FindSessionByExternalIDFunc != nil {
		return m.FindSessionByExternalIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockTrainingRepository) FindSessionsByWorker(ctx context.Context, workerID uint) ([]*domain.TrainingSession, error) {
	if m.FindSessionsByWorkerFunc != nil {
		return m.FindSessionsByWorkerFunc(ctx, workerID)
	}
	return nil, nil
}

func (m *MockTrainingRepository) SaveKPIScore(ctx context.Context, score *domain.KPIScore) error {
	if m.SaveKPIScoreFunc != nil {
		return m.SaveKPIScoreFunc(ctx, score)
	}
	return nil
}

// MockSessionRepository implements domain.SessionRepository.
type MockSessionRepository struct {
	CreateFunc   func(ctx context.Context, session *domain.Session) error
	FindByIDFunc func(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateFunc   func(ctx context.Context, session *domain.Session) error
	DeleteFunc   func(ctx context.Context, sessionID string) error
}

// NewMockSessionRepository creates a mock session repository.
func NewMockSessionRepository() *MockSessionRepository { return &MockSessionRepository{} }

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	return nil
}

// MockPasswordService implements domain.PasswordService.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(storedHash, password string) bool
}

// NewMockPasswordService creates a mock password service.
func NewMockPasswordService() *MockPasswordService { return &MockPasswordService{} }

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordService) Verify(storedHash, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(storedHash, password)
	}
	return storedHash == "hashed_"+password
}

// MockTokenService implements domain.TokenService.
type MockTokenService struct {
	GenerateAccessTokenFunc func(userID uint, role string, sessionID string) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a mock token service.
func NewMockTokenService() *MockTokenService { return &MockTokenService{} }

func (m *MockTokenService) GenerateAccessToken(userID uint, role string, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, role, sessionID)
	}
	return "access_token", nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// MockMFAService implements domain.MFAService.
type MockMFAService struct {
	GenerateSecretFunc      func() (string, error)
	EnrollmentQRFunc        func(secret, accountLabel string) (string, error)
	VerifyTOTPFunc          func(secret, code string) bool
	GenerateBackupCodesFunc func(count int) ([]string, error)
	VerifyBackupCodeFunc    func(stored []string, submitted string) (bool, []string)
}

// NewMockMFAService creates a mock MFA service.
func NewMockMFAService() *MockMFAService { return &MockMFAService{} }

func (m *MockMFAService) GenerateSecret() (string, error) {
	if m.GenerateSecretFunc != nil {
		return m.GenerateSecretFunc()
	}
	return "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP", nil
}

func (m *MockMFAService) EnrollmentQR(secret, accountLabel string) (string, error) {
	if m.EnrollmentQRFunc != nil {
		return m.EnrollmentQRFunc(secret, accountLabel)
	}
	return "data:image/png;base64,mock", nil
}

func (m *MockMFAService) VerifyTOTP(secret, code string) bool {
	if m.VerifyTOTPFunc != nil {
		return m.VerifyTOTPFunc(secret, code)
	}
	return false
}

func (m *MockMFAService) GenerateBackupCodes(count int) ([]string, error) {
	if m.GenerateBackupCodesFunc != nil {
		return m.GenerateBackupCodesFunc(count)
	}
	codes := make([]string, count)
	for i := range codes {
		codes[i] = "0000000" + string(rune('0'+i%10))
	}
	return codes, nil
}

func (m *MockMFAService) VerifyBackupCode(stored []string, submitted string) (bool, []string) {
	if m.VerifyBackupCodeFunc != nil {
		return m.VerifyBackupCodeFunc(stored, submitted)
	}
	return false, stored
}

// MockCSRFService implements domain.CSRFService.
type MockCSRFService struct {
	IssueForSessionFunc func(ctx context.Context, sessionID string) (string, error)
	ValidateFunc        func(ctx context.Context, sessionID, token string) bool
}

// NewMockCSRFService creates a mock CSRF service.
func NewMockCSRFService() *MockCSRFService { return &MockCSRFService{} }

func (m *MockCSRFService) IssueForSession(ctx context.Context, sessionID string) (string, error) {
	if m.IssueForSessionFunc != nil {
		return m.IssueForSessionFunc(ctx, sessionID)
	}
	return "csrf_token", nil
}

func (m *MockCSRFService) Validate(ctx context.Context, sessionID, token string) bool {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, sessionID, token)
	}
	return token == "csrf_token"
}

// MockRateLimiter implements domain.RateLimiter.
type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, identifier string) (bool, error)
	ResetFunc func(ctx context.Context, identifier string) error
}

// NewMockRateLimiter creates a mock rate limiter that allows everything.
func NewMockRateLimiter() *MockRateLimiter { return &MockRateLimiter{} }

func (m *MockRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, identifier)
	}
	return true, nil
}

func (m *MockRateLimiter) Reset(ctx context.Context, identifier string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, identifier)
	}
	return nil
}

// MockFieldEncryptor implements domain.FieldEncryptor as a reversible prefix
// so tests can tell plaintext from "ciphertext".
type MockFieldEncryptor struct {
	EncryptFunc func(plaintext string) string
	DecryptFunc func(ciphertext string) string
}

// NewMockFieldEncryptor creates a mock field encryptor.
func NewMockFieldEncryptor() *MockFieldEncryptor { return &MockFieldEncryptor{} }

func (m *MockFieldEncryptor) Encrypt(plaintext string) string {
	if m.EncryptFunc != nil {
		return m.EncryptFunc(plaintext)
	}
	if plaintext == "" {
		return ""
	}
	return "enc:" + plaintext
}

func (m *MockFieldEncryptor) Decrypt(ciphertext string) string {
	if m.DecryptFunc != nil {
		return m.DecryptFunc(ciphertext)
	}
	if len(ciphertext) > 4 && ciphertext[:4] == "enc:" {
		return ciphertext[4:]
	}
	return ciphertext
}

// MockNotificationService implements domain.NotificationService.
type MockNotificationService struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error
	SentSMS       []string
}

// NewMockNotificationService creates a mock notification service.
func NewMockNotificationService() *MockNotificationService { return &MockNotificationService{} }

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.SentSMS = append(m.SentSMS, to+": "+message)
	return nil
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

// MockAuditLogger implements domain.AuditLogger and records every event.
type MockAuditLogger struct {
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a recording audit logger.
func NewMockAuditLogger() *MockAuditLogger { return &MockAuditLogger{} }

func (m *MockAuditLogger) Log(event *domain.AuditEvent) {
	m.Events = append(m.Events, event)
}

// Has reports whether an event of the given type was recorded.
func (m *MockAuditLogger) Has(eventType domain.AuditEventType) bool {
	for _, e := range m.Events {
		if e.EventType == eventType {
			return true
		}
	}
	return false
}

// MockCasbinEnforcer implements domain.CasbinEnforcer.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
}

// NewMockCasbinEnforcer creates a mock Casbin enforcer.
func NewMockCasbinEnforcer() *MockCasbinEnforcer { return &MockCasbinEnforcer{} }

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	return true, nil
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	return nil, nil
}

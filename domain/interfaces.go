package domain

import (
	"context"
	"time"
)

// UserRepository defines credential store access.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// WorkerRepository defines worker profile data access, including the
// per-worker progress notes and proficiency records.
type WorkerRepository interface {
	Create(ctx context.Context, worker *Worker) error
	FindByID(ctx context.Context, id uint) (*Worker, error)
	FindAll(ctx context.Context) ([]*Worker, error)
	Update(ctx context.Context, worker *Worker) error
	Delete(ctx context.Context, id uint) error

	CreateProgressNote(ctx context.Context, note *ProgressNote) error
	FindProgressNotes(ctx context.Context, workerID uint) ([]*ProgressNote, error)
	FindProgressNote(ctx context.Context, workerID, noteID uint) (*ProgressNote, error)
	UpdateProgressNote(ctx context.Context, note *ProgressNote) error
	DeleteProgressNote(ctx context.Context, workerID, noteID uint) error

	CreateProficiency(ctx context.Context, p *JapaneseProficiency) error
	FindProficiencies(ctx context.Context, workerID uint) ([]*JapaneseProficiency, error)
	UpdateProficiency(ctx context.Context, p *JapaneseProficiency) error
	DeleteProficiency(ctx context.Context, workerID, profID uint) error
}

// TrainingRepository defines training menu, session, and KPI data access.
type TrainingRepository interface {
	CreateMenu(ctx context.Context, menu *TrainingMenu) error
	FindMenuByID(ctx context.Context, id uint) (*TrainingMenu, error)
	FindMenus(ctx context.Context) ([]*TrainingMenu, error)
	UpdateMenu(ctx context.Context, menu *TrainingMenu) error
	DeleteMenu(ctx context.Context, id uint) error

	UpsertSession(ctx context.Context, session *TrainingSession) error
	FindSessionByExternalID(ctx context.Context, sessionID string) (*TrainingSession, error)
	FindSessionsByWorker(ctx context.Context, workerID uint) ([]*TrainingSession, error)
	SaveKPIScore(ctx context.Context, score *KPIScore) error
}

// SessionRepository defines server-side session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// AuthService defines the authentication flow.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)

	SetupMFA(ctx context.Context, userID uint) (*MFAEnrollment, error)
	EnableMFA(ctx context.Context, userID uint, code string) ([]string, error)
	DisableMFA(ctx context.Context, userID uint, password, mfaCode, backupCode string) error
	RegenerateBackupCodes(ctx context.Context, userID uint) ([]string, error)
}

// WorkerService defines the worker profile surface. Implementations sanitize
// free-text input and keep phone and address encrypted at rest.
type WorkerService interface {
	CreateWorker(ctx context.Context, worker *Worker) (*Worker, error)
	GetWorker(ctx context.Context, id uint) (*Worker, error)
	ListWorkers(ctx context.Context) ([]*Worker, error)
	UpdateWorker(ctx context.Context, id uint, patch *WorkerPatch) (*Worker, error)
	DeleteWorker(ctx context.Context, id uint) error

	AddProgressNote(ctx context.Context, note *ProgressNote) (*ProgressNote, error)
	ListProgressNotes(ctx context.Context, workerID uint) ([]*ProgressNote, error)
	UpdateProgressNote(ctx context.Context, note *ProgressNote) (*ProgressNote, error)
	DeleteProgressNote(ctx context.Context, workerID, noteID uint) error

	AddProficiency(ctx context.Context, p *JapaneseProficiency) (*JapaneseProficiency, error)
	ListProficiencies(ctx context.Context, workerID uint) ([]*JapaneseProficiency, error)
	UpdateProficiency(ctx context.Context, p *JapaneseProficiency) (*JapaneseProficiency, error)
	DeleteProficiency(ctx context.Context, workerID, profID uint) error
}

// TrainingService defines training menus, simulator session ingestion, and
// KPI reporting.
type TrainingService interface {
	CreateMenu(ctx context.Context, menu *TrainingMenu) (*TrainingMenu, error)
	GetMenu(ctx context.Context, id uint) (*TrainingMenu, error)
	ListMenus(ctx context.Context) ([]*TrainingMenu, error)
	UpdateMenu(ctx context.Context, menu *TrainingMenu) (*TrainingMenu, error)
	DeleteMenu(ctx context.Context, id uint) error

	IngestSimulatorUpload(ctx context.Context, upload *SimulatorUpload) (*TrainingSession, error)
	GetSessionByExternalID(ctx context.Context, sessionID string) (*TrainingSession, error)
	ListWorkerSessions(ctx context.Context, workerID uint) ([]*TrainingSession, error)
}

// UserAdminService defines administrator-only account management. Accounts
// created here come back with MFA already enabled; the enrollment secret and
// backup codes are returned exactly once.
type UserAdminService interface {
	CreateUser(ctx context.Context, username, email, password, role string, workerID *uint) (*User, *MFAEnrollment, []string, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	SetUserActive(ctx context.Context, id uint, active bool) error
}

// PasswordService defines the password hashing contract. Verify must fail
// closed on malformed stored hashes and compare in constant time.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(storedHash, password string) bool
}

// TokenService defines access token operations.
type TokenService interface {
	GenerateAccessToken(userID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// MFAService defines TOTP enrollment, verification, and backup codes.
type MFAService interface {
	GenerateSecret() (string, error)
	EnrollmentQR(secret, accountLabel string) (string, error)
	VerifyTOTP(secret, code string) bool
	GenerateBackupCodes(count int) ([]string, error)
	VerifyBackupCode(stored []string, submitted string) (bool, []string)
}

// CSRFService issues and validates per-session CSRF tokens. Issue is
// idempotent: the first call mints a token, later calls return it unchanged.
type CSRFService interface {
	IssueForSession(ctx context.Context, sessionID string) (string, error)
	Validate(ctx context.Context, sessionID, token string) bool
}

// RateLimiter guards login against brute force. Allow prunes attempts older
// than the window, rejects when the identifier is at capacity, and records
// the attempt otherwise. Reset clears the identifier's history.
type RateLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
	Reset(ctx context.Context, identifier string) error
}

// FieldEncryptor encrypts sensitive free-text fields at rest. Empty input
// passes through unchanged in both directions; Decrypt is best-effort for
// display and returns its input when the ciphertext cannot be opened.
type FieldEncryptor interface {
	Encrypt(plaintext string) string
	Decrypt(ciphertext string) string
}

// NotificationService defines outbound notification operations.
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// TokenClaims represents access token claims.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer is the subset of the Casbin enforcer the policy service
// uses. The enforcer runs with autosave on, so every AddPolicy and
// RemovePolicy is persisted through the adapter as it happens.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}

package domain

import "time"

// Account roles.
const (
	RoleAdministrator = "administrator"
	RoleAuditor       = "auditor"
	RoleTrainee       = "trainee"
)

// User represents a login account. PasswordHash holds the salted PBKDF2
// digest in "salt:hex" form; an empty hash is only valid for accounts that
// authenticate with MFA alone. MFASecret is present from the moment
// enrollment starts, BackupCodes only once MFA is enabled.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         string
	MFAEnabled   bool
	MFASecret    string
	BackupCodes  []string
	IsActive     bool
	LastLogin    *time.Time
	WorkerID     *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account has a password factor at all.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// LoginRequest carries the credentials a client submitted. Password, MFACode
// and BackupCode are all optional; the orchestrator decides which combination
// is acceptable for the account.
type LoginRequest struct {
	Username   string
	Password   string
	MFACode    string
	BackupCode string
	ClientIP   string
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User        *User
	AccessToken string
	SessionID   string
	CSRFToken   string
	ExpiresIn   int64
}

// Session represents a server-side session. CSRFToken is minted lazily on
// first issue and stays fixed for the session's lifetime.
type Session struct {
	ID        string
	UserID    uint
	CSRFToken string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MFAEnrollment is returned by MFA setup: the raw secret for manual entry
// plus a QR code image (base64 PNG data URI) encoding the otpauth URI.
type MFAEnrollment struct {
	Secret string
	QRCode string
}

// Worker represents a foreign worker profile. Phone and Address are stored
// encrypted at rest; the values on this struct are plaintext and the service
// layer encrypts before handing them to the repository.
type Worker struct {
	ID              uint
	Name            string
	NameKana        string
	Email           string
	Phone           string
	Address         string
	BirthDate       *time.Time
	Nationality     string
	NativeLanguage  string
	VisaStatus      string
	VisaExpiryDate  *time.Time
	JapaneseLevel   string
	EnglishLevel    string
	Skills          string
	ExperienceYears int
	Education       string
	CurrentStatus   string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkerPatch is a sparse update: only non-nil fields are applied.
type WorkerPatch struct {
	Name            *string
	NameKana        *string
	Email           *string
	Phone           *string
	Address         *string
	BirthDate       *time.Time
	Nationality     *string
	NativeLanguage  *string
	VisaStatus      *string
	VisaExpiryDate  *time.Time
	JapaneseLevel   *string
	EnglishLevel    *string
	Skills          *string
	ExperienceYears *int
	Education       *string
	CurrentStatus   *string
	Notes           *string
}

// ProgressNote is a dated support/progress record for a worker.
type ProgressNote struct {
	ID             uint
	WorkerID       uint
	ProgressDate   time.Time
	ProgressType   string
	Title          string
	Description    string
	Status         string
	SupportContent string
	NextAction     string
	NextActionDate *time.Time
	SupportStaff   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JapaneseProficiency is one proficiency test result (JLPT, JFT-Basic, BJT).
type JapaneseProficiency struct {
	ID                    uint
	WorkerID              uint
	TestDate              time.Time
	TestType              string
	Level                 string
	ReadingScore          int
	ListeningScore        int
	WritingScore          int
	SpeakingScore         int
	TotalScore            int
	Passed                bool
	CertificateNumber     string
	CertificateIssuedDate *time.Time
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TrainingMenu describes a simulator training scenario with KPI targets.
type TrainingMenu struct {
	ID                        uint
	MenuName                  string
	ScenarioID                string
	ScenarioDescription       string
	TargetSafetyScore         float64
	TargetErrorCount          int
	TargetProcedureCompliance float64
	TargetWorkTime            int
	TargetAchievementRate     float64
	EquipmentType             string
	DifficultyLevel           string
	TimeLimit                 int
	IsActive                  bool
	CreatedBy                 string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// TrainingSession is one simulator run, keyed by the simulator's own session
// identifier so repeated uploads for the same run update in place.
type TrainingSession struct {
	ID               uint
	SessionID        string
	WorkerID         *uint
	TrainingMenuID   *uint
	SessionStartTime time.Time
	SessionEndTime   time.Time
	DurationSeconds  int
	AIEvaluationJSON string
	ReplayDataJSON   string
	Status           string
	KPIScore         *KPIScore
	CreatedAt        time.Time
}

// KPIScore holds the scored metrics for a training session.
type KPIScore struct {
	ID                      uint
	TrainingSessionID       uint
	SafetyScore             float64
	ErrorCount              int
	ProcedureComplianceRate float64
	WorkTimeSeconds         int
	AchievementRate         float64
	AccuracyScore           float64
	EfficiencyScore         float64
	OverallScore            float64
	Notes                   string
	CreatedAt               time.Time
}

// SimulatorUpload is the payload the simulator posts after a run. A zero
// WorkerID means the run was unattributed (mock mode) and is stored as NULL.
type SimulatorUpload struct {
	SessionID        string
	WorkerID         uint
	TrainingMenuID   uint
	SessionStartTime time.Time
	SessionEndTime   time.Time
	DurationSeconds  int
	Status           string
	AIEvaluationJSON string
	ReplayDataJSON   string
	KPIScore         *KPIScore
}

package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/config"
	"github.com/kensudogit/job-assistance/internal/infrastructure/auth"
	"github.com/kensudogit/job-assistance/internal/infrastructure/crypto"
	"github.com/kensudogit/job-assistance/internal/infrastructure/database"
	"github.com/kensudogit/job-assistance/internal/infrastructure/notifications"
	"github.com/kensudogit/job-assistance/internal/infrastructure/repositories"
	"github.com/kensudogit/job-assistance/internal/services"
)

// devEncryptionKey keeps local development working without key management.
// Config validation refuses to start production with it.
const devEncryptionKey = "job-assistance-dev-field-key"

// Container holds all dependencies.
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	UserRepo     domain.UserRepository
	WorkerRepo   domain.WorkerRepository
	TrainingRepo domain.TrainingRepository
	SessionRepo  domain.SessionRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	MFASvc          domain.MFAService
	CSRFSvc         domain.CSRFService
	RateLimiter     domain.RateLimiter
	Encryptor       domain.FieldEncryptor
	NotificationSvc domain.NotificationService
	Audit           domain.AuditLogger

	AuthSvc      domain.AuthService
	WorkerSvc    domain.WorkerService
	TrainingSvc  domain.TrainingService
	UserAdminSvc domain.UserAdminService
	PolicySvc    domain.PolicyService
}

// NewContainer creates and initializes all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	c.DB = db

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("failed to init casbin: %w", err)
	}
	c.Casbin = cas

	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.WorkerRepo = repositories.NewWorkerRepository(c.DB)
	c.TrainingRepo = repositories.NewTrainingRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	c.MFASvc = services.NewMFAService(c.Config.MFAIssuer)
	c.CSRFSvc = services.NewCSRFService(c.SessionRepo)
	c.NotificationSvc = notifications.NewTwilioService(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom)
	c.Audit = services.NewLogAuditLogger()

	key := c.Config.EncryptionKey
	if key == "" {
		log.Println("WARN: FIELD_ENCRYPTION_KEY not set, using development key")
		key = devEncryptionKey
	}
	encryptor, err := crypto.NewFieldEncryptor(key)
	if err != nil {
		return fmt.Errorf("failed to init field encryptor: %w", err)
	}
	c.Encryptor = encryptor

	rlConfig := services.RateLimitConfig{
		MaxAttempts: c.Config.RateLimitMax,
		Window:      c.Config.RateLimitWindow,
	}
	if c.Config.RateLimitBackend == "redis" {
		c.RateLimiter = services.NewRedisRateLimiter(c.RedisClient, rlConfig)
	} else {
		c.RateLimiter = services.NewMemoryRateLimiter(rlConfig)
	}

	c.AuthSvc = services.NewAuthService(
		c.UserRepo, c.WorkerRepo, c.SessionRepo, c.PasswordSvc, c.TokenSvc,
		c.MFASvc, c.CSRFSvc, c.RateLimiter, c.NotificationSvc, c.Encryptor,
		c.Audit,
		services.AuthConfig{
			SessionTTL:   c.Config.SessionTTL,
			AccessTTL:    c.Config.AccessTTL,
			DevMFABypass: c.Config.MFADevBypass,
		},
	)
	c.WorkerSvc = services.NewWorkerService(c.WorkerRepo, c.Encryptor)
	c.TrainingSvc = services.NewTrainingService(c.TrainingRepo, c.WorkerRepo)
	c.UserAdminSvc = services.NewUserAdminService(c.UserRepo, c.PasswordSvc, c.MFASvc, c.Audit)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
	return nil
}

// Close closes all connections.
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

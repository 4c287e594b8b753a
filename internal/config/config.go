package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type MFAConfig struct {
	Issuer    string `yaml:"issuer"`
	DevBypass bool   `yaml:"dev_bypass"`
}

type EncryptionConfig struct {
	Key string `yaml:"key"`
}

type RateLimitConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
	Backend     string `yaml:"backend"` // "memory" or "redis"
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Session    SessionConfig    `yaml:"session"`
	MFA        MFAConfig        `yaml:"mfa"`
	Encryption EncryptionConfig `yaml:"encryption"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Twilio     TwilioConfig     `yaml:"twilio"`
	Casbin     CasbinConfig     `yaml:"casbin"`
}

// Config is the resolved runtime configuration. File values come first,
// environment variables override them.
type Config struct {
	Port        string
	GinMode     string
	Environment string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	SessionTTL time.Duration

	MFAIssuer    string
	MFADevBypass bool

	EncryptionKey string

	RateLimitMax     int
	RateLimitWindow  time.Duration
	RateLimitBackend string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml, applies .env and environment overrides, and
// validates what production deployments must not run without.
func Load() (*Config, error) {
	// .env is optional and only a convenience for local development.
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	sessTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	rlWindow, err := time.ParseDuration(configFile.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		GinMode:          env("GIN_MODE", configFile.App.GinMode),
		Environment:      env("APP_ENV", configFile.App.Environment),
		DSN:              env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:        env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          configFile.Redis.DB,
		JWTSecret:        env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:        configFile.JWT.Issuer,
		AccessTTL:        accTTL,
		SessionTTL:       sessTTL,
		MFAIssuer:        configFile.MFA.Issuer,
		MFADevBypass:     envBool("MFA_DEV_BYPASS", configFile.MFA.DevBypass),
		EncryptionKey:    env("FIELD_ENCRYPTION_KEY", configFile.Encryption.Key),
		RateLimitMax:     configFile.RateLimit.MaxAttempts,
		RateLimitWindow:  rlWindow,
		RateLimitBackend: env("RATE_LIMIT_BACKEND", configFile.RateLimit.Backend),
		TwilioSID:        env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CasbinModelPath:  configFile.Casbin.ModelPath,
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 5
	}
	if cfg.RateLimitBackend == "" {
		cfg.RateLimitBackend = "memory"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate refuses startups that would silently run with development
// security settings in production.
func (c *Config) validate() error {
	if c.Environment != "production" {
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == "dev-secret" {
		return fmt.Errorf("production requires a real JWT secret")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("production requires FIELD_ENCRYPTION_KEY")
	}
	if c.MFADevBypass {
		return fmt.Errorf("MFA dev bypass must not be enabled in production")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &config, nil
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

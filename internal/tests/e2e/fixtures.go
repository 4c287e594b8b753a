package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kensudogit/job-assistance/domain"
	httpx "github.com/kensudogit/job-assistance/internal/http"
	"github.com/kensudogit/job-assistance/internal/http/handlers"
	"github.com/kensudogit/job-assistance/internal/http/middleware"
	"github.com/kensudogit/job-assistance/internal/infrastructure/auth"
	"github.com/kensudogit/job-assistance/internal/infrastructure/crypto"
	"github.com/kensudogit/job-assistance/internal/infrastructure/database"
	"github.com/kensudogit/job-assistance/internal/infrastructure/repositories"
	"github.com/kensudogit/job-assistance/internal/mocks"
	"github.com/kensudogit/job-assistance/internal/services"
)

const (
	testJWTSecret     = "e2e-test-jwt-secret"
	testEncryptionKey = "e2e-test-field-encryption-key"
	casbinModelPath   = "../../../config/casbin_model.conf"
)

var dbCounter atomic.Int64

// testEnv wires the full service over in-memory SQLite and miniredis, so the
// suite exercises the real router, middleware chain, and persistence without
// external infrastructure.
type testEnv struct {
	Server    *httptest.Server
	DB        *gorm.DB
	Redis     *redis.Client
	Notify    *mocks.MockNotificationService
	AdminSvc  domain.UserAdminService
	Encryptor domain.FieldEncryptor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cas, err := auth.NewCasbinService(db, casbinModelPath)
	if err != nil {
		t.Fatalf("casbin: %v", err)
	}
	seedPolicies(t, cas)

	encryptor, err := crypto.NewFieldEncryptor(testEncryptionKey)
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	workerRepo := repositories.NewWorkerRepository(db)
	trainingRepo := repositories.NewTrainingRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb, 12*time.Hour)

	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(testJWTSecret, "job-assistance-e2e", 15*time.Minute)
	mfaSvc := services.NewMFAService("job-assistance-e2e")
	csrfSvc := services.NewCSRFService(sessionRepo)
	rateLimiter := services.NewMemoryRateLimiter(services.RateLimitConfig{
		MaxAttempts: 5,
		Window:      5 * time.Minute,
	})
	notify := &mocks.MockNotificationService{}
	audit := services.NewLogAuditLogger()

	authSvc := services.NewAuthService(
		userRepo, workerRepo, sessionRepo,
		passwordSvc, tokenSvc, mfaSvc, csrfSvc,
		rateLimiter, notify, encryptor, audit,
		services.AuthConfig{
			SessionTTL: 12 * time.Hour,
			AccessTTL:  15 * time.Minute,
		},
	)
	workerSvc := services.NewWorkerService(workerRepo, encryptor)
	trainingSvc := services.NewTrainingService(trainingRepo, workerRepo)
	adminSvc := services.NewUserAdminService(userRepo, passwordSvc, mfaSvc, audit)

	router := httpx.BuildRouter(httpx.RouterDeps{
		Auth:      handlers.NewAuthHandlers(authSvc, csrfSvc),
		MFA:       handlers.NewMFAHandlers(authSvc),
		Workers:   handlers.NewWorkerHandlers(workerSvc, trainingSvc),
		Training:  handlers.NewTrainingHandlers(trainingSvc),
		UserAdmin: handlers.NewUserAdminHandlers(adminSvc),
		Policies:  handlers.NewPolicyHandlers(services.NewPolicyService(cas.E)),
		AuthMW:    middleware.NewAuthMW(tokenSvc, sessionRepo),
		CasbinMW:  middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(cas.E)),
		CSRF:      middleware.CSRFMiddleware(csrfSvc),
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		rdb.Close()
		sqlDB.Close()
	})

	return &testEnv{
		Server:    server,
		DB:        db,
		Redis:     rdb,
		Notify:    notify,
		AdminSvc:  adminSvc,
		Encryptor: encryptor,
	}
}

// seedPolicies grants each role its routes. AddPolicy autosaves each rule
// through the adapter; SavePolicy would open a second connection for its
// truncate transaction and deadlock against the single-connection pool.
func seedPolicies(t *testing.T, cas *auth.CasbinService) {
	t.Helper()
	rules := [][]string{
		{"role_administrator", "/api/*", "(GET|POST|PUT|DELETE)"},
		{"role_administrator", "/admin/*", "(GET|POST|PUT|DELETE)"},
		{"role_auditor", "/api/*", "GET"},
		{"role_trainee", "/api/workers/:id/sessions", "GET"},
		{"role_trainee", "/api/training/menus", "GET"},
		{"role_trainee", "/api/training/menus/:id", "GET"},
	}
	for _, r := range rules {
		if _, err := cas.E.AddPolicy(r[0], r[1], r[2]); err != nil {
			t.Fatalf("seed policy %v: %v", r, err)
		}
	}
}

// apiClient carries the credentials of one logged-in user across requests.
type apiClient struct {
	env   *testEnv
	Token string
	CSRF  string
}

func (e *testEnv) client() *apiClient { return &apiClient{env: e} }

// do sends a JSON request and decodes the JSON response body. A nil body
// sends no payload.
func (c *apiClient) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.env.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.CSRF != "" {
		req.Header.Set("X-CSRF-Token", c.CSRF)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// login authenticates and stores the bearer token and CSRF token on the
// client. Fails the test on any non-200 response.
func (c *apiClient) login(t *testing.T, username, password, mfaCode, backupCode string) map[string]any {
	t.Helper()

	status, body := c.do(t, http.MethodPost, "/auth/login", map[string]any{
		"username":    username,
		"password":    password,
		"mfa_code":    mfaCode,
		"backup_code": backupCode,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", username, status, body)
	}
	data := dataOf(t, body)
	c.Token, _ = data["access_token"].(string)
	c.CSRF, _ = data["csrf_token"].(string)
	if c.Token == "" || c.CSRF == "" {
		t.Fatalf("login %s: missing tokens in %v", username, data)
	}
	return data
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	return data
}

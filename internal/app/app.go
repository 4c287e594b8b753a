package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/internal/config"
	httpx "github.com/kensudogit/job-assistance/internal/http"
	"github.com/kensudogit/job-assistance/internal/http/handlers"
	"github.com/kensudogit/job-assistance/internal/http/middleware"
	"github.com/kensudogit/job-assistance/internal/services"
)

// Run wires the container into the router and serves until the listener
// fails.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	r := BuildRouter(c)
	seedDefaultPolicies(c)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// BuildRouter assembles handlers and middleware from an initialized
// container.
func BuildRouter(c *Container) *gin.Engine {
	return httpx.BuildRouter(httpx.RouterDeps{
		Auth:      handlers.NewAuthHandlers(c.AuthSvc, c.CSRFSvc),
		MFA:       handlers.NewMFAHandlers(c.AuthSvc),
		Workers:   handlers.NewWorkerHandlers(c.WorkerSvc, c.TrainingSvc),
		Training:  handlers.NewTrainingHandlers(c.TrainingSvc),
		UserAdmin: handlers.NewUserAdminHandlers(c.UserAdminSvc),
		Policies:  handlers.NewPolicyHandlers(c.PolicySvc),
		AuthMW:    middleware.NewAuthMW(c.TokenSvc, c.SessionRepo),
		CasbinMW:  middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(c.Casbin.E)),
		CSRF:      middleware.CSRFMiddleware(c.CSRFSvc),
	})
}

// seedDefaultPolicies installs the baseline role policy on an empty table so
// a fresh deployment is usable without manual policy loading.
func seedDefaultPolicies(c *Container) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}

	c.Casbin.E.AddPolicy("role_administrator", "/api/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_administrator", "/admin/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_auditor", "/api/*", "GET")
	c.Casbin.E.AddPolicy("role_trainee", "/api/workers/:id/sessions", "GET")
	c.Casbin.E.AddPolicy("role_trainee", "/api/training/menus", "GET")
	c.Casbin.E.AddPolicy("role_trainee", "/api/training/menus/:id", "GET")
	log.Println("casbin: seeded default policies")
}

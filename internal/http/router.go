package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/internal/http/handlers"
	"github.com/kensudogit/job-assistance/internal/http/middleware"
)

// RouterDeps bundles everything BuildRouter wires together.
type RouterDeps struct {
	Auth      *handlers.AuthHandlers
	MFA       *handlers.MFAHandlers
	Workers   *handlers.WorkerHandlers
	Training  *handlers.TrainingHandlers
	UserAdmin *handlers.UserAdminHandlers
	Policies  *handlers.PolicyHandlers
	AuthMW    *middleware.AuthMW
	CasbinMW  *middleware.CasbinMW
	CSRF      gin.HandlerFunc
}

// BuildRouter assembles the HTTP surface. The simulator ingestion endpoint
// stays outside the authenticated group: the Unity client posts results with
// no login session of its own.
func BuildRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.SecurityHeaders())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	sim := r.Group("/api/simulator")
	sim.POST("/sessions", d.Training.IngestSession)

	// Everything below requires a valid token plus a live session; mutating
	// requests additionally need the session's CSRF token.
	me := r.Group("/auth").Use(d.AuthMW.WithJWT(), d.CSRF)
	me.GET("/me", d.Auth.Me)
	me.GET("/csrf-token", d.Auth.CSRFToken)
	me.POST("/logout", d.Auth.Logout)
	me.POST("/mfa/setup", d.MFA.Setup)
	me.POST("/mfa/enable", d.MFA.Enable)
	me.POST("/mfa/disable", d.MFA.Disable)
	me.POST("/mfa/backup-codes", d.MFA.RegenerateBackupCodes)

	api := r.Group("/api").Use(d.AuthMW.WithJWT(), d.CSRF, d.CasbinMW.Enforce())
	api.POST("/workers", d.Workers.Create)
	api.GET("/workers", d.Workers.List)
	api.GET("/workers/:id", d.Workers.Get)
	api.PUT("/workers/:id", d.Workers.Update)
	api.DELETE("/workers/:id", d.Workers.Delete)

	api.POST("/workers/:id/progress", d.Workers.CreateProgressNote)
	api.GET("/workers/:id/progress", d.Workers.ListProgressNotes)
	api.PUT("/workers/:id/progress/:noteId", d.Workers.UpdateProgressNote)
	api.DELETE("/workers/:id/progress/:noteId", d.Workers.DeleteProgressNote)

	api.POST("/workers/:id/proficiency", d.Workers.CreateProficiency)
	api.GET("/workers/:id/proficiency", d.Workers.ListProficiencies)
	api.PUT("/workers/:id/proficiency/:profId", d.Workers.UpdateProficiency)
	api.DELETE("/workers/:id/proficiency/:profId", d.Workers.DeleteProficiency)

	api.GET("/workers/:id/sessions", d.Workers.ListTrainingSessions)

	api.POST("/training/menus", d.Training.CreateMenu)
	api.GET("/training/menus", d.Training.ListMenus)
	api.GET("/training/menus/:id", d.Training.GetMenu)
	api.PUT("/training/menus/:id", d.Training.UpdateMenu)
	api.DELETE("/training/menus/:id", d.Training.DeleteMenu)

	api.GET("/simulator/sessions/:sessionId", d.Training.GetSession)

	adm := r.Group("/admin").Use(d.AuthMW.WithJWT(), d.CSRF, d.CasbinMW.Enforce())
	adm.POST("/users", d.UserAdmin.Create)
	adm.GET("/users", d.UserAdmin.List)
	adm.GET("/users/:id", d.UserAdmin.Get)
	adm.PUT("/users/:id/active", d.UserAdmin.SetActive)
	adm.GET("/policies", d.Policies.List)
	adm.POST("/policies", d.Policies.Add)
	adm.DELETE("/policies", d.Policies.Remove)

	return r
}

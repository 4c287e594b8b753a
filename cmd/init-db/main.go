// Command init-db migrates the schema and seeds the first administrator
// account. The admin is created with MFA enabled; the enrollment secret and
// backup codes are printed once and never stored in recoverable form.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/app"
	"github.com/kensudogit/job-assistance/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("container: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	username := envOr("ADMIN_USERNAME", "admin")
	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	if _, err := c.UserRepo.FindByUsername(ctx, username); err == nil {
		fmt.Printf("admin account %q already exists, nothing to do\n", username)
		return
	}

	user, enrollment, backupCodes, err := c.UserAdminSvc.CreateUser(
		ctx, username, email, password, domain.RoleAdministrator, nil)
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("created administrator %q (id=%d)\n", user.Username, user.ID)
	fmt.Println("register this secret in an authenticator app now; it will not be shown again:")
	fmt.Printf("  MFA secret: %s\n", enrollment.Secret)
	fmt.Println("backup codes:")
	for _, code := range backupCodes {
		fmt.Printf("  %s\n", code)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

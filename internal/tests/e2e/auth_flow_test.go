package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, env *testEnv, username, email, password string) {
	t.Helper()
	status, body := env.client().do(t, http.MethodPost, "/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equalf(t, http.StatusCreated, status, "register %s: %v", username, body)
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	data := c.login(t, "tanaka", "Passw0rd!123", "", "")

	user := data["user"].(map[string]any)
	assert.Equal(t, "tanaka", user["username"])
	assert.Equal(t, "trainee", user["role"])
	assert.Equal(t, false, user["mfa_enabled"])

	status, body := c.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tanaka", dataOf(t, body)["username"])

	status, _ = c.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	// The session is gone server-side, so the still-valid JWT is refused.
	status, _ = c.do(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	status, _ := env.client().do(t, http.MethodPost, "/auth/register", map[string]any{
		"username": "tanaka",
		"email":    "other@example.com",
		"password": "Passw0rd!123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = env.client().do(t, http.MethodPost, "/auth/register", map[string]any{
		"username": "suzuki",
		"email":    "suzuki@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	wrongPass := env.client()
	status, body := wrongPass.do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "tanaka",
		"password": "WrongPass!123",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	noSuchUser := env.client()
	status2, body2 := noSuchUser.do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "ghost",
		"password": "WrongPass!123",
	})
	require.Equal(t, http.StatusUnauthorized, status2)

	// Same status, same message: the response never reveals whether the
	// account exists.
	assert.Equal(t, body["error"], body2["error"])
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	for i := 0; i < 5; i++ {
		status, _ := c.do(t, http.MethodPost, "/auth/login", map[string]any{
			"username": "tanaka",
			"password": "WrongPass!123",
		})
		require.Equal(t, http.StatusUnauthorized, status, "attempt %d", i+1)
	}

	// The window is full; even the correct password is refused now.
	status, _ := c.do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "tanaka",
		"password": "Passw0rd!123",
	})
	assert.Equal(t, http.StatusTooManyRequests, status)

	// The limiter keys on the caller's address, so switching usernames
	// does not dodge it.
	registerUser(t, env, "suzuki", "suzuki@example.com", "Passw0rd!123")
	status, _ = env.client().do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "suzuki",
		"password": "Passw0rd!123",
	})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")

	// Safe methods pass without the header.
	noCSRF := &apiClient{env: env, Token: c.Token}
	status, _ := noCSRF.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = noCSRF.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusForbidden, status)

	forged := &apiClient{env: env, Token: c.Token, CSRF: "0000000000000000000000000000000000000000000000000000000000000000"}
	status, _ = forged.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The real token still works after the failed attempts.
	status, _ = c.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCSRFTokenCanBeRefetched(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")

	// A client that lost the login copy refetches it with just the bearer
	// token; issuing is idempotent so the session keeps the same token.
	refetch := &apiClient{env: env, Token: c.Token}
	status, body := refetch.do(t, http.MethodGet, "/auth/csrf-token", nil)
	require.Equal(t, http.StatusOK, status)
	token := dataOf(t, body)["csrf_token"].(string)
	assert.Equal(t, c.CSRF, token)

	refetch.CSRF = token
	status, _ = refetch.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	anon := env.client()
	status, _ := anon.do(t, http.MethodGet, "/api/workers", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	garbage := &apiClient{env: env, Token: "not-a-jwt"}
	status, _ = garbage.do(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

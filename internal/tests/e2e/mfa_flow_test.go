package e2e

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// enrollMFA walks a logged-in client through setup and enable, returning the
// secret and backup codes.
func enrollMFA(t *testing.T, c *apiClient) (string, []string) {
	t.Helper()

	status, body := c.do(t, http.MethodPost, "/auth/mfa/setup", nil)
	require.Equalf(t, http.StatusOK, status, "mfa setup: %v", body)
	data := dataOf(t, body)
	secret := data["secret"].(string)
	require.NotEmpty(t, secret)
	require.True(t, strings.HasPrefix(data["qr_code"].(string), "data:image/png;base64,"))

	status, body = c.do(t, http.MethodPost, "/auth/mfa/enable", map[string]any{
		"code": totpCode(t, secret),
	})
	require.Equalf(t, http.StatusOK, status, "mfa enable: %v", body)
	raw := dataOf(t, body)["backup_codes"].([]any)
	codes := make([]string, len(raw))
	for i, v := range raw {
		codes[i] = v.(string)
	}
	require.Len(t, codes, 10)
	return secret, codes
}

func TestMFAEnrollmentAndLogin(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")
	secret, _ := enrollMFA(t, c)

	status, _ := c.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	// Password alone no longer suffices; the response says a second factor
	// is needed without leaking anything else.
	status, body := env.client().do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "tanaka",
		"password": "Passw0rd!123",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, true, body["mfa_required"])

	// A wrong code fails like any bad credential.
	status, body = env.client().do(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "tanaka",
		"password": "Passw0rd!123",
		"mfa_code": "000001",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Nil(t, body["mfa_required"])

	c2 := env.client()
	data := c2.login(t, "tanaka", "Passw0rd!123", totpCode(t, secret), "")
	assert.Equal(t, true, data["user"].(map[string]any)["mfa_enabled"])
}

func TestBackupCodeLoginIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")
	_, codes := enrollMFA(t, c)
	c.do(t, http.MethodPost, "/auth/logout", nil)

	c2 := env.client()
	c2.login(t, "tanaka", "Passw0rd!123", "", strings.ToUpper(codes[0]))
	c2.do(t, http.MethodPost, "/auth/logout", nil)

	// Consumed on first use, case-insensitively.
	status, _ := env.client().do(t, http.MethodPost, "/auth/login", map[string]any{
		"username":    "tanaka",
		"password":    "Passw0rd!123",
		"backup_code": codes[0],
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// The remaining codes still work.
	env.client().login(t, "tanaka", "Passw0rd!123", "", codes[1])
}

func TestMFADisableAcceptsAnySingleProof(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")
	secret, _ := enrollMFA(t, c)

	// A bearer token by itself does not disable MFA.
	status, _ := c.do(t, http.MethodPost, "/auth/mfa/disable", map[string]any{})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do(t, http.MethodPost, "/auth/mfa/disable", map[string]any{
		"password": "WrongPass!123",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// The account password alone is sufficient proof.
	status, body := c.do(t, http.MethodPost, "/auth/mfa/disable", map[string]any{
		"password": "Passw0rd!123",
	})
	require.Equalf(t, http.StatusOK, status, "disable: %v", body)

	c.do(t, http.MethodPost, "/auth/logout", nil)
	data := env.client().login(t, "tanaka", "Passw0rd!123", "", "")
	assert.Equal(t, false, data["user"].(map[string]any)["mfa_enabled"])

	// A current TOTP code works as the sole proof as well.
	c2 := env.client()
	c2.login(t, "tanaka", "Passw0rd!123", "", "")
	secret, _ = enrollMFA(t, c2)
	status, body = c2.do(t, http.MethodPost, "/auth/mfa/disable", map[string]any{
		"mfa_code": totpCode(t, secret),
	})
	require.Equalf(t, http.StatusOK, status, "disable with totp: %v", body)
}

func TestRegenerateBackupCodesInvalidatesOldSet(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "tanaka", "tanaka@example.com", "Passw0rd!123")

	c := env.client()
	c.login(t, "tanaka", "Passw0rd!123", "", "")
	_, oldCodes := enrollMFA(t, c)

	status, body := c.do(t, http.MethodPost, "/auth/mfa/backup-codes", nil)
	require.Equal(t, http.StatusOK, status)
	raw := dataOf(t, body)["backup_codes"].([]any)
	require.Len(t, raw, 10)
	newCode := raw[0].(string)
	c.do(t, http.MethodPost, "/auth/logout", nil)

	status, _ = env.client().do(t, http.MethodPost, "/auth/login", map[string]any{
		"username":    "tanaka",
		"password":    "Passw0rd!123",
		"backup_code": oldCodes[0],
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	env.client().login(t, "tanaka", "Passw0rd!123", "", newCode)
}
package services

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMFAService_GenerateSecret(t *testing.T) {
	svc := NewMFAService("Job Assistance")

	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(decoded)*8, 160, "secret must carry at least 160 bits")

	other, err := svc.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestMFAService_VerifyTOTP(t *testing.T) {
	svc := NewMFAService("Job Assistance")
	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, svc.VerifyTOTP(secret, code))

	// One step of clock drift in either direction still verifies.
	prev, err := totp.GenerateCode(secret, time.Now().Add(-30*time.Second))
	require.NoError(t, err)
	assert.True(t, svc.VerifyTOTP(secret, prev))

	t.Run("rejects malformed codes", func(t *testing.T) {
		assert.False(t, svc.VerifyTOTP(secret, ""))
		assert.False(t, svc.VerifyTOTP(secret, "12345"))
		assert.False(t, svc.VerifyTOTP(secret, "1234567"))
		assert.False(t, svc.VerifyTOTP(secret, "12345a"))
	})

	t.Run("rejects code for a different secret", func(t *testing.T) {
		other, err := svc.GenerateSecret()
		require.NoError(t, err)
		code, err := totp.GenerateCode(other, time.Now())
		require.NoError(t, err)
		assert.False(t, svc.VerifyTOTP(secret, code))
	})
}

func TestMFAService_EnrollmentQR(t *testing.T) {
	svc := NewMFAService("Job Assistance")
	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	qr, err := svc.EnrollmentQR(secret, "tanaka@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestMFAService_BackupCodes(t *testing.T) {
	svc := NewMFAService("Job Assistance")

	codes, err := svc.GenerateBackupCodes(BackupCodeSets)
	require.NoError(t, err)
	require.Len(t, codes, BackupCodeSets)

	seen := make(map[string]struct{})
	for _, code := range codes {
		assert.Len(t, code, 8)
		assert.Equal(t, strings.ToLower(code), code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, BackupCodeSets, "codes must be unique")
}

func TestMFAService_VerifyBackupCode(t *testing.T) {
	svc := NewMFAService("Job Assistance")
	stored := []string{"aabbccdd", "11223344", "deadbeef"}

	t.Run("case-insensitive match consumes the code", func(t *testing.T) {
		ok, remaining := svc.VerifyBackupCode(stored, "AABBCCDD")
		assert.True(t, ok)
		assert.Equal(t, []string{"11223344", "deadbeef"}, remaining)
	})

	t.Run("consumed code no longer verifies", func(t *testing.T) {
		_, remaining := svc.VerifyBackupCode(stored, "aabbccdd")
		ok, _ := svc.VerifyBackupCode(remaining, "aabbccdd")
		assert.False(t, ok)
	})

	t.Run("unknown code leaves the set intact", func(t *testing.T) {
		ok, remaining := svc.VerifyBackupCode(stored, "ffffffff")
		assert.False(t, ok)
		assert.Equal(t, stored, remaining)
	})
}

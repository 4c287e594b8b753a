package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kensudogit/job-assistance/domain"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "job-assistance", 15*time.Minute)

	token, err := svc.GenerateAccessToken(42, domain.RoleTrainee, "sess-abc")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, domain.RoleTrainee, claims.Role)
	assert.Equal(t, "sess-abc", claims.SessionID)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestJWTServiceAssignsUniqueJTI(t *testing.T) {
	svc := NewJWTService("test-secret", "job-assistance", 15*time.Minute).(*JWTServiceImpl)

	jti, err := svc.generateJTI()
	require.NoError(t, err)
	assert.Len(t, jti, 32)

	// Two tokens minted for the same session still differ.
	a, err := svc.GenerateAccessToken(1, domain.RoleTrainee, "sess-1")
	require.NoError(t, err)
	b, err := svc.GenerateAccessToken(1, domain.RoleTrainee, "sess-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTServiceRejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("secret-a", "job-assistance", 15*time.Minute)
	verifier := NewJWTService("secret-b", "job-assistance", 15*time.Minute)

	token, err := issuer.GenerateAccessToken(1, domain.RoleTrainee, "sess-1")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTServiceRejectsTamperedToken(t *testing.T) {
	svc := NewJWTService("test-secret", "job-assistance", 15*time.Minute)

	token, err := svc.GenerateAccessToken(1, domain.RoleTrainee, "sess-1")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = svc.ValidateAccessToken(tampered)
	assert.Error(t, err)
}

func TestJWTServiceRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "job-assistance", -time.Minute)

	token, err := svc.GenerateAccessToken(1, domain.RoleTrainee, "sess-1")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "job-assistance", 15*time.Minute)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ValidateAccessToken(raw)
		assert.Errorf(t, err, "token %q should be rejected", raw)
	}
}

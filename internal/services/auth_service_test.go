package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kensudogit/job-assistance/domain"
)

func TestAuthService_Login_PasswordOnly(t *testing.T) {
	deps := newAuthServiceDeps(t)
	user := createValidUser(t)
	findUserByName(deps.userRepo, user)

	var resetCalled bool
	deps.rateLimiter.ResetFunc = func(ctx context.Context, identifier string) error {
		resetCalled = true
		assert.Equal(t, "10.0.0.1", identifier, "limiter keys on the caller address")
		return nil
	}
	var lastLoginSet bool
	deps.userRepo.UpdateLastLoginFunc = func(ctx context.Context, userID uint, at time.Time) error {
		lastLoginSet = true
		assert.Equal(t, user.ID, userID)
		return nil
	}

	svc := deps.build(AuthConfig{})
	result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
		Username: "tanaka",
		Password: "password123",
		ClientIP: "10.0.0.1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.CSRFToken)
	assert.NotNil(t, result.User.LastLogin)
	assert.True(t, resetCalled, "rate limit should reset on success")
	assert.True(t, lastLoginSet)
	assert.True(t, deps.audit.Has(domain.LoginSucceededEvent))
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, deps *authServiceDeps)
		req     *domain.LoginRequest
		wantErr error
	}{
		{
			name:    "unknown user",
			setup:   func(t *testing.T, deps *authServiceDeps) {},
			req:     &domain.LoginRequest{Username: "ghost", Password: "password123"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(t *testing.T, deps *authServiceDeps) {
				findUserByName(deps.userRepo, createValidUser(t))
			},
			req:     &domain.LoginRequest{Username: "tanaka", Password: "wrong"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "missing password on password account",
			setup: func(t *testing.T, deps *authServiceDeps) {
				findUserByName(deps.userRepo, createValidUser(t))
			},
			req:     &domain.LoginRequest{Username: "tanaka"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "inactive account looks like bad credentials",
			setup: func(t *testing.T, deps *authServiceDeps) {
				user := createValidUser(t)
				user.IsActive = false
				findUserByName(deps.userRepo, user)
			},
			req:     &domain.LoginRequest{Username: "tanaka", Password: "password123"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "account with no factors",
			setup: func(t *testing.T, deps *authServiceDeps) {
				user := createValidUser(t)
				user.PasswordHash = ""
				findUserByName(deps.userRepo, user)
			},
			req:     &domain.LoginRequest{Username: "tanaka"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name: "rate limited",
			setup: func(t *testing.T, deps *authServiceDeps) {
				deps.rateLimiter.AllowFunc = func(ctx context.Context, identifier string) (bool, error) {
					return false, nil
				}
			},
			req:     &domain.LoginRequest{Username: "tanaka", Password: "password123"},
			wantErr: domain.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newAuthServiceDeps(t)
			tt.setup(t, deps)
			svc := deps.build(AuthConfig{})

			result, err := svc.Login(createTestContext(t), tt.req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login_MFARequired(t *testing.T) {
	deps := newAuthServiceDeps(t)
	findUserByName(deps.userRepo, createMFAUser(t))
	svc := deps.build(AuthConfig{})

	result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
		Username: "tanaka",
		Password: "password123",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMFARequired)
}

func TestAuthService_Login_MFACode(t *testing.T) {
	deps := newAuthServiceDeps(t)
	user := createMFAUser(t)
	findUserByName(deps.userRepo, user)
	deps.mfaSvc.VerifyTOTPFunc = func(secret, code string) bool {
		return secret == user.MFASecret && code == "654321"
	}
	svc := deps.build(AuthConfig{})

	result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
		Username: "tanaka",
		Password: "password123",
		MFACode:  "654321",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(createTestContext(t), &domain.LoginRequest{
		Username: "tanaka",
		Password: "password123",
		MFACode:  "000001",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.True(t, deps.audit.Has(domain.MFAVerifyFailedEvent))
}

func TestAuthService_Login_BackupCodeConsumed(t *testing.T) {
	deps := newAuthServiceDeps(t)
	user := createMFAUser(t)
	findUserByName(deps.userRepo, user)
	deps.mfaSvc.VerifyBackupCodeFunc = func(stored []string, submitted string) (bool, []string) {
		if submitted == "aabbccdd" {
			return true, []string{"11223344"}
		}
		return false, stored
	}
	var persisted *domain.User
	deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		persisted = u
		return nil
	}
	svc := deps.build(AuthConfig{})

	result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
		Username:   "tanaka",
		Password:   "password123",
		BackupCode: "aabbccdd",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	require.NotNil(t, persisted, "consumed backup code must be persisted")
	assert.Equal(t, []string{"11223344"}, persisted.BackupCodes)
}

func TestAuthService_Login_MFAWithoutPassword(t *testing.T) {
	deps := newAuthServiceDeps(t)
	user := createMFAUser(t)
	user.PasswordHash = ""
	findUserByName(deps.userRepo, user)
	deps.mfaSvc.VerifyTOTPFunc = func(secret, code string) bool { return code == "654321" }
	svc := deps.build(AuthConfig{})

	result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
		Username: "tanaka",
		MFACode:  "654321",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestAuthService_Login_DevBypass(t *testing.T) {
	t.Run("rejected when flag off", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		svc := deps.build(AuthConfig{DevMFABypass: false})

		_, err := svc.Login(createTestContext(t), &domain.LoginRequest{
			Username: "tanaka",
			Password: "password123",
			MFACode:  "000000",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("accepted and audited when flag on", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		svc := deps.build(AuthConfig{DevMFABypass: true})

		result, err := svc.Login(createTestContext(t), &domain.LoginRequest{
			Username: "tanaka",
			Password: "password123",
			MFACode:  "000000",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.True(t, deps.audit.Has(domain.DevBypassCodeUsedEvent))
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success creates trainee", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		deps.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			user.ID = 7
			return nil
		}
		svc := deps.build(AuthConfig{})

		user, err := svc.Register(createTestContext(t), "suzuki", "suzuki@example.com", "Str0ng!pass")

		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, domain.RoleTrainee, user.Role)
		assert.NotEqual(t, "Str0ng!pass", user.PasswordHash)
		assert.True(t, deps.audit.Has(domain.UserRegisteredEvent))
	})

	t.Run("duplicate username", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createValidUser(t))
		svc := deps.build(AuthConfig{})

		_, err := svc.Register(createTestContext(t), "tanaka", "new@example.com", "Str0ng!pass")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		svc := deps.build(AuthConfig{})

		_, err := svc.Register(createTestContext(t), "suzuki", "suzuki@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrWeakPassword)
	})
}

func TestAuthService_Logout(t *testing.T) {
	deps := newAuthServiceDeps(t)
	deps.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 1}, nil
	}
	var deleted string
	deps.sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}
	svc := deps.build(AuthConfig{})

	require.NoError(t, svc.Logout(createTestContext(t), "sess-1"))
	assert.Equal(t, "sess-1", deleted)
	assert.True(t, deps.audit.Has(domain.UserLogoutEvent))
}

func TestAuthService_SetupMFA(t *testing.T) {
	t.Run("stores pending secret", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		user := createValidUser(t)
		findUserByName(deps.userRepo, user)
		var persisted *domain.User
		deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
			persisted = u
			return nil
		}
		svc := deps.build(AuthConfig{})

		enrollment, err := svc.SetupMFA(createTestContext(t), user.ID)

		require.NoError(t, err)
		assert.NotEmpty(t, enrollment.Secret)
		assert.NotEmpty(t, enrollment.QRCode)
		require.NotNil(t, persisted)
		assert.Equal(t, enrollment.Secret, persisted.MFASecret)
		assert.False(t, persisted.MFAEnabled, "setup must not enable MFA yet")
		assert.True(t, deps.audit.Has(domain.MFASetupStartedEvent))
	})

	t.Run("already enabled", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		svc := deps.build(AuthConfig{})

		_, err := svc.SetupMFA(createTestContext(t), 1)
		assert.ErrorIs(t, err, domain.ErrMFAAlreadyEnabled)
	})
}

func TestAuthService_EnableMFA(t *testing.T) {
	t.Run("setup not started", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createValidUser(t))
		svc := deps.build(AuthConfig{})

		_, err := svc.EnableMFA(createTestContext(t), 1, "123456")
		assert.ErrorIs(t, err, domain.ErrMFASetupNotStarted)
	})

	t.Run("wrong code", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		user := createValidUser(t)
		user.MFASecret = "PENDINGSECRET234"
		findUserByName(deps.userRepo, user)
		svc := deps.build(AuthConfig{})

		_, err := svc.EnableMFA(createTestContext(t), 1, "999998")
		assert.ErrorIs(t, err, domain.ErrMFACodeInvalid)
	})

	t.Run("success returns backup codes once", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		user := createValidUser(t)
		user.MFASecret = "PENDINGSECRET234"
		findUserByName(deps.userRepo, user)
		deps.mfaSvc.VerifyTOTPFunc = func(secret, code string) bool { return code == "654321" }
		var persisted *domain.User
		deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
			persisted = u
			return nil
		}
		svc := deps.build(AuthConfig{})

		codes, err := svc.EnableMFA(createTestContext(t), 1, "654321")

		require.NoError(t, err)
		assert.Len(t, codes, BackupCodeSets)
		require.NotNil(t, persisted)
		assert.True(t, persisted.MFAEnabled)
		assert.Equal(t, codes, persisted.BackupCodes)
		assert.True(t, deps.audit.Has(domain.MFAEnabledEvent))
	})
}

func TestAuthService_DisableMFA(t *testing.T) {
	t.Run("not enabled", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createValidUser(t))
		svc := deps.build(AuthConfig{})

		err := svc.DisableMFA(createTestContext(t), 1, "password123", "654321", "")
		assert.ErrorIs(t, err, domain.ErrMFANotEnabled)
	})

	t.Run("no valid proof", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		svc := deps.build(AuthConfig{})

		err := svc.DisableMFA(createTestContext(t), 1, "wrong", "000000", "")
		assert.ErrorIs(t, err, domain.ErrMFAProofRequired)
		assert.True(t, deps.audit.Has(domain.MFAVerifyFailedEvent))
	})

	t.Run("bearer token alone is not proof", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		svc := deps.build(AuthConfig{})

		err := svc.DisableMFA(createTestContext(t), 1, "", "", "")
		assert.ErrorIs(t, err, domain.ErrMFAProofRequired)
	})

	t.Run("password alone suffices", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		var persisted *domain.User
		deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
			persisted = u
			return nil
		}
		svc := deps.build(AuthConfig{})

		err := svc.DisableMFA(createTestContext(t), 1, "password123", "", "")

		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.False(t, persisted.MFAEnabled)
	})

	t.Run("totp alone suffices", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		deps.mfaSvc.VerifyTOTPFunc = func(secret, code string) bool { return code == "654321" }
		svc := deps.build(AuthConfig{})

		assert.NoError(t, svc.DisableMFA(createTestContext(t), 1, "", "654321", ""))
	})

	t.Run("backup code alone suffices", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		findUserByName(deps.userRepo, createMFAUser(t))
		deps.mfaSvc.VerifyBackupCodeFunc = func(stored []string, submitted string) (bool, []string) {
			return submitted == "RESCUE99", stored[1:]
		}
		svc := deps.build(AuthConfig{})

		assert.NoError(t, svc.DisableMFA(createTestContext(t), 1, "", "", "RESCUE99"))
	})

	t.Run("success clears enrollment and alerts linked worker", func(t *testing.T) {
		deps := newAuthServiceDeps(t)
		user := createMFAUser(t)
		workerID := uint(5)
		user.WorkerID = &workerID
		findUserByName(deps.userRepo, user)
		deps.workerRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Worker, error) {
			return &domain.Worker{ID: id, Phone: "enc:+819012345678"}, nil
		}
		deps.mfaSvc.VerifyTOTPFunc = func(secret, code string) bool { return code == "654321" }
		var persisted *domain.User
		deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
			persisted = u
			return nil
		}
		svc := deps.build(AuthConfig{})

		err := svc.DisableMFA(createTestContext(t), 1, "password123", "654321", "")

		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.False(t, persisted.MFAEnabled)
		assert.Empty(t, persisted.MFASecret)
		assert.Empty(t, persisted.BackupCodes)
		assert.True(t, deps.audit.Has(domain.MFADisabledEvent))
		require.Len(t, deps.notifySvc.SentSMS, 1)
		assert.Contains(t, deps.notifySvc.SentSMS[0], "+819012345678")
	})
}

func TestAuthService_RegenerateBackupCodes(t *testing.T) {
	deps := newAuthServiceDeps(t)
	user := createMFAUser(t)
	findUserByName(deps.userRepo, user)
	var persisted *domain.User
	deps.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		persisted = u
		return nil
	}
	svc := deps.build(AuthConfig{})

	codes, err := svc.RegenerateBackupCodes(createTestContext(t), 1)

	require.NoError(t, err)
	assert.Len(t, codes, BackupCodeSets)
	require.NotNil(t, persisted)
	assert.Equal(t, codes, persisted.BackupCodes)
	assert.NotContains(t, codes, "aabbccdd", "old codes must be invalidated")
	assert.True(t, deps.audit.Has(domain.BackupCodesRegeneratedEvent))
}

func TestAuthService_Login_RateLimiterUnavailable(t *testing.T) {
	deps := newAuthServiceDeps(t)
	deps.rateLimiter.AllowFunc = func(ctx context.Context, identifier string) (bool, error) {
		return false, errors.New("backend down")
	}
	svc := deps.build(AuthConfig{})

	_, err := svc.Login(createTestContext(t), &domain.LoginRequest{Username: "tanaka", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

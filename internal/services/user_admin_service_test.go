package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/mocks"
)

func newUserAdminService(t *testing.T) (domain.UserAdminService, *mocks.MockUserRepository) {
	t.Helper()
	repo := mocks.NewMockUserRepository()
	svc := NewUserAdminService(repo, mocks.NewMockPasswordService(), NewMFAService("Job Assistance"), mocks.NewMockAuditLogger())
	return svc, repo
}

func TestUserAdminService_CreateUser_ForcesMFA(t *testing.T) {
	svc, repo := newUserAdminService(t)
	var created *domain.User
	repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		user.ID = 4
		created = user
		return nil
	}

	user, enrollment, backupCodes, err := svc.CreateUser(
		context.Background(), "auditor1", "auditor@example.com", "Str0ng!pass", domain.RoleAuditor, nil)

	require.NoError(t, err)
	assert.Equal(t, uint(4), user.ID)
	assert.True(t, created.MFAEnabled, "admin-created accounts start with MFA on")
	assert.NotEmpty(t, created.MFASecret)
	assert.Len(t, backupCodes, BackupCodeSets)
	assert.Equal(t, created.BackupCodes, backupCodes)
	require.NotNil(t, enrollment)
	assert.Equal(t, created.MFASecret, enrollment.Secret)
	assert.NotEmpty(t, enrollment.QRCode)
}

func TestUserAdminService_CreateUser_MFAOnly(t *testing.T) {
	svc, repo := newUserAdminService(t)
	var created *domain.User
	repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		created = user
		return nil
	}

	_, _, _, err := svc.CreateUser(
		context.Background(), "kiosk", "kiosk@example.com", "", domain.RoleTrainee, nil)

	require.NoError(t, err)
	assert.Empty(t, created.PasswordHash, "passwordless accounts authenticate with MFA alone")
	assert.True(t, created.MFAEnabled)
}

func TestUserAdminService_CreateUser_Validation(t *testing.T) {
	svc, _ := newUserAdminService(t)
	ctx := context.Background()

	_, _, _, err := svc.CreateUser(ctx, "u1", "bad-email", "Str0ng!pass", domain.RoleTrainee, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, _, err = svc.CreateUser(ctx, "u1", "u1@example.com", "Str0ng!pass", "superuser", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, _, err = svc.CreateUser(ctx, "u1", "u1@example.com", "weak", domain.RoleTrainee, nil)
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestUserAdminService_CreateUser_Duplicate(t *testing.T) {
	svc, repo := newUserAdminService(t)
	repo.FindByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
		return &domain.User{ID: 1, Username: username}, nil
	}

	_, _, _, err := svc.CreateUser(
		context.Background(), "taken", "taken@example.com", "Str0ng!pass", domain.RoleTrainee, nil)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserAdminService_SetUserActive(t *testing.T) {
	svc, repo := newUserAdminService(t)
	user := &domain.User{ID: 4, Username: "auditor1", IsActive: true}
	repo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	var updated *domain.User
	repo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	require.NoError(t, svc.SetUserActive(context.Background(), 4, false))
	assert.False(t, updated.IsActive)

	err := svc.SetUserActive(context.Background(), 99, false)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

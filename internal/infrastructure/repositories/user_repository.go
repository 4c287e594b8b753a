package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/kensudogit/job-assistance/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser is the database model for a login account. BackupCodes is stored
// as a JSON array in a text column; an empty slice round-trips to NULL.
type DBUser struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"uniqueIndex;size:100;not null"`
	Email        string     `gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string     `gorm:"column:password_hash;size:256"`
	Role         string     `gorm:"index;size:50;not null"`
	MFAEnabled   bool       `gorm:"column:mfa_enabled"`
	MFASecret    string     `gorm:"column:mfa_secret;size:256"`
	BackupCodes  *string    `gorm:"column:backup_codes;type:text"`
	IsActive     bool       `gorm:"index"`
	LastLogin    *time.Time
	WorkerID     *uint      `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByUsername implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindAll implements domain.UserRepository.
func (r *UserRepositoryImpl) FindAll(ctx context.Context) ([]*domain.User, error) {
	var dbUsers []DBUser
	if err := r.db.WithContext(ctx).Order("id").Find(&dbUsers).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, r.dbToDomain(&dbUsers[i]))
	}
	return users, nil
}

// Update implements domain.UserRepository. The full credential row is saved
// in one statement so MFA state changes (enabled flag, secret, backup codes)
// commit atomically.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", user.ID).
		Select("Username", "Email", "PasswordHash", "Role", "MFAEnabled",
			"MFASecret", "BackupCodes", "IsActive", "LastLogin", "WorkerID").
		Updates(dbUser).Error
}

// UpdateLastLogin implements domain.UserRepository.
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).
		Update("last_login", at).Error
}

func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	var codes *string
	if len(user.BackupCodes) > 0 {
		if data, err := json.Marshal(user.BackupCodes); err == nil {
			s := string(data)
			codes = &s
		}
	}
	return &DBUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		MFAEnabled:   user.MFAEnabled,
		MFASecret:    user.MFASecret,
		BackupCodes:  codes,
		IsActive:     user.IsActive,
		LastLogin:    user.LastLogin,
		WorkerID:     user.WorkerID,
	}
}

func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	var codes []string
	if dbUser.BackupCodes != nil && *dbUser.BackupCodes != "" {
		_ = json.Unmarshal([]byte(*dbUser.BackupCodes), &codes)
	}
	return &domain.User{
		ID:           dbUser.ID,
		Username:     dbUser.Username,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		Role:         dbUser.Role,
		MFAEnabled:   dbUser.MFAEnabled,
		MFASecret:    dbUser.MFASecret,
		BackupCodes:  codes,
		IsActive:     dbUser.IsActive,
		LastLogin:    dbUser.LastLogin,
		WorkerID:     dbUser.WorkerID,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

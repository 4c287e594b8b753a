package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kensudogit/job-assistance/domain"
)

// TrainingRepositoryImpl implements domain.TrainingRepository using GORM.
type TrainingRepositoryImpl struct {
	db *gorm.DB
}

// DBTrainingMenu is the database model for a simulator scenario.
type DBTrainingMenu struct {
	ID                        uint    `gorm:"primaryKey"`
	MenuName                  string  `gorm:"size:200;not null"`
	ScenarioID                string  `gorm:"size:100;not null"`
	ScenarioDescription       string  `gorm:"type:text"`
	TargetSafetyScore         float64
	TargetErrorCount          int
	TargetProcedureCompliance float64
	TargetWorkTime            int
	TargetAchievementRate     float64
	EquipmentType             string `gorm:"size:100;not null"`
	DifficultyLevel           string `gorm:"size:20;not null"`
	TimeLimit                 int
	IsActive                  bool `gorm:"index"`
	CreatedBy                 string `gorm:"size:100"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (DBTrainingMenu) TableName() string { return "training_menus" }

// DBTrainingSession is the database model for one simulator run. SessionID
// is the simulator's own identifier and is unique so uploads are idempotent.
type DBTrainingSession struct {
	ID               uint   `gorm:"primaryKey"`
	SessionID        string `gorm:"uniqueIndex;size:100;not null"`
	WorkerID         *uint  `gorm:"index"`
	TrainingMenuID   *uint  `gorm:"index"`
	SessionStartTime time.Time
	SessionEndTime   time.Time
	DurationSeconds  int
	AIEvaluationJSON string `gorm:"type:text"`
	ReplayDataJSON   string `gorm:"type:text"`
	Status           string `gorm:"size:50"`
	CreatedAt        time.Time
}

func (DBTrainingSession) TableName() string { return "training_sessions" }

// DBKPIScore is the database model for session KPI metrics, one row per
// training session.
type DBKPIScore struct {
	ID                      uint `gorm:"primaryKey"`
	TrainingSessionID       uint `gorm:"uniqueIndex;not null"`
	SafetyScore             float64
	ErrorCount              int
	ProcedureComplianceRate float64
	WorkTimeSeconds         int
	AchievementRate         float64
	AccuracyScore           float64
	EfficiencyScore         float64
	OverallScore            float64
	Notes                   string `gorm:"type:text"`
	CreatedAt               time.Time
}

func (DBKPIScore) TableName() string { return "kpi_scores" }

// NewTrainingRepository creates a new training repository.
func NewTrainingRepository(db *gorm.DB) domain.TrainingRepository {
	return &TrainingRepositoryImpl{db: db}
}

// CreateMenu implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) CreateMenu(ctx context.Context, menu *domain.TrainingMenu) error {
	dbMenu := menuToDB(menu)
	if err := r.db.WithContext(ctx).Create(dbMenu).Error; err != nil {
		return err
	}
	menu.ID = dbMenu.ID
	return nil
}

// FindMenuByID implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) FindMenuByID(ctx context.Context, id uint) (*domain.TrainingMenu, error) {
	var dbMenu DBTrainingMenu
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbMenu).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return menuToDomain(&dbMenu), nil
}

// FindMenus implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) FindMenus(ctx context.Context) ([]*domain.TrainingMenu, error) {
	var dbMenus []DBTrainingMenu
	if err := r.db.WithContext(ctx).Order("id").Find(&dbMenus).Error; err != nil {
		return nil, err
	}
	menus := make([]*domain.TrainingMenu, 0, len(dbMenus))
	for i := range dbMenus {
		menus = append(menus, menuToDomain(&dbMenus[i]))
	}
	return menus, nil
}

// UpdateMenu implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) UpdateMenu(ctx context.Context, menu *domain.TrainingMenu) error {
	dbMenu := menuToDB(menu)
	return r.db.WithContext(ctx).Model(&DBTrainingMenu{}).Where("id = ?", menu.ID).
		Select("*").Omit("id", "created_at").Updates(dbMenu).Error
}

// DeleteMenu implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) DeleteMenu(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBTrainingMenu{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// UpsertSession implements domain.TrainingRepository: insert when the
// external session id is new, update in place otherwise.
func (r *TrainingRepositoryImpl) UpsertSession(ctx context.Context, session *domain.TrainingSession) error {
	var existing DBTrainingSession
	err := r.db.WithContext(ctx).Where("session_id = ?", session.SessionID).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	dbSession := sessionToDB(session)
	if err == gorm.ErrRecordNotFound {
		if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
			return err
		}
		session.ID = dbSession.ID
		return nil
	}

	session.ID = existing.ID
	return r.db.WithContext(ctx).Model(&DBTrainingSession{}).Where("id = ?", existing.ID).
		Select("WorkerID", "TrainingMenuID", "SessionStartTime", "SessionEndTime",
			"DurationSeconds", "AIEvaluationJSON", "ReplayDataJSON", "Status").
		Updates(dbSession).Error
}

// FindSessionByExternalID implements domain.TrainingRepository, including
// the KPI score row when one exists.
func (r *TrainingRepositoryImpl) FindSessionByExternalID(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	var dbSession DBTrainingSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}

	session := sessionToDomain(&dbSession)
	var dbScore DBKPIScore
	if err := r.db.WithContext(ctx).Where("training_session_id = ?", dbSession.ID).First(&dbScore).Error; err == nil {
		session.KPIScore = scoreToDomain(&dbScore)
	}
	return session, nil
}

// FindSessionsByWorker implements domain.TrainingRepository.
func (r *TrainingRepositoryImpl) FindSessionsByWorker(ctx context.Context, workerID uint) ([]*domain.TrainingSession, error) {
	var dbSessions []DBTrainingSession
	err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).
		Order("session_start_time desc").Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.TrainingSession, 0, len(dbSessions))
	for i := range dbSessions {
		session := sessionToDomain(&dbSessions[i])
		var dbScore DBKPIScore
		if err := r.db.WithContext(ctx).Where("training_session_id = ?", dbSessions[i].ID).First(&dbScore).Error; err == nil {
			session.KPIScore = scoreToDomain(&dbScore)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// SaveKPIScore implements domain.TrainingRepository: one KPI row per
// session, updated in place on re-upload.
func (r *TrainingRepositoryImpl) SaveKPIScore(ctx context.Context, score *domain.KPIScore) error {
	var existing DBKPIScore
	err := r.db.WithContext(ctx).Where("training_session_id = ?", score.TrainingSessionID).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	dbScore := scoreToDB(score)
	if err == gorm.ErrRecordNotFound {
		if err := r.db.WithContext(ctx).Create(dbScore).Error; err != nil {
			return err
		}
		score.ID = dbScore.ID
		return nil
	}

	score.ID = existing.ID
	return r.db.WithContext(ctx).Model(&DBKPIScore{}).Where("id = ?", existing.ID).
		Select("*").Omit("id", "training_session_id", "created_at").Updates(dbScore).Error
}

func menuToDB(m *domain.TrainingMenu) *DBTrainingMenu {
	return &DBTrainingMenu{
		ID:                        m.ID,
		MenuName:                  m.MenuName,
		ScenarioID:                m.ScenarioID,
		ScenarioDescription:       m.ScenarioDescription,
		TargetSafetyScore:         m.TargetSafetyScore,
		TargetErrorCount:          m.TargetErrorCount,
		TargetProcedureCompliance: m.TargetProcedureCompliance,
		TargetWorkTime:            m.TargetWorkTime,
		TargetAchievementRate:     m.TargetAchievementRate,
		EquipmentType:             m.EquipmentType,
		DifficultyLevel:           m.DifficultyLevel,
		TimeLimit:                 m.TimeLimit,
		IsActive:                  m.IsActive,
		CreatedBy:                 m.CreatedBy,
	}
}

func menuToDomain(m *DBTrainingMenu) *domain.TrainingMenu {
	return &domain.TrainingMenu{
		ID:                        m.ID,
		MenuName:                  m.MenuName,
		ScenarioID:                m.ScenarioID,
		ScenarioDescription:       m.ScenarioDescription,
		TargetSafetyScore:         m.TargetSafetyScore,
		TargetErrorCount:          m.TargetErrorCount,
		TargetProcedureCompliance: m.TargetProcedureCompliance,
		TargetWorkTime:            m.TargetWorkTime,
		TargetAchievementRate:     m.TargetAchievementRate,
		EquipmentType:             m.EquipmentType,
		DifficultyLevel:           m.DifficultyLevel,
		TimeLimit:                 m.TimeLimit,
		IsActive:                  m.IsActive,
		CreatedBy:                 m.CreatedBy,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
}

func sessionToDB(s *domain.TrainingSession) *DBTrainingSession {
	return &DBTrainingSession{
		ID:               s.ID,
		SessionID:        s.SessionID,
		WorkerID:         s.WorkerID,
		TrainingMenuID:   s.TrainingMenuID,
		SessionStartTime: s.SessionStartTime,
		SessionEndTime:   s.SessionEndTime,
		DurationSeconds:  s.DurationSeconds,
		AIEvaluationJSON: s.AIEvaluationJSON,
		ReplayDataJSON:   s.ReplayDataJSON,
		Status:           s.Status,
	}
}

func sessionToDomain(s *DBTrainingSession) *domain.TrainingSession {
	return &domain.TrainingSession{
		ID:               s.ID,
		SessionID:        s.SessionID,
		WorkerID:         s.WorkerID,
		TrainingMenuID:   s.TrainingMenuID,
		SessionStartTime: s.SessionStartTime,
		SessionEndTime:   s.SessionEndTime,
		DurationSeconds:  s.DurationSeconds,
		AIEvaluationJSON: s.AIEvaluationJSON,
		ReplayDataJSON:   s.ReplayDataJSON,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
	}
}

func scoreToDB(k *domain.KPIScore) *DBKPIScore {
	return &DBKPIScore{
		ID:                      k.ID,
		TrainingSessionID:       k.TrainingSessionID,
		SafetyScore:             k.SafetyScore,
		ErrorCount:              k.ErrorCount,
		ProcedureComplianceRate: k.ProcedureComplianceRate,
		WorkTimeSeconds:         k.WorkTimeSeconds,
		AchievementRate:         k.AchievementRate,
		AccuracyScore:           k.AccuracyScore,
		EfficiencyScore:         k.EfficiencyScore,
		OverallScore:            k.OverallScore,
		Notes:                   k.Notes,
	}
}

func scoreToDomain(k *DBKPIScore) *domain.KPIScore {
	return &domain.KPIScore{
		ID:                      k.ID,
		TrainingSessionID:       k.TrainingSessionID,
		SafetyScore:             k.SafetyScore,
		ErrorCount:              k.ErrorCount,
		ProcedureComplianceRate: k.ProcedureComplianceRate,
		WorkTimeSeconds:         k.WorkTimeSeconds,
		AchievementRate:         k.AchievementRate,
		AccuracyScore:           k.AccuracyScore,
		EfficiencyScore:         k.EfficiencyScore,
		OverallScore:            k.OverallScore,
		Notes:                   k.Notes,
		CreatedAt:               k.CreatedAt,
	}
}

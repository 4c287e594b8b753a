package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// TrainingServiceImpl implements domain.TrainingService.
type TrainingServiceImpl struct {
	trainingRepo domain.TrainingRepository
	workerRepo   domain.WorkerRepository
}

// NewTrainingService creates a new training service.
func NewTrainingService(trainingRepo domain.TrainingRepository, workerRepo domain.WorkerRepository) domain.TrainingService {
	return &TrainingServiceImpl{trainingRepo: trainingRepo, workerRepo: workerRepo}
}

// CreateMenu implements domain.TrainingService.
func (s *TrainingServiceImpl) CreateMenu(ctx context.Context, menu *domain.TrainingMenu) (*domain.TrainingMenu, error) {
	if menu.MenuName == "" {
		return nil, fmt.Errorf("%w: menu_name is required", domain.ErrValidation)
	}
	if _, err := validation.String(menu.MenuName, 200); err != nil {
		return nil, fmt.Errorf("menu_name: %w", err)
	}
	menu.MenuName = validation.SanitizeText(menu.MenuName)
	menu.ScenarioDescription = validation.SanitizeText(menu.ScenarioDescription)
	menu.CreatedAt = time.Now()
	menu.UpdatedAt = time.Now()

	if err := s.trainingRepo.CreateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to create training menu: %w", err)
	}
	return menu, nil
}

// GetMenu implements domain.TrainingService.
func (s *TrainingServiceImpl) GetMenu(ctx context.Context, id uint) (*domain.TrainingMenu, error) {
	return s.trainingRepo.FindMenuByID(ctx, id)
}

// ListMenus implements domain.TrainingService.
func (s *TrainingServiceImpl) ListMenus(ctx context.Context) ([]*domain.TrainingMenu, error) {
	return s.trainingRepo.FindMenus(ctx)
}

// UpdateMenu implements domain.TrainingService.
func (s *TrainingServiceImpl) UpdateMenu(ctx context.Context, menu *domain.TrainingMenu) (*domain.TrainingMenu, error) {
	existing, err := s.trainingRepo.FindMenuByID(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	menu.CreatedAt = existing.CreatedAt
	menu.MenuName = validation.SanitizeText(menu.MenuName)
	menu.ScenarioDescription = validation.SanitizeText(menu.ScenarioDescription)
	menu.UpdatedAt = time.Now()

	if err := s.trainingRepo.UpdateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to update training menu: %w", err)
	}
	return menu, nil
}

// DeleteMenu implements domain.TrainingService.
func (s *TrainingServiceImpl) DeleteMenu(ctx context.Context, id uint) error {
	return s.trainingRepo.DeleteMenu(ctx, id)
}

// IngestSimulatorUpload implements domain.TrainingService. Uploads are keyed
// by the simulator's own session id, so a retry or a late KPI recalculation
// updates the existing row instead of duplicating it. A zero worker id marks
// an unattributed mock run and is stored as NULL.
func (s *TrainingServiceImpl) IngestSimulatorUpload(ctx context.Context, upload *domain.SimulatorUpload) (*domain.TrainingSession, error) {
	if upload.SessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", domain.ErrValidation)
	}
	if upload.WorkerID != 0 {
		if _, err := s.workerRepo.FindByID(ctx, upload.WorkerID); err != nil {
			return nil, err
		}
	}

	session := &domain.TrainingSession{
		SessionID:        upload.SessionID,
		SessionStartTime: upload.SessionStartTime,
		SessionEndTime:   upload.SessionEndTime,
		DurationSeconds:  upload.DurationSeconds,
		AIEvaluationJSON: upload.AIEvaluationJSON,
		ReplayDataJSON:   upload.ReplayDataJSON,
		Status:           upload.Status,
	}
	if session.Status == "" {
		session.Status = "completed"
	}
	if upload.WorkerID != 0 {
		id := upload.WorkerID
		session.WorkerID = &id
	}
	if upload.TrainingMenuID != 0 {
		id := upload.TrainingMenuID
		session.TrainingMenuID = &id
	}

	if err := s.trainingRepo.UpsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store training session: %w", err)
	}

	if upload.KPIScore != nil {
		score := *upload.KPIScore
		score.TrainingSessionID = session.ID
		if err := s.trainingRepo.SaveKPIScore(ctx, &score); err != nil {
			return nil, fmt.Errorf("failed to store KPI score: %w", err)
		}
		session.KPIScore = &score
	}
	return session, nil
}

// GetSessionByExternalID implements domain.TrainingService.
func (s *TrainingServiceImpl) GetSessionByExternalID(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	return s.trainingRepo.FindSessionByExternalID(ctx, sessionID)
}

// ListWorkerSessions implements domain.TrainingService.
func (s *TrainingServiceImpl) ListWorkerSessions(ctx context.Context, workerID uint) ([]*domain.TrainingSession, error) {
	if _, err := s.workerRepo.FindByID(ctx, workerID); err != nil {
		return nil, err
	}
	return s.trainingRepo.FindSessionsByWorker(ctx, workerID)
}

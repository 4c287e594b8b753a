package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/mocks"
)

func TestTrainingService_IngestSimulatorUpload(t *testing.T) {
	trainingRepo := mocks.NewMockTrainingRepository()
	workerRepo := mocks.NewMockWorkerRepository()
	workerRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Worker, error) {
		if id == 5 {
			return &domain.Worker{ID: 5}, nil
		}
		return nil, domain.ErrResourceNotFound
	}
	var upserted *domain.TrainingSession
	trainingRepo.UpsertSessionFunc = func(ctx context.Context, s *domain.TrainingSession) error {
		s.ID = 20
		upserted = s
		return nil
	}
	var savedScore *domain.KPIScore
	trainingRepo.SaveKPIScoreFunc = func(ctx context.Context, score *domain.KPIScore) error {
		savedScore = score
		return nil
	}
	svc := NewTrainingService(trainingRepo, workerRepo)

	start := time.Now().Add(-10 * time.Minute)
	session, err := svc.IngestSimulatorUpload(context.Background(), &domain.SimulatorUpload{
		SessionID:        "unity-abc-123",
		WorkerID:         5,
		TrainingMenuID:   2,
		SessionStartTime: start,
		SessionEndTime:   start.Add(9 * time.Minute),
		DurationSeconds:  540,
		KPIScore: &domain.KPIScore{
			SafetyScore:  92.5,
			ErrorCount:   1,
			OverallScore: 88.0,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, uint(20), session.ID)
	require.NotNil(t, upserted.WorkerID)
	assert.Equal(t, uint(5), *upserted.WorkerID)
	assert.Equal(t, "completed", upserted.Status, "status defaults when omitted")
	require.NotNil(t, savedScore)
	assert.Equal(t, uint(20), savedScore.TrainingSessionID, "score keys on the stored session")
	assert.Equal(t, savedScore, session.KPIScore)
}

func TestTrainingService_IngestSimulatorUpload_MockRun(t *testing.T) {
	trainingRepo := mocks.NewMockTrainingRepository()
	var upserted *domain.TrainingSession
	trainingRepo.UpsertSessionFunc = func(ctx context.Context, s *domain.TrainingSession) error {
		upserted = s
		return nil
	}
	svc := NewTrainingService(trainingRepo, mocks.NewMockWorkerRepository())

	_, err := svc.IngestSimulatorUpload(context.Background(), &domain.SimulatorUpload{
		SessionID: "unity-mock-1",
	})

	require.NoError(t, err)
	assert.Nil(t, upserted.WorkerID, "zero worker id stores as NULL")
	assert.Nil(t, upserted.TrainingMenuID)
}

func TestTrainingService_IngestSimulatorUpload_Invalid(t *testing.T) {
	svc := NewTrainingService(mocks.NewMockTrainingRepository(), mocks.NewMockWorkerRepository())

	_, err := svc.IngestSimulatorUpload(context.Background(), &domain.SimulatorUpload{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.IngestSimulatorUpload(context.Background(), &domain.SimulatorUpload{
		SessionID: "unity-x",
		WorkerID:  99,
	})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound, "attributed runs need a real worker")
}

func TestTrainingService_Menus(t *testing.T) {
	repo := mocks.NewMockTrainingRepository()
	var created *domain.TrainingMenu
	repo.CreateMenuFunc = func(ctx context.Context, menu *domain.TrainingMenu) error {
		menu.ID = 2
		created = menu
		return nil
	}
	svc := NewTrainingService(repo, mocks.NewMockWorkerRepository())

	menu, err := svc.CreateMenu(context.Background(), &domain.TrainingMenu{
		MenuName:            "Forklift basics <script>x</script>",
		ScenarioID:          "forklift-01",
		TargetSafetyScore:   90,
		DifficultyLevel:     "beginner",
		IsActive:            true,
		ScenarioDescription: "Load pallets safely",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(2), menu.ID)
	assert.NotContains(t, created.MenuName, "<script>")

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.CreateMenu(context.Background(), &domain.TrainingMenu{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTrainingService_ListWorkerSessions_UnknownWorker(t *testing.T) {
	svc := NewTrainingService(mocks.NewMockTrainingRepository(), mocks.NewMockWorkerRepository())

	_, err := svc.ListWorkerSessions(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}

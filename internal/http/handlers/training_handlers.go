package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// TrainingHandlers handles training menus and the simulator ingestion
// endpoint.
type TrainingHandlers struct {
	trainingSvc domain.TrainingService
}

// NewTrainingHandlers creates new training handlers.
func NewTrainingHandlers(trainingSvc domain.TrainingService) *TrainingHandlers {
	return &TrainingHandlers{trainingSvc: trainingSvc}
}

// TrainingMenuRequest is the create/update payload for a training menu.
type TrainingMenuRequest struct {
	MenuName                  string  `json:"menu_name" binding:"required"`
	ScenarioID                string  `json:"scenario_id"`
	ScenarioDescription       string  `json:"scenario_description"`
	TargetSafetyScore         float64 `json:"target_safety_score"`
	TargetErrorCount          int     `json:"target_error_count"`
	TargetProcedureCompliance float64 `json:"target_procedure_compliance"`
	TargetWorkTime            int     `json:"target_work_time"`
	TargetAchievementRate     float64 `json:"target_achievement_rate"`
	EquipmentType             string  `json:"equipment_type"`
	DifficultyLevel           string  `json:"difficulty_level"`
	TimeLimit                 int     `json:"time_limit"`
	IsActive                  bool    `json:"is_active"`
	CreatedBy                 string  `json:"created_by"`
}

func (r *TrainingMenuRequest) toDomain() *domain.TrainingMenu {
	return &domain.TrainingMenu{
		MenuName:                  r.MenuName,
		ScenarioID:                r.ScenarioID,
		ScenarioDescription:       r.ScenarioDescription,
		TargetSafetyScore:         r.TargetSafetyScore,
		TargetErrorCount:          r.TargetErrorCount,
		TargetProcedureCompliance: r.TargetProcedureCompliance,
		TargetWorkTime:            r.TargetWorkTime,
		TargetAchievementRate:     r.TargetAchievementRate,
		EquipmentType:             r.EquipmentType,
		DifficultyLevel:           r.DifficultyLevel,
		TimeLimit:                 r.TimeLimit,
		IsActive:                  r.IsActive,
		CreatedBy:                 r.CreatedBy,
	}
}

// CreateMenu handles POST /api/training/menus.
func (h *TrainingHandlers) CreateMenu(c *gin.Context) {
	var req TrainingMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menu, err := h.trainingSvc.CreateMenu(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": menu})
}

// ListMenus handles GET /api/training/menus.
func (h *TrainingHandlers) ListMenus(c *gin.Context) {
	menus, err := h.trainingSvc.ListMenus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": menus})
}

// GetMenu handles GET /api/training/menus/:id.
func (h *TrainingHandlers) GetMenu(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	menu, err := h.trainingSvc.GetMenu(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": menu})
}

// UpdateMenu handles PUT /api/training/menus/:id.
func (h *TrainingHandlers) UpdateMenu(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req TrainingMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menu := req.toDomain()
	menu.ID = id

	updated, err := h.trainingSvc.UpdateMenu(c.Request.Context(), menu)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteMenu handles DELETE /api/training/menus/:id.
func (h *TrainingHandlers) DeleteMenu(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.trainingSvc.DeleteMenu(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Training menu deleted"}})
}

// KPIScoreRequest carries the scored metrics inside a simulator upload.
type KPIScoreRequest struct {
	SafetyScore             float64 `json:"safety_score"`
	ErrorCount              int     `json:"error_count"`
	ProcedureComplianceRate float64 `json:"procedure_compliance_rate"`
	WorkTimeSeconds         int     `json:"work_time_seconds"`
	AchievementRate         float64 `json:"achievement_rate"`
	AccuracyScore           float64 `json:"accuracy_score"`
	EfficiencyScore         float64 `json:"efficiency_score"`
	OverallScore            float64 `json:"overall_score"`
	Notes                   string  `json:"notes"`
}

// SimulatorUploadRequest is the payload the simulator posts after a run.
type SimulatorUploadRequest struct {
	SessionID        string           `json:"session_id" binding:"required"`
	WorkerID         uint             `json:"worker_id"`
	TrainingMenuID   uint             `json:"training_menu_id"`
	SessionStartTime string           `json:"session_start_time" binding:"required"`
	SessionEndTime   string           `json:"session_end_time" binding:"required"`
	DurationSeconds  int              `json:"duration_seconds"`
	Status           string           `json:"status"`
	AIEvaluation     string           `json:"ai_evaluation"`
	ReplayData       string           `json:"replay_data"`
	KPIScore         *KPIScoreRequest `json:"kpi_score"`
}

// IngestSession handles POST /api/simulator/sessions. Re-posting the same
// session_id updates the stored run in place.
func (h *TrainingHandlers) IngestSession(c *gin.Context) {
	var req SimulatorUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := validation.Date(req.SessionStartTime)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := validation.Date(req.SessionEndTime)
	if err != nil {
		respondError(c, err)
		return
	}

	upload := &domain.SimulatorUpload{
		SessionID:        req.SessionID,
		WorkerID:         req.WorkerID,
		TrainingMenuID:   req.TrainingMenuID,
		SessionStartTime: start,
		SessionEndTime:   end,
		DurationSeconds:  req.DurationSeconds,
		Status:           req.Status,
		AIEvaluationJSON: req.AIEvaluation,
		ReplayDataJSON:   req.ReplayData,
	}
	if req.KPIScore != nil {
		upload.KPIScore = &domain.KPIScore{
			SafetyScore:             req.KPIScore.SafetyScore,
			ErrorCount:              req.KPIScore.ErrorCount,
			ProcedureComplianceRate: req.KPIScore.ProcedureComplianceRate,
			WorkTimeSeconds:         req.KPIScore.WorkTimeSeconds,
			AchievementRate:         req.KPIScore.AchievementRate,
			AccuracyScore:           req.KPIScore.AccuracyScore,
			EfficiencyScore:         req.KPIScore.EfficiencyScore,
			OverallScore:            req.KPIScore.OverallScore,
			Notes:                   req.KPIScore.Notes,
		}
	}

	session, err := h.trainingSvc.IngestSimulatorUpload(c.Request.Context(), upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":         session.ID,
			"session_id": session.SessionID,
			"status":     session.Status,
		},
	})
}

// GetSession handles GET /api/simulator/sessions/:sessionId.
func (h *TrainingHandlers) GetSession(c *gin.Context) {
	session, err := h.trainingSvc.GetSessionByExternalID(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": session})
}

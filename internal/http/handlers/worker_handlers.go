package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// WorkerHandlers handles worker profile CRUD plus the nested progress note
// and proficiency records.
type WorkerHandlers struct {
	workerSvc   domain.WorkerService
	trainingSvc domain.TrainingService
}

// NewWorkerHandlers creates new worker handlers.
func NewWorkerHandlers(workerSvc domain.WorkerService, trainingSvc domain.TrainingService) *WorkerHandlers {
	return &WorkerHandlers{workerSvc: workerSvc, trainingSvc: trainingSvc}
}

// WorkerRequest is the create payload. Dates arrive as ISO-8601 strings.
type WorkerRequest struct {
	Name            string `json:"name" binding:"required"`
	NameKana        string `json:"name_kana"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	BirthDate       string `json:"birth_date"`
	Nationality     string `json:"nationality"`
	NativeLanguage  string `json:"native_language"`
	VisaStatus      string `json:"visa_status"`
	VisaExpiryDate  string `json:"visa_expiry_date"`
	JapaneseLevel   string `json:"japanese_level"`
	EnglishLevel    string `json:"english_level"`
	Skills          string `json:"skills"`
	ExperienceYears int    `json:"experience_years"`
	Education       string `json:"education"`
	CurrentStatus   string `json:"current_status"`
	Notes           string `json:"notes"`
}

// WorkerPatchRequest is the update payload; absent fields stay untouched.
type WorkerPatchRequest struct {
	Name            *string `json:"name"`
	NameKana        *string `json:"name_kana"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	BirthDate       *string `json:"birth_date"`
	Nationality     *string `json:"nationality"`
	NativeLanguage  *string `json:"native_language"`
	VisaStatus      *string `json:"visa_status"`
	VisaExpiryDate  *string `json:"visa_expiry_date"`
	JapaneseLevel   *string `json:"japanese_level"`
	EnglishLevel    *string `json:"english_level"`
	Skills          *string `json:"skills"`
	ExperienceYears *int    `json:"experience_years"`
	Education       *string `json:"education"`
	CurrentStatus   *string `json:"current_status"`
	Notes           *string `json:"notes"`
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := validation.Date(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func workerJSON(w *domain.Worker) gin.H {
	return gin.H{
		"id":               w.ID,
		"name":             w.Name,
		"name_kana":        w.NameKana,
		"email":            w.Email,
		"phone":            w.Phone,
		"address":          w.Address,
		"birth_date":       w.BirthDate,
		"nationality":      w.Nationality,
		"native_language":  w.NativeLanguage,
		"visa_status":      w.VisaStatus,
		"visa_expiry_date": w.VisaExpiryDate,
		"japanese_level":   w.JapaneseLevel,
		"english_level":    w.EnglishLevel,
		"skills":           w.Skills,
		"experience_years": w.ExperienceYears,
		"education":        w.Education,
		"current_status":   w.CurrentStatus,
		"notes":            w.Notes,
		"created_at":       w.CreatedAt,
		"updated_at":       w.UpdatedAt,
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /api/workers.
func (h *WorkerHandlers) Create(c *gin.Context) {
	var req WorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthDate, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		respondError(c, err)
		return
	}
	visaExpiry, err := parseOptionalDate(req.VisaExpiryDate)
	if err != nil {
		respondError(c, err)
		return
	}

	worker, err := h.workerSvc.CreateWorker(c.Request.Context(), &domain.Worker{
		Name:            req.Name,
		NameKana:        req.NameKana,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		BirthDate:       birthDate,
		Nationality:     req.Nationality,
		NativeLanguage:  req.NativeLanguage,
		VisaStatus:      req.VisaStatus,
		VisaExpiryDate:  visaExpiry,
		JapaneseLevel:   req.JapaneseLevel,
		EnglishLevel:    req.EnglishLevel,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
		Education:       req.Education,
		CurrentStatus:   req.CurrentStatus,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": workerJSON(worker)})
}

// List handles GET /api/workers.
func (h *WorkerHandlers) List(c *gin.Context) {
	workers, err := h.workerSvc.ListWorkers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(workers))
	for _, w := range workers {
		out = append(out, workerJSON(w))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Get handles GET /api/workers/:id.
func (h *WorkerHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerSvc.GetWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": workerJSON(worker)})
}

// Update handles PUT /api/workers/:id.
func (h *WorkerHandlers) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req WorkerPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := &domain.WorkerPatch{
		Name:            req.Name,
		NameKana:        req.NameKana,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Nationality:     req.Nationality,
		NativeLanguage:  req.NativeLanguage,
		VisaStatus:      req.VisaStatus,
		JapaneseLevel:   req.JapaneseLevel,
		EnglishLevel:    req.EnglishLevel,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
		Education:       req.Education,
		CurrentStatus:   req.CurrentStatus,
		Notes:           req.Notes,
	}
	if req.BirthDate != nil {
		t, err := parseOptionalDate(*req.BirthDate)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.BirthDate = t
	}
	if req.VisaExpiryDate != nil {
		t, err := parseOptionalDate(*req.VisaExpiryDate)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.VisaExpiryDate = t
	}

	worker, err := h.workerSvc.UpdateWorker(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": workerJSON(worker)})
}

// Delete handles DELETE /api/workers/:id.
func (h *WorkerHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workerSvc.DeleteWorker(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Worker deleted"}})
}

// ProgressNoteRequest is the create/update payload for a progress note.
type ProgressNoteRequest struct {
	ProgressDate   string `json:"progress_date" binding:"required"`
	ProgressType   string `json:"progress_type"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	SupportContent string `json:"support_content"`
	NextAction     string `json:"next_action"`
	NextActionDate string `json:"next_action_date"`
	SupportStaff   string `json:"support_staff"`
}

func (r *ProgressNoteRequest) toDomain(workerID uint) (*domain.ProgressNote, error) {
	progressDate, err := validation.Date(r.ProgressDate)
	if err != nil {
		return nil, err
	}
	nextActionDate, err := parseOptionalDate(r.NextActionDate)
	if err != nil {
		return nil, err
	}
	return &domain.ProgressNote{
		WorkerID:       workerID,
		ProgressDate:   progressDate,
		ProgressType:   r.ProgressType,
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		SupportContent: r.SupportContent,
		NextAction:     r.NextAction,
		NextActionDate: nextActionDate,
		SupportStaff:   r.SupportStaff,
	}, nil
}

// CreateProgressNote handles POST /api/workers/:id/progress.
func (h *WorkerHandlers) CreateProgressNote(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ProgressNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := req.toDomain(workerID)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.workerSvc.AddProgressNote(c.Request.Context(), note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// ListProgressNotes handles GET /api/workers/:id/progress.
func (h *WorkerHandlers) ListProgressNotes(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	notes, err := h.workerSvc.ListProgressNotes(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notes})
}

// UpdateProgressNote handles PUT /api/workers/:id/progress/:noteId.
func (h *WorkerHandlers) UpdateProgressNote(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	noteID, ok := pathID(c, "noteId")
	if !ok {
		return
	}

	var req ProgressNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := req.toDomain(workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	note.ID = noteID

	updated, err := h.workerSvc.UpdateProgressNote(c.Request.Context(), note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteProgressNote handles DELETE /api/workers/:id/progress/:noteId.
func (h *WorkerHandlers) DeleteProgressNote(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	noteID, ok := pathID(c, "noteId")
	if !ok {
		return
	}

	if err := h.workerSvc.DeleteProgressNote(c.Request.Context(), workerID, noteID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Progress note deleted"}})
}

// ProficiencyRequest is the create/update payload for a proficiency record.
type ProficiencyRequest struct {
	TestDate              string `json:"test_date" binding:"required"`
	TestType              string `json:"test_type" binding:"required"`
	Level                 string `json:"level"`
	ReadingScore          int    `json:"reading_score"`
	ListeningScore        int    `json:"listening_score"`
	WritingScore          int    `json:"writing_score"`
	SpeakingScore         int    `json:"speaking_score"`
	TotalScore            int    `json:"total_score"`
	Passed                bool   `json:"passed"`
	CertificateNumber     string `json:"certificate_number"`
	CertificateIssuedDate string `json:"certificate_issued_date"`
	Notes                 string `json:"notes"`
}

func (r *ProficiencyRequest) toDomain(workerID uint) (*domain.JapaneseProficiency, error) {
	testDate, err := validation.Date(r.TestDate)
	if err != nil {
		return nil, err
	}
	issued, err := parseOptionalDate(r.CertificateIssuedDate)
	if err != nil {
		return nil, err
	}
	return &domain.JapaneseProficiency{
		WorkerID:              workerID,
		TestDate:              testDate,
		TestType:              r.TestType,
		Level:                 r.Level,
		ReadingScore:          r.ReadingScore,
		ListeningScore:        r.ListeningScore,
		WritingScore:          r.WritingScore,
		SpeakingScore:         r.SpeakingScore,
		TotalScore:            r.TotalScore,
		Passed:                r.Passed,
		CertificateNumber:     r.CertificateNumber,
		CertificateIssuedDate: issued,
		Notes:                 r.Notes,
	}, nil
}

// CreateProficiency handles POST /api/workers/:id/proficiency.
func (h *WorkerHandlers) CreateProficiency(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ProficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := req.toDomain(workerID)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.workerSvc.AddProficiency(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// ListProficiencies handles GET /api/workers/:id/proficiency.
func (h *WorkerHandlers) ListProficiencies(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	records, err := h.workerSvc.ListProficiencies(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// UpdateProficiency handles PUT /api/workers/:id/proficiency/:profId.
func (h *WorkerHandlers) UpdateProficiency(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	profID, ok := pathID(c, "profId")
	if !ok {
		return
	}

	var req ProficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := req.toDomain(workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	p.ID = profID

	updated, err := h.workerSvc.UpdateProficiency(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteProficiency handles DELETE /api/workers/:id/proficiency/:profId.
func (h *WorkerHandlers) DeleteProficiency(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	profID, ok := pathID(c, "profId")
	if !ok {
		return
	}

	if err := h.workerSvc.DeleteProficiency(c.Request.Context(), workerID, profID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Proficiency record deleted"}})
}

// ListTrainingSessions handles GET /api/workers/:id/sessions.
func (h *WorkerHandlers) ListTrainingSessions(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.trainingSvc.ListWorkerSessions(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kensudogit/job-assistance/domain"
)

// WorkerRepositoryImpl implements domain.WorkerRepository using GORM.
// Phone and Address columns hold ciphertext; encryption happens in the
// worker service, this layer stores whatever it is given.
type WorkerRepositoryImpl struct {
	db *gorm.DB
}

// DBWorker is the database model for a worker profile. Phone is sized for
// the base64 AEAD envelope, not the plaintext.
type DBWorker struct {
	ID              uint       `gorm:"primaryKey"`
	Name            string     `gorm:"size:100;not null"`
	NameKana        string     `gorm:"size:100"`
	Email           string     `gorm:"size:100;not null"`
	Phone           string     `gorm:"size:500"`
	Address         string     `gorm:"size:500"`
	BirthDate       *time.Time
	Nationality     string     `gorm:"size:100"`
	NativeLanguage  string     `gorm:"size:50"`
	VisaStatus      string     `gorm:"size:50"`
	VisaExpiryDate  *time.Time
	JapaneseLevel   string     `gorm:"size:20"`
	EnglishLevel    string     `gorm:"size:20"`
	Skills          string     `gorm:"type:text"`
	ExperienceYears int
	Education       string     `gorm:"size:200"`
	CurrentStatus   string     `gorm:"size:50"`
	Notes           string     `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (DBWorker) TableName() string { return "workers" }

// DBProgressNote is the database model for a support/progress record.
type DBProgressNote struct {
	ID             uint      `gorm:"primaryKey"`
	WorkerID       uint      `gorm:"index;not null"`
	ProgressDate   time.Time `gorm:"not null"`
	ProgressType   string    `gorm:"size:50;not null"`
	Title          string    `gorm:"size:200"`
	Description    string    `gorm:"type:text"`
	Status         string    `gorm:"size:50"`
	SupportContent string    `gorm:"type:text"`
	NextAction     string    `gorm:"type:text"`
	NextActionDate *time.Time
	SupportStaff   string    `gorm:"size:100"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (DBProgressNote) TableName() string { return "worker_progress" }

// DBJapaneseProficiency is the database model for a proficiency test result.
type DBJapaneseProficiency struct {
	ID                    uint      `gorm:"primaryKey"`
	WorkerID              uint      `gorm:"index;not null"`
	TestDate              time.Time `gorm:"not null"`
	TestType              string    `gorm:"size:50;not null"`
	Level                 string    `gorm:"size:20"`
	ReadingScore          int
	ListeningScore        int
	WritingScore          int
	SpeakingScore         int
	TotalScore            int
	Passed                bool
	CertificateNumber     string `gorm:"size:100"`
	CertificateIssuedDate *time.Time
	Notes                 string `gorm:"type:text"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (DBJapaneseProficiency) TableName() string { return "japanese_proficiencies" }

// NewWorkerRepository creates a new worker repository.
func NewWorkerRepository(db *gorm.DB) domain.WorkerRepository {
	return &WorkerRepositoryImpl{db: db}
}

// Create implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) Create(ctx context.Context, worker *domain.Worker) error {
	dbWorker := workerToDB(worker)
	if err := r.db.WithContext(ctx).Create(dbWorker).Error; err != nil {
		return err
	}
	worker.ID = dbWorker.ID
	worker.CreatedAt = dbWorker.CreatedAt
	worker.UpdatedAt = dbWorker.UpdatedAt
	return nil
}

// FindByID implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Worker, error) {
	var dbWorker DBWorker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbWorker).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return workerToDomain(&dbWorker), nil
}

// FindAll implements domain.WorkerRepository, newest first.
func (r *WorkerRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Worker, error) {
	var dbWorkers []DBWorker
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&dbWorkers).Error; err != nil {
		return nil, err
	}
	workers := make([]*domain.Worker, 0, len(dbWorkers))
	for i := range dbWorkers {
		workers = append(workers, workerToDomain(&dbWorkers[i]))
	}
	return workers, nil
}

// Update implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) Update(ctx context.Context, worker *domain.Worker) error {
	dbWorker := workerToDB(worker)
	return r.db.WithContext(ctx).Model(&DBWorker{}).Where("id = ?", worker.ID).
		Select("*").Omit("id", "created_at", "deleted_at").Updates(dbWorker).Error
}

// Delete implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBWorker{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// CreateProgressNote implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) CreateProgressNote(ctx context.Context, note *domain.ProgressNote) error {
	dbNote := progressToDB(note)
	if err := r.db.WithContext(ctx).Create(dbNote).Error; err != nil {
		return err
	}
	note.ID = dbNote.ID
	return nil
}

// FindProgressNotes implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) FindProgressNotes(ctx context.Context, workerID uint) ([]*domain.ProgressNote, error) {
	var dbNotes []DBProgressNote
	err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).
		Order("progress_date desc").Find(&dbNotes).Error
	if err != nil {
		return nil, err
	}
	notes := make([]*domain.ProgressNote, 0, len(dbNotes))
	for i := range dbNotes {
		notes = append(notes, progressToDomain(&dbNotes[i]))
	}
	return notes, nil
}

// FindProgressNote implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) FindProgressNote(ctx context.Context, workerID, noteID uint) (*domain.ProgressNote, error) {
	var dbNote DBProgressNote
	err := r.db.WithContext(ctx).Where("id = ? AND worker_id = ?", noteID, workerID).First(&dbNote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrResourceNotFound
		}
		return nil, err
	}
	return progressToDomain(&dbNote), nil
}

// UpdateProgressNote implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) UpdateProgressNote(ctx context.Context, note *domain.ProgressNote) error {
	dbNote := progressToDB(note)
	return r.db.WithContext(ctx).Model(&DBProgressNote{}).
		Where("id = ? AND worker_id = ?", note.ID, note.WorkerID).
		Select("*").Omit("id", "worker_id", "created_at").Updates(dbNote).Error
}

// DeleteProgressNote implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) DeleteProgressNote(ctx context.Context, workerID, noteID uint) error {
	res := r.db.WithContext(ctx).Where("worker_id = ?", workerID).Delete(&DBProgressNote{}, noteID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

// CreateProficiency implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) CreateProficiency(ctx context.Context, p *domain.JapaneseProficiency) error {
	dbProf := proficiencyToDB(p)
	if err := r.db.WithContext(ctx).Create(dbProf).Error; err != nil {
		return err
	}
	p.ID = dbProf.ID
	return nil
}

// FindProficiencies implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) FindProficiencies(ctx context.Context, workerID uint) ([]*domain.JapaneseProficiency, error) {
	var dbProfs []DBJapaneseProficiency
	err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).
		Order("test_date desc").Find(&dbProfs).Error
	if err != nil {
		return nil, err
	}
	profs := make([]*domain.JapaneseProficiency, 0, len(dbProfs))
	for i := range dbProfs {
		profs = append(profs, proficiencyToDomain(&dbProfs[i]))
	}
	return profs, nil
}

// UpdateProficiency implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) UpdateProficiency(ctx context.Context, p *domain.JapaneseProficiency) error {
	dbProf := proficiencyToDB(p)
	return r.db.WithContext(ctx).Model(&DBJapaneseProficiency{}).
		Where("id = ? AND worker_id = ?", p.ID, p.WorkerID).
		Select("*").Omit("id", "worker_id", "created_at").Updates(dbProf).Error
}

// DeleteProficiency implements domain.WorkerRepository.
func (r *WorkerRepositoryImpl) DeleteProficiency(ctx context.Context, workerID, profID uint) error {
	res := r.db.WithContext(ctx).Where("worker_id = ?", workerID).Delete(&DBJapaneseProficiency{}, profID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func workerToDB(w *domain.Worker) *DBWorker {
	return &DBWorker{
		ID:              w.ID,
		Name:            w.Name,
		NameKana:        w.NameKana,
		Email:           w.Email,
		Phone:           w.Phone,
		Address:         w.Address,
		BirthDate:       w.BirthDate,
		Nationality:     w.Nationality,
		NativeLanguage:  w.NativeLanguage,
		VisaStatus:      w.VisaStatus,
		VisaExpiryDate:  w.VisaExpiryDate,
		JapaneseLevel:   w.JapaneseLevel,
		EnglishLevel:    w.EnglishLevel,
		Skills:          w.Skills,
		ExperienceYears: w.ExperienceYears,
		Education:       w.Education,
		CurrentStatus:   w.CurrentStatus,
		Notes:           w.Notes,
	}
}

func workerToDomain(w *DBWorker) *domain.Worker {
	return &domain.Worker{
		ID:              w.ID,
		Name:            w.Name,
		NameKana:        w.NameKana,
		Email:           w.Email,
		Phone:           w.Phone,
		Address:         w.Address,
		BirthDate:       w.BirthDate,
		Nationality:     w.Nationality,
		NativeLanguage:  w.NativeLanguage,
		VisaStatus:      w.VisaStatus,
		VisaExpiryDate:  w.VisaExpiryDate,
		JapaneseLevel:   w.JapaneseLevel,
		EnglishLevel:    w.EnglishLevel,
		Skills:          w.Skills,
		ExperienceYears: w.ExperienceYears,
		Education:       w.Education,
		CurrentStatus:   w.CurrentStatus,
		Notes:           w.Notes,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func progressToDB(n *domain.ProgressNote) *DBProgressNote {
	return &DBProgressNote{
		ID:             n.ID,
		WorkerID:       n.WorkerID,
		ProgressDate:   n.ProgressDate,
		ProgressType:   n.ProgressType,
		Title:          n.Title,
		Description:    n.Description,
		Status:         n.Status,
		SupportContent: n.SupportContent,
		NextAction:     n.NextAction,
		NextActionDate: n.NextActionDate,
		SupportStaff:   n.SupportStaff,
	}
}

func progressToDomain(n *DBProgressNote) *domain.ProgressNote {
	return &domain.ProgressNote{
		ID:             n.ID,
		WorkerID:       n.WorkerID,
		ProgressDate:   n.ProgressDate,
		ProgressType:   n.ProgressType,
		Title:          n.Title,
		Description:    n.Description,
		Status:         n.Status,
		SupportContent: n.SupportContent,
		NextAction:     n.NextAction,
		NextActionDate: n.NextActionDate,
		SupportStaff:   n.SupportStaff,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func proficiencyToDB(p *domain.JapaneseProficiency) *DBJapaneseProficiency {
	return &DBJapaneseProficiency{
		ID:                    p.ID,
		WorkerID:              p.WorkerID,
		TestDate:              p.TestDate,
		TestType:              p.TestType,
		Level:                 p.Level,
		ReadingScore:          p.ReadingScore,
		ListeningScore:        p.ListeningScore,
		WritingScore:          p.WritingScore,
		SpeakingScore:         p.SpeakingScore,
		TotalScore:            p.TotalScore,
		Passed:                p.Passed,
		CertificateNumber:     p.CertificateNumber,
		CertificateIssuedDate: p.CertificateIssuedDate,
		Notes:                 p.Notes,
	}
}

func proficiencyToDomain(p *DBJapaneseProficiency) *domain.JapaneseProficiency {
	return &domain.JapaneseProficiency{
		ID:                    p.ID,
		WorkerID:              p.WorkerID,
		TestDate:              p.TestDate,
		TestType:              p.TestType,
		Level:                 p.Level,
		ReadingScore:          p.ReadingScore,
		ListeningScore:        p.ListeningScore,
		WritingScore:          p.WritingScore,
		SpeakingScore:         p.SpeakingScore,
		TotalScore:            p.TotalScore,
		Passed:                p.Passed,
		CertificateNumber:     p.CertificateNumber,
		CertificateIssuedDate: p.CertificateIssuedDate,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

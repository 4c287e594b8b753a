package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kensudogit/job-assistance/domain"
	"github.com/kensudogit/job-assistance/internal/validation"
)

// WorkerServiceImpl implements domain.WorkerService. Free-text fields are
// sanitized on the way in; phone and address are encrypted before they reach
// the repository and decrypted on the way out.
type WorkerServiceImpl struct {
	workerRepo domain.WorkerRepository
	encryptor  domain.FieldEncryptor
}

// NewWorkerService creates a new worker service.
func NewWorkerService(workerRepo domain.WorkerRepository, encryptor domain.FieldEncryptor) domain.WorkerService {
	return &WorkerServiceImpl{workerRepo: workerRepo, encryptor: encryptor}
}

// CreateWorker implements domain.WorkerService.
func (s *WorkerServiceImpl) CreateWorker(ctx context.Context, worker *domain.Worker) (*domain.Worker, error) {
	if worker.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := validation.String(worker.Name, 100); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if worker.Email != "" {
		if _, err := validation.Email(worker.Email, 255); err != nil {
			return nil, err
		}
	}
	s.sanitizeWorker(worker)

	stored := *worker
	stored.Phone = s.encryptor.Encrypt(worker.Phone)
	stored.Address = s.encryptor.Encrypt(worker.Address)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()

	if err := s.workerRepo.Create(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	worker.ID = stored.ID
	worker.CreatedAt = stored.CreatedAt
	worker.UpdatedAt = stored.UpdatedAt
	return worker, nil
}

// GetWorker implements domain.WorkerService.
func (s *WorkerServiceImpl) GetWorker(ctx context.Context, id uint) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decryptWorker(worker)
	return worker, nil
}

// ListWorkers implements domain.WorkerService.
func (s *WorkerServiceImpl) ListWorkers(ctx context.Context) ([]*domain.Worker, error) {
	workers, err := s.workerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range workers {
		s.decryptWorker(w)
	}
	return workers, nil
}

// UpdateWorker implements domain.WorkerService. Only fields set on the patch
// are applied; everything else keeps its stored value.
func (s *WorkerServiceImpl) UpdateWorker(ctx context.Context, id uint, patch *domain.WorkerPatch) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != "" {
		if _, err := validation.Email(*patch.Email, 255); err != nil {
			return nil, err
		}
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = validation.SanitizeText(*src)
		}
	}
	applyString(&worker.Name, patch.Name)
	applyString(&worker.NameKana, patch.NameKana)
	if patch.Email != nil {
		worker.Email = *patch.Email
	}
	applyString(&worker.Nationality, patch.Nationality)
	applyString(&worker.NativeLanguage, patch.NativeLanguage)
	applyString(&worker.VisaStatus, patch.VisaStatus)
	applyString(&worker.JapaneseLevel, patch.JapaneseLevel)
	applyString(&worker.EnglishLevel, patch.EnglishLevel)
	applyString(&worker.Skills, patch.Skills)
	applyString(&worker.Education, patch.Education)
	applyString(&worker.CurrentStatus, patch.CurrentStatus)
	applyString(&worker.Notes, patch.Notes)
	if patch.BirthDate != nil {
		worker.BirthDate = patch.BirthDate
	}
	if patch.VisaExpiryDate != nil {
		worker.VisaExpiryDate = patch.VisaExpiryDate
	}
	if patch.ExperienceYears != nil {
		worker.ExperienceYears = *patch.ExperienceYears
	}

	// Phone and address arrive from the repository encrypted; re-encrypt only
	// the values the patch replaces.
	if patch.Phone != nil {
		worker.Phone = s.encryptor.Encrypt(validation.SanitizeText(*patch.Phone))
	}
	if patch.Address != nil {
		worker.Address = s.encryptor.Encrypt(validation.SanitizeText(*patch.Address))
	}

	worker.UpdatedAt = time.Now()
	if err := s.workerRepo.Update(ctx, worker); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	s.decryptWorker(worker)
	return worker, nil
}

// DeleteWorker implements domain.WorkerService.
func (s *WorkerServiceImpl) DeleteWorker(ctx context.Context, id uint) error {
	return s.workerRepo.Delete(ctx, id)
}

func (s *WorkerServiceImpl) sanitizeWorker(w *domain.Worker) {
	w.Name = validation.SanitizeText(w.Name)
	w.NameKana = validation.SanitizeText(w.NameKana)
	w.Phone = validation.SanitizeText(w.Phone)
	w.Address = validation.SanitizeText(w.Address)
	w.Nationality = validation.SanitizeText(w.Nationality)
	w.NativeLanguage = validation.SanitizeText(w.NativeLanguage)
	w.VisaStatus = validation.SanitizeText(w.VisaStatus)
	w.JapaneseLevel = validation.SanitizeText(w.JapaneseLevel)
	w.EnglishLevel = validation.SanitizeText(w.EnglishLevel)
	w.Skills = validation.SanitizeText(w.Skills)
	w.Education = validation.SanitizeText(w.Education)
	w.CurrentStatus = validation.SanitizeText(w.CurrentStatus)
	w.Notes = validation.SanitizeText(w.Notes)
}

func (s *WorkerServiceImpl) decryptWorker(w *domain.Worker) {
	w.Phone = s.encryptor.Decrypt(w.Phone)
	w.Address = s.encryptor.Decrypt(w.Address)
}

// AddProgressNote implements domain.WorkerService.
func (s *WorkerServiceImpl) AddProgressNote(ctx context.Context, note *domain.ProgressNote) (*domain.ProgressNote, error) {
	if _, err := s.workerRepo.FindByID(ctx, note.WorkerID); err != nil {
		return nil, err
	}
	if note.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if _, err := validation.String(note.Title, 200); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	note.Title = validation.SanitizeText(note.Title)
	note.Description = validation.SanitizeText(note.Description)
	note.SupportContent = validation.SanitizeText(note.SupportContent)
	note.NextAction = validation.SanitizeText(note.NextAction)
	note.SupportStaff = validation.SanitizeText(note.SupportStaff)
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	if err := s.workerRepo.CreateProgressNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create progress note: %w", err)
	}
	return note, nil
}

// ListProgressNotes implements domain.WorkerService.
func (s *WorkerServiceImpl) ListProgressNotes(ctx context.Context, workerID uint) ([]*domain.ProgressNote, error) {
	if _, err := s.workerRepo.FindByID(ctx, workerID); err != nil {
		return nil, err
	}
	return s.workerRepo.FindProgressNotes(ctx, workerID)
}

// UpdateProgressNote implements domain.WorkerService.
func (s *WorkerServiceImpl) UpdateProgressNote(ctx context.Context, note *domain.ProgressNote) (*domain.ProgressNote, error) {
	existing, err := s.workerRepo.FindProgressNote(ctx, note.WorkerID, note.ID)
	if err != nil {
		return nil, err
	}
	note.CreatedAt = existing.CreatedAt
	note.Title = validation.SanitizeText(note.Title)
	note.Description = validation.SanitizeText(note.Description)
	note.SupportContent = validation.SanitizeText(note.SupportContent)
	note.NextAction = validation.SanitizeText(note.NextAction)
	note.SupportStaff = validation.SanitizeText(note.SupportStaff)
	note.UpdatedAt = time.Now()

	if err := s.workerRepo.UpdateProgressNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update progress note: %w", err)
	}
	return note, nil
}

// DeleteProgressNote implements domain.WorkerService.
func (s *WorkerServiceImpl) DeleteProgressNote(ctx context.Context, workerID, noteID uint) error {
	return s.workerRepo.DeleteProgressNote(ctx, workerID, noteID)
}

// AddProficiency implements domain.WorkerService.
func (s *WorkerServiceImpl) AddProficiency(ctx context.Context, p *domain.JapaneseProficiency) (*domain.JapaneseProficiency, error) {
	if _, err := s.workerRepo.FindByID(ctx, p.WorkerID); err != nil {
		return nil, err
	}
	p.TestType = validation.SanitizeText(p.TestType)
	p.Level = validation.SanitizeText(p.Level)
	p.CertificateNumber = validation.SanitizeText(p.CertificateNumber)
	p.Notes = validation.SanitizeText(p.Notes)
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	if err := s.workerRepo.CreateProficiency(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create proficiency record: %w", err)
	}
	return p, nil
}

// ListProficiencies implements domain.WorkerService.
func (s *WorkerServiceImpl) ListProficiencies(ctx context.Context, workerID uint) ([]*domain.JapaneseProficiency, error) {
	if _, err := s.workerRepo.FindByID(ctx, workerID); err != nil {
		return nil, err
	}
	return s.workerRepo.FindProficiencies(ctx, workerID)
}

// UpdateProficiency implements domain.WorkerService.
func (s *WorkerServiceImpl) UpdateProficiency(ctx context.Context, p *domain.JapaneseProficiency) (*domain.JapaneseProficiency, error) {
	p.TestType = validation.SanitizeText(p.TestType)
	p.Level = validation.SanitizeText(p.Level)
	p.CertificateNumber = validation.SanitizeText(p.CertificateNumber)
	p.Notes = validation.SanitizeText(p.Notes)
	p.UpdatedAt = time.Now()

	if err := s.workerRepo.UpdateProficiency(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update proficiency record: %w", err)
	}
	return p, nil
}

// DeleteProficiency implements domain.WorkerService.
func (s *WorkerServiceImpl) DeleteProficiency(ctx context.Context, workerID, profID uint) error {
	return s.workerRepo.DeleteProficiency(ctx, workerID, profID)
}

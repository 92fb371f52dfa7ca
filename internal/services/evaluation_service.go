package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/pdf"
	"officehub/internal/repositories"
	"officehub/internal/storage"
)

type EvaluationService interface {
	Create(evaluatorID int, e *models.Evaluation) error
	GetByID(id int64, actorID int, actorRole string) (*models.Evaluation, error)
	Update(e *models.Evaluation) error
	Delete(id int64) error
	List(f models.EvaluationFilter, actorID int, actorRole string) ([]*models.Evaluation, error)
	Publish(ctx context.Context, id int64) (*models.Evaluation, error)
}

type evaluationService struct {
	repo     repositories.EvaluationRepository
	userRepo repositories.UserRepository
	notify   NotificationService
	pdfGen   pdf.Generator
	storage  storage.ObjectStorage
}

func NewEvaluationService(
	repo repositories.EvaluationRepository,
	userRepo repositories.UserRepository,
	notify NotificationService,
	pdfGen pdf.Generator,
	store storage.ObjectStorage,
) EvaluationService {
	return &evaluationService{repo: repo, userRepo: userRepo, notify: notify, pdfGen: pdfGen, storage: store}
}

func overallScore(r models.EvaluationRatings) float64 {
	sum := r.TechnicalSkills + r.Communication + r.Teamwork + r.Initiative + r.Punctuality
	return float64(sum) / 5.0
}

func validRatings(r models.EvaluationRatings) bool {
	for _, v := range []int{r.TechnicalSkills, r.Communication, r.Teamwork, r.Initiative, r.Punctuality} {
		if v < 1 || v > 5 {
			return false
		}
	}
	return true
}

func (s *evaluationService) Create(evaluatorID int, e *models.Evaluation) error {
	if e.InternID == 0 {
		return errors.New("internId is required")
	}
	if !validRatings(e.Ratings) {
		return errors.New("ratings must be between 1 and 5")
	}
	intern, err := s.userRepo.GetByID(e.InternID)
	if err != nil {
		return err
	}
	if intern == nil {
		return ErrUserNotFound
	}
	e.EvaluatorID = evaluatorID
	e.OverallScore = overallScore(e.Ratings)
	e.Status = models.EvaluationStatusDraft
	return s.repo.Create(e)
}

// стажёр видит только свои опубликованные оценки
func (s *evaluationService) GetByID(id int64, actorID int, actorRole string) (*models.Evaluation, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) {
		if e.InternID != actorID || e.Status != models.EvaluationStatusPublished {
			return nil, ErrForbidden
		}
	}
	return e, nil
}

func (s *evaluationService) Update(e *models.Evaluation) error {
	current, err := s.repo.GetByID(e.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if !validRatings(e.Ratings) {
		return errors.New("ratings must be between 1 and 5")
	}
	e.OverallScore = overallScore(e.Ratings)
	if e.Status == "" {
		e.Status = current.Status
	}
	return s.repo.Update(e)
}

func (s *evaluationService) Delete(id int64) error {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func (s *evaluationService) List(f models.EvaluationFilter, actorID int, actorRole string) ([]*models.Evaluation, error) {
	if authz.RestrictToSelf(actorRole) {
		f.InternID = actorID
		f.Status = models.EvaluationStatusPublished
	}
	return s.repo.List(f)
}

// Publish — переводит оценку в published, генерирует сертификат стажировки
// и уведомляет стажёра. Сбой генерации сертификата публикацию не откатывает.
func (s *evaluationService) Publish(ctx context.Context, id int64) (*models.Evaluation, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	if e.Status == models.EvaluationStatusPublished {
		return nil, errors.New("evaluation already published")
	}

	e.Status = models.EvaluationStatusPublished
	if err := s.repo.Update(e); err != nil {
		return nil, err
	}

	if url, err := s.generateCertificate(ctx, e); err != nil {
		log.Printf("[evaluation][publish] certificate for id=%d failed: %v", e.ID, err)
	} else {
		e.CertificateURL = &url
	}

	if err := s.notify.Notify(e.InternID, models.NotificationTypeEvaluation,
		"Evaluation published", "Your evaluation for "+e.Period+" is available", "evaluation", e.ID); err != nil {
		log.Printf("[evaluation][publish] notify failed for id=%d: %v", e.ID, err)
	}
	return e, nil
}

func (s *evaluationService) generateCertificate(ctx context.Context, e *models.Evaluation) (string, error) {
	if s.pdfGen == nil || s.storage == nil {
		return "", errors.New("certificate generation is not configured")
	}
	intern, err := s.userRepo.GetByID(e.InternID)
	if err != nil || intern == nil {
		return "", fmt.Errorf("intern lookup: %v", err)
	}

	data, err := s.pdfGen.GenerateCertificate(pdf.CertificateData{
		InternName:   intern.Name,
		Position:     intern.Position,
		Department:   intern.Department,
		Period:       e.Period,
		OverallScore: e.OverallScore,
		IssuedAt:     time.Now(),
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("certificates/%d/%s.pdf", e.InternID, uuid.NewString())
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		return "", err
	}
	if err := s.repo.SetCertificateURL(e.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

type WorkLogService interface {
	Create(userID int, w *models.WorkLog) error
	GetByID(id int64, actorID int, actorRole string) (*models.WorkLog, error)
	Update(actorID int, actorRole string, w *models.WorkLog) error
	Delete(id int64, actorID int, actorRole string) error
	List(f models.WorkLogFilter, actorID int, actorRole string) ([]*models.WorkLog, error)
	Review(id int64, adminID int, req models.WorkLogFeedbackRequest) (*models.WorkLog, error)
	StatsByUser(userID int) (*models.WorkLogStats, error)
}

type workLogService struct {
	repo   repositories.WorkLogRepository
	notify NotificationService
}

func NewWorkLogService(repo repositories.WorkLogRepository, notify NotificationService) WorkLogService {
	return &workLogService{repo: repo, notify: notify}
}

func (s *workLogService) Create(userID int, w *models.WorkLog) error {
	w.Title = strings.TrimSpace(w.Title)
	if w.Title == "" {
		return errors.New("title is required")
	}
	if w.HoursSpent <= 0 || w.HoursSpent > 24 {
		return errors.New("hoursSpent must be between 0 and 24")
	}
	if w.Date == "" {
		w.Date = time.Now().Format("2006-01-02")
	}
	w.UserID = userID
	w.Status = models.WorkLogStatusSubmitted
	return s.repo.Create(w)
}

func (s *workLogService) GetByID(id int64, actorID int, actorRole string) (*models.WorkLog, error) {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) && w.UserID != actorID {
		return nil, ErrForbidden
	}
	return w, nil
}

// Update — владелец правит свой лог, пока он не отревьюен; админ — всегда.
func (s *workLogService) Update(actorID int, actorRole string, w *models.WorkLog) error {
	current, err := s.repo.GetByID(w.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) {
		if current.UserID != actorID {
			return ErrForbidden
		}
		if current.Status == models.WorkLogStatusReviewed {
			return errors.New("reviewed work log cannot be edited")
		}
	}
	// ревью-поля через Update не меняются
	w.UserID = current.UserID
	w.Status = current.Status
	w.Rating = current.Rating
	w.Feedback = current.Feedback
	w.ReviewedBy = current.ReviewedBy
	w.ReviewedAt = current.ReviewedAt
	return s.repo.Update(w)
}

func (s *workLogService) Delete(id int64, actorID int, actorRole string) error {
	w, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) && w.UserID != actorID {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}

func (s *workLogService) List(f models.WorkLogFilter, actorID int, actorRole string) ([]*models.WorkLog, error) {
	if authz.RestrictToSelf(actorRole) {
		f.UserID = actorID
	}
	return s.repo.List(f)
}

// Review — админ ставит оценку и комментарий, лог переходит в reviewed.
func (s *workLogService) Review(id int64, adminID int, req models.WorkLogFeedbackRequest) (*models.WorkLog, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	w, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	feedback := req.Feedback
	w.Rating = &req.Rating
	w.Feedback = &feedback
	w.ReviewedBy = &adminID
	w.ReviewedAt = &now
	w.Status = models.WorkLogStatusReviewed
	if err := s.repo.Update(w); err != nil {
		return nil, err
	}

	if err := s.notify.Notify(w.UserID, models.NotificationTypeSystem,
		"Work log reviewed", w.Title, "worklog", w.ID); err != nil {
		log.Printf("[worklog][review] notify failed for id=%d: %v", w.ID, err)
	}
	return w, nil
}

func (s *workLogService) StatsByUser(userID int) (*models.WorkLogStats, error) {
	return s.repo.StatsByUser(userID)
}

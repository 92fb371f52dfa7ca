package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

var ErrBadStatusTransition = errors.New("invalid status transition")

// допустимые переходы статусов задачи
var taskTransitions = map[string][]string{
	models.TaskStatusPending:    {models.TaskStatusInProgress, models.TaskStatusCancelled},
	models.TaskStatusInProgress: {models.TaskStatusCompleted, models.TaskStatusCancelled},
	models.TaskStatusCompleted:  {},
	models.TaskStatusCancelled:  {},
}

type TaskService interface {
	Create(actorID int, task *models.Task) error
	GetByID(id int64, actorID int, actorRole string) (*models.Task, error)
	Update(actorID int, actorRole string, task *models.Task) error
	Delete(id int64) error
	List(f models.TaskFilter, actorID int, actorRole string) ([]*models.Task, error)
	AddComment(taskID int64, actorID int, actorRole string, authorName, text string) (*models.Task, error)
	StatsByUser(userID int) (*models.TaskStats, error)
}

type taskService struct {
	repo   repositories.TaskRepository
	notify NotificationService
}

func NewTaskService(repo repositories.TaskRepository, notify NotificationService) TaskService {
	return &taskService{repo: repo, notify: notify}
}

func (s *taskService) Create(actorID int, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return errors.New("title is required")
	}
	if task.AssignedTo == 0 {
		return errors.New("assignedTo is required")
	}
	task.AssignedBy = actorID
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if task.Comments == nil {
		task.Comments = []models.TaskComment{}
	}
	if err := s.repo.Create(task); err != nil {
		return err
	}

	if err := s.notify.Notify(task.AssignedTo, models.NotificationTypeTask,
		"New task assigned", task.Title, "task", task.ID); err != nil {
		log.Printf("[task][create] notify failed for taskID=%d: %v", task.ID, err)
	}
	return nil
}

func (s *taskService) GetByID(id int64, actorID int, actorRole string) (*models.Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) && task.AssignedTo != actorID {
		return nil, ErrForbidden
	}
	return task, nil
}

// Update — исполнитель меняет только статус, админ — всё. Даты start/completed
// проставляются автоматически по переходу статуса.
func (s *taskService) Update(actorID int, actorRole string, task *models.Task) error {
	current, err := s.repo.GetByID(task.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) {
		if current.AssignedTo != actorID {
			return ErrForbidden
		}
		// стажёру доступен только статус
		status := task.Status
		*task = *current
		task.Status = status
	}

	if task.Status != current.Status {
		if !transitionAllowed(current.Status, task.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrBadStatusTransition, current.Status, task.Status)
		}
		now := time.Now()
		switch task.Status {
		case models.TaskStatusInProgress:
			if task.StartDate == nil {
				task.StartDate = &now
			}
		case models.TaskStatusCompleted:
			task.CompletedDate = &now
		}
	}

	if err := s.repo.Update(task); err != nil {
		return err
	}

	if task.Status == models.TaskStatusCompleted && current.Status != models.TaskStatusCompleted {
		if err := s.notify.Notify(current.AssignedBy, models.NotificationTypeTask,
			"Task completed", task.Title, "task", task.ID); err != nil {
			log.Printf("[task][update] notify failed for taskID=%d: %v", task.ID, err)
		}
	}
	return nil
}

func transitionAllowed(from, to string) bool {
	for _, t := range taskTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *taskService) Delete(id int64) error {
	task, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func (s *taskService) List(f models.TaskFilter, actorID int, actorRole string) ([]*models.Task, error) {
	if authz.RestrictToSelf(actorRole) {
		f.AssignedTo = actorID
	}
	return s.repo.List(f)
}

func (s *taskService) AddComment(taskID int64, actorID int, actorRole string, authorName, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("comment text is required")
	}
	task, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if authz.RestrictToSelf(actorRole) && task.AssignedTo != actorID {
		return nil, ErrForbidden
	}
	task.Comments = append(task.Comments, models.TaskComment{
		AuthorID:   actorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	})
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) StatsByUser(userID int) (*models.TaskStats, error) {
	return s.repo.StatsByUser(userID)
}

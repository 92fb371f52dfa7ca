package services

import (
	"errors"
	"log"
	"strings"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

type AnnouncementService interface {
	Create(authorID int, a *models.Announcement) error
	Update(a *models.Announcement) error
	Delete(id int64) error
	List(actorRole string, activeOnly bool, limit, offset int) ([]*models.Announcement, error)
	MarkRead(id int64, userID int) error
}

type announcementService struct {
	repo     repositories.AnnouncementRepository
	userRepo repositories.UserRepository
	notify   NotificationService
}

func NewAnnouncementService(repo repositories.AnnouncementRepository, userRepo repositories.UserRepository, notify NotificationService) AnnouncementService {
	return &announcementService{repo: repo, userRepo: userRepo, notify: notify}
}

func validAudience(a string) bool {
	switch a {
	case models.AudienceAll, models.AudienceInterns, models.AudienceAdmins:
		return true
	}
	return false
}

// audienceForRole — какие анонсы видит роль.
func audienceForRole(role string) string {
	if role == authz.RoleAdmin {
		return models.AudienceAdmins
	}
	return models.AudienceInterns
}

func (s *announcementService) Create(authorID int, a *models.Announcement) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return errors.New("title is required")
	}
	if a.Audience == "" {
		a.Audience = models.AudienceAll
	}
	if !validAudience(a.Audience) {
		return errors.New("invalid audience")
	}
	if a.Priority == "" {
		a.Priority = "normal"
	}
	a.AuthorID = authorID
	a.Active = true
	if err := s.repo.Create(a); err != nil {
		return err
	}

	// фан-аут уведомлений целевой аудитории
	roleFilter := ""
	switch a.Audience {
	case models.AudienceInterns:
		roleFilter = authz.RoleIntern
	case models.AudienceAdmins:
		roleFilter = authz.RoleAdmin
	}
	users, err := s.userRepo.List(models.UserFilter{Role: roleFilter, Status: "active"})
	if err != nil {
		log.Printf("[announcement][create] audience lookup failed: %v", err)
		return nil
	}
	var ids []int
	for _, u := range users {
		if u.ID != authorID {
			ids = append(ids, u.ID)
		}
	}
	if err := s.notify.NotifyMany(ids, models.NotificationTypeAnnouncement,
		"New announcement", a.Title, "announcement", a.ID); err != nil {
		log.Printf("[announcement][create] notify failed for id=%d: %v", a.ID, err)
	}
	return nil
}

func (s *announcementService) Update(a *models.Announcement) error {
	current, err := s.repo.GetByID(a.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if a.Audience == "" {
		a.Audience = current.Audience
	}
	if !validAudience(a.Audience) {
		return errors.New("invalid audience")
	}
	if a.Priority == "" {
		a.Priority = current.Priority
	}
	return s.repo.Update(a)
}

func (s *announcementService) Delete(id int64) error {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func (s *announcementService) List(actorRole string, activeOnly bool, limit, offset int) ([]*models.Announcement, error) {
	f := models.AnnouncementFilter{
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	}
	if !authz.IsAdmin(actorRole) || activeOnly {
		f.ViewerRole = audienceForRole(actorRole)
	}
	return s.repo.List(f)
}

func (s *announcementService) MarkRead(id int64, userID int) error {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	return s.repo.MarkRead(id, userID)
}

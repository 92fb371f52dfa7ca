package services

import (
	"fmt"
	"log"

	"officehub/internal/models"
	"officehub/internal/repositories"
)

type NotificationService interface {
	Notify(userID int, typ, title, message, refType string, refID int64) error
	NotifyMany(userIDs []int, typ, title, message, refType string, refID int64) error
	ListByUser(userID int, limit, offset int) ([]*models.Notification, int, error)
	MarkRead(id int64, userID int) error
	MarkAllRead(userID int) (int64, error)
	Delete(id int64, userID int) error
}

type notificationService struct {
	repo     repositories.NotificationRepository
	userRepo repositories.UserRepository
	telegram *TelegramService // может быть nil
}

func NewNotificationService(repo repositories.NotificationRepository, userRepo repositories.UserRepository, telegram *TelegramService) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, telegram: telegram}
}

func (s *notificationService) Notify(userID int, typ, title, message, refType string, refID int64) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	s.pushTelegram(userID, title, message)
	return nil
}

func (s *notificationService) NotifyMany(userIDs []int, typ, title, message, refType string, refID int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	ns := make([]*models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, &models.Notification{
			UserID:  id,
			Type:    typ,
			Title:   title,
			Message: message,
			RefType: refType,
			RefID:   refID,
		})
	}
	if err := s.repo.CreateBulk(ns); err != nil {
		return err
	}
	for _, id := range userIDs {
		s.pushTelegram(id, title, message)
	}
	return nil
}

// pushTelegram — best effort: сбой доставки не валит основную операцию.
func (s *notificationService) pushTelegram(userID int, title, message string) {
	if s.telegram == nil {
		return
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil || user == nil || user.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf("<b>%s</b>\n%s", title, message)
	if err := s.telegram.SendMessage(user.TelegramChatID, text); err != nil {
		log.Printf("[notify][tg] push to userID=%d failed: %v", userID, err)
	}
}

func (s *notificationService) ListByUser(userID int, limit, offset int) ([]*models.Notification, int, error) {
	items, err := s.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.UnreadCount(userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *notificationService) MarkRead(id int64, userID int) error {
	n, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID int) (int64, error) {
	return s.repo.MarkAllRead(userID)
}

func (s *notificationService) Delete(id int64, userID int) error {
	n, err := s.repo.Delete(id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

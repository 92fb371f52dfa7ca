package services

import (
	"errors"
	"fmt"
	"strings"

	"officehub/internal/models"
	"officehub/internal/repositories"
)

type MessageService interface {
	Send(senderID int, req models.SendMessageRequest) (*models.Message, error)
	Conversation(actorID, partnerID int, limit, offset int) ([]*models.Message, error)
	Conversations(actorID int) ([]models.ConversationSummary, error)
	MarkConversationRead(actorID, partnerID int) (int64, error)
	UnreadCount(actorID int) (int, error)
}

type messageService struct {
	repo     repositories.MessageRepository
	userRepo repositories.UserRepository
}

func NewMessageService(repo repositories.MessageRepository, userRepo repositories.UserRepository) MessageService {
	return &messageService{repo: repo, userRepo: userRepo}
}

// ConversationKey — детерминированный ключ диалога: "minID:maxID".
// Оба участника всегда получают один и тот же ключ.
func ConversationKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (s *messageService) Send(senderID int, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errors.New("content is required")
	}
	if req.RecipientID == senderID {
		return nil, errors.New("cannot message yourself")
	}
	recipient, err := s.userRepo.GetByID(req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	m := &models.Message{
		SenderID:        senderID,
		RecipientID:     req.RecipientID,
		ConversationKey: ConversationKey(senderID, req.RecipientID),
		Content:         content,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *messageService) Conversation(actorID, partnerID int, limit, offset int) ([]*models.Message, error) {
	return s.repo.ListByConversation(ConversationKey(actorID, partnerID), limit, offset)
}

func (s *messageService) Conversations(actorID int) ([]models.ConversationSummary, error) {
	return s.repo.ListConversations(actorID)
}

// MarkConversationRead — прочитанными помечаются только сообщения,
// адресованные актору; его собственные не трогаем.
func (s *messageService) MarkConversationRead(actorID, partnerID int) (int64, error) {
	return s.repo.MarkConversationRead(ConversationKey(actorID, partnerID), actorID)
}

func (s *messageService) UnreadCount(actorID int) (int, error) {
	return s.repo.UnreadCount(actorID)
}

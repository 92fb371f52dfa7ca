package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/repositories"
)

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeMessageRepo struct {
	repositories.MessageRepository

	messages []*models.Message

	lastReadKey       string
	lastReadRecipient int
}

func (r *fakeMessageRepo) Create(m *models.Message) error {
	m.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeMessageRepo) MarkConversationRead(key string, recipientID int) (int64, error) {
	r.lastReadKey = key
	r.lastReadRecipient = recipientID
	return 2, nil
}

func TestConversationKey(t *testing.T) {
	// оба участника получают один и тот же ключ
	assert.Equal(t, "3:7", ConversationKey(3, 7))
	assert.Equal(t, "3:7", ConversationKey(7, 3))
	assert.Equal(t, "7:7", ConversationKey(7, 7))
}

func TestMessageSend(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{ID: 3, Email: "admin@example.com"},
		&models.User{ID: 7, Email: "intern@example.com"},
	)
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, users)

	m, err := svc.Send(7, models.SendMessageRequest{RecipientID: 3, Content: "  привет "})
	require.NoError(t, err)
	assert.Equal(t, "привет", m.Content)
	assert.Equal(t, "3:7", m.ConversationKey)
	assert.Equal(t, int64(1), m.ID)
}

func TestMessageSendValidation(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 7, Email: "intern@example.com"})
	svc := NewMessageService(&fakeMessageRepo{}, users)

	_, err := svc.Send(7, models.SendMessageRequest{RecipientID: 3, Content: "   "})
	require.Error(t, err)

	// самому себе писать нельзя
	_, err = svc.Send(7, models.SendMessageRequest{RecipientID: 7, Content: "привет"})
	require.Error(t, err)

	// получатель должен существовать
	_, err = svc.Send(7, models.SendMessageRequest{RecipientID: 99, Content: "привет"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMessageMarkConversationRead(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{ID: 3, Email: "admin@example.com"},
		&models.User{ID: 7, Email: "intern@example.com"},
	)
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, users)

	n, err := svc.MarkConversationRead(7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "3:7", repo.lastReadKey)
	assert.Equal(t, 7, repo.lastReadRecipient) // читаются только входящие актора
}

package repositories

import (
	"database/sql"
	"fmt"

	"officehub/internal/models"
)

type MessageRepository interface {
	Create(m *models.Message) error
	ListByConversation(conversationKey string, limit, offset int) ([]*models.Message, error)
	ListConversations(userID int) ([]models.ConversationSummary, error)
	MarkConversationRead(conversationKey string, recipientID int) (int64, error)
	UnreadCount(userID int) (int, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) Create(m *models.Message) error {
	const q = `
		INSERT INTO messages (sender_id, recipient_id, conversation_key, content, read, created_at)
		VALUES ($1,$2,$3,$4,FALSE,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, m.SenderID, m.RecipientID, m.ConversationKey, m.Content).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *messageRepository) ListByConversation(conversationKey string, limit, offset int) ([]*models.Message, error) {
	q := `
		SELECT m.id, m.sender_id, m.recipient_id, m.conversation_key, m.content, m.read,
		       COALESCE(u.name, ''), m.created_at
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_key = $1
		ORDER BY m.created_at ASC
	`
	args := []interface{}{conversationKey}
	if limit > 0 {
		q += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("message list: %w", err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.ConversationKey,
			&m.Content, &m.Read, &m.SenderName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("message list scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListConversations — по одной строке на диалог: собеседник, последнее
// сообщение, количество непрочитанных входящих.
func (r *messageRepository) ListConversations(userID int) ([]models.ConversationSummary, error) {
	const q = `
		SELECT DISTINCT ON (m.conversation_key)
			CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS partner_id,
			COALESCE(p.name, ''),
			m.content,
			m.created_at,
			(
				SELECT COUNT(*)
				FROM messages x
				WHERE x.conversation_key = m.conversation_key
				  AND x.recipient_id = $1
				  AND NOT x.read
			)
		FROM messages m
		LEFT JOIN users p ON p.id = CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		ORDER BY m.conversation_key, m.created_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation list: %w", err)
	}
	defer rows.Close()

	var out []models.ConversationSummary
	for rows.Next() {
		var c models.ConversationSummary
		if err := rows.Scan(&c.PartnerID, &c.PartnerName, &c.LastMessage, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("conversation list scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkConversationRead — помечает прочитанными только входящие получателя.
func (r *messageRepository) MarkConversationRead(conversationKey string, recipientID int) (int64, error) {
	res, err := r.DB.Exec(
		`UPDATE messages SET read=TRUE WHERE conversation_key=$1 AND recipient_id=$2 AND NOT read`,
		conversationKey, recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("message mark read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *messageRepository) UnreadCount(userID int) (int, error) {
	var c int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE recipient_id=$1 AND NOT read`, userID,
	).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("message unread count: %w", err)
	}
	return c, nil
}

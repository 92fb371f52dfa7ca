package repositories

import (
	"database/sql"
	"fmt"

	"officehub/internal/models"
)

type NotificationRepository interface {
	Create(n *models.Notification) error
	CreateBulk(ns []*models.Notification) error
	GetByID(id int64) (*models.Notification, error)
	ListByUser(userID int, limit, offset int) ([]*models.Notification, error)
	UnreadCount(userID int) (int, error)
	MarkRead(id int64, userID int) (int64, error)
	MarkAllRead(userID int) (int64, error)
	Delete(id int64, userID int) (int64, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(n *models.Notification) error {
	const q = `
		INSERT INTO notifications (user_id, type, title, message, read, ref_type, ref_id, created_at)
		VALUES ($1,$2,$3,$4,FALSE,$5,$6,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, n.UserID, n.Type, n.Title, n.Message,
		nullString(n.RefType), n.RefID).Scan(&n.ID, &n.CreatedAt)
}

// CreateBulk — одной транзакцией, используется фан-аутами (задачи, документы, анонсы).
func (r *notificationRepository) CreateBulk(ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("notification bulk begin: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO notifications (user_id, type, title, message, read, ref_type, ref_id, created_at)
		VALUES ($1,$2,$3,$4,FALSE,$5,$6,NOW())
		RETURNING id, created_at
	`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return fmt.Errorf("notification bulk prepare: %w", err)
	}
	defer stmt.Close()

	for _, n := range ns {
		if err := stmt.QueryRow(n.UserID, n.Type, n.Title, n.Message,
			nullString(n.RefType), n.RefID).Scan(&n.ID, &n.CreatedAt); err != nil {
			return fmt.Errorf("notification bulk insert: %w", err)
		}
	}
	return tx.Commit()
}

func (r *notificationRepository) GetByID(id int64) (*models.Notification, error) {
	const q = `
		SELECT id, user_id, type, title, message, read, COALESCE(ref_type, ''), COALESCE(ref_id, 0), created_at
		FROM notifications
		WHERE id = $1
	`
	n := &models.Notification{}
	err := r.DB.QueryRow(q, id).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.RefType, &n.RefID, &n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("notification get: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) ListByUser(userID int, limit, offset int) ([]*models.Notification, error) {
	q := `
		SELECT id, user_id, type, title, message, read, COALESCE(ref_type, ''), COALESCE(ref_id, 0), created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		q += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("notification list: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read,
			&n.RefType, &n.RefID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notification list scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) UnreadCount(userID int) (int, error) {
	var c int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT read`, userID,
	).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("notification unread count: %w", err)
	}
	return c, nil
}

// MarkRead — владение проверяется в самом запросе: чужую запись не пометить.
func (r *notificationRepository) MarkRead(id int64, userID int) (int64, error) {
	res, err := r.DB.Exec(`UPDATE notifications SET read=TRUE WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("notification mark read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *notificationRepository) MarkAllRead(userID int) (int64, error) {
	res, err := r.DB.Exec(`UPDATE notifications SET read=TRUE WHERE user_id=$1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("notification mark all read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *notificationRepository) Delete(id int64, userID int) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM notifications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("notification delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"officehub/internal/models"
)

type AnnouncementRepository interface {
	Create(a *models.Announcement) error
	GetByID(id int64) (*models.Announcement, error)
	Update(a *models.Announcement) error
	Delete(id int64) error
	List(f models.AnnouncementFilter) ([]*models.Announcement, error)
	MarkRead(id int64, userID int) error
}

type announcementRepository struct {
	DB *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &announcementRepository{DB: db}
}

const announcementSelect = `
	SELECT
		a.id, a.author_id, a.title, a.content, a.audience, a.priority, a.active,
		COALESCE(a.read_by, '{}'), a.created_at, COALESCE(u.name, '')
	FROM announcements a
	LEFT JOIN users u ON u.id = a.author_id
`

func scanAnnouncement(row interface{ Scan(...interface{}) error }) (*models.Announcement, error) {
	a := &models.Announcement{}
	var readBy pq.Int64Array
	err := row.Scan(
		&a.ID, &a.AuthorID, &a.Title, &a.Content, &a.Audience, &a.Priority, &a.Active,
		&readBy, &a.CreatedAt, &a.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	a.ReadBy = []int64(readBy)
	if a.ReadBy == nil {
		a.ReadBy = []int64{}
	}
	return a, nil
}

func (r *announcementRepository) Create(a *models.Announcement) error {
	const q = `
		INSERT INTO announcements (author_id, title, content, audience, priority, active, read_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,'{}',NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, a.AuthorID, a.Title, a.Content, a.Audience, a.Priority, a.Active).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *announcementRepository) GetByID(id int64) (*models.Announcement, error) {
	a, err := scanAnnouncement(r.DB.QueryRow(announcementSelect+` WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("announcement get: %w", err)
	}
	return a, nil
}

func (r *announcementRepository) Update(a *models.Announcement) error {
	const q = `
		UPDATE announcements
		SET title=$1, content=$2, audience=$3, priority=$4, active=$5
		WHERE id=$6
	`
	_, err := r.DB.Exec(q, a.Title, a.Content, a.Audience, a.Priority, a.Active, a.ID)
	if err != nil {
		return fmt.Errorf("announcement update: %w", err)
	}
	return nil
}

func (r *announcementRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("announcement delete: %w", err)
	}
	return nil
}

func (r *announcementRepository) List(f models.AnnouncementFilter) ([]*models.Announcement, error) {
	q := announcementSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.ActiveOnly {
		q += " AND a.active"
	}
	switch f.ViewerRole {
	case models.AudienceInterns:
		// здесь ViewerRole уже нормализован до audience-значения
		q += fmt.Sprintf(" AND a.audience IN ('all', $%d)", i)
		args = append(args, models.AudienceInterns)
		i++
	case models.AudienceAdmins:
		q += fmt.Sprintf(" AND a.audience IN ('all', $%d)", i)
		args = append(args, models.AudienceAdmins)
		i++
	}
	q += " ORDER BY a.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("announcement list: %w", err)
	}
	defer rows.Close()

	var out []*models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("announcement list scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkRead — добавляет пользователя в read_by, если его там ещё нет.
func (r *announcementRepository) MarkRead(id int64, userID int) error {
	const q = `
		UPDATE announcements
		SET read_by = array_append(read_by, $1)
		WHERE id = $2 AND NOT ($1 = ANY(COALESCE(read_by, '{}')))
	`
	_, err := r.DB.Exec(q, int64(userID), id)
	if err != nil {
		return fmt.Errorf("announcement mark read: %w", err)
	}
	return nil
}

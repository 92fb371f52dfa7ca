package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"officehub/internal/models"
)

type WorkLogRepository interface {
	Create(w *models.WorkLog) error
	GetByID(id int64) (*models.WorkLog, error)
	Update(w *models.WorkLog) error
	Delete(id int64) error
	List(f models.WorkLogFilter) ([]*models.WorkLog, error)
	StatsByUser(userID int) (*models.WorkLogStats, error)
	CountByStatus(status string) (int, error)
	TopPerformers(limit int) ([]models.TopPerformer, error)
}

type workLogRepository struct {
	DB *sql.DB
}

func NewWorkLogRepository(db *sql.DB) WorkLogRepository {
	return &workLogRepository{DB: db}
}

const workLogSelect = `
	SELECT
		w.id, w.user_id, to_char(w.date, 'YYYY-MM-DD'),
		w.title, w.description, w.hours_spent, w.status,
		w.rating, w.feedback, w.reviewed_by, w.reviewed_at,
		w.created_at, w.updated_at, u.name
	FROM work_logs w
	LEFT JOIN users u ON u.id = w.user_id
`

func scanWorkLog(row interface{ Scan(...interface{}) error }) (*models.WorkLog, error) {
	w := &models.WorkLog{}
	var (
		description sql.NullString
		rating      sql.NullInt64
		feedback    sql.NullString
		reviewedBy  sql.NullInt64
		reviewedAt  sql.NullTime
		userName    sql.NullString
	)
	err := row.Scan(
		&w.ID, &w.UserID, &w.Date,
		&w.Title, &description, &w.HoursSpent, &w.Status,
		&rating, &feedback, &reviewedBy, &reviewedAt,
		&w.CreatedAt, &w.UpdatedAt, &userName,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		w.Description = description.String
	}
	if rating.Valid {
		n := int(rating.Int64)
		w.Rating = &n
	}
	if feedback.Valid {
		s := feedback.String
		w.Feedback = &s
	}
	if reviewedBy.Valid {
		n := int(reviewedBy.Int64)
		w.ReviewedBy = &n
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		w.ReviewedAt = &t
	}
	if userName.Valid {
		w.UserName = userName.String
	}
	return w, nil
}

func (r *workLogRepository) Create(w *models.WorkLog) error {
	const q = `
		INSERT INTO work_logs (
			user_id, date, title, description, hours_spent, status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		w.UserID, w.Date, w.Title, nullString(w.Description), w.HoursSpent, w.Status,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *workLogRepository) GetByID(id int64) (*models.WorkLog, error) {
	w, err := scanWorkLog(r.DB.QueryRow(workLogSelect+` WHERE w.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("work log get: %w", err)
	}
	return w, nil
}

func (r *workLogRepository) Update(w *models.WorkLog) error {
	var (
		rating     sql.NullInt64
		feedback   sql.NullString
		reviewedBy sql.NullInt64
		reviewedAt sql.NullTime
	)
	if w.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*w.Rating), Valid: true}
	}
	if w.Feedback != nil {
		feedback = sql.NullString{String: *w.Feedback, Valid: true}
	}
	if w.ReviewedBy != nil {
		reviewedBy = sql.NullInt64{Int64: int64(*w.ReviewedBy), Valid: true}
	}
	if w.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *w.ReviewedAt, Valid: true}
	}
	const q = `
		UPDATE work_logs
		SET
			date=$1,
			title=$2,
			description=$3,
			hours_spent=$4,
			status=$5,
			rating=$6,
			feedback=$7,
			reviewed_by=$8,
			reviewed_at=$9,
			updated_at=NOW()
		WHERE id=$10
	`
	_, err := r.DB.Exec(q,
		w.Date, w.Title, nullString(w.Description), w.HoursSpent, w.Status,
		rating, feedback, reviewedBy, reviewedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("work log update: %w", err)
	}
	return nil
}

func (r *workLogRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM work_logs WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("work log delete: %w", err)
	}
	return nil
}

func (r *workLogRepository) List(f models.WorkLogFilter) ([]*models.WorkLog, error) {
	q := workLogSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.UserID > 0 {
		q += fmt.Sprintf(" AND w.user_id = $%d", i)
		args = append(args, f.UserID)
		i++
	}
	if f.Status != "" {
		q += fmt.Sprintf(" AND w.status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.DateFrom != "" {
		q += fmt.Sprintf(" AND w.date >= $%d", i)
		args = append(args, f.DateFrom)
		i++
	}
	if f.DateTo != "" {
		q += fmt.Sprintf(" AND w.date <= $%d", i)
		args = append(args, f.DateTo)
		i++
	}
	q += " ORDER BY w.date DESC, w.id DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("work log list: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkLog
	for rows.Next() {
		w, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("work log list scan: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *workLogRepository) StatsByUser(userID int) (*models.WorkLogStats, error) {
	const q = `
		SELECT
			COUNT(*),
			COALESCE(SUM(hours_spent), 0),
			COALESCE(AVG(rating) FILTER (WHERE rating IS NOT NULL), 0),
			COUNT(*) FILTER (WHERE status = 'reviewed')
		FROM work_logs
		WHERE user_id = $1
	`
	s := &models.WorkLogStats{}
	err := r.DB.QueryRow(q, userID).Scan(&s.TotalLogs, &s.TotalHours, &s.AverageRating, &s.Reviewed)
	if err != nil {
		return nil, fmt.Errorf("work log stats: %w", err)
	}
	return s, nil
}

func (r *workLogRepository) CountByStatus(status string) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM work_logs WHERE status=$1`, status).Scan(&c); err != nil {
		return 0, fmt.Errorf("work log count: %w", err)
	}
	return c, nil
}

// TopPerformers — стажёры с лучшим средним рейтингом за последние 30 дней.
func (r *workLogRepository) TopPerformers(limit int) ([]models.TopPerformer, error) {
	const q = `
		SELECT w.user_id, u.name, AVG(w.rating), SUM(w.hours_spent)
		FROM work_logs w
		JOIN users u ON u.id = w.user_id
		WHERE w.rating IS NOT NULL AND w.date >= $1
		GROUP BY w.user_id, u.name
		ORDER BY AVG(w.rating) DESC, SUM(w.hours_spent) DESC
		LIMIT $2
	`
	since := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	rows, err := r.DB.Query(q, since, limit)
	if err != nil {
		return nil, fmt.Errorf("work log top performers: %w", err)
	}
	defer rows.Close()

	var out []models.TopPerformer
	for rows.Next() {
		var p models.TopPerformer
		if err := rows.Scan(&p.UserID, &p.Name, &p.AverageRating, &p.TotalHours); err != nil {
			return nil, fmt.Errorf("work log top performers scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

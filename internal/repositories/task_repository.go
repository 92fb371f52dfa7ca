package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"officehub/internal/models"
)

type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id int64) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id int64) error
	List(f models.TaskFilter) ([]*models.Task, error)
	StatsByUser(userID int) (*models.TaskStats, error)
	CountByStatus(status string) (int, error)
	Upcoming(userID int, limit int) ([]*models.Task, error)
}

type taskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{DB: db}
}

func (r *taskRepository) Create(task *models.Task) error {
	comments, err := json.Marshal(task.Comments)
	if err != nil {
		return fmt.Errorf("task comments encode: %w", err)
	}
	const q = `
		INSERT INTO tasks (
			title, description, assigned_to, assigned_by, status, priority,
			due_date, start_date, completed_date, comments, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		task.Title,
		nullString(task.Description),
		task.AssignedTo,
		task.AssignedBy,
		task.Status,
		task.Priority,
		task.DueDate,
		task.StartDate,
		task.CompletedDate,
		comments,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	var (
		description   sql.NullString
		dueDate       sql.NullTime
		startDate     sql.NullTime
		completedDate sql.NullTime
		comments      []byte
		assigneeName  sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Title, &description, &t.AssignedTo, &t.AssignedBy,
		&t.Status, &t.Priority,
		&dueDate, &startDate, &completedDate,
		&comments, &t.CreatedAt, &t.UpdatedAt,
		&assigneeName,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = description.String
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if startDate.Valid {
		d := startDate.Time
		t.StartDate = &d
	}
	if completedDate.Valid {
		d := completedDate.Time
		t.CompletedDate = &d
	}
	if assigneeName.Valid {
		t.AssigneeName = assigneeName.String
	}
	t.Comments = []models.TaskComment{}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &t.Comments); err != nil {
			return nil, fmt.Errorf("task comments decode: %w", err)
		}
	}
	return t, nil
}

const taskSelect = `
	SELECT
		t.id, t.title, t.description, t.assigned_to, t.assigned_by,
		t.status, t.priority,
		t.due_date, t.start_date, t.completed_date,
		t.comments, t.created_at, t.updated_at,
		u.name
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assigned_to
`

func (r *taskRepository) GetByID(id int64) (*models.Task, error) {
	t, err := scanTask(r.DB.QueryRow(taskSelect+` WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("task get: %w", err)
	}
	return t, nil
}

func (r *taskRepository) Update(task *models.Task) error {
	comments, err := json.Marshal(task.Comments)
	if err != nil {
		return fmt.Errorf("task comments encode: %w", err)
	}
	const q = `
		UPDATE tasks
		SET
			title=$1,
			description=$2,
			assigned_to=$3,
			status=$4,
			priority=$5,
			due_date=$6,
			start_date=$7,
			completed_date=$8,
			comments=$9,
			updated_at=NOW()
		WHERE id=$10
	`
	_, err = r.DB.Exec(q,
		task.Title,
		nullString(task.Description),
		task.AssignedTo,
		task.Status,
		task.Priority,
		task.DueDate,
		task.StartDate,
		task.CompletedDate,
		comments,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("task update: %w", err)
	}
	return nil
}

func (r *taskRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

func (r *taskRepository) List(f models.TaskFilter) ([]*models.Task, error) {
	q := taskSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.AssignedTo > 0 {
		q += fmt.Sprintf(" AND t.assigned_to = $%d", i)
		args = append(args, f.AssignedTo)
		i++
	}
	if f.Status != "" {
		q += fmt.Sprintf(" AND t.status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.Priority != "" {
		q += fmt.Sprintf(" AND t.priority = $%d", i)
		args = append(args, f.Priority)
		i++
	}
	q += " ORDER BY t.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("task list scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *taskRepository) StatsByUser(userID int) (*models.TaskStats, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM tasks
		WHERE assigned_to = $1
	`
	s := &models.TaskStats{}
	err := r.DB.QueryRow(q, userID).Scan(&s.Total, &s.Pending, &s.InProgress, &s.Completed, &s.Cancelled)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return s, nil
}

func (r *taskRepository) CountByStatus(status string) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM tasks WHERE status=$1`, status).Scan(&c); err != nil {
		return 0, fmt.Errorf("task count by status: %w", err)
	}
	return c, nil
}

// Upcoming — незавершённые задачи с ближайшим дедлайном.
func (r *taskRepository) Upcoming(userID int, limit int) ([]*models.Task, error) {
	q := taskSelect + `
		WHERE t.assigned_to = $1
		  AND t.status IN ('pending', 'in-progress')
		  AND t.due_date IS NOT NULL
		  AND t.due_date >= $2
		ORDER BY t.due_date ASC
		LIMIT $3
	`
	rows, err := r.DB.Query(q, userID, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("task upcoming: %w", err)
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("task upcoming scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

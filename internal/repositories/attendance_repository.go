package repositories

import (
	"database/sql"
	"fmt"

	"officehub/internal/models"
)

type AttendanceRepository interface {
	Create(a *models.Attendance) error
	GetByID(id int64) (*models.Attendance, error)
	GetByUserAndDate(userID int, date string) (*models.Attendance, error)
	Update(a *models.Attendance) error
	List(f models.AttendanceFilter) ([]*models.Attendance, error)
	StatsByUser(userID int, dateFrom, dateTo string) (*models.AttendanceStats, error)
	CountByDateAndStatus(date, status string) (int, error)
	CountPending() (int, error)
	MonthlyByDay(monthPrefix string) ([]models.AttendanceByDayStatus, error)
}

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{DB: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.user_id, to_char(a.date, 'YYYY-MM-DD'),
		a.check_in, a.check_out, COALESCE(a.total_hours, 0),
		a.status, a.leave_reason, COALESCE(a.notes, ''),
		a.created_at, u.name
	FROM attendance a
	LEFT JOIN users u ON u.id = a.user_id
`

func scanAttendance(row interface{ Scan(...interface{}) error }) (*models.Attendance, error) {
	a := &models.Attendance{}
	var (
		checkIn     sql.NullTime
		checkOut    sql.NullTime
		leaveReason sql.NullString
		userName    sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Date,
		&checkIn, &checkOut, &a.TotalHours,
		&a.Status, &leaveReason, &a.Notes,
		&a.CreatedAt, &userName,
	)
	if err != nil {
		return nil, err
	}
	if checkIn.Valid {
		t := checkIn.Time
		a.CheckIn = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		a.CheckOut = &t
	}
	if leaveReason.Valid {
		s := leaveReason.String
		a.LeaveReason = &s
	}
	if userName.Valid {
		a.UserName = userName.String
	}
	return a, nil
}

func (r *attendanceRepository) Create(a *models.Attendance) error {
	const q = `
		INSERT INTO attendance (
			user_id, date, check_in, check_out, total_hours,
			status, leave_reason, notes, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
		RETURNING id, created_at
	`
	var leaveReason sql.NullString
	if a.LeaveReason != nil {
		leaveReason = sql.NullString{String: *a.LeaveReason, Valid: true}
	}
	return r.DB.QueryRow(q,
		a.UserID, a.Date, a.CheckIn, a.CheckOut, a.TotalHours,
		a.Status, leaveReason, a.Notes,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *attendanceRepository) GetByID(id int64) (*models.Attendance, error) {
	a, err := scanAttendance(r.DB.QueryRow(attendanceSelect+` WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("attendance get: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByUserAndDate(userID int, date string) (*models.Attendance, error) {
	a, err := scanAttendance(r.DB.QueryRow(attendanceSelect+` WHERE a.user_id = $1 AND a.date = $2`, userID, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("attendance get by date: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) Update(a *models.Attendance) error {
	var leaveReason sql.NullString
	if a.LeaveReason != nil {
		leaveReason = sql.NullString{String: *a.LeaveReason, Valid: true}
	}
	const q = `
		UPDATE attendance
		SET check_in=$1, check_out=$2, total_hours=$3, status=$4, leave_reason=$5, notes=$6
		WHERE id=$7
	`
	_, err := r.DB.Exec(q, a.CheckIn, a.CheckOut, a.TotalHours, a.Status, leaveReason, a.Notes, a.ID)
	if err != nil {
		return fmt.Errorf("attendance update: %w", err)
	}
	return nil
}

func (r *attendanceRepository) List(f models.AttendanceFilter) ([]*models.Attendance, error) {
	q := attendanceSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.UserID > 0 {
		q += fmt.Sprintf(" AND a.user_id = $%d", i)
		args = append(args, f.UserID)
		i++
	}
	if f.Status != "" {
		q += fmt.Sprintf(" AND a.status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.DateFrom != "" {
		q += fmt.Sprintf(" AND a.date >= $%d", i)
		args = append(args, f.DateFrom)
		i++
	}
	if f.DateTo != "" {
		q += fmt.Sprintf(" AND a.date <= $%d", i)
		args = append(args, f.DateTo)
		i++
	}
	q += " ORDER BY a.date DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("attendance list: %w", err)
	}
	defer rows.Close()

	var out []*models.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("attendance list scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attendanceRepository) StatsByUser(userID int, dateFrom, dateTo string) (*models.AttendanceStats, error) {
	q := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'leave-approved'),
			COALESCE(SUM(total_hours), 0)
		FROM attendance
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	i := 2
	if dateFrom != "" {
		q += fmt.Sprintf(" AND date >= $%d", i)
		args = append(args, dateFrom)
		i++
	}
	if dateTo != "" {
		q += fmt.Sprintf(" AND date <= $%d", i)
		args = append(args, dateTo)
	}
	s := &models.AttendanceStats{}
	if err := r.DB.QueryRow(q, args...).Scan(&s.DaysPresent, &s.DaysOnLeave, &s.TotalHours); err != nil {
		return nil, fmt.Errorf("attendance stats: %w", err)
	}
	if s.DaysPresent > 0 {
		s.AverageHours = s.TotalHours / float64(s.DaysPresent)
	}
	return s, nil
}

func (r *attendanceRepository) CountByDateAndStatus(date, status string) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM attendance WHERE date=$1 AND status=$2`, date, status).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("attendance count: %w", err)
	}
	return c, nil
}

func (r *attendanceRepository) CountPending() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM attendance WHERE status='leave-pending'`).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("attendance pending count: %w", err)
	}
	return c, nil
}

// MonthlyByDay — агрегат по дням месяца, monthPrefix вида "2025-06".
func (r *attendanceRepository) MonthlyByDay(monthPrefix string) ([]models.AttendanceByDayStatus, error) {
	const q = `
		SELECT
			to_char(date, 'YYYY-MM-DD'),
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'leave-approved')
		FROM attendance
		WHERE to_char(date, 'YYYY-MM') = $1
		GROUP BY date
		ORDER BY date
	`
	rows, err := r.DB.Query(q, monthPrefix)
	if err != nil {
		return nil, fmt.Errorf("attendance monthly: %w", err)
	}
	defer rows.Close()

	var out []models.AttendanceByDayStatus
	for rows.Next() {
		var d models.AttendanceByDayStatus
		if err := rows.Scan(&d.Date, &d.Present, &d.OnLeave); err != nil {
			return nil, fmt.Errorf("attendance monthly scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

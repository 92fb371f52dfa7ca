package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"officehub/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id int) error
	List(f models.UserFilter) ([]*models.User, error)
	ListInterns() ([]*models.User, error)
	Count() (int, error)
	CountByRoleAndStatus(role, status string) (int, error)

	UpdatePassword(userID int, passwordHash string) error
	UpdateAvatar(userID int, avatarURL string) error

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.employee_id,
	u.department, u.position, u.phone, u.avatar_url, u.status,
	u.supervisor_id, u.start_date, u.end_date,
	COALESCE(u.telegram_chat_id, 0),
	u.refresh_token, u.refresh_expires_at, COALESCE(u.refresh_revoked, FALSE),
	u.created_at
`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	var (
		department   sql.NullString
		position     sql.NullString
		phone        sql.NullString
		avatarURL    sql.NullString
		supervisorID sql.NullInt64
		startDate    sql.NullTime
		endDate      sql.NullTime
		rt           sql.NullString
		rte          sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID,
		&department, &position, &phone, &avatarURL, &u.Status,
		&supervisorID, &startDate, &endDate,
		&u.TelegramChatID,
		&rt, &rte, &u.RefreshRevoked,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if department.Valid {
		u.Department = department.String
	}
	if position.Valid {
		u.Position = position.String
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if avatarURL.Valid {
		u.AvatarURL = avatarURL.String
	}
	if supervisorID.Valid {
		id := int(supervisorID.Int64)
		u.SupervisorID = &id
	}
	if startDate.Valid {
		t := startDate.Time
		u.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		u.EndDate = &t
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			name, email, password_hash, role, employee_id,
			department, position, phone, status, supervisor_id,
			start_date, end_date, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EmployeeID,
		nullString(user.Department),
		nullString(user.Position),
		nullString(user.Phone),
		user.Status,
		nullIntPtr(user.SupervisorID),
		user.StartDate,
		user.EndDate,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	u, err := scanUser(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1)`
	u, err := scanUser(r.DB.QueryRow(q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user get by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET
			name=$1,
			email=$2,
			role=$3,
			department=$4,
			position=$5,
			phone=$6,
			status=$7,
			supervisor_id=$8,
			start_date=$9,
			end_date=$10
		WHERE id=$11
	`
	_, err := r.DB.Exec(q,
		user.Name,
		user.Email,
		user.Role,
		nullString(user.Department),
		nullString(user.Position),
		nullString(user.Phone),
		user.Status,
		nullIntPtr(user.SupervisorID),
		user.StartDate,
		user.EndDate,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	return nil
}

func (r *userRepository) List(f models.UserFilter) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.Role != "" {
		q += fmt.Sprintf(" AND u.role = $%d", i)
		args = append(args, f.Role)
		i++
	}
	if f.Status != "" {
		q += fmt.Sprintf(" AND u.status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.Search != "" {
		q += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d OR u.employee_id ILIKE $%d)", i, i, i)
		args = append(args, "%"+f.Search+"%")
		i++
	}
	q += " ORDER BY u.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("user list scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListInterns — стажёры вместе с именем супервайзера одним запросом.
func (r *userRepository) ListInterns() ([]*models.User, error) {
	q := `
		SELECT ` + userColumns + `, COALESCE(s.name, '')
		FROM users u
		LEFT JOIN users s ON s.id = u.supervisor_id
		WHERE u.role = 'intern'
		ORDER BY u.name
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("intern list: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u := &models.User{}
		var (
			department   sql.NullString
			position     sql.NullString
			phone        sql.NullString
			avatarURL    sql.NullString
			supervisorID sql.NullInt64
			startDate    sql.NullTime
			endDate      sql.NullTime
			rt           sql.NullString
			rte          sql.NullTime
		)
		err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID,
			&department, &position, &phone, &avatarURL, &u.Status,
			&supervisorID, &startDate, &endDate,
			&u.TelegramChatID,
			&rt, &rte, &u.RefreshRevoked,
			&u.CreatedAt,
			&u.SupervisorName,
		)
		if err != nil {
			return nil, fmt.Errorf("intern list scan: %w", err)
		}
		if department.Valid {
			u.Department = department.String
		}
		if position.Valid {
			u.Position = position.String
		}
		if phone.Valid {
			u.Phone = phone.String
		}
		if avatarURL.Valid {
			u.AvatarURL = avatarURL.String
		}
		if supervisorID.Valid {
			id := int(supervisorID.Int64)
			u.SupervisorID = &id
		}
		if startDate.Valid {
			t := startDate.Time
			u.StartDate = &t
		}
		if endDate.Valid {
			t := endDate.Time
			u.EndDate = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) Count() (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c); err != nil {
		return 0, fmt.Errorf("user count: %w", err)
	}
	return c, nil
}

func (r *userRepository) CountByRoleAndStatus(role, status string) (int, error) {
	q := `SELECT COUNT(*) FROM users WHERE 1=1`
	args := []interface{}{}
	i := 1
	if role != "" {
		q += fmt.Sprintf(" AND role = $%d", i)
		args = append(args, role)
		i++
	}
	if status != "" {
		q += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
	}
	var c int
	if err := r.DB.QueryRow(q, args...).Scan(&c); err != nil {
		return 0, fmt.Errorf("user count by role: %w", err)
	}
	return c, nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	res, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateAvatar(userID int, avatarURL string) error {
	_, err := r.DB.Exec(`UPDATE users SET avatar_url=$1 WHERE id=$2`, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("user update avatar: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("user update refresh: %w", err)
	}
	return nil
}

// RotateRefresh — атомарная замена refresh-токена: старый гасим, новый пишем,
// возвращаем пользователя. Если старый токен не найден — (nil, nil).
func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users u
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE u.refresh_token=$3 AND COALESCE(u.refresh_revoked, FALSE)=FALSE
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user rotate refresh: %w", err)
	}
	return u, nil
}

func (r *userRepository) ClearRefresh(userID int) error {
	const q = `
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`
	_, err := r.DB.Exec(q, userID)
	if err != nil {
		return fmt.Errorf("user clear refresh: %w", err)
	}
	return nil
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u WHERE u.refresh_token = $1`
	u, err := scanUser(r.DB.QueryRow(q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user get by refresh: %w", err)
	}
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullIntPtr(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

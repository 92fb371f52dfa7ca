package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"officehub/internal/models"
)

type EvaluationRepository interface {
	Create(e *models.Evaluation) error
	GetByID(id int64) (*models.Evaluation, error)
	Update(e *models.Evaluation) error
	Delete(id int64) error
	List(f models.EvaluationFilter) ([]*models.Evaluation, error)
	LatestPublished(internID int) (*models.Evaluation, error)
	SetCertificateURL(id int64, url string) error
}

type evaluationRepository struct {
	DB *sql.DB
}

func NewEvaluationRepository(db *sql.DB) EvaluationRepository {
	return &evaluationRepository{DB: db}
}

const evaluationSelect = `
	SELECT
		e.id, e.intern_id, e.evaluator_id, e.period,
		e.ratings, e.overall_score,
		e.strengths, e.improvements, e.comments,
		e.status, e.certificate_url,
		e.created_at, e.updated_at,
		i.name, a.name
	FROM evaluations e
	LEFT JOIN users i ON i.id = e.intern_id
	LEFT JOIN users a ON a.id = e.evaluator_id
`

func scanEvaluation(row interface{ Scan(...interface{}) error }) (*models.Evaluation, error) {
	e := &models.Evaluation{}
	var (
		ratings        []byte
		strengths      sql.NullString
		improvements   sql.NullString
		comments       sql.NullString
		certificateURL sql.NullString
		internName     sql.NullString
		evaluatorName  sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.InternID, &e.EvaluatorID, &e.Period,
		&ratings, &e.OverallScore,
		&strengths, &improvements, &comments,
		&e.Status, &certificateURL,
		&e.CreatedAt, &e.UpdatedAt,
		&internName, &evaluatorName,
	)
	if err != nil {
		return nil, err
	}
	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &e.Ratings); err != nil {
			return nil, fmt.Errorf("evaluation ratings decode: %w", err)
		}
	}
	if strengths.Valid {
		e.Strengths = strengths.String
	}
	if improvements.Valid {
		e.Improvements = improvements.String
	}
	if comments.Valid {
		e.Comments = comments.String
	}
	if certificateURL.Valid {
		s := certificateURL.String
		e.CertificateURL = &s
	}
	if internName.Valid {
		e.InternName = internName.String
	}
	if evaluatorName.Valid {
		e.EvaluatorName = evaluatorName.String
	}
	return e, nil
}

func (r *evaluationRepository) Create(e *models.Evaluation) error {
	ratings, err := json.Marshal(e.Ratings)
	if err != nil {
		return fmt.Errorf("evaluation ratings encode: %w", err)
	}
	const q = `
		INSERT INTO evaluations (
			intern_id, evaluator_id, period, ratings, overall_score,
			strengths, improvements, comments, status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		e.InternID, e.EvaluatorID, e.Period, ratings, e.OverallScore,
		nullString(e.Strengths), nullString(e.Improvements), nullString(e.Comments),
		e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *evaluationRepository) GetByID(id int64) (*models.Evaluation, error) {
	e, err := scanEvaluation(r.DB.QueryRow(evaluationSelect+` WHERE e.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("evaluation get: %w", err)
	}
	return e, nil
}

func (r *evaluationRepository) Update(e *models.Evaluation) error {
	ratings, err := json.Marshal(e.Ratings)
	if err != nil {
		return fmt.Errorf("evaluation ratings encode: %w", err)
	}
	const q = `
		UPDATE evaluations
		SET
			period=$1,
			ratings=$2,
			overall_score=$3,
			strengths=$4,
			improvements=$5,
			comments=$6,
			status=$7,
			updated_at=NOW()
		WHERE id=$8
	`
	_, err = r.DB.Exec(q,
		e.Period, ratings, e.OverallScore,
		nullString(e.Strengths), nullString(e.Improvements), nullString(e.Comments),
		e.Status, e.ID,
	)
	if err != nil {
		return fmt.Errorf("evaluation update: %w", err)
	}
	return nil
}

func (r *evaluationRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM evaluations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("evaluation delete: %w", err)
	}
	return nil
}

func (r *evaluationRepository) List(f models.EvaluationFilter) ([]*models.Evaluation, error) {
	q := evaluationSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.InternID > 0 {
		q += fmt.Sprintf(" AND e.intern_id = $%d", i)
		args = append(args, f.InternID)
		i++
	}
	if f.Status != "" {
		q += fmt.Sprintf(" AND e.status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	q += " ORDER BY e.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("evaluation list: %w", err)
	}
	defer rows.Close()

	var out []*models.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("evaluation list scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *evaluationRepository) LatestPublished(internID int) (*models.Evaluation, error) {
	q := evaluationSelect + `
		WHERE e.intern_id = $1 AND e.status = 'published'
		ORDER BY e.updated_at DESC
		LIMIT 1
	`
	e, err := scanEvaluation(r.DB.QueryRow(q, internID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("evaluation latest: %w", err)
	}
	return e, nil
}

func (r *evaluationRepository) SetCertificateURL(id int64, url string) error {
	_, err := r.DB.Exec(`UPDATE evaluations SET certificate_url=$1, updated_at=NOW() WHERE id=$2`, url, id)
	if err != nil {
		return fmt.Errorf("evaluation set certificate: %w", err)
	}
	return nil
}

package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"officehub/internal/models"
)

type DocumentRepository interface {
	Create(d *models.Document) error
	GetByID(id int64) (*models.Document, error)
	Delete(id int64) error
	List(f models.DocumentFilter) ([]*models.Document, error)
	UpdateSharing(id int64, isPublic bool, sharedWith []int64) error
	IncrementDownloads(id int64) error
}

type documentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{DB: db}
}

const documentSelect = `
	SELECT
		d.id, d.owner_id, d.title, d.category,
		d.file_name, d.file_url, d.object_key, d.file_size, d.content_type,
		d.is_public, COALESCE(d.shared_with, '{}'), COALESCE(d.tags, '{}'),
		d.downloads, d.created_at, u.name
	FROM documents d
	LEFT JOIN users u ON u.id = d.owner_id
`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	d := &models.Document{}
	var (
		sharedWith pq.Int64Array
		tags       pq.StringArray
		ownerName  sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.Title, &d.Category,
		&d.FileName, &d.FileURL, &d.ObjectKey, &d.FileSize, &d.ContentType,
		&d.IsPublic, &sharedWith, &tags,
		&d.Downloads, &d.CreatedAt, &ownerName,
	)
	if err != nil {
		return nil, err
	}
	d.SharedWith = []int64(sharedWith)
	if d.SharedWith == nil {
		d.SharedWith = []int64{}
	}
	d.Tags = []string(tags)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if ownerName.Valid {
		d.OwnerName = ownerName.String
	}
	return d, nil
}

func (r *documentRepository) Create(d *models.Document) error {
	const q = `
		INSERT INTO documents (
			owner_id, title, category,
			file_name, file_url, object_key, file_size, content_type,
			is_public, shared_with, tags, downloads, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,0,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		d.OwnerID, d.Title, d.Category,
		d.FileName, d.FileURL, d.ObjectKey, d.FileSize, d.ContentType,
		d.IsPublic, pq.Array(d.SharedWith), pq.Array(d.Tags),
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *documentRepository) GetByID(id int64) (*models.Document, error) {
	d, err := scanDocument(r.DB.QueryRow(documentSelect+` WHERE d.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document get: %w", err)
	}
	return d, nil
}

func (r *documentRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("document delete: %w", err)
	}
	return nil
}

func (r *documentRepository) List(f models.DocumentFilter) ([]*models.Document, error) {
	q := documentSelect + ` WHERE 1=1`
	args := []interface{}{}
	i := 1
	if f.Category != "" {
		q += fmt.Sprintf(" AND d.category = $%d", i)
		args = append(args, f.Category)
		i++
	}
	if f.Search != "" {
		q += fmt.Sprintf(" AND (d.title ILIKE $%d OR d.file_name ILIKE $%d)", i, i)
		args = append(args, "%"+f.Search+"%")
		i++
	}
	// правило видимости: intern видит публичные + расшаренные на него + свои
	if f.ViewerRole == "intern" {
		q += fmt.Sprintf(" AND (d.is_public OR d.owner_id = $%d OR $%d = ANY(COALESCE(d.shared_with, '{}')))", i, i+1)
		args = append(args, f.ViewerID, int64(f.ViewerID))
		i += 2
	}
	q += " ORDER BY d.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("document list: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("document list scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *documentRepository) UpdateSharing(id int64, isPublic bool, sharedWith []int64) error {
	_, err := r.DB.Exec(
		`UPDATE documents SET is_public=$1, shared_with=$2 WHERE id=$3`,
		isPublic, pq.Array(sharedWith), id,
	)
	if err != nil {
		return fmt.Errorf("document update sharing: %w", err)
	}
	return nil
}

func (r *documentRepository) IncrementDownloads(id int64) error {
	_, err := r.DB.Exec(`UPDATE documents SET downloads = downloads + 1 WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("document increment downloads: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/tablesnap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tablesnap.IngestionService = (*IngestionService)(nil)

// IngestionService implements tablesnap.IngestionService using SQLite.
type IngestionService struct {
	db *DB
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(db *DB) *IngestionService {
	return &IngestionService{db: db}
}

// CreateIngestion records a new ingestion, assigning its ID.
// CreatedAt defaults to the current time when unset.
func (s *IngestionService) CreateIngestion(ctx context.Context, ing *tablesnap.Ingestion) error {
	if err := ing.Validate(); err != nil {
		return err
	}

	ing.ID = uuid.New().String()
	if ing.CreatedAt.IsZero() {
		ing.CreatedAt = time.Now()
	}
	ing.CreatedAt = ing.CreatedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, artifact_id, source_url, domain, charset, source_hash, columns, rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, string(ing.ArtifactID), ing.SourceURL, ing.Domain, ing.Charset, ing.SourceHash,
		ing.Columns, ing.Rows, ing.CreatedAt.Format(time.RFC3339))

	return err
}

// FindIngestions retrieves ingestions matching the filter, newest first.
func (s *IngestionService) FindIngestions(ctx context.Context, filter tablesnap.IngestionFilter) ([]*tablesnap.Ingestion, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, artifact_id, source_url, domain, charset, source_hash, columns, rows, created_at
		FROM ingestions WHERE 1=1`)

	if filter.ArtifactID != nil {
		query.WriteString(" AND artifact_id = ?")
		args = append(args, string(*filter.ArtifactID))
	}
	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}

	query.WriteString(" ORDER BY created_at DESC, artifact_id DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingestions []*tablesnap.Ingestion
	for rows.Next() {
		var ing tablesnap.Ingestion
		var artifactID, createdAt string

		if err := rows.Scan(&ing.ID, &artifactID, &ing.SourceURL, &ing.Domain, &ing.Charset, &ing.SourceHash,
			&ing.Columns, &ing.Rows, &createdAt); err != nil {
			return nil, err
		}

		ing.ArtifactID = tablesnap.ArtifactID(artifactID)
		if ing.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		ingestions = append(ingestions, &ing)
	}

	return ingestions, rows.Err()
}

// DeleteIngestion permanently removes an ingestion record.
func (s *IngestionService) DeleteIngestion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ingestions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tablesnap.Errorf(tablesnap.ENOTFOUND, "ingestion not found")
	}

	return nil
}

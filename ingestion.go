package tablesnap

import (
	"context"
	"time"
)

// Ingestion records where an artifact came from.
type Ingestion struct {
	ID         string     `json:"id"`
	ArtifactID ArtifactID `json:"artifactId"`
	SourceURL  string     `json:"sourceUrl"`
	Domain     string     `json:"domain"`
	Charset    string     `json:"charset"`
	SourceHash string     `json:"sourceHash"`
	Columns    int        `json:"columns"`
	Rows       int        `json:"rows"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Validate returns an error if the ingestion contains invalid fields.
func (i *Ingestion) Validate() error {
	if err := i.ArtifactID.Validate(); err != nil {
		return err
	}
	if i.SourceURL == "" {
		return Errorf(EINVALID, "ingestion source URL required")
	}
	return nil
}

// IngestionService represents a service for managing ingestion history.
type IngestionService interface {
	// CreateIngestion records a new ingestion.
	CreateIngestion(ctx context.Context, ing *Ingestion) error

	// FindIngestions retrieves ingestions matching the filter, newest first.
	FindIngestions(ctx context.Context, filter IngestionFilter) ([]*Ingestion, error)

	// DeleteIngestion permanently removes an ingestion record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteIngestion(ctx context.Context, id string) error
}

// IngestionFilter represents a filter for FindIngestions.
type IngestionFilter struct {
	ArtifactID *ArtifactID `json:"artifactId"`
	Domain     *string     `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

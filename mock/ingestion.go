package mock

import (
	"context"

	"github.com/fwojciec/tablesnap"
)

var _ tablesnap.IngestionService = (*IngestionService)(nil)

// IngestionService is a mock implementation of tablesnap.IngestionService.
type IngestionService struct {
	CreateIngestionFn func(ctx context.Context, ing *tablesnap.Ingestion) error
	FindIngestionsFn  func(ctx context.Context, filter tablesnap.IngestionFilter) ([]*tablesnap.Ingestion, error)
	DeleteIngestionFn func(ctx context.Context, id string) error
}

func (s *IngestionService) CreateIngestion(ctx context.Context, ing *tablesnap.Ingestion) error {
	return s.CreateIngestionFn(ctx, ing)
}

func (s *IngestionService) FindIngestions(ctx context.Context, filter tablesnap.IngestionFilter) ([]*tablesnap.Ingestion, error) {
	return s.FindIngestionsFn(ctx, filter)
}

func (s *IngestionService) DeleteIngestion(ctx context.Context, id string) error {
	return s.DeleteIngestionFn(ctx, id)
}

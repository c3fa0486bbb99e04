package mock

import (
	"context"

	"github.com/fwojciec/tablesnap"
)

var _ tablesnap.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of tablesnap.ArtifactStore.
type ArtifactStore struct {
	WriteFn  func(ctx context.Context, ds *tablesnap.Dataset, seed tablesnap.NamingSeed) (tablesnap.ArtifactID, error)
	ReadFn   func(ctx context.Context, id tablesnap.ArtifactID) (*tablesnap.Dataset, error)
	ListFn   func(ctx context.Context) ([]tablesnap.ArtifactID, error)
	DeleteFn func(ctx context.Context, id tablesnap.ArtifactID) error
}

func (s *ArtifactStore) Write(ctx context.Context, ds *tablesnap.Dataset, seed tablesnap.NamingSeed) (tablesnap.ArtifactID, error) {
	return s.WriteFn(ctx, ds, seed)
}

func (s *ArtifactStore) Read(ctx context.Context, id tablesnap.ArtifactID) (*tablesnap.Dataset, error) {
	return s.ReadFn(ctx, id)
}

func (s *ArtifactStore) List(ctx context.Context) ([]tablesnap.ArtifactID, error) {
	return s.ListFn(ctx)
}

func (s *ArtifactStore) Delete(ctx context.Context, id tablesnap.ArtifactID) error {
	return s.DeleteFn(ctx, id)
}

package mock

import (
	"context"

	"github.com/fwojciec/tablesnap"
)

var _ tablesnap.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tablesnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*tablesnap.Content, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*tablesnap.Content, error) {
	return f.FetchFn(ctx, url)
}

package main_test

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/tablesnap"
	main "github.com/fwojciec/tablesnap/cmd/tablesnap"
	"github.com/fwojciec/tablesnap/mock"
	"github.com/fwojciec/tablesnap/pipeline"
	"github.com/stretchr/testify/require"
)

// memoryStore returns an ArtifactStore mock that keeps datasets in a map.
func memoryStore() *mock.ArtifactStore {
	var mu sync.Mutex
	saved := map[tablesnap.ArtifactID]*tablesnap.Dataset{}

	return &mock.ArtifactStore{
		WriteFn: func(_ context.Context, ds *tablesnap.Dataset, seed tablesnap.NamingSeed) (tablesnap.ArtifactID, error) {
			mu.Lock()
			defer mu.Unlock()
			id := seed.ArtifactID()
			for n := 2; saved[id] != nil; n++ {
				id = seed.ArtifactID().WithSuffix(n)
			}
			saved[id] = ds
			return id, nil
		},
		ReadFn: func(_ context.Context, id tablesnap.ArtifactID) (*tablesnap.Dataset, error) {
			mu.Lock()
			defer mu.Unlock()
			if ds, ok := saved[id]; ok {
				return ds, nil
			}
			return nil, tablesnap.Errorf(tablesnap.EIO, "artifact %s not found", id)
		},
		ListFn: func(_ context.Context) ([]tablesnap.ArtifactID, error) {
			mu.Lock()
			defer mu.Unlock()
			return slices.Collect(maps.Keys(saved)), nil
		},
		DeleteFn: func(_ context.Context, id tablesnap.ArtifactID) error {
			mu.Lock()
			defer mu.Unlock()
			delete(saved, id)
			return nil
		},
	}
}

// newDeps returns Dependencies around a pipeline whose fetcher serves
// pages from the given map. URLs missing from the map fail with ENETWORK.
func newDeps(pages map[string]string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*tablesnap.Content, error) {
			body, ok := pages[url]
			if !ok {
				return nil, tablesnap.Errorf(tablesnap.ENETWORK, "HTTP 404 for %s", url)
			}
			return &tablesnap.Content{URL: url, Body: body, Charset: "utf-8"}, nil
		},
	}
	extractor := &mock.TableExtractor{
		ExtractFirstTableFn: func(html string) (*tablesnap.Dataset, error) {
			if html == "" {
				return nil, tablesnap.Errorf(tablesnap.ENOTABLE, "no table found")
			}
			return tablesnap.NewDataset([]string{"name"}, [][]string{{html}}), nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Pipeline: &pipeline.Pipeline{
			Fetcher:   fetcher,
			Extractor: extractor,
			Artifacts: memoryStore(),
			Now:       func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
	}
	return deps, stdout, stderr
}

// seedCatalog opens the pipeline over a store listing exactly ids.
func seedCatalog(t *testing.T, deps *main.Dependencies, ids ...tablesnap.ArtifactID) {
	t.Helper()

	store := deps.Pipeline.Artifacts.(*mock.ArtifactStore)
	store.ListFn = func(_ context.Context) ([]tablesnap.ArtifactID, error) {
		return ids, nil
	}
	require.NoError(t, deps.Pipeline.Open(deps.Ctx))
}

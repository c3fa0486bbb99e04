package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/tablesnap"
	main "github.com/fwojciec/tablesnap/cmd/tablesnap"
	"github.com/fwojciec/tablesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints ingestion records", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Ingestions = &mock.IngestionService{
			FindIngestionsFn: func(_ context.Context, _ tablesnap.IngestionFilter) ([]*tablesnap.Ingestion, error) {
				return []*tablesnap.Ingestion{{
					ID:         "rec-1",
					ArtifactID: "example_com_20250101_000000.csv",
					SourceURL:  "https://example.com/t",
					Columns:    3,
					Rows:       12,
					CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				}}, nil
			},
		}

		err := (&main.HistoryListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "rec-1  ")
		assert.Contains(t, stdout.String(), "example_com_20250101_000000.csv  12x3  https://example.com/t")
	})

	t.Run("filters by lowercased domain", func(t *testing.T) {
		t.Parallel()

		var got tablesnap.IngestionFilter
		deps, stdout, _ := newDeps(nil)
		deps.Ingestions = &mock.IngestionService{
			FindIngestionsFn: func(_ context.Context, f tablesnap.IngestionFilter) ([]*tablesnap.Ingestion, error) {
				got = f
				return nil, nil
			},
		}

		err := (&main.HistoryListCmd{Domain: "Example.COM", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Domain)
		assert.Equal(t, "example.com", *got.Domain)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, stdout.String(), "No ingestions recorded.")
	})
}

func TestHistoryDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes record when --force is set", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		deps, stdout, _ := newDeps(nil)
		deps.Ingestions = &mock.IngestionService{
			DeleteIngestionFn: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		err := (&main.HistoryDeleteCmd{ID: "rec-1", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "rec-1", deletedID)
		assert.Contains(t, stdout.String(), "Deleted ingestion rec-1")
	})

	t.Run("requires --force flag", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Ingestions = &mock.IngestionService{
			DeleteIngestionFn: func(_ context.Context, _ string) error {
				t.Fatal("DeleteIngestion should not be called without --force")
				return nil
			},
		}

		err := (&main.HistoryDeleteCmd{ID: "rec-1"}).Run(deps)

		assert.Equal(t, tablesnap.EINVALID, tablesnap.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("reports unknown record", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Ingestions = &mock.IngestionService{
			DeleteIngestionFn: func(_ context.Context, _ string) error {
				return tablesnap.Errorf(tablesnap.ENOTFOUND, "ingestion not found")
			},
		}

		err := (&main.HistoryDeleteCmd{ID: "missing", Force: true}).Run(deps)

		assert.Equal(t, tablesnap.ENOTFOUND, tablesnap.ErrorCode(err))
		assert.Contains(t, stderr.String(), `ingestion "missing" not found`)
	})

	t.Run("keeps the artifact cataloged", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps(map[string]string{"https://example.com": "alpha"})
		id, err := deps.Pipeline.Ingest(deps.Ctx, "https://example.com", nil)
		require.NoError(t, err)
		deps.Ingestions = &mock.IngestionService{
			DeleteIngestionFn: func(_ context.Context, _ string) error { return nil },
		}

		require.NoError(t, (&main.HistoryDeleteCmd{ID: "rec-1", Force: true}).Run(deps))

		assert.Equal(t, []tablesnap.ArtifactID{id}, deps.Pipeline.ListCatalog())
	})
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tablesnap"
)

// Ensure LoggingArtifactStore implements tablesnap.ArtifactStore.
var _ tablesnap.ArtifactStore = (*LoggingArtifactStore)(nil)

// LoggingArtifactStore wraps an ArtifactStore with logging.
type LoggingArtifactStore struct {
	next   tablesnap.ArtifactStore
	logger *slog.Logger
}

// NewLoggingArtifactStore creates a new LoggingArtifactStore.
func NewLoggingArtifactStore(next tablesnap.ArtifactStore, logger *slog.Logger) *LoggingArtifactStore {
	return &LoggingArtifactStore{next: next, logger: logger}
}

func (s *LoggingArtifactStore) Write(ctx context.Context, ds *tablesnap.Dataset, seed tablesnap.NamingSeed) (id tablesnap.ArtifactID, err error) {
	defer func(begin time.Time) {
		s.log("write artifact", begin, err, "id", id, "domain", seed.Domain, "rows", ds.Len())
	}(time.Now())
	return s.next.Write(ctx, ds, seed)
}

func (s *LoggingArtifactStore) Read(ctx context.Context, id tablesnap.ArtifactID) (ds *tablesnap.Dataset, err error) {
	defer func(begin time.Time) {
		s.log("read artifact", begin, err, "id", id, "rows", ds.Len())
	}(time.Now())
	return s.next.Read(ctx, id)
}

func (s *LoggingArtifactStore) List(ctx context.Context) (ids []tablesnap.ArtifactID, err error) {
	defer func(begin time.Time) {
		s.log("list artifacts", begin, err, "count", len(ids))
	}(time.Now())
	return s.next.List(ctx)
}

func (s *LoggingArtifactStore) Delete(ctx context.Context, id tablesnap.ArtifactID) (err error) {
	defer func(begin time.Time) {
		s.log("delete artifact", begin, err, "id", id)
	}(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *LoggingArtifactStore) log(msg string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(begin))
	if err != nil {
		attrs = append(attrs, "code", tablesnap.ErrorCode(err), "path", tablesnap.ErrorPath(err), "err", tablesnap.ErrorMessage(err))
		s.logger.Error(msg, attrs...)
		return
	}
	s.logger.Info(msg, attrs...)
}

// Package slog provides logging decorators for tablesnap services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tablesnap"
)

// Ensure LoggingFetcher implements tablesnap.Fetcher.
var _ tablesnap.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   tablesnap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next tablesnap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (content *tablesnap.Content, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if content != nil {
			attrs = append(attrs, "bytes", len(content.Body), "charset", content.Charset)
		}
		if err != nil {
			attrs = append(attrs, "code", tablesnap.ErrorCode(err), "err", tablesnap.ErrorMessage(err))
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

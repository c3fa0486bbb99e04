package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/tablesnap"
)

// Ensure LoggingExtractor implements tablesnap.TableExtractor.
var _ tablesnap.TableExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a TableExtractor with logging.
type LoggingExtractor struct {
	next   tablesnap.TableExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next tablesnap.TableExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractFirstTable delegates to the wrapped extractor and logs the table shape.
func (e *LoggingExtractor) ExtractFirstTable(html string) (ds *tablesnap.Dataset, err error) {
	defer func(begin time.Time) {
		attrs := []any{"bytes", len(html), "duration", time.Since(begin)}
		if ds != nil {
			attrs = append(attrs, "columns", len(ds.Columns), "rows", ds.Len())
		}
		if err != nil {
			attrs = append(attrs, "code", tablesnap.ErrorCode(err), "err", tablesnap.ErrorMessage(err))
		}
		e.logger.Info("extract table", attrs...)
	}(time.Now())
	return e.next.ExtractFirstTable(html)
}

package mock

import "github.com/fwojciec/tablesnap"

var _ tablesnap.TableExtractor = (*TableExtractor)(nil)

// TableExtractor is a mock implementation of tablesnap.TableExtractor.
type TableExtractor struct {
	ExtractFirstTableFn func(html string) (*tablesnap.Dataset, error)
}

func (e *TableExtractor) ExtractFirstTable(html string) (*tablesnap.Dataset, error) {
	return e.ExtractFirstTableFn(html)
}

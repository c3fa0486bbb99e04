package main

import (
	"fmt"

	"github.com/fwojciec/tablesnap"
	"github.com/fwojciec/tablesnap/pipeline"
)

// Run executes the ingest command.
// URLs are processed in order; one failure does not stop the rest.
func (c *IngestCmd) Run(deps *Dependencies) error {
	var failed int
	for _, url := range c.URLs {
		id, err := deps.Pipeline.Ingest(deps.Ctx, url, c.progress(deps))
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", url, tablesnap.ErrorMessage(err))
			continue
		}
		fmt.Fprintln(deps.Stdout, id)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d ingestions failed", failed, len(c.URLs))
	}
	return nil
}

func (c *IngestCmd) progress(deps *Dependencies) pipeline.ProgressFunc {
	if deps.Logger == nil {
		return nil
	}
	return func(e pipeline.Event) {
		attrs := []any{"url", e.URL, "stage", string(e.Stage)}
		if e.ArtifactID != "" {
			attrs = append(attrs, "id", e.ArtifactID.String())
		}
		if e.Err != nil {
			attrs = append(attrs, "code", tablesnap.ErrorCode(e.Err))
		}
		deps.Logger.Debug("ingest", attrs...)
	}
}

package main

import (
	"fmt"

	"github.com/fwojciec/tablesnap"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	ids := deps.Pipeline.ListCatalog()
	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No artifacts found. Use 'tablesnap ingest' to create one.")
		return nil
	}

	for i, id := range ids {
		if !c.History || deps.Ingestions == nil {
			fmt.Fprintf(deps.Stdout, "%3d  %s\n", i+1, id)
			continue
		}

		source, err := c.sourceURL(deps, id)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tablesnap.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%3d  %s  %s\n", i+1, id, source)
	}

	return nil
}

// sourceURL returns the URL id was ingested from, or "-" if unrecorded.
func (c *ListCmd) sourceURL(deps *Dependencies, id tablesnap.ArtifactID) (string, error) {
	records, err := deps.Ingestions.FindIngestions(deps.Ctx, tablesnap.IngestionFilter{ArtifactID: &id, Limit: 1})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "-", nil
	}
	return records[0].SourceURL, nil
}

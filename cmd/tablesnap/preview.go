package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/tablesnap"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	ds, id, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablesnap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d rows x %d columns\n\n", id, ds.Len(), len(ds.Columns))
	return renderDataset(deps.Stdout, ds, c.Limit)
}

func (c *PreviewCmd) load(deps *Dependencies) (*tablesnap.Dataset, tablesnap.ArtifactID, error) {
	id, err := c.resolve(deps)
	if err != nil {
		return nil, "", err
	}
	ds, err := deps.Pipeline.Preview(deps.Ctx, id)
	return ds, id, err
}

// resolve maps a 1-based list position to an artifact id. Anything that
// is not a number is taken as an id.
func (c *PreviewCmd) resolve(deps *Dependencies) (tablesnap.ArtifactID, error) {
	n, err := strconv.Atoi(c.Artifact)
	if err != nil {
		return tablesnap.ArtifactID(c.Artifact), nil
	}

	ids := deps.Pipeline.ListCatalog()
	if n < 1 || n > len(ids) {
		return "", tablesnap.Errorf(tablesnap.ENOTFOUND, "no artifact at position %d (catalog has %d)", n, len(ids))
	}
	return ids[n-1], nil
}

// renderDataset writes ds as aligned columns, showing at most limit rows.
func renderDataset(w io.Writer, ds *tablesnap.Dataset, limit int) error {
	shown := ds.Len()
	if limit > 0 && limit < shown {
		shown = limit
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(ds.Columns, "\t"))
	for i := range shown {
		fmt.Fprintln(tw, strings.Join(ds.Values(i), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if shown < ds.Len() {
		fmt.Fprintf(w, "... %d more rows\n", ds.Len()-shown)
	}
	return nil
}

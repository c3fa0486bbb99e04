package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tablesnap"
)

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	filter := tablesnap.IngestionFilter{Limit: c.Limit}
	if c.Domain != "" {
		domain := strings.ToLower(c.Domain)
		filter.Domain = &domain
	}

	records, err := deps.Ingestions.FindIngestions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tablesnap.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No ingestions recorded.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %dx%d  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.ArtifactID, r.Rows, r.Columns, r.SourceURL)
	}
	return nil
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return tablesnap.Errorf(tablesnap.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Ingestions.DeleteIngestion(deps.Ctx, c.ID); err != nil {
		if tablesnap.ErrorCode(err) == tablesnap.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: ingestion %q not found. Use 'tablesnap history' to see recorded ingestions.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tablesnap.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted ingestion %s\n", c.ID)
	return nil
}

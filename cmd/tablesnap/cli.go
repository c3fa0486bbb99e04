package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tablesnap"
	"github.com/fwojciec/tablesnap/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Pipeline   *pipeline.Pipeline
	Ingestions tablesnap.IngestionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir       string        `short:"d" default:"downloaded_data" env:"TABLESNAP_DIR" help:"Artifact directory"`
	DB        string        `env:"TABLESNAP_DB" help:"History database path (default: <dir>/history.db)"`
	Timeout   time.Duration `default:"10s" env:"TABLESNAP_TIMEOUT" help:"HTTP fetch timeout"`
	RateLimit float64       `default:"1" help:"Requests per second per domain (0 disables)"`
	Verbose   bool          `short:"v" help:"Log operations to stderr"`

	Ingest  IngestCmd  `cmd:"" help:"Fetch URLs and save their first table"`
	List    ListCmd    `cmd:"" help:"List saved artifacts"`
	Preview PreviewCmd `cmd:"" help:"Show the contents of an artifact"`
	History HistoryCmd `cmd:"" help:"Show ingestion history"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URLs []string `arg:"" name:"url" help:"Page URLs to ingest"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	History bool `help:"Show the source URL of each artifact"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	Artifact string `arg:"" help:"Artifact id or its number from 'tablesnap list'"`
	Limit    int    `short:"n" default:"20" help:"Rows to show (0 shows all)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" help:"List ingestion records"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete an ingestion record"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	Domain string `help:"Only show ingestions from this domain"`
	Limit  int    `short:"n" default:"50" help:"Records to show (0 shows all)"`
}

// HistoryDeleteCmd is the "history delete" subcommand.
// The artifact itself is kept.
type HistoryDeleteCmd struct {
	ID    string `arg:"" help:"Ingestion record ID from 'tablesnap history'"`
	Force bool   `help:"Confirm deletion"`
}

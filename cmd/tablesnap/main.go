package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tablesnap"
	"github.com/fwojciec/tablesnap/fs"
	"github.com/fwojciec/tablesnap/goquery"
	tshttp "github.com/fwojciec/tablesnap/http"
	"github.com/fwojciec/tablesnap/pipeline"
	tsslog "github.com/fwojciec/tablesnap/slog"
	"github.com/fwojciec/tablesnap/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Load .env file if it exists
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding ingestion history.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher for end-to-end testing.
	Fetcher tablesnap.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tablesnap"),
		kong.Description("Save the first table of a web page as a CSV artifact"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tablesnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.wire(ctx, cli, deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire builds the pipeline and history services from the global flags.
func (m *Main) wire(ctx context.Context, cli *CLI, deps *Dependencies) error {
	if err := os.MkdirAll(cli.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", tablesnap.WrapIO(cli.Dir, err))
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = filepath.Join(cli.Dir, "history.db")
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set TABLESNAP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	deps.Ingestions = sqlite.NewIngestionService(m.DB)

	var fetcher tablesnap.Fetcher = m.Fetcher
	if fetcher == nil {
		opts := []tshttp.Option{tshttp.WithTimeout(cli.Timeout)}
		if cli.RateLimit > 0 {
			opts = append(opts, tshttp.WithRateLimit(cli.RateLimit))
		}
		fetcher = tshttp.NewFetcher(opts...)
	}
	var extractor tablesnap.TableExtractor = goquery.NewTableExtractor()
	var artifacts tablesnap.ArtifactStore = fs.NewArtifactStore(cli.Dir)

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		fetcher = tsslog.NewLoggingFetcher(fetcher, deps.Logger)
		extractor = tsslog.NewLoggingExtractor(extractor, deps.Logger)
		artifacts = tsslog.NewLoggingArtifactStore(artifacts, deps.Logger)
	}

	deps.Pipeline = &pipeline.Pipeline{
		Fetcher:    fetcher,
		Extractor:  extractor,
		Artifacts:  artifacts,
		Ingestions: deps.Ingestions,
	}
	if err := deps.Pipeline.Open(ctx); err != nil {
		m.Close()
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	return nil
}

// Package pipeline orchestrates ingestion: fetching a page, extracting its
// first table, persisting the table as a CSV artifact and cataloging it.
package pipeline

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tablesnap"
)

// Stage is a state of a single ingestion.
type Stage string

// Ingestion stages in the order they are entered. Cataloged and Failed are terminal.
const (
	StageIdle       Stage = "idle"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StagePersisting Stage = "persisting"
	StageRecording  Stage = "recording"
	StageCataloged  Stage = "cataloged"
	StageFailed     Stage = "failed"
)

// Event reports a stage transition during Ingest.
type Event struct {
	Stage      Stage
	URL        string
	ArtifactID tablesnap.ArtifactID
	Err        error
}

// ProgressFunc is called on every stage transition.
type ProgressFunc func(Event)

// Pipeline composes a Fetcher, a TableExtractor and an ArtifactStore and
// owns the Catalog. It keeps no state between calls other than the
// catalog, and makes at most one attempt per call.
//
// Each Ingest is all-or-nothing: on failure the catalog and the artifact
// directory are left exactly as they were.
type Pipeline struct {
	Fetcher   tablesnap.Fetcher
	Extractor tablesnap.TableExtractor
	Artifacts tablesnap.ArtifactStore

	// Ingestions records history when set. A failed record rolls back
	// the artifact.
	Ingestions tablesnap.IngestionService

	// Now returns the ingestion time used for naming. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	catalog *tablesnap.Catalog
}

// Open builds the catalog from the artifacts currently on disk.
func (p *Pipeline) Open(ctx context.Context) error {
	ids, err := p.Artifacts.List(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = tablesnap.NewCatalog(ids...)
	return nil
}

// cataloged returns the catalog, creating an empty one on first access.
// Only Open and a successful Ingest change its contents.
func (p *Pipeline) cataloged() *tablesnap.Catalog {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.catalog == nil {
		p.catalog = tablesnap.NewCatalog()
	}
	return p.catalog
}

// ListCatalog returns a sorted copy of the cataloged artifact ids.
func (p *Pipeline) ListCatalog() []tablesnap.ArtifactID {
	return p.cataloged().List()
}

// Ingest fetches rawURL, extracts its first table, writes it as an
// artifact and adds the artifact to the catalog.
//
// Errors carry the failing stage's code: EINVALID for a bad URL (no
// request is made), ENETWORK, ENOTABLE, EMALFORMED, or EIO.
func (p *Pipeline) Ingest(ctx context.Context, rawURL string, progress ProgressFunc) (id tablesnap.ArtifactID, err error) {
	emit := func(stage Stage) {
		if progress != nil {
			progress(Event{Stage: stage, URL: rawURL, ArtifactID: id, Err: err})
		}
	}
	emit(StageIdle)
	defer func() {
		if err != nil {
			emit(StageFailed)
		}
	}()

	u, err := tablesnap.ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	emit(StageFetching)
	content, err := p.Fetcher.Fetch(ctx, u.String())
	if err != nil {
		return "", err
	}

	emit(StageExtracting)
	ds, err := p.Extractor.ExtractFirstTable(content.Body)
	if err != nil {
		return "", err
	}

	emit(StagePersisting)
	domain := strings.ToLower(u.Host)
	now := p.now()
	written, err := p.Artifacts.Write(ctx, ds, tablesnap.NamingSeed{Domain: domain, Now: now})
	if err != nil {
		return "", err
	}

	if p.Ingestions != nil {
		emit(StageRecording)
		if err = p.record(ctx, written, u.String(), domain, content, ds, now); err != nil {
			return "", err
		}
	}

	id = written
	p.cataloged().Add(id)
	emit(StageCataloged)
	return id, nil
}

// record stores the ingestion history, deleting the artifact on failure.
func (p *Pipeline) record(ctx context.Context, id tablesnap.ArtifactID, sourceURL, domain string, content *tablesnap.Content, ds *tablesnap.Dataset, now time.Time) error {
	err := p.Ingestions.CreateIngestion(ctx, &tablesnap.Ingestion{
		ArtifactID: id,
		SourceURL:  sourceURL,
		Domain:     domain,
		Charset:    content.Charset,
		SourceHash: strconv.FormatUint(xxhash.Sum64String(content.Body), 16),
		Columns:    len(ds.Columns),
		Rows:       ds.Len(),
		CreatedAt:  now,
	})
	if err == nil {
		return nil
	}

	if tablesnap.ErrorCode(err) == tablesnap.EINTERNAL {
		err = &tablesnap.Error{
			Code:    tablesnap.EIO,
			Message: "failed to record ingestion of " + string(id),
			Err:     err,
		}
	}
	if delErr := p.Artifacts.Delete(ctx, id); delErr != nil {
		return errors.Join(err, delErr)
	}
	return err
}

// Preview reads a cataloged artifact.
// Returns ENOTFOUND if id is not in the catalog.
func (p *Pipeline) Preview(ctx context.Context, id tablesnap.ArtifactID) (*tablesnap.Dataset, error) {
	if !p.cataloged().Contains(id) {
		return nil, tablesnap.Errorf(tablesnap.ENOTFOUND, "unknown artifact %q", id)
	}
	return p.Artifacts.Read(ctx, id)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

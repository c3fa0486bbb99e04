// Package fs provides file-based storage for CSV artifacts.
package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/tablesnap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxCollisions bounds how many suffixed names Write tries when
// artifacts for the same domain land in the same second.
const DefaultMaxCollisions = 100

// Ensure ArtifactStore implements tablesnap.ArtifactStore at compile time.
var _ tablesnap.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore keeps artifacts as UTF-8 (with BOM) CSV files in one directory.
//
// Writes are atomic: the CSV is written to a hidden temporary file which is
// then hard-linked to its final name. Linking never replaces an existing
// file, so a name collision is detected instead of overwriting; the store
// retries with a numeric suffix (_2, _3, ...). A failed write leaves no
// file behind.
type ArtifactStore struct {
	dir           string
	maxCollisions int
}

// Option configures an ArtifactStore.
type Option func(*ArtifactStore)

// WithMaxCollisions sets how many names Write tries before failing.
func WithMaxCollisions(n int) Option {
	return func(s *ArtifactStore) {
		s.maxCollisions = n
	}
}

// NewArtifactStore creates a store rooted at dir.
// The directory is created on first use.
func NewArtifactStore(dir string, opts ...Option) *ArtifactStore {
	s := &ArtifactStore{
		dir:           dir,
		maxCollisions: DefaultMaxCollisions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Path returns the file path of an artifact.
func (s *ArtifactStore) Path(id tablesnap.ArtifactID) string {
	return filepath.Join(s.dir, string(id))
}

func (s *ArtifactStore) Write(ctx context.Context, ds *tablesnap.Dataset, seed tablesnap.NamingSeed) (tablesnap.ArtifactID, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &tablesnap.Error{
			Code:    tablesnap.EIO,
			Message: "write canceled",
			Path:    s.dir,
			Err:     err,
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", tablesnap.WrapIO(s.dir, err)
	}

	tmp, err := s.writeTemp(ds)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	base := seed.ArtifactID()
	for n := 1; n <= s.maxCollisions; n++ {
		id := base
		if n > 1 {
			id = base.WithSuffix(n)
		}

		err := os.Link(tmp, s.Path(id))
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", tablesnap.WrapIO(s.Path(id), err)
		}
	}

	return "", &tablesnap.Error{
		Code:    tablesnap.EIO,
		Message: "too many artifacts named " + string(base),
		Path:    s.Path(base),
		Err:     os.ErrExist,
	}
}

// writeTemp encodes ds into a hidden temporary file in the artifact
// directory and returns its path.
func (s *ArtifactStore) writeTemp(ds *tablesnap.Dataset) (path string, err error) {
	f, err := os.CreateTemp(s.dir, ".artifact-*.tmp")
	if err != nil {
		return "", tablesnap.WrapIO(s.dir, err)
	}
	path = f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	if err := EncodeCSV(f, ds); err != nil {
		return "", tablesnap.WrapIO(path, err)
	}
	if err := f.Sync(); err != nil {
		return "", tablesnap.WrapIO(path, err)
	}
	if err := f.Close(); err != nil {
		return "", tablesnap.WrapIO(path, err)
	}
	return path, nil
}

func (s *ArtifactStore) Read(ctx context.Context, id tablesnap.ArtifactID) (*tablesnap.Dataset, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	path := s.Path(id)
	f, err := os.Open(path)
	if err != nil {
		return nil, tablesnap.WrapIO(path, err)
	}
	defer f.Close()

	ds, err := DecodeCSV(f)
	if err != nil {
		return nil, &tablesnap.Error{
			Code:    tablesnap.EIO,
			Message: "malformed artifact " + string(id) + ": " + err.Error(),
			Path:    path,
			Err:     err,
		}
	}
	return ds, nil
}

func (s *ArtifactStore) List(ctx context.Context) ([]tablesnap.ArtifactID, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, tablesnap.WrapIO(s.dir, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, tablesnap.WrapIO(s.dir, err)
	}

	// ReadDir returns entries sorted by name.
	var ids []tablesnap.ArtifactID
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		id := tablesnap.ArtifactID(e.Name())
		if id.Validate() != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *ArtifactStore) Delete(ctx context.Context, id tablesnap.ArtifactID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := os.Remove(s.Path(id)); err != nil {
		return tablesnap.WrapIO(s.Path(id), err)
	}
	return nil
}

// EncodeCSV writes ds as UTF-8 CSV with a leading byte order mark.
// The header row is always written; there is no index column.
func EncodeCSV(w io.Writer, ds *tablesnap.Dataset) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)

	if err := writeRecord(tw, cw, ds.Columns); err != nil {
		return err
	}
	for i := range ds.Rows {
		if err := writeRecord(tw, cw, ds.Values(i)); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

// writeRecord writes one CSV record. encoding/csv renders a lone empty
// field as a blank line, which readers skip, so it is quoted explicitly.
func writeRecord(w io.Writer, cw *csv.Writer, rec []string) error {
	if len(rec) == 1 && rec[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\"\"\n")
		return err
	}
	return cw.Write(rec)
}

// DecodeCSV reads a CSV artifact, stripping a leading byte order mark if
// present. Every value is returned as text.
func DecodeCSV(r io.Reader) (*tablesnap.Dataset, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}

	ds := tablesnap.NewDataset(records[0], records[1:])
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid header: %s", tablesnap.ErrorMessage(err))
	}
	return ds, nil
}

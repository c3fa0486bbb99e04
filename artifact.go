package tablesnap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactExt is the file extension of every artifact.
const ArtifactExt = ".csv"

// timestampLayout renders YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// ArtifactID names a persisted CSV file inside the artifact directory.
// It is derived from the source domain and ingestion time and never renamed.
type ArtifactID string

// String returns the id as a file name.
func (id ArtifactID) String() string {
	return string(id)
}

// Validate returns EINVALID unless id is a plain, visible .csv file name.
func (id ArtifactID) Validate() error {
	s := string(id)
	switch {
	case s == "":
		return Errorf(EINVALID, "artifact id required")
	case strings.ContainsAny(s, `/\`) || s != filepath.Base(s):
		return Errorf(EINVALID, "artifact id %q must not contain path separators", s)
	case strings.Contains(s, ".."):
		return Errorf(EINVALID, "artifact id %q must not contain path traversal", s)
	case strings.HasPrefix(s, "."):
		return Errorf(EINVALID, "artifact id %q must not be hidden", s)
	case !strings.HasSuffix(s, ArtifactExt) || len(s) == len(ArtifactExt):
		return Errorf(EINVALID, "artifact id %q must be a %s file", s, ArtifactExt)
	}
	return nil
}

// WithSuffix returns the id with a numeric disambiguator before the extension.
// Example: example_com_20250108_093000.csv → example_com_20250108_093000_2.csv
func (id ArtifactID) WithSuffix(n int) ArtifactID {
	base := strings.TrimSuffix(string(id), ArtifactExt)
	return ArtifactID(fmt.Sprintf("%s_%d%s", base, n, ArtifactExt))
}

// NamingSeed carries the inputs of artifact naming.
type NamingSeed struct {
	Domain string
	Now    time.Time
}

// ArtifactID returns the base artifact id for the seed.
func (s NamingSeed) ArtifactID() ArtifactID {
	return NewArtifactID(s.Domain, s.Now)
}

// NewArtifactID returns <normalized-domain>_<YYYYMMDD_HHMMSS>.csv.
func NewArtifactID(domain string, now time.Time) ArtifactID {
	return ArtifactID(NormalizeDomain(domain) + "_" + now.Format(timestampLayout) + ArtifactExt)
}

// NormalizeDomain replaces every character that is not safe in a file name
// with an underscore. Dots and port colons become underscores.
func NormalizeDomain(domain string) string {
	if domain == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(domain))
	for _, r := range domain {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ArtifactStore persists datasets as named CSV artifacts.
type ArtifactStore interface {
	// Write serializes the dataset to a new artifact named from the seed.
	// Returns EINVALID for an invalid dataset and EIO on filesystem failure.
	// A failed write leaves no file behind.
	Write(ctx context.Context, ds *Dataset, seed NamingSeed) (ArtifactID, error)

	// Read deserializes an artifact. All values are read back as text.
	// Returns EIO if the artifact is missing or unreadable.
	Read(ctx context.Context, id ArtifactID) (*Dataset, error)

	// List returns every artifact id in sorted order.
	List(ctx context.Context) ([]ArtifactID, error)

	// Delete removes an artifact.
	// Returns EIO if the artifact does not exist.
	Delete(ctx context.Context, id ArtifactID) error
}

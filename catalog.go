package tablesnap

import (
	"slices"
	"sync"
)

// Catalog is the ordered, deduplicated set of known artifact ids.
// It is safe for concurrent use; each mutation keeps the set sorted
// under a single lock so readers never observe a torn view.
type Catalog struct {
	mu  sync.RWMutex
	ids []ArtifactID
}

// NewCatalog returns a catalog seeded with ids.
func NewCatalog(ids ...ArtifactID) *Catalog {
	c := &Catalog{}
	for _, id := range ids {
		c.Add(id)
	}
	return c
}

// Add inserts id in sorted position.
// Returns false if id was already present.
func (c *Catalog) Add(id ArtifactID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, found := slices.BinarySearch(c.ids, id)
	if found {
		return false
	}
	c.ids = slices.Insert(c.ids, i, id)
	return true
}

// Contains reports whether id is cataloged.
func (c *Catalog) Contains(id ArtifactID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found := slices.BinarySearch(c.ids, id)
	return found
}

// List returns a sorted copy of the catalog.
func (c *Catalog) List() []ArtifactID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.ids)
}

// Len returns the number of cataloged ids.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ids)
}

package tablesnap_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/tablesnap"
	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("starts empty", func(t *testing.T) {
		t.Parallel()

		c := tablesnap.NewCatalog()

		assert.Empty(t, c.List())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("keeps ids sorted and deduplicated", func(t *testing.T) {
		t.Parallel()

		c := tablesnap.NewCatalog("b.csv", "a.csv")

		assert.True(t, c.Add("c.csv"))
		assert.False(t, c.Add("a.csv"))

		assert.Equal(t, []tablesnap.ArtifactID{"a.csv", "b.csv", "c.csv"}, c.List())
	})

	t.Run("list is idempotent", func(t *testing.T) {
		t.Parallel()

		c := tablesnap.NewCatalog("x.csv", "y.csv")

		assert.Equal(t, c.List(), c.List())
	})

	t.Run("list returns a copy", func(t *testing.T) {
		t.Parallel()

		c := tablesnap.NewCatalog("a.csv")
		ids := c.List()
		ids[0] = "mutated.csv"

		assert.True(t, c.Contains("a.csv"))
		assert.False(t, c.Contains("mutated.csv"))
	})

	t.Run("concurrent adds are not lost", func(t *testing.T) {
		t.Parallel()

		c := tablesnap.NewCatalog()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Add(tablesnap.ArtifactID(fmt.Sprintf("f%03d.csv", i)))
			}()
		}
		wg.Wait()

		ids := c.List()
		assert.Len(t, ids, 50)
		assert.IsIncreasing(t, ids)
	})
}

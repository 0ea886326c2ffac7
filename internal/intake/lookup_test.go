package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Find(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		l := NewLookup(&memStore{}, discardLogger())
		c, ok := l.Find(context.Background(), "ghost@x.com")
		assert.False(t, ok)
		assert.Nil(t, c)
	})

	t.Run("most recent row wins", func(t *testing.T) {
		store := &memStore{}
		store.seed(Candidate{ID: "old", Email: "e@x.com", CreatedAt: base})
		store.seed(Candidate{ID: "newest", Email: "e@x.com", CreatedAt: base.Add(72 * time.Hour)})
		store.seed(Candidate{ID: "middle", Email: "e@x.com", CreatedAt: base.Add(24 * time.Hour)})
		store.seed(Candidate{ID: "other", Email: "other@x.com", CreatedAt: base.Add(100 * time.Hour)})

		c, ok := NewLookup(store, discardLogger()).Find(context.Background(), "e@x.com")
		require.True(t, ok)
		assert.Equal(t, "newest", c.ID)
	})

	t.Run("email is normalized before querying", func(t *testing.T) {
		store := &memStore{}
		store.seed(Candidate{ID: "c1", Email: "mixed@x.com", CreatedAt: base})

		c, ok := NewLookup(store, discardLogger()).Find(context.Background(), "  MIXED@X.com")
		require.True(t, ok)
		assert.Equal(t, "c1", c.ID)
	})

	t.Run("store failure degrades to not found", func(t *testing.T) {
		store := &memStore{lookupErr: errStoreDown}
		c, ok := NewLookup(store, discardLogger()).Find(context.Background(), "e@x.com")
		assert.False(t, ok)
		assert.Nil(t, c)
	})

	t.Run("empty email skips the store", func(t *testing.T) {
		store := &memStore{}
		_, ok := NewLookup(store, discardLogger()).Find(context.Background(), "   ")
		assert.False(t, ok)
		assert.Zero(t, store.lookups)
	})

	t.Run("lookup never mutates stored rows", func(t *testing.T) {
		store := &memStore{}
		store.seed(Candidate{ID: "c1", Email: "e@x.com", Name: "Original", CreatedAt: base})

		c, ok := NewLookup(store, discardLogger()).Find(context.Background(), "e@x.com")
		require.True(t, ok)
		c.Name = "Edited"

		again, _ := NewLookup(store, discardLogger()).Find(context.Background(), "e@x.com")
		assert.Equal(t, "Original", again.Name)
	})
}

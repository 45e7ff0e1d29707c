package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	require.NoError(t, cache.Migrate(context.Background()))
	return cache
}

func TestCacheReplaceAndLoad(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// empty cache yields nil, not an error
	idx, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, idx)

	now := time.Now().UTC().Truncate(time.Second)
	stored := &Index{
		GeneratedAt: now,
		Notes: []NoteInfo{
			{Path: "a.md", Title: "A", Tags: []string{"x"}, Links: []string{"b"}, Backlinks: 1, ModTime: now, Size: 10},
			{Path: "b.md", Title: "B", ModTime: now},
		},
	}
	require.NoError(t, cache.Replace(ctx, stored))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Notes, 2)
	assert.Equal(t, "a.md", loaded.Notes[0].Path)
	assert.Equal(t, []string{"x"}, loaded.Notes[0].Tags)
	assert.Equal(t, 1, loaded.Notes[0].Backlinks)
	assert.True(t, loaded.GeneratedAt.Equal(now))

	// replacing drops notes no longer present
	require.NoError(t, cache.Replace(ctx, &Index{
		GeneratedAt: now.Add(time.Minute),
		Notes:       []NoteInfo{{Path: "b.md", Title: "B", ModTime: now}},
	}))
	loaded, err = cache.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Notes, 1)
	assert.Equal(t, "b.md", loaded.Notes[0].Path)
}

func TestCacheSummaries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	modTime := time.Now().UTC().Truncate(time.Second)

	_, ok, err := cache.GetSummary(ctx, "a.md", modTime)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.PutSummary(ctx, "a.md",
		Summary{Text: "about A", Concepts: []string{"alpha"}}, modTime))

	got, ok, err := cache.GetSummary(ctx, "a.md", modTime)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "about A", got.Text)
	assert.Equal(t, []string{"alpha"}, got.Concepts)

	// a newer mod time invalidates the stored summary
	_, ok, err = cache.GetSummary(ctx, "a.md", modTime.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

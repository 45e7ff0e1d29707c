package index

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/llm"
)

type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) Complete(ctx context.Context, req llm.Request) (llm.Message, error) {
	reply := c.replies[c.calls%len(c.replies)]
	c.calls++
	return llm.Message{Role: llm.RoleAssistant, Content: reply}, nil
}

func TestServiceRefreshAndEnsure(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "a.md", "# A\n\nfirst\n")
	cache := newTestCache(t)
	svc := NewService(v, cache, nil)
	ctx := context.Background()

	count, err := svc.RebuildCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// unchanged vault: Ensure serves the cache
	idx, err := svc.Ensure(ctx)
	require.NoError(t, err)
	require.Len(t, idx.Notes, 1)

	// touching a note makes the sample probe rescan
	full, err := v.Resolve("a.md")
	require.NoError(t, err)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(full, future, future))

	idx, err = svc.Ensure(ctx)
	require.NoError(t, err)
	assert.True(t, idx.Notes[0].ModTime.After(time.Now()))
}

func TestServiceEnsureRescansDeletedNote(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "a.md", "x")
	writeNote(t, v, "b.md", "y")
	cache := newTestCache(t)
	svc := NewService(v, cache, nil)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	full, err := v.Resolve("a.md")
	require.NoError(t, err)
	require.NoError(t, os.Remove(full))

	idx, err := svc.Ensure(ctx)
	require.NoError(t, err)
	require.Len(t, idx.Notes, 1)
	assert.Equal(t, "b.md", idx.Notes[0].Path)
}

func TestServiceSummarizes(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "a.md", "# A\n\ncontent about alpha\n")
	cache := newTestCache(t)
	client := &scriptedClient{replies: []string{`{"summary":"Alpha note.","concepts":["alpha"]}`}}
	svc := NewService(v, cache, NewSummarizer(client))
	ctx := context.Background()

	idx, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)

	summaries := svc.Summaries(ctx, idx)
	require.Contains(t, summaries, "a.md")
	assert.Equal(t, "Alpha note.", summaries["a.md"].Text)

	// a second refresh on an unchanged vault reuses the cached summary
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestSummarizerRejectsBadJSON(t *testing.T) {
	s := NewSummarizer(&scriptedClient{replies: []string{"not json"}})
	_, err := s.Summarize(context.Background(), "a.md", "content")
	assert.Error(t, err)
}

func TestSummarizerStripsFencing(t *testing.T) {
	s := NewSummarizer(&scriptedClient{replies: []string{"```json\n{\"summary\":\"ok\",\"concepts\":[]}\n```"}})
	got, err := s.Summarize(context.Background(), "a.md", "content")
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
}

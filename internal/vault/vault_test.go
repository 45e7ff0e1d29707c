package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(t.TempDir())
	require.NoError(t, err)
	return v
}

func TestResolve_WithinVault(t *testing.T) {
	v := newTestVault(t)

	full, err := v.Resolve("Projects/ideas.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "Projects", "ideas.md"), full)
}

func TestResolve_LeadingSlashIsVaultRelative(t *testing.T) {
	v := newTestVault(t)

	full, err := v.Resolve("/note.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "note.md"), full)
}

func TestResolve_RejectsTraversal(t *testing.T) {
	v := newTestVault(t)

	cases := []string{
		"../outside.md",
		"a/../../outside.md",
		"../../etc/passwd",
	}
	for _, path := range cases {
		_, err := v.Resolve(path)
		assert.Error(t, err, "path %q should be rejected", path)
		var escape *EscapeError
		assert.ErrorAs(t, err, &escape)
	}
}

func TestResolveNote_AppendsExtension(t *testing.T) {
	v := newTestVault(t)

	full, err := v.ResolveNote("inbox")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "inbox.md"), full)

	full, err = v.ResolveNote("inbox.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "inbox.md"), full)
}

func TestHidden(t *testing.T) {
	assert.True(t, Hidden(".quill/settings.json"))
	assert.True(t, Hidden("notes/.trash/old.md"))
	assert.False(t, Hidden("notes/daily.md"))
}

func TestParseFrontmatter(t *testing.T) {
	content := "---\ntitle: Reading List\ntags: [books, todo]\n---\n# Books\n"

	fm, body := ParseFrontmatter(content)
	assert.Equal(t, "Reading List", fm["title"])
	assert.Equal(t, "# Books\n", body)

	tags, ok := fm["tags"].([]any)
	require.True(t, ok)
	assert.Len(t, tags, 2)
}

func TestParseFrontmatter_NoBlock(t *testing.T) {
	fm, body := ParseFrontmatter("just a note\n")
	assert.Empty(t, fm)
	assert.Equal(t, "just a note\n", body)
}

func TestParseFrontmatter_Malformed(t *testing.T) {
	content := "---\n: :::\nnot yaml [\n---\nbody"
	fm, body := ParseFrontmatter(content)
	assert.Empty(t, fm)
	assert.Equal(t, content, body)
}

func TestSerializeFrontmatter_RoundTrip(t *testing.T) {
	fm := map[string]any{"status": "active"}
	content := SerializeFrontmatter(fm, "body text\n")

	parsed, body := ParseFrontmatter(content)
	assert.Equal(t, "active", parsed["status"])
	assert.Equal(t, "body text\n", body)
}

func TestSerializeFrontmatter_EmptyMapReturnsBody(t *testing.T) {
	assert.Equal(t, "body", SerializeFrontmatter(nil, "body"))
}

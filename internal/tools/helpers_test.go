package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New(t.TempDir())
	require.NoError(t, err)
	return v
}

func writeNote(t *testing.T, v *vault.Vault, rel, content string) {
	t.Helper()
	full, err := v.Resolve(rel)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func readNote(t *testing.T, v *vault.Vault, rel string) string {
	t.Helper()
	full, err := v.Resolve(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	return string(data)
}

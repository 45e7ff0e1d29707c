// Package vault resolves note paths inside a single Obsidian-style vault
// and handles YAML frontmatter.
package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EscapeError is returned when a path would resolve outside the vault
// root.
type EscapeError struct {
	Path string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("path escapes vault: %s", e.Path)
}

// Vault is the root folder of Markdown notes the assistant operates on.
type Vault struct {
	root string
}

// New creates a Vault rooted at dir. The directory is not required to exist
// yet; tools surface missing-note errors per path.
func New(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string { return v.root }

// Resolve turns a vault-relative path into an absolute one, rejecting any
// path that would escape the vault root (".." traversal, absolute-path
// injection). Leading slashes are treated as vault-relative.
func (v *Vault) Resolve(path string) (string, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(path), "/")
	full := filepath.Join(v.root, filepath.FromSlash(cleaned))
	full = filepath.Clean(full)

	rel, err := filepath.Rel(v.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &EscapeError{Path: path}
	}
	return full, nil
}

// ResolveNote is Resolve with the canonical .md suffix appended when the
// path has no extension.
func (v *Vault) ResolveNote(path string) (string, error) {
	return v.Resolve(EnsureMDExtension(path))
}

// Rel converts an absolute path under the vault back to vault-relative
// slash form.
func (v *Vault) Rel(full string) string {
	rel, err := filepath.Rel(v.root, full)
	if err != nil {
		return full
	}
	return filepath.ToSlash(rel)
}

// EnsureMDExtension appends ".md" when missing.
func EnsureMDExtension(path string) string {
	if strings.HasSuffix(path, ".md") {
		return path
	}
	return path + ".md"
}

// Hidden reports whether any segment of a vault-relative path starts with a
// dot. State under .quill/ and editor folders like .obsidian/ never count
// as notes.
func Hidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// Package store persists the agent's durable state as human-inspectable
// JSON files under <vault>/.quill/. Each store owns its records: callers
// receive copies and mutate through store methods. Files are rewritten in
// full on every mutation; on write failure the in-memory cache stays the
// source of truth for the rest of the process lifetime.
package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// StateDirName is the per-vault state directory.
const StateDirName = ".quill"

// StateDir returns the state directory for a vault root.
func StateDir(vaultRoot string) string {
	return filepath.Join(vaultRoot, StateDirName)
}

// newShortID returns an 8-char lowercase ULID prefix, short enough to type
// into a confirm command but unique for the store sizes involved.
func newShortID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
	return id[len(id)-8:]
}

// readJSON loads a JSON file into dst. A missing file is not an error; the
// bool reports whether anything was loaded.
func readJSON(path string, dst any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// writeJSON rewrites a JSON file in full, creating parent directories as
// needed.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

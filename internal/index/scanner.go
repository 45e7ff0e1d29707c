// Package index maintains a structural overview of the vault: per-note
// metadata, link graph, and optional model-written summaries, cached in
// SQLite under the vault state directory.
package index

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/quillnotes/quill/internal/vault"
)

// NoteInfo is the indexed metadata for one note.
type NoteInfo struct {
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Links       []string  `json:"links"`
	Backlinks   int       `json:"backlinks"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
}

// Index is a full point-in-time scan of the vault.
type Index struct {
	Notes       []NoteInfo `json:"notes"`
	GeneratedAt time.Time  `json:"generated_at"`
}

var (
	titleRe    = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	wikilinkRe = regexp.MustCompile(`\[\[([^|\]]+)(?:\|[^\]]+)?\]\]`)
	inlineTagRe = regexp.MustCompile(`#([A-Za-z][\w/-]*)`)
)

// Scan walks the vault and builds a fresh index. Backlink counts are
// resolved against the scanned set, so links to missing notes count for
// nobody.
func Scan(v *vault.Vault) (*Index, error) {
	var notes []NoteInfo
	err := filepath.WalkDir(v.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel := v.Rel(path)
		if d.IsDir() {
			if path != v.Root() && vault.Hidden(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") || vault.Hidden(rel) {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		notes = append(notes, scanNote(rel, string(data), info))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Path < notes[j].Path })
	resolveBacklinks(notes)
	return &Index{Notes: notes, GeneratedAt: time.Now().UTC()}, nil
}

func scanNote(rel, content string, info fs.FileInfo) NoteInfo {
	fm, body := vault.ParseFrontmatter(content)

	note := NoteInfo{
		Path:    rel,
		Title:   strings.TrimSuffix(filepath.Base(rel), ".md"),
		ModTime: info.ModTime().UTC(),
		Size:    info.Size(),
	}
	if m := titleRe.FindStringSubmatch(body); m != nil {
		note.Title = strings.TrimSpace(m[1])
	}
	if desc, ok := fm["description"].(string); ok {
		note.Description = desc
	} else {
		note.Description = firstParagraphLine(body)
	}
	note.Tags = collectTags(fm, body)
	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		note.Links = append(note.Links, strings.TrimSpace(m[1]))
	}
	return note
}

// firstParagraphLine returns the first non-heading, non-blank line,
// truncated to a display-friendly length.
func firstParagraphLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "---") {
			continue
		}
		if len(line) > 120 {
			return line[:120] + "..."
		}
		return line
	}
	return ""
}

func collectTags(fm map[string]any, body string) []string {
	seen := map[string]bool{}
	var tags []string
	add := func(tag string) {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if raw, ok := fm["tags"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				add(s)
			}
		}
	}
	for _, m := range inlineTagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	sort.Strings(tags)
	return tags
}

// resolveBacklinks counts, per note, how many other notes link to it.
// Wikilink targets match by filename stem, with or without folders.
func resolveBacklinks(notes []NoteInfo) {
	byStem := map[string][]int{}
	for i, n := range notes {
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(n.Path), ".md"))
		byStem[stem] = append(byStem[stem], i)
	}
	for i, n := range notes {
		for _, link := range n.Links {
			stem := strings.ToLower(strings.TrimSuffix(filepath.Base(filepath.FromSlash(link)), ".md"))
			for _, target := range byStem[stem] {
				if target != i {
					notes[target].Backlinks++
				}
			}
		}
	}
}

package tools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/quillnotes/quill/internal/vault"
)

// listNotes walks the vault under root (or the vault root when root is "")
// and returns every non-hidden markdown file as a vault-relative path.
func listNotes(v *vault.Vault, root string) ([]string, error) {
	base := v.Root()
	if root != "" {
		base = root
	}
	var notes []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
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
		notes = append(notes, rel)
		return nil
	})
	return notes, err
}

// matchGlob matches a note path against a glob pattern, case-insensitive,
// with '*' spanning path separators ('Projects/**' and '*meeting*' both
// work the way note users expect).
func matchGlob(pattern, path string) bool {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	if re.MatchString(path) {
		return true
	}
	// '**/x' should also match root-level 'x'.
	if strings.HasPrefix(pattern, "**/") {
		return matchGlob(strings.TrimPrefix(pattern, "**/"), path)
	}
	return false
}

// GlobNotes finds notes by path pattern, newest first.
type GlobNotes struct {
	Vault *vault.Vault
}

func (t *GlobNotes) Name() string { return "glob_notes" }

func (t *GlobNotes) Description() string {
	return "Fast pattern matching to find notes by path. Use glob patterns like " +
		"'**/*.md' for all notes, 'Projects/**' for a folder, or '*meeting*' for " +
		"names containing 'meeting'. Returns paths sorted by modification time (newest first)."
}

func (t *GlobNotes) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"pattern": map[string]any{
				"type": "string",
				"description": "Glob pattern to match. Examples: '**/*.md' (all notes), " +
					"'Projects/**' (notes in Projects folder), '*todo*' (notes with 'todo' in name), " +
					"'*.md' (notes in root only)",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Optional folder to search in (relative to vault root). If not specified, searches entire vault.",
			},
		},
		Required: []string{"pattern"},
	}
}

func (t *GlobNotes) RequiresConfirmation() bool { return false }

func (t *GlobNotes) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GlobNotes) Execute(ctx context.Context, args map[string]any) Result {
	pattern := stringArg(args, "pattern")

	searchRoot := ""
	if path := stringArg(args, "path"); path != "" {
		full, err := t.Vault.Resolve(path)
		if err != nil {
			return Failf("%v", err)
		}
		info, statErr := os.Stat(full)
		if statErr != nil || !info.IsDir() {
			return Failf("Path is not a directory: %s", path)
		}
		searchRoot = full
	}

	notes, err := listNotes(t.Vault, searchRoot)
	if err != nil {
		return Failf("Scan failed: %v", err)
	}

	type match struct {
		path  string
		mtime int64
	}
	var matches []match
	for _, rel := range notes {
		if !matchGlob(pattern, rel) {
			continue
		}
		full, err := t.Vault.Resolve(rel)
		if err != nil {
			continue
		}
		var mtime int64
		if info, err := os.Stat(full); err == nil {
			mtime = info.ModTime().UnixNano()
		}
		matches = append(matches, match{path: rel, mtime: mtime})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].mtime > matches[j].mtime })

	results := make([]string, len(matches))
	for i, m := range matches {
		results[i] = m.path
	}
	if len(results) == 0 {
		return Okf([]string{}, "No notes found matching pattern '%s'", pattern)
	}
	return Okf(results, "Found %d notes matching '%s'", len(results), pattern)
}

// GrepNotes searches note contents with a regex, in three output modes.
type GrepNotes struct {
	Vault *vault.Vault
}

func (t *GrepNotes) Name() string { return "grep_notes" }

func (t *GrepNotes) Description() string {
	return "Search for patterns across all notes using regex. Supports different output modes: " +
		"'files_with_matches' (default) returns just file paths, 'content' returns matching lines " +
		"with context, 'count' returns match counts per file."
}

func (t *GrepNotes) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"pattern": map[string]any{
				"type":        "string",
				"description": "Regex pattern to search for (e.g., 'TODO', 'meeting|standup')",
			},
			"output_mode": map[string]any{
				"type":        "string",
				"enum":        []string{"files_with_matches", "content", "count"},
				"description": "Output format: 'files_with_matches' (paths only), 'content' (matching lines), 'count' (match counts)",
			},
			"case_insensitive": map[string]any{
				"type":        "boolean",
				"description": "Case-insensitive search (default: true)",
			},
			"context_lines": map[string]any{
				"type":        "integer",
				"description": "Lines of context before/after match (only for 'content' mode, default: 1)",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of files to return (default: 20)",
			},
			"glob": map[string]any{
				"type":        "string",
				"description": "Optional glob pattern to filter which notes to search (e.g., 'Projects/**')",
			},
		},
		Required: []string{"pattern"},
	}
}

func (t *GrepNotes) RequiresConfirmation() bool { return false }

func (t *GrepNotes) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GrepNotes) Execute(ctx context.Context, args map[string]any) Result {
	pattern := stringArg(args, "pattern")
	outputMode := stringArgDefault(args, "output_mode", "files_with_matches")
	contextLines := intArg(args, "context_lines", 1)
	maxResults := intArg(args, "max_results", 20)
	globFilter := stringArg(args, "glob")

	expr := pattern
	if boolArgDefault(args, "case_insensitive", true) {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Failf("Invalid regex pattern: %v", err)
	}

	notes, err := listNotes(t.Vault, "")
	if err != nil {
		return Failf("Scan failed: %v", err)
	}

	var results []any
	filesSearched := 0
	for _, rel := range notes {
		if globFilter != "" && !matchGlob(globFilter, rel) {
			continue
		}
		full, err := t.Vault.Resolve(rel)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		filesSearched++
		lines := strings.Split(string(data), "\n")

		var matchLines []int
		for i, line := range lines {
			if re.MatchString(line) {
				matchLines = append(matchLines, i)
			}
		}
		if len(matchLines) == 0 {
			continue
		}

		switch outputMode {
		case "count":
			total := 0
			for _, i := range matchLines {
				total += len(re.FindAllString(lines[i], -1))
			}
			results = append(results, map[string]any{"path": rel, "count": total})
		case "content":
			var fileMatches []string
			for _, i := range matchLines {
				if len(fileMatches) >= 5 {
					break
				}
				start := max(0, i-contextLines)
				end := min(len(lines), i+contextLines+1)
				var block []string
				for n := start; n < end; n++ {
					prefix := " "
					if n == i {
						prefix = ">"
					}
					block = append(block, fmt.Sprintf("%s%4d: %s", prefix, n+1, lines[n]))
				}
				fileMatches = append(fileMatches, strings.Join(block, "\n"))
			}
			results = append(results, map[string]any{"path": rel, "matches": fileMatches})
		default:
			results = append(results, rel)
		}

		if len(results) >= maxResults {
			break
		}
	}

	if len(results) == 0 {
		return Okf([]any{}, "No matches for pattern '%s' in %d notes", pattern, filesSearched)
	}
	return Okf(results, "Found matches in %d notes (searched %d)", len(results), filesSearched)
}

// SearchByTag finds notes carrying a tag, either inline or in frontmatter.
type SearchByTag struct {
	Vault *vault.Vault
}

func (t *SearchByTag) Name() string { return "search_by_tag" }

func (t *SearchByTag) Description() string {
	return "Find all notes with a specific tag. Tags can be in frontmatter or inline (#tag)."
}

func (t *SearchByTag) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"tag": map[string]any{
				"type":        "string",
				"description": "Tag to search for (with or without #)",
			},
		},
		Required: []string{"tag"},
	}
}

func (t *SearchByTag) RequiresConfirmation() bool { return false }

func (t *SearchByTag) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *SearchByTag) Execute(ctx context.Context, args map[string]any) Result {
	tag := strings.TrimPrefix(stringArg(args, "tag"), "#")

	inlineRe := regexp.MustCompile(`(?i)#\b` + regexp.QuoteMeta(tag) + `\b`)
	frontmatterRe := regexp.MustCompile(`(?is)tags:\s*\[.*?\b` + regexp.QuoteMeta(tag) + `\b.*?\]`)

	notes, err := listNotes(t.Vault, "")
	if err != nil {
		return Failf("Scan failed: %v", err)
	}

	var results []string
	for _, rel := range notes {
		full, err := t.Vault.Resolve(rel)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		content := string(data)
		if inlineRe.MatchString(content) || frontmatterRe.MatchString(content) {
			results = append(results, rel)
		}
	}

	if len(results) == 0 {
		return Okf([]string{}, "No notes found with tag '#%s'", tag)
	}
	return Okf(results, "Found %d notes with tag '#%s'", len(results), tag)
}

package index

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// hubThreshold is how many backlinks make a note a hub.
const hubThreshold = 3

// recentWindow is how far back "recently modified" reaches.
const recentWindow = 7 * 24 * time.Hour

// RenderOverview formats the index as Markdown for the model's context:
// recent activity first, then hub notes, then the full listing.
func RenderOverview(idx *Index, summaries map[string]Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Vault overview (%d notes)\n", len(idx.Notes))

	cutoff := time.Now().Add(-recentWindow)
	var recent []NoteInfo
	for _, n := range idx.Notes {
		if n.ModTime.After(cutoff) {
			recent = append(recent, n)
		}
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].ModTime.After(recent[j].ModTime) })
	if len(recent) > 0 {
		b.WriteString("\n## Recently modified\n")
		for _, n := range recent {
			writeNoteLine(&b, n, summaries)
		}
	}

	var hubs []NoteInfo
	for _, n := range idx.Notes {
		if n.Backlinks >= hubThreshold {
			hubs = append(hubs, n)
		}
	}
	sort.Slice(hubs, func(i, j int) bool { return hubs[i].Backlinks > hubs[j].Backlinks })
	if len(hubs) > 0 {
		b.WriteString("\n## Hub notes\n")
		for _, n := range hubs {
			fmt.Fprintf(&b, "- %s (%s) - %d backlinks\n", n.Title, n.Path, n.Backlinks)
		}
	}

	b.WriteString("\n## All notes\n")
	for _, n := range idx.Notes {
		writeNoteLine(&b, n, summaries)
	}
	return b.String()
}

func writeNoteLine(b *strings.Builder, n NoteInfo, summaries map[string]Summary) {
	desc := n.Description
	if s, ok := summaries[n.Path]; ok && s.Text != "" {
		desc = s.Text
	}
	if desc != "" {
		fmt.Fprintf(b, "- %s (%s): %s\n", n.Title, n.Path, desc)
		return
	}
	fmt.Fprintf(b, "- %s (%s)\n", n.Title, n.Path)
}

// RenderCompact is the one-paragraph form used inside the system prompt.
func RenderCompact(idx *Index) string {
	tagCounts := map[string]int{}
	for _, n := range idx.Notes {
		for _, tag := range n.Tags {
			tagCounts[tag]++
		}
	}
	type tagCount struct {
		tag   string
		count int
	}
	var tags []tagCount
	for tag, count := range tagCounts {
		tags = append(tags, tagCount{tag, count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].count != tags[j].count {
			return tags[i].count > tags[j].count
		}
		return tags[i].tag < tags[j].tag
	})
	if len(tags) > 5 {
		tags = tags[:5]
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d notes", len(idx.Notes)))
	if len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tc := range tags {
			names[i] = "#" + tc.tag
		}
		parts = append(parts, "top tags: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "; ")
}

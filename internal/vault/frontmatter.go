package vault

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)`)

// ParseFrontmatter splits note content into its YAML frontmatter mapping
// and body. Content without a valid frontmatter block yields an empty map
// and the content unchanged.
func ParseFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---") {
		return map[string]any{}, content
	}
	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return map[string]any{}, content
	}
	fm := map[string]any{}
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return map[string]any{}, content
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, m[2]
}

// SerializeFrontmatter recombines a frontmatter mapping and body into note
// content. An empty mapping returns the body untouched.
func SerializeFrontmatter(fm map[string]any, body string) string {
	if len(fm) == 0 {
		return body
	}
	out, err := yaml.Marshal(fm)
	if err != nil {
		return body
	}
	return "---\n" + string(out) + "---\n" + body
}

// StripFrontmatter returns the body with any frontmatter block removed.
func StripFrontmatter(content string) string {
	_, body := ParseFrontmatter(content)
	return body
}

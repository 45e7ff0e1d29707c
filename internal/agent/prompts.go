package agent

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quillnotes/quill/internal/vault"
)

// GuidanceNoteName is the optional vault-level instructions note. Its
// content (frontmatter stripped) is appended to the system prompt.
const GuidanceNoteName = "QUILL.md"

const systemPromptRules = `You are Quill, an assistant for a Markdown note vault. You help the user read, organize, and write notes using the available tools.

Rules:
- Always look before you act: read or search notes before editing them.
- Note paths are relative to the vault root; the .md extension is optional.
- Prefer edit_note for small changes and update_note only for full rewrites.
- Destructive actions may come back as "awaiting confirmation" - tell the user the action is pending their approval, do not retry it.
- Use todo_write to track progress when a request needs several steps.
- Keep answers concise. When you reference notes, mention their paths.`

const planningPromptRules = `You are Quill, planning multi-step work on a Markdown note vault. Produce a plan, not a final answer, and do not call any tools.

Respond in exactly this format:

## Plan: <short title>

<one or two sentences describing the overall approach>

### Steps:
1. <step description>
   - Tool: <tool_name>
2. <step description>

Only annotate a step with "- Tool:" when one specific tool performs it. Available tools: %s`

// buildSystemPrompt assembles the main tool-use system instruction.
func buildSystemPrompt(now time.Time, guidance, vaultOverview string) string {
	var b strings.Builder
	b.WriteString(systemPromptRules)
	fmt.Fprintf(&b, "\n\nCurrent date and time: %s", now.Format("Monday, 2006-01-02 15:04"))
	if guidance != "" {
		b.WriteString("\n\nVault guidance (from QUILL.md):\n")
		b.WriteString(guidance)
	}
	if vaultOverview != "" {
		b.WriteString("\n\n")
		b.WriteString(vaultOverview)
	}
	return b.String()
}

// buildPlanningPrompt assembles the no-tools planning instruction.
func buildPlanningPrompt(toolNames []string, compactSummary string) string {
	prompt := fmt.Sprintf(planningPromptRules, strings.Join(toolNames, ", "))
	if compactSummary != "" {
		prompt += "\n\nVault: " + compactSummary
	}
	return prompt
}

// loadGuidance reads the vault's guidance note with frontmatter stripped.
// A missing note is not an error.
func loadGuidance(v *vault.Vault) string {
	full, err := v.Resolve(GuidanceNoteName)
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(vault.StripFrontmatter(string(data)))
}

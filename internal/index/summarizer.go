package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quillnotes/quill/internal/llm"
)

// Summary is a model-written abstract of one note.
type Summary struct {
	Text     string   `json:"summary"`
	Concepts []string `json:"concepts"`
}

const summarizerSystem = `You summarize Markdown notes for a vault index. Return ONLY a JSON object with exactly two fields:
- "summary": a 1-2 sentence abstract of the note
- "concepts": an array of up to 5 short key concepts mentioned in the note

Rules:
- Return valid JSON only, no markdown fencing or explanation
- Keep the summary under 200 characters
- Concepts are lowercase noun phrases, not sentences`

// maxSummarizeChars bounds how much note content goes to the model.
const maxSummarizeChars = 8000

// Summarizer produces note summaries through an LLM client, normally the
// cheaper summarizer model.
type Summarizer struct {
	client llm.Client
}

// NewSummarizer wraps the given client.
func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize asks the model for a summary of one note's content.
func (s *Summarizer) Summarize(ctx context.Context, path, content string) (Summary, error) {
	if len(content) > maxSummarizeChars {
		content = content[:maxSummarizeChars]
	}

	reply, err := s.client.Complete(ctx, llm.Request{
		System: summarizerSystem,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Summarize this note (%s):\n\n%s", path, content),
		}},
		MaxTokens: 512,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", path, err)
	}

	text := llm.StripFencing(reply.Content)
	var summary Summary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return Summary{}, fmt.Errorf("parse summary for %s: %w\nraw response: %s", path, err, text)
	}
	return summary, nil
}

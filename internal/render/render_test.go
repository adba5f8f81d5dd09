package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightsMarkdown(t *testing.T) {
	highlights := []map[string]any{
		{"_id": "h1", "text": "First insight", "note": "check later", "color": "yellow"},
		{"_id": "h2", "text": ""},
		{"_id": "h3", "text": "Second insight"},
	}

	got := HighlightsMarkdown(highlights)
	assert.Contains(t, got, "> First insight")
	assert.Contains(t, got, "- Note: check later")
	assert.Contains(t, got, "- Color: yellow")
	assert.Contains(t, got, "- Highlight ID: `h1`")
	assert.Contains(t, got, "> Second insight")
	// The tombstoned entry renders nothing at all.
	assert.NotContains(t, got, "h2")
}

func TestHighlightsMarkdownEmpty(t *testing.T) {
	assert.Empty(t, HighlightsMarkdown(nil))
	assert.Empty(t, HighlightsMarkdown([]map[string]any{{"_id": "h1", "text": "   "}}))
}

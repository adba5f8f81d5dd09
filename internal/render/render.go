package render

import (
	"strings"
)

// HighlightsMarkdown renders a bookmark's highlight list as a markdown
// quote list. Tombstoned highlights (empty text) are skipped.
func HighlightsMarkdown(highlights []map[string]any) string {
	if len(highlights) == 0 {
		return ""
	}
	var b strings.Builder
	wrote := false
	for _, h := range highlights {
		text := strings.TrimSpace(stringValue(h, "text"))
		if text == "" {
			continue
		}
		if wrote {
			b.WriteByte('\n')
		}
		b.WriteString("> ")
		b.WriteString(text)
		b.WriteByte('\n')
		if note := strings.TrimSpace(stringValue(h, "note")); note != "" {
			b.WriteString("- Note: ")
			b.WriteString(note)
			b.WriteByte('\n')
		}
		if color := strings.TrimSpace(stringValue(h, "color")); color != "" {
			b.WriteString("- Color: ")
			b.WriteString(color)
			b.WriteByte('\n')
		}
		if id := strings.TrimSpace(stringValue(h, "_id")); id != "" {
			b.WriteString("- Highlight ID: `")
			b.WriteString(id)
			b.WriteString("`\n")
		}
		wrote = true
	}
	return b.String()
}

func stringValue(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

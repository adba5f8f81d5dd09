package raindrop

import "strings"

// Normalize walks a decoded JSON value and cleans incidental quoting from
// every string-valued "title" key. It is pure and total: non-object,
// non-array values pass through unchanged, and applying it twice is the
// same as applying it once. Every successful API payload goes through it
// before any further shaping.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == "title" {
				if s, ok := item.(string); ok {
					out[k] = cleanTitle(s)
					continue
				}
			}
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// cleanTitle trims whitespace and strips matching enclosing quotes until
// none remain. Only fully matching pairs are removed; a lone leading or
// trailing quote is kept.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'') {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

package raindrop

import (
	"strings"
	"time"
)

// Helpers for working with the loosely typed envelopes the upstream
// returns ({result, item} / {result, items, count, ...}).

// Item returns the single-record payload of an envelope, if present.
func Item(env map[string]any) (map[string]any, bool) {
	if env == nil {
		return nil, false
	}
	m, ok := env["item"].(map[string]any)
	return m, ok
}

// Items returns the record-array payload of an envelope.
func Items(env map[string]any) ([]map[string]any, bool) {
	if env == nil {
		return nil, false
	}
	raw, ok := env["items"].([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok || raw == nil {
			continue
		}
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func mapField(obj map[string]any, key string) map[string]any {
	if obj == nil {
		return nil
	}
	m, _ := obj[key].(map[string]any)
	return m
}

func arrayField(obj map[string]any, key string) []map[string]any {
	if obj == nil {
		return nil
	}
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// parseTimestamp accepts the timestamp shapes the upstream is known to
// emit for created/lastUpdate fields.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

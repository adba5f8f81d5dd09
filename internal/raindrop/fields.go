package raindrop

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in field presets. These names are a public contract for callers;
// renaming or removing one is a breaking change.
var builtinPresets = map[string][]string{
	"minimal":      {"_id", "link", "title"},
	"basic":        {"_id", "link", "title", "excerpt", "note", "tags"},
	"standard":     {"_id", "link", "title", "excerpt", "note", "tags", "type", "collection", "important", "created", "lastUpdate"},
	"media":        {"_id", "link", "title", "type", "cover", "media", "file"},
	"organization": {"_id", "title", "collection", "tags", "sort", "important"},
	"metadata":     {"_id", "created", "lastUpdate", "domain", "creatorRef", "user", "broken", "cache"},
}

// Presets resolves field selectors against the built-in presets plus any
// extras loaded from a user-supplied YAML file.
type Presets struct {
	m map[string][]string
}

type presetsFile struct {
	Presets map[string][]string `yaml:"presets"`
}

// LoadPresets builds the preset table. An empty path means built-ins only.
// A file may add presets but never override a built-in name.
func LoadPresets(path string) (*Presets, error) {
	m := make(map[string][]string, len(builtinPresets))
	for name, fields := range builtinPresets {
		m[name] = fields
	}
	if path == "" {
		return &Presets{m: m}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	var file presetsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}
	for name, fields := range file.Presets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := builtinPresets[name]; exists {
			return nil, fmt.Errorf("presets file may not override built-in preset %q", name)
		}
		m[name] = fields
	}
	return &Presets{m: m}, nil
}

// Resolve turns a caller-supplied selector into a concrete field list.
// Accepted forms: nil (no selection, ok=false), a list of field names, or
// a string that is either a JSON-encoded list or a preset name. Anything
// else is a ValidationError.
func (p *Presets) Resolve(selector any) (fields []string, ok bool, err error) {
	switch sel := selector.(type) {
	case nil:
		return nil, false, nil
	case []string:
		return sel, true, nil
	case []any:
		out := make([]string, 0, len(sel))
		for _, item := range sel {
			s, isStr := item.(string)
			if !isStr {
				return nil, false, newValidationError("fields list must contain only strings")
			}
			out = append(out, s)
		}
		return out, true, nil
	case string:
		trimmed := strings.TrimSpace(sel)
		if trimmed == "" {
			return nil, false, nil
		}
		// Serialized-list convenience form first, then preset lookup.
		var list []string
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
			return list, true, nil
		}
		if fields, found := p.m[trimmed]; found {
			return fields, true, nil
		}
		return nil, false, newValidationError("unknown field preset: %q", trimmed)
	default:
		return nil, false, newValidationError("fields must be a list or preset name")
	}
}

// EnvelopeKind discriminates the payload shape of an API envelope.
type EnvelopeKind int

const (
	// EnvelopeOpaque carries neither an item nor an items payload.
	EnvelopeOpaque EnvelopeKind = iota
	// EnvelopeSingle carries one record under "item".
	EnvelopeSingle
	// EnvelopeCollection carries a record array under "items".
	EnvelopeCollection
)

func Kind(env map[string]any) EnvelopeKind {
	if env == nil {
		return EnvelopeOpaque
	}
	if _, ok := env["item"].(map[string]any); ok {
		return EnvelopeSingle
	}
	if _, ok := env["items"].([]any); ok {
		return EnvelopeCollection
	}
	return EnvelopeOpaque
}

// ProjectEnvelope applies a resolved field list to an API envelope.
// An empty field list is the metadata-only escape hatch: the payload key
// is dropped and everything else kept. Opaque envelopes pass through
// unchanged.
func ProjectEnvelope(env map[string]any, fields []string) map[string]any {
	kind := Kind(env)
	if kind == EnvelopeOpaque {
		return env
	}

	out := make(map[string]any, len(env))
	payloadKey := "item"
	if kind == EnvelopeCollection {
		payloadKey = "items"
	}
	for k, v := range env {
		if k != payloadKey {
			out[k] = v
		}
	}
	if len(fields) == 0 {
		return out
	}

	switch kind {
	case EnvelopeSingle:
		if item, ok := env["item"].(map[string]any); ok {
			out["item"] = ProjectRecord(item, fields)
		}
	case EnvelopeCollection:
		raw := env["items"].([]any)
		projected := make([]any, 0, len(raw))
		for _, it := range raw {
			if rec, ok := it.(map[string]any); ok {
				projected = append(projected, ProjectRecord(rec, fields))
				continue
			}
			projected = append(projected, it)
		}
		out["items"] = projected
	}
	return out
}

// ProjectRecord keeps only the keys present in both the record and the
// field list. Key matching is exact: no prefixes, no wildcards.
func ProjectRecord(rec map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if v, ok := rec[field]; ok {
			out[field] = v
		}
	}
	return out
}

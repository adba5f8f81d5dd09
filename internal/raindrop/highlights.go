package raindrop

import (
	"context"
	"fmt"
	"net/http"
)

// The upstream has no per-highlight write endpoints. All three mutations
// are read-modify-write: fetch the owning bookmark, rewrite its embedded
// highlight array, and send the whole array back. The array is a complete
// replacement, not a patch. There is no concurrency token upstream, so
// two concurrent mutations of the same bookmark can lose one update; that
// race is inherent to the API and deliberately not papered over here.

// HighlightPatch carries the independently optional subfields of a
// highlight update. Nil means "leave unchanged".
type HighlightPatch struct {
	Text  *string
	Note  *string
	Color *string
}

// ListHighlights returns highlights across all bookmarks, or scoped to
// one collection when collectionID is set.
func (c *Client) ListHighlights(ctx context.Context, collectionID *int64, opts ListOptions) (map[string]any, error) {
	opts = clampListOptions(opts)
	endpoint := "/highlights"
	if collectionID != nil {
		endpoint = fmt.Sprintf("/highlights/%d", *collectionID)
	}
	query := scalarQuery(map[string]any{"page": opts.Page, "perpage": opts.PerPage})
	return c.request(ctx, http.MethodGet, endpoint, query, nil)
}

// CreateHighlight appends a highlight to a bookmark. Color defaults to
// yellow, note to empty.
func (c *Client) CreateHighlight(ctx context.Context, raindropID int64, text, note, color string) (map[string]any, error) {
	if text == "" {
		return nil, newValidationError("highlight text is required")
	}
	if color == "" {
		color = DefaultHighlightColor
	}

	highlights, err := c.fetchHighlights(ctx, raindropID)
	if err != nil {
		return nil, err
	}
	highlights = append(highlights, map[string]any{
		"text":  text,
		"note":  note,
		"color": color,
	})
	return c.writeHighlights(ctx, raindropID, highlights)
}

// UpdateHighlight applies only the explicitly supplied subfields to one
// highlight, located by id.
func (c *Client) UpdateHighlight(ctx context.Context, raindropID int64, highlightID string, patch HighlightPatch) (map[string]any, error) {
	highlights, err := c.fetchHighlights(ctx, raindropID)
	if err != nil {
		return nil, err
	}
	idx := findHighlight(highlights, highlightID)
	if idx < 0 {
		return nil, &HighlightNotFoundError{RaindropID: raindropID, HighlightID: highlightID}
	}

	if patch.Text != nil {
		highlights[idx]["text"] = *patch.Text
	}
	if patch.Note != nil {
		highlights[idx]["note"] = *patch.Note
	}
	if patch.Color != nil {
		highlights[idx]["color"] = *patch.Color
	}
	return c.writeHighlights(ctx, raindropID, highlights)
}

// DeleteHighlight tombstones a highlight by blanking its text: the
// upstream treats an empty-text highlight as deleted. The array entry is
// kept; removal is the upstream's job.
func (c *Client) DeleteHighlight(ctx context.Context, raindropID int64, highlightID string) (map[string]any, error) {
	highlights, err := c.fetchHighlights(ctx, raindropID)
	if err != nil {
		return nil, err
	}
	idx := findHighlight(highlights, highlightID)
	if idx < 0 {
		return nil, &HighlightNotFoundError{RaindropID: raindropID, HighlightID: highlightID}
	}

	highlights[idx]["text"] = ""
	return c.writeHighlights(ctx, raindropID, highlights)
}

func (c *Client) fetchHighlights(ctx context.Context, raindropID int64) ([]map[string]any, error) {
	env, err := c.GetRaindrop(ctx, raindropID)
	if err != nil {
		return nil, err
	}
	item, _ := Item(env)
	return arrayField(item, "highlights"), nil
}

func (c *Client) writeHighlights(ctx context.Context, raindropID int64, highlights []map[string]any) (map[string]any, error) {
	return c.UpdateRaindrop(ctx, raindropID, map[string]any{"highlights": highlights})
}

func findHighlight(highlights []map[string]any, id string) int {
	for i, h := range highlights {
		if stringField(h, "_id", "id") == id {
			return i
		}
	}
	return -1
}

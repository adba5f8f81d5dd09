package raindrop

import (
	"context"
	"fmt"
	"net/http"
)

// Tags are not first-class objects upstream; they are manipulated in bulk
// by name, optionally scoped to one collection via a path segment.

func tagsEndpoint(collectionID *int64) string {
	if collectionID != nil {
		return fmt.Sprintf("/tags/%d", *collectionID)
	}
	return "/tags"
}

func (c *Client) ListTags(ctx context.Context, collectionID *int64) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, tagsEndpoint(collectionID), nil, nil)
}

// MergeTags renames every occurrence of the given tags to a single
// replacement tag.
func (c *Client) MergeTags(ctx context.Context, collectionID *int64, tags []string, into string) (map[string]any, error) {
	if len(tags) == 0 {
		return nil, newValidationError("tags is required")
	}
	if into == "" {
		return nil, newValidationError("replacement tag is required")
	}
	body := map[string]any{"tags": tags, "replace": into}
	return c.request(ctx, http.MethodPut, tagsEndpoint(collectionID), nil, body)
}

func (c *Client) DeleteTags(ctx context.Context, collectionID *int64, tags []string) (map[string]any, error) {
	if len(tags) == 0 {
		return nil, newValidationError("tags is required")
	}
	body := map[string]any{"tags": tags}
	return c.request(ctx, http.MethodDelete, tagsEndpoint(collectionID), nil, body)
}

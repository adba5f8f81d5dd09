package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListRaindrops lists or searches bookmarks in one collection. Collection
// 0 means all bookmarks; -1 unsorted; -99 trash. Search terms, when
// present, are merged into the query parameters of the same endpoint.
func (c *Client) ListRaindrops(ctx context.Context, collectionID int64, opts ListOptions) (map[string]any, error) {
	opts = clampListOptions(opts)

	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}
	query.Set("page", strconv.Itoa(opts.Page))
	query.Set("perpage", strconv.Itoa(opts.PerPage))

	return c.request(ctx, http.MethodGet, fmt.Sprintf("/raindrops/%d", collectionID), query, nil)
}

func (c *Client) GetRaindrop(ctx context.Context, id int64) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/raindrop/%d", id), nil, nil)
}

func (c *Client) CreateRaindrop(ctx context.Context, fields map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, "/raindrop", nil, fields)
}

// UpdateRaindrop replaces the supplied fields on a bookmark. The tags
// field is a full replacement, never additive; callers wanting to keep
// existing tags must send them back.
func (c *Client) UpdateRaindrop(ctx context.Context, id int64, fields map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPut, fmt.Sprintf("/raindrop/%d", id), nil, fields)
}

// DeleteRaindrop issues a plain delete. The upstream applies the trash
// semantics itself: the first delete moves the bookmark to trash, deleting
// it again (or from trash) removes it permanently.
func (c *Client) DeleteRaindrop(ctx context.Context, id int64) (map[string]any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/raindrop/%d", id), nil, nil)
}

// TrashRaindrop moves a bookmark into the trash pseudo-collection.
func (c *Client) TrashRaindrop(ctx context.Context, id int64) (map[string]any, error) {
	return c.UpdateRaindrop(ctx, id, map[string]any{
		"collection": map[string]any{"$id": CollectionTrash},
	})
}

// RestoreRaindrop moves a bookmark out of trash into the given collection.
func (c *Client) RestoreRaindrop(ctx context.Context, id int64, collectionID int64) (map[string]any, error) {
	return c.UpdateRaindrop(ctx, id, map[string]any{
		"collection": map[string]any{"$id": collectionID},
	})
}

func clampListOptions(opts ListOptions) ListOptions {
	if opts.Page < 0 {
		opts.Page = 0
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.PerPage < minPerPage {
		opts.PerPage = minPerPage
	}
	if opts.PerPage > maxPerPage {
		opts.PerPage = maxPerPage
	}
	return opts
}

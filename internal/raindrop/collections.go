package raindrop

import (
	"context"
	"fmt"
	"net/http"
)

// ListCollections returns root-level collections, or nested ones when
// root is false.
func (c *Client) ListCollections(ctx context.Context, root bool) (map[string]any, error) {
	endpoint := "/collections"
	if !root {
		endpoint = "/collections/childrens"
	}
	return c.request(ctx, http.MethodGet, endpoint, nil, nil)
}

func (c *Client) GetCollection(ctx context.Context, id int64) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/collection/%d", id), nil, nil)
}

func (c *Client) CreateCollection(ctx context.Context, fields map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, "/collection", nil, fields)
}

func (c *Client) UpdateCollection(ctx context.Context, id int64, fields map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPut, fmt.Sprintf("/collection/%d", id), nil, fields)
}

func (c *Client) DeleteCollection(ctx context.Context, id int64) (map[string]any, error) {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/collection/%d", id), nil, nil)
}

// EmptyTrash permanently deletes everything in the trash pseudo-collection.
// The confirmation gate lives at the dispatch layer; by the time this runs
// the caller has opted in.
func (c *Client) EmptyTrash(ctx context.Context) (map[string]any, error) {
	return c.DeleteCollection(ctx, CollectionTrash)
}

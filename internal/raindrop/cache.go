package raindrop

import (
	"context"
	"fmt"
	"net/http"
)

// ResolveCacheURL returns the object-storage URL of a bookmark's
// permanent copy. Two steps: check the cache descriptor on the bookmark,
// then hit the cache endpoint with redirects disabled and read the
// Location the upstream answers with.
func (c *Client) ResolveCacheURL(ctx context.Context, raindropID int64) (string, error) {
	env, err := c.GetRaindrop(ctx, raindropID)
	if err != nil {
		return "", err
	}
	item, _ := Item(env)
	status := stringField(mapField(item, "cache"), "status")
	if status == "" {
		status = "not found"
	}
	if status != "ready" {
		return "", &CacheNotReadyError{Status: status}
	}

	code, _, location, err := c.head(ctx, fmt.Sprintf("/raindrop/%d/cache", raindropID))
	if err != nil {
		return "", err
	}
	if code != http.StatusTemporaryRedirect || location == "" {
		return "", &UnexpectedCacheResponseError{Status: code}
	}
	return location, nil
}

// head issues a GET on the no-redirect client and surfaces the Location
// header instead of following it.
func (c *Client) head(ctx context.Context, endpoint string) (int, []byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil, resp.Header.Get("Location"), nil
}

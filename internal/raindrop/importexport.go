package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ParseURL asks the upstream to extract metadata (title, excerpt, type)
// from an arbitrary URL without saving it.
func (c *Client) ParseURL(ctx context.Context, link string) (map[string]any, error) {
	if link == "" {
		return nil, newValidationError("url is required")
	}
	query := url.Values{}
	query.Set("url", link)
	return c.request(ctx, http.MethodGet, "/import/url/parse", query, nil)
}

// CheckURLsExist reports which of the given URLs are already bookmarked.
func (c *Client) CheckURLsExist(ctx context.Context, urls []string) (map[string]any, error) {
	if len(urls) == 0 {
		return nil, newValidationError("urls is required")
	}
	return c.request(ctx, http.MethodPost, "/import/url/exists", nil, map[string]any{"urls": urls})
}

// ImportFile uploads a bookmarks file (HTML export, CSV, ...) for the
// upstream importer. Shares the multipart plumbing with file upload but
// skips the upload allow-list: the importer accepts its own formats.
func (c *Client) ImportFile(ctx context.Context, path string, collectionID *int64) (map[string]any, error) {
	return c.sendMultipartFile(ctx, http.MethodPost, "/import/file", path, collectionID)
}

// ExportFormats lists the plain-text export formats the upstream serves.
var ExportFormats = []string{"csv", "html"}

// Export downloads a collection in the given plain-text format. The body
// is returned verbatim; it is not JSON and skips normalization.
func (c *Client) Export(ctx context.Context, collectionID int64, format string) (string, error) {
	supported := false
	for _, f := range ExportFormats {
		if f == format {
			supported = true
			break
		}
	}
	if !supported {
		return "", newValidationError("format must be one of csv, html")
	}
	return c.requestText(ctx, fmt.Sprintf("/raindrops/%d/export.%s", collectionID, format), nil)
}

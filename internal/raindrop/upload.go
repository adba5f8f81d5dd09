package raindrop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Uploads above this size are rejected locally before any network call.
const MaxUploadSize int64 = 10 << 20

// uploadContentTypes is the fixed allow-list of uploadable file types.
var uploadContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".html": "text/html",
}

// UploadFile creates a bookmark from a local file. Existence, size and
// file type are all validated before the request is built.
func (c *Client) UploadFile(ctx context.Context, path string, collectionID *int64) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	if info.Size() > MaxUploadSize {
		return nil, &FileTooLargeError{Path: path, Size: info.Size(), Limit: MaxUploadSize}
	}
	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := uploadContentTypes[ext]
	if !ok {
		return nil, &UnsupportedFileTypeError{Ext: ext}
	}

	return c.sendMultipart(ctx, http.MethodPut, "/raindrop/file", path, collectionID, contentType)
}

// sendMultipartFile validates only existence; used by the importer where
// the upstream decides which formats it accepts.
func (c *Client) sendMultipartFile(ctx context.Context, method, endpoint, path string, collectionID *int64) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	return c.sendMultipart(ctx, method, endpoint, path, collectionID, "")
}

func (c *Client) sendMultipart(ctx context.Context, method, endpoint, path string, collectionID *int64, contentType string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	var part io.Writer
	if contentType != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path))}
		header["Content-Type"] = []string{contentType}
		part, err = writer.CreatePart(header)
	} else {
		part, err = writer.CreateFormFile("file", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if collectionID != nil {
		if err := writer.WriteField("collectionId", fmt.Sprintf("%d", *collectionID)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	// The boundary-carrying content type must come from the writer; a
	// plain JSON content type here breaks the upstream parser.
	headers := map[string]string{"Content-Type": writer.FormDataContentType()}
	status, respBytes, err := c.do(ctx, c.httpClient, method, endpoint, nil, &buf, headers)
	if err != nil {
		return nil, err
	}
	return classify(status, respBytes)
}

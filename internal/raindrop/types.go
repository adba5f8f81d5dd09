package raindrop

import (
	"fmt"
	"time"
)

// Reserved collection IDs understood by the upstream API.
const (
	CollectionAll      int64 = 0
	CollectionUnsorted int64 = -1
	CollectionTrash    int64 = -99
)

// Sort orders accepted by the raindrop listing endpoint.
var SortModes = []string{"-created", "created", "score", "-sort", "title", "-title", "domain", "-domain"}

// Collection view modes.
var ViewModes = []string{"list", "simple", "grid", "masonry"}

// HighlightColors are the named colors the upstream accepts on a highlight.
var HighlightColors = []string{
	"blue", "brown", "cyan", "gray", "green", "indigo",
	"orange", "pink", "purple", "red", "teal", "yellow",
}

const DefaultHighlightColor = "yellow"

const (
	minPerPage     = 1
	maxPerPage     = 50
	defaultPerPage = 25
)

// ListOptions parameterize raindrop listing and searching.
type ListOptions struct {
	Search  string
	Sort    string
	Page    int
	PerPage int
}

// WatchResult is the outcome of one watch poll on a collection.
type WatchResult struct {
	CollectionID int64            `json:"collectionId"`
	Since        string           `json:"since"`
	Until        string           `json:"until"`
	NewItems     []map[string]any `json:"newItems"`
	Count        int              `json:"count"`
}

// BulkOptions control sequential bulk raindrop creation.
type BulkOptions struct {
	Delay           time.Duration
	ContinueOnError bool
}

type BulkItemError struct {
	Index   int    `json:"index"`
	Link    string `json:"link,omitempty"`
	Message string `json:"message"`
}

// BulkResult summarizes a bulk creation run. Items holds the created
// raindrops in request order for the attempts that succeeded.
type BulkResult struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Items      []map[string]any `json:"items,omitempty"`
	Errors     []BulkItemError  `json:"errors,omitempty"`
}

// APIError reports a request the upstream service rejected, either via an
// HTTP error status or a payload marked result:false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %d", e.Status)
}

// ParseError reports a response body that could not be decoded as JSON.
type ParseError struct {
	Status int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response (status %d): %s", e.Status, e.Reason)
}

// ValidationError reports caller-supplied arguments failing a domain
// precondition before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidDateError reports a reminder or since date that failed to parse.
type InvalidDateError struct {
	Raw string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q", e.Raw)
}

type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Path) }
func (e *FileNotFoundError) Unwrap() error { return e.Err }

type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file %s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}

type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Ext)
}

type HighlightNotFoundError struct {
	RaindropID  int64
	HighlightID string
}

func (e *HighlightNotFoundError) Error() string {
	return fmt.Sprintf("highlight %s not found on raindrop %d", e.HighlightID, e.RaindropID)
}

type CacheNotReadyError struct {
	Status string
}

func (e *CacheNotReadyError) Error() string {
	return fmt.Sprintf("permanent copy is not ready (status: %s)", e.Status)
}

type UnexpectedCacheResponseError struct {
	Status int
}

func (e *UnexpectedCacheResponseError) Error() string {
	return fmt.Sprintf("expected redirect to permanent copy, got status %d", e.Status)
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates and
// returns the RFC3339 form the upstream expects.
func ParseDate(raw string) (string, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	return "", &InvalidDateError{Raw: raw}
}

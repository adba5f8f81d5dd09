package raindrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raindrop-contrib/raindrop-mcp/internal/config"
	"github.com/raindrop-contrib/raindrop-mcp/internal/logger"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Client talks to the raindrop REST API. Every domain operation is a thin
// path/method/body constructor over the generic request primitive.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	noRedirect *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	base := config.NewHTTPClient(cfg)

	// The cache resolver needs the upstream's 307 surfaced instead of
	// followed; everything else shares the default client.
	noRedirect := *base
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		userAgent:  cfg.UserAgent,
		httpClient: base,
		noRedirect: &noRedirect,
		logger:     log,
	}
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// request issues one authenticated call and classifies the outcome:
// a body that is not JSON becomes a ParseError, an HTTP error status or a
// payload marked result:false becomes an APIError, and anything else is
// normalized and returned.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (map[string]any, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	headers := map[string]string{}
	if len(payload) > 0 {
		reader = bytes.NewReader(payload)
		headers["Content-Type"] = "application/json"
	}

	status, respBytes, err := c.do(ctx, c.httpClient, method, endpoint, query, reader, headers)
	if err != nil {
		return nil, err
	}
	return classify(status, respBytes)
}

// requestText is the plain-text variant used by the export endpoints.
func (c *Client) requestText(ctx context.Context, endpoint string, query url.Values) (string, error) {
	status, respBytes, err := c.do(ctx, c.httpClient, http.MethodGet, endpoint, query, nil, nil)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		_, cerr := classify(status, respBytes)
		return "", cerr
	}
	return string(respBytes), nil
}

func classify(status int, respBytes []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(respBytes)) == 0 {
		if status >= 400 {
			return nil, &APIError{Status: status}
		}
		return map[string]any{}, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(respBytes, &obj); err != nil {
		return nil, &ParseError{Status: status, Reason: err.Error()}
	}

	if status >= 400 || explicitFailure(obj) {
		msg := stringField(obj, "errorMessage", "error", "message")
		if msg == "" {
			msg = fmt.Sprintf("request failed: %d", status)
		}
		return nil, &APIError{Status: status, Message: msg}
	}

	normalized, _ := Normalize(obj).(map[string]any)
	return normalized, nil
}

// explicitFailure reports a payload carrying result:false. A missing
// result key is success.
func explicitFailure(obj map[string]any) bool {
	raw, ok := obj["result"]
	if !ok {
		return false
	}
	b, ok := raw.(bool)
	return ok && !b
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, endpoint string, query url.Values, body io.Reader, headers map[string]string) (int, []byte, error) {
	endpoint = "/" + strings.TrimLeft(endpoint, "/")
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	callID := uuid.NewString()
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logRequest(ctx, callID, method, endpoint, 0, time.Since(start), 0)
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	c.logRequest(ctx, callID, method, endpoint, resp.StatusCode, time.Since(start), len(respBytes))
	return resp.StatusCode, respBytes, nil
}

func (c *Client) logRequest(ctx context.Context, callID, method, endpoint string, status int, latency time.Duration, size int) {
	requestID, _ := ctx.Value(requestIDKey).(string)
	c.logger.Debug("upstream request",
		logger.String("request_id", requestID),
		logger.String("call_id", callID),
		logger.String("method", method),
		logger.String("endpoint", endpoint),
		logger.Int("status", status),
		logger.Duration("latency", latency),
		logger.Int("bytes", size),
	)
}

// scalarQuery stringifies a key→scalar map into query parameters.
func scalarQuery(params map[string]any) url.Values {
	if len(params) == 0 {
		return nil
	}
	query := url.Values{}
	for k, v := range params {
		switch val := v.(type) {
		case string:
			query.Set(k, val)
		case bool:
			query.Set(k, fmt.Sprintf("%t", val))
		case int:
			query.Set(k, fmt.Sprintf("%d", val))
		case int64:
			query.Set(k, fmt.Sprintf("%d", val))
		case float64:
			query.Set(k, strings.TrimSuffix(fmt.Sprintf("%f", val), ".000000"))
		default:
			query.Set(k, fmt.Sprintf("%v", val))
		}
	}
	return query
}

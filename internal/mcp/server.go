package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raindrop-contrib/raindrop-mcp/internal/config"
	"github.com/raindrop-contrib/raindrop-mcp/internal/logger"
	"github.com/raindrop-contrib/raindrop-mcp/internal/raindrop"
	"github.com/raindrop-contrib/raindrop-mcp/internal/render"
)

type Server struct {
	cfg     config.Config
	client  *raindrop.Client
	watcher *raindrop.Watcher
	presets *raindrop.Presets
	logger  logger.Logger
	in      io.Reader
	out     io.Writer
	writeMu sync.Mutex
}

func NewServer(cfg config.Config, client *raindrop.Client, watcher *raindrop.Watcher, presets *raindrop.Presets, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		cfg:     cfg,
		client:  client,
		watcher: watcher,
		presets: presets,
		logger:  log,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run serves MCP over stdio using Content-Length framed JSON-RPC until
// the input stream closes.
func (s *Server) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.in)
	for {
		payload, err := readMessage(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var req rpcRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			_ = s.writeError(nil, -32700, "parse error", nil)
			continue
		}

		if req.Method == "" {
			_ = s.writeError(req.ID, -32600, "invalid request", nil)
			continue
		}

		if !req.hasID() {
			s.handleNotification(req)
			continue
		}

		if err := s.writeMessage(s.dispatch(ctx, req)); err != nil {
			return err
		}
	}
}

func (s *Server) handleNotification(req rpcRequest) {
	if req.Method == "notifications/initialized" || req.Method == "initialized" {
		s.logger.Debug("client initialized")
	}
}

// dispatch routes one JSON-RPC request. Shared by the stdio and HTTP
// transports so both see identical semantics.
func (s *Server) dispatch(ctx context.Context, req rpcRequest) rpcResponse {
	requestID := req.idString()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = raindrop.WithRequestID(ctx, requestID)

	start := time.Now()
	defer func() {
		s.logger.Debug("rpc handled",
			logger.String("request_id", requestID),
			logger.String("method", req.Method),
			logger.Duration("duration", time.Since(start)))
	}()

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = s.initializeResult()
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = map[string]any{"tools": toolDefinitions()}
	case "tools/call":
		var params toolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: -32602, Message: "invalid params"}
			break
		}
		resp.Result = s.callTool(ctx, params)
	case "resources/list", "resources/templates/list":
		resp.Result = map[string]any{"resources": resourceDefinitions()}
	case "resources/read":
		resp = s.readResource(ctx, req)
	case "prompts/list":
		resp.Result = map[string]any{"prompts": promptDefinitions()}
	case "prompts/get":
		resp = s.getPrompt(req)
	default:
		resp.Error = &rpcError{Code: -32601, Message: "method not found"}
	}
	return resp
}

func (s *Server) initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": s.cfg.Protocol,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{"subscribe": false},
			"prompts":   map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.cfg.ServerName,
			"version": s.cfg.ServerVersion,
		},
	}
}

// callTool runs one tool and folds any failure into the uniform
// error-shaped result; tool errors never surface as transport faults.
func (s *Server) callTool(ctx context.Context, params toolCallParams) map[string]any {
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		mapped := mapToolError(err)
		return map[string]any{
			"isError": true,
			"content": []map[string]any{{"type": "text", "text": mapped.Message}},
			"structuredContent": map[string]any{
				"error": mapped,
			},
		}
	}
	return map[string]any{
		"content":           []map[string]any{{"type": "text", "text": mustJSON(result)}},
		"structuredContent": result,
	}
}

func (s *Server) readResource(ctx context.Context, req rpcRequest) rpcResponse {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp.Error = &rpcError{Code: -32602, Message: "invalid params"}
		return resp
	}
	if strings.TrimSpace(params.URI) == "" {
		resp.Error = &rpcError{Code: -32602, Message: "uri is required"}
		return resp
	}

	parsed, err := parseRaindropURI(params.URI)
	if err != nil {
		resp.Error = &rpcError{Code: -32602, Message: "invalid resource uri"}
		return resp
	}

	env, err := s.client.GetRaindrop(ctx, parsed.ID)
	if err != nil {
		mapped := mapToolError(err)
		resp.Error = &rpcError{Code: -32000, Message: mapped.Message, Data: map[string]any{"error": mapped}}
		return resp
	}
	item, _ := raindrop.Item(env)

	mime := "application/json"
	text := ""
	switch parsed.Kind {
	case "metadata":
		meta := make(map[string]any, len(item))
		for k, v := range item {
			if k == "highlights" {
				continue
			}
			meta[k] = v
		}
		text = mustJSON(meta)
	case "highlights.json":
		text = mustJSON(map[string]any{"highlights": highlightsOf(item)})
	case "highlights.md":
		mime = "text/markdown"
		text = render.HighlightsMarkdown(highlightsOf(item))
	default:
		resp.Error = &rpcError{Code: -32602, Message: "unsupported resource uri"}
		return resp
	}

	resp.Result = map[string]any{
		"contents": []map[string]any{{
			"uri":      params.URI,
			"mimeType": mime,
			"text":     text,
		}},
	}
	return resp
}

func highlightsOf(item map[string]any) []map[string]any {
	raw, _ := item["highlights"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, h := range raw {
		if m, ok := h.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func resourceDefinitions() []map[string]any {
	return []map[string]any{
		{"uriTemplate": "raindrop://bookmark/{id}", "name": "Bookmark metadata", "mimeType": "application/json"},
		{"uriTemplate": "raindrop://bookmark/{id}/highlights.json", "name": "Bookmark highlights JSON", "mimeType": "application/json"},
		{"uriTemplate": "raindrop://bookmark/{id}/highlights.md", "name": "Bookmark highlights markdown", "mimeType": "text/markdown"},
	}
}

func promptDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "raindrop.prompt.summarize",
			"description": "Summarize a bookmark from its metadata and highlights.",
			"arguments": []map[string]any{
				{"name": "bookmark_id", "required": true},
			},
		},
	}
}

func (s *Server) getPrompt(req rpcRequest) rpcResponse {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp.Error = &rpcError{Code: -32602, Message: "invalid params"}
		return resp
	}

	bookmarkID, _ := params.Arguments["bookmark_id"].(string)
	if strings.TrimSpace(bookmarkID) == "" {
		resp.Error = &rpcError{Code: -32602, Message: "bookmark_id is required"}
		return resp
	}

	switch params.Name {
	case "raindrop.prompt.summarize":
		text := fmt.Sprintf("Summarize this bookmark. Read:\n- raindrop://bookmark/%s\n- raindrop://bookmark/%s/highlights.md", bookmarkID, bookmarkID)
		resp.Result = promptResult("Summarize bookmark", text)
	default:
		resp.Error = &rpcError{Code: -32602, Message: "unknown prompt"}
	}
	return resp
}

func promptResult(description, text string) map[string]any {
	return map[string]any{
		"description": description,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": map[string]any{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

func (s *Server) writeError(id json.RawMessage, code int, message string, data any) error {
	return s.writeMessage(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message, Data: data}})
}

func (s *Server) writeMessage(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	frame := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := io.WriteString(s.out, frame); err != nil {
		return err
	}
	_, err = s.out.Write(payload)
	return err
}

func readMessage(reader *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if key == "content-length" {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid content-length")
			}
			length = n
		}
	}
	if length < 0 {
		return nil, fmt.Errorf("missing content-length")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &raindrop.ValidationError{Message: "invalid arguments"}
	}
	return nil
}

func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (r rpcRequest) hasID() bool {
	trimmed := strings.TrimSpace(string(r.ID))
	return trimmed != "" && trimmed != "null"
}

func (r rpcRequest) idString() string {
	if !r.hasID() {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(r.ID, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return string(r.ID)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// mapToolError folds the full error taxonomy into stable tool error
// codes. Every failure from the client or derived operations ends up
// here; nothing propagates as a raw fault.
func mapToolError(err error) toolError {
	if err == nil {
		return toolError{Code: "upstream_error", Message: "unknown error"}
	}

	var validationErr *raindrop.ValidationError
	if errors.As(err, &validationErr) {
		return toolError{Code: "invalid_input", Message: err.Error()}
	}
	var dateErr *raindrop.InvalidDateError
	if errors.As(err, &dateErr) {
		return toolError{Code: "invalid_input", Message: err.Error()}
	}
	var hlErr *raindrop.HighlightNotFoundError
	if errors.As(err, &hlErr) {
		return toolError{Code: "not_found", Message: err.Error()}
	}
	var notFoundErr *raindrop.FileNotFoundError
	if errors.As(err, &notFoundErr) {
		return toolError{Code: "file_not_found", Message: err.Error()}
	}
	var tooLargeErr *raindrop.FileTooLargeError
	if errors.As(err, &tooLargeErr) {
		return toolError{Code: "file_too_large", Message: err.Error()}
	}
	var fileTypeErr *raindrop.UnsupportedFileTypeError
	if errors.As(err, &fileTypeErr) {
		return toolError{Code: "unsupported_file_type", Message: err.Error()}
	}
	var cacheErr *raindrop.CacheNotReadyError
	if errors.As(err, &cacheErr) {
		return toolError{Code: "cache_not_ready", Message: err.Error()}
	}
	var cacheRespErr *raindrop.UnexpectedCacheResponseError
	if errors.As(err, &cacheRespErr) {
		return toolError{Code: "cache_unexpected_response", Message: err.Error()}
	}
	var parseErr *raindrop.ParseError
	if errors.As(err, &parseErr) {
		return toolError{
			Code:    "parse_error",
			Message: err.Error(),
			Details: map[string]any{"http_status": parseErr.Status},
		}
	}
	var apiErr *raindrop.APIError
	if errors.As(err, &apiErr) {
		code := "upstream_error"
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = "unauthorized"
		case http.StatusNotFound:
			code = "not_found"
		case http.StatusTooManyRequests:
			code = "rate_limited"
		}
		return toolError{
			Code:    code,
			Message: err.Error(),
			Details: map[string]any{"http_status": apiErr.Status},
		}
	}

	return toolError{Code: "upstream_error", Message: err.Error()}
}

type parsedURI struct {
	ID   int64
	Kind string
}

func parseRaindropURI(raw string) (parsedURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return parsedURI{}, err
	}
	if u.Scheme != "raindrop" || u.Host != "bookmark" {
		return parsedURI{}, fmt.Errorf("unsupported uri")
	}

	parts := strings.Split(strings.Trim(strings.TrimSpace(u.Path), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return parsedURI{}, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return parsedURI{}, fmt.Errorf("invalid id")
	}
	if len(parts) == 1 {
		return parsedURI{ID: id, Kind: "metadata"}, nil
	}
	kind := strings.Join(parts[1:], "/")
	switch kind {
	case "highlights.json", "highlights.md":
		return parsedURI{ID: id, Kind: kind}, nil
	default:
		return parsedURI{}, fmt.Errorf("unsupported kind")
	}
}

package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, s *Server, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	s.handleHTTPPost(rec, req)
	return rec
}

func decodeRPC(t *testing.T, rec *httptest.ResponseRecorder) rpcResponse {
	t.Helper()
	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHTTPPostPing(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	rec := postJSON(t, s, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRPC(t, rec)
	assert.Nil(t, resp.Error)
}

func TestHTTPPostRejectsBatch(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	rec := postJSON(t, s, `[{"jsonrpc":"2.0","id":1,"method":"ping"}]`, nil)
	resp := decodeRPC(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32600, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "batch")
}

func TestHTTPPostNotificationAccepted(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	rec := postJSON(t, s, `{"jsonrpc":"2.0","method":"notifications/initialized"}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHTTPPostClientResponseAccepted(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	rec := postJSON(t, s, `{"jsonrpc":"2.0","id":9,"result":{}}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHTTPPostParseError(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	resp := decodeRPC(t, postJSON(t, s, `not json`, nil))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32700, resp.Error.Code)
}

func TestHTTPPostRejectsUnacceptableAccept(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	rec := postJSON(t, s, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, func(r *http.Request) {
		r.Header.Set("Accept", "text/html")
	})
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestHTTPAuthorization(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))
	s.cfg.HTTPAuthToken = "sekret"

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "missing", header: "", want: false},
		{name: "wrong scheme", header: "Basic sekret", want: false},
		{name: "wrong token", header: "Bearer nope", want: false},
		{name: "valid", header: "Bearer sekret", want: true},
		{name: "case-insensitive scheme", header: "bearer sekret", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, s.isHTTPAuthorized(req))
		})
	}
}

func TestHTTPOriginAllowList(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header passes", allowed: nil, origin: "", want: true},
		{name: "origin without allow-list blocked", allowed: nil, origin: "https://evil.example", want: false},
		{name: "exact match", allowed: []string{"https://app.example"}, origin: "https://app.example", want: true},
		{name: "case-insensitive match", allowed: []string{"https://App.Example"}, origin: "https://app.example", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anything.example", want: true},
		{name: "mismatch", allowed: []string{"https://app.example"}, origin: "https://other.example", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.cfg.AllowedOrigins = tt.allowed
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, s.isOriginAllowed(req))
		})
	}
}

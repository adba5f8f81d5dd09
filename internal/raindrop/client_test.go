package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raindrop-contrib/raindrop-mcp/internal/config"
	"github.com/raindrop-contrib/raindrop-mcp/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		BaseURL:   srv.URL,
		APIToken:  "test-token",
		UserAgent: "raindrop-mcp/test",
		Timeout:   5 * time.Second,
		VerifyTLS: true,
	}
	return NewClient(cfg, logger.NewNop())
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func TestRequestSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotAgent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"result":true,"item":{"_id":1}}`))
	}))

	_, err := client.GetRaindrop(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "raindrop-mcp/test", gotAgent)
}

func TestRequestExplicitFailureBecomesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":false,"errorMessage":"no access"}`))
	}))

	_, err := client.GetCollection(context.Background(), 42)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no access", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.Status)
}

func TestRequestErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "json error body", status: http.StatusNotFound, body: `{"result":false,"errorMessage":"not found"}`, message: "not found"},
		{name: "empty body", status: http.StatusBadGateway, body: "", message: "request failed: 502"},
		{name: "no message key", status: http.StatusBadRequest, body: `{"result":false}`, message: "request failed: 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.GetRaindrop(context.Background(), 1)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestRequestNonJSONBecomesParseError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))

	_, err := client.GetRaindrop(context.Background(), 1)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, http.StatusOK, parseErr.Status)
}

func TestRequestNormalizesTitles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":true,"items":[{"_id":1,"title":"  \"Quoted Title\"  "}],"count":1}`))
	}))

	env, err := client.ListRaindrops(context.Background(), CollectionAll, ListOptions{})
	require.NoError(t, err)
	items, ok := Items(env)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Quoted Title", items[0]["title"])
}

func TestListRaindropsQuery(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"result":true,"items":[],"count":0}`))
	}))

	_, err := client.ListRaindrops(context.Background(), 5, ListOptions{
		Search:  "golang",
		Sort:    "-created",
		Page:    2,
		PerPage: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"golang"}, gotQuery["search"])
	assert.Equal(t, []string{"-created"}, gotQuery["sort"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	// Oversized page sizes clamp to the upstream maximum.
	assert.Equal(t, []string{"50"}, gotQuery["perpage"])
}

func TestExport(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/raindrops/0/export.csv", r.URL.Path)
		_, _ = w.Write([]byte("id,link\n1,https://example.com\n"))
	}))

	content, err := client.Export(context.Background(), CollectionAll, "csv")
	require.NoError(t, err)
	assert.Contains(t, content, "https://example.com")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.Export(context.Background(), CollectionAll, "xml")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestExportErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"result":false,"errorMessage":"forbidden"}`))
	}))

	_, err := client.Export(context.Background(), 7, "html")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestTrashAndRestoreMoveViaCollectionUpdate(t *testing.T) {
	var bodies []map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		require.NoError(t, decodeBody(r, &body))
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`{"result":true,"item":{"_id":1}}`))
	}))

	_, err := client.TrashRaindrop(context.Background(), 1)
	require.NoError(t, err)
	_, err = client.RestoreRaindrop(context.Background(), 1, 33)
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, float64(CollectionTrash), bodies[0]["collection"].(map[string]any)["$id"])
	assert.Equal(t, float64(33), bodies[1]["collection"].(map[string]any)["$id"])
}

func TestMergeTagsValidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.MergeTags(context.Background(), nil, nil, "dev")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = client.MergeTags(context.Background(), nil, []string{"golang"}, "")
	require.ErrorAs(t, err, &validationErr)
}

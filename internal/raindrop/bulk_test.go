package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkItems(n int) []map[string]any {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{"link": fmt.Sprintf("https://example.com/%d", i)}
	}
	return items
}

// failNth fails the request with the given 1-based ordinal and succeeds
// otherwise.
func failNth(n int) http.Handler {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == n {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"result":false,"errorMessage":"bad link"}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"result":true,"item":{"_id":%d}}`, calls)
	})
}

func TestCreateRaindropsStopsOnFirstFailure(t *testing.T) {
	client := newTestClient(t, failNth(2))

	result, err := client.CreateRaindrops(context.Background(), bulkItems(5), BulkOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Items, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "https://example.com/1", result.Errors[0].Link)
	assert.Contains(t, result.Errors[0].Message, "bad link")
}

func TestCreateRaindropsContinueOnError(t *testing.T) {
	client := newTestClient(t, failNth(2))

	result, err := client.CreateRaindrops(context.Background(), bulkItems(4), BulkOptions{ContinueOnError: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Items, 3)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
}

func TestCreateRaindropsPreservesOrder(t *testing.T) {
	var links []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, decodeBody(r, &body))
		links = append(links, stringField(body, "link"))
		_, _ = w.Write([]byte(`{"result":true,"item":{"_id":1}}`))
	}))

	_, err := client.CreateRaindrops(context.Background(), bulkItems(3), BulkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/0",
		"https://example.com/1",
		"https://example.com/2",
	}, links)
}

func TestCreateRaindropsBounds(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	var validationErr *ValidationError

	_, err := client.CreateRaindrops(context.Background(), nil, BulkOptions{})
	require.ErrorAs(t, err, &validationErr)

	_, err = client.CreateRaindrops(context.Background(), bulkItems(51), BulkOptions{})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateRaindropsCancelledDuringDelay(t *testing.T) {
	client := newTestClient(t, failNth(0))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// The first request runs before any delay; the deadline then fires
	// inside the delay preceding the second.
	_, err := client.CreateRaindrops(ctx, bulkItems(2), BulkOptions{Delay: time.Minute})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raindrop-contrib/raindrop-mcp/internal/cursor"
)

func watchHandler(t *testing.T, items string, queries *[]map[string][]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if queries != nil {
			*queries = append(*queries, r.URL.Query())
		}
		_, _ = fmt.Fprintf(w, `{"result":true,"items":[%s],"count":0}`, items)
	})
}

func newTestWatcher(t *testing.T, handler http.Handler, now time.Time) (*Watcher, *cursor.MemoryStore) {
	t.Helper()
	store := cursor.NewMemoryStore()
	w := NewWatcher(newTestClient(t, handler), store)
	w.now = func() time.Time { return now }
	return w, store
}

func TestWatchFirstPollEstablishesBaseline(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	// Remote items exist, but the first poll must not report them.
	items := `{"_id":1,"created":"2026-08-31T11:00:00Z"}`
	w, store := newTestWatcher(t, watchHandler(t, items, nil), now)

	result, err := w.Watch(context.Background(), 5, WatchOptions{})
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.NewItems)
	assert.Equal(t, now.Format(time.RFC3339), result.Since)
	assert.Equal(t, now.Format(time.RFC3339), result.Until)

	stored, ok, err := store.Get(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Equal(now))
}

func TestWatchReportsItemsNewerThanCursor(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	items := `{"_id":1,"created":"2026-08-31T11:30:00Z"},` +
		`{"_id":2,"created":"2026-08-31T10:00:00Z"},` +
		`{"_id":3,"created":"2026-08-31T11:00:00Z"}`
	var queries []map[string][]string
	w, store := newTestWatcher(t, watchHandler(t, items, &queries), now)

	cursorAt := time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(context.Background(), 5, cursorAt))

	result, err := w.Watch(context.Background(), 5, WatchOptions{})
	require.NoError(t, err)
	// Strictly newer than the cursor: the item created exactly at the
	// cursor timestamp is excluded.
	require.Equal(t, 1, result.Count)
	assert.Equal(t, float64(1), result.NewItems[0]["_id"])
	assert.Equal(t, cursorAt.Format(time.RFC3339), result.Since)

	require.Len(t, queries, 1)
	assert.Equal(t, []string{"-created"}, queries[0]["sort"])
	assert.Equal(t, []string{"50"}, queries[0]["perpage"])

	stored, ok, err := store.Get(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Equal(now), "cursor advances to poll time")
}

func TestWatchSinceOverridesStoredCursor(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	items := `{"_id":1,"created":"2026-08-31T09:00:00Z"}`
	w, store := newTestWatcher(t, watchHandler(t, items, nil), now)
	require.NoError(t, store.Set(context.Background(), 5, now))

	since := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	result, err := w.Watch(context.Background(), 5, WatchOptions{Since: &since})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestWatchReset(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w, store := newTestWatcher(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("reset must not poll upstream")
	}), now)
	require.NoError(t, store.Set(context.Background(), 5, now.Add(-time.Hour)))

	result, err := w.Watch(context.Background(), 5, WatchOptions{Reset: true})
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Equal(t, now.Format(time.RFC3339), result.Since)

	stored, _, err := store.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, stored.Equal(now))
}

func TestWatchSkipsItemsWithoutParsableCreated(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	items := `{"_id":1,"created":"garbage"},{"_id":2,"created":"2026-08-31T11:00:00Z"}`
	w, store := newTestWatcher(t, watchHandler(t, items, nil), now)
	require.NoError(t, store.Set(context.Background(), 5, now.Add(-2*time.Hour)))

	result, err := w.Watch(context.Background(), 5, WatchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, float64(2), result.NewItems[0]["_id"])
}

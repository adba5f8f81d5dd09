package raindrop

import (
	"context"
	"time"

	"github.com/raindrop-contrib/raindrop-mcp/internal/cursor"
)

// watchPageSize caps one poll at the newest 50 creations. A collection
// receiving more than 50 new bookmarks between polls undercounts; this is
// an accepted bound, not something the watcher compensates for with
// follow-up pagination.
const watchPageSize = 50

// Watcher owns the watch-cursor state and implements the polling diff.
// Constructed once at startup and held by the dispatch layer.
type Watcher struct {
	client *Client
	store  cursor.Store
	now    func() time.Time
}

func NewWatcher(client *Client, store cursor.Store) *Watcher {
	return &Watcher{client: client, store: store, now: time.Now}
}

// WatchOptions select the comparison floor for one poll.
type WatchOptions struct {
	// Since overrides the stored cursor when set.
	Since *time.Time
	// Reset discards any stored cursor, records "now" and returns an
	// empty result without touching the upstream.
	Reset bool
}

// Watch returns the bookmarks created in a collection since the last
// poll. A collection watched for the first time (no stored cursor, no
// explicit since) establishes its baseline: the cursor is set to now and
// zero items are reported regardless of remote contents.
func (w *Watcher) Watch(ctx context.Context, collectionID int64, opts WatchOptions) (WatchResult, error) {
	now := w.now().UTC()

	if opts.Reset {
		if err := w.store.Set(ctx, collectionID, now); err != nil {
			return WatchResult{}, err
		}
		return WatchResult{
			CollectionID: collectionID,
			Since:        now.Format(time.RFC3339),
			Until:        now.Format(time.RFC3339),
			NewItems:     []map[string]any{},
			Count:        0,
		}, nil
	}

	floor := now
	switch {
	case opts.Since != nil:
		floor = opts.Since.UTC()
	default:
		stored, ok, err := w.store.Get(ctx, collectionID)
		if err != nil {
			return WatchResult{}, err
		}
		if ok {
			floor = stored.UTC()
		}
	}

	env, err := w.client.ListRaindrops(ctx, collectionID, ListOptions{
		Sort:    "-created",
		Page:    0,
		PerPage: watchPageSize,
	})
	if err != nil {
		return WatchResult{}, err
	}

	items, _ := Items(env)
	fresh := make([]map[string]any, 0, len(items))
	for _, item := range items {
		created, ok := parseTimestamp(stringField(item, "created", "createdAt"))
		if !ok {
			continue
		}
		if created.After(floor) {
			fresh = append(fresh, item)
		}
	}

	if err := w.store.Set(ctx, collectionID, now); err != nil {
		return WatchResult{}, err
	}

	return WatchResult{
		CollectionID: collectionID,
		Since:        floor.Format(time.RFC3339),
		Until:        now.Format(time.RFC3339),
		NewItems:     fresh,
		Count:        len(fresh),
	}, nil
}

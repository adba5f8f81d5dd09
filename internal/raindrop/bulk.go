package raindrop

import (
	"context"
	"time"
)

const (
	minBulkItems = 1
	maxBulkItems = 50
)

// CreateRaindrops processes an ordered list of bookmarks strictly
// sequentially, inserting the configured delay before every request after
// the first. On a per-item failure the run stops immediately unless
// ContinueOnError is set; either way the failure is recorded, never
// retried.
func (c *Client) CreateRaindrops(ctx context.Context, items []map[string]any, opts BulkOptions) (BulkResult, error) {
	if len(items) < minBulkItems || len(items) > maxBulkItems {
		return BulkResult{}, newValidationError("items must contain between %d and %d entries", minBulkItems, maxBulkItems)
	}

	result := BulkResult{Total: len(items)}
	for i, fields := range items {
		if i > 0 && opts.Delay > 0 {
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				return result, err
			}
		}

		env, err := c.CreateRaindrop(ctx, fields)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkItemError{
				Index:   i,
				Link:    stringField(fields, "link"),
				Message: err.Error(),
			})
			if !opts.ContinueOnError {
				break
			}
			continue
		}

		result.Successful++
		if item, ok := Item(env); ok {
			result.Items = append(result.Items, item)
		} else {
			result.Items = append(result.Items, env)
		}
	}
	return result, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

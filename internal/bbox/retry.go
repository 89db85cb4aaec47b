package bbox

import (
	"context"
	"time"

	"iso-asset-editor/internal/asset"
)

// DefaultSchedule is an immediate attempt followed by two delayed ones.
var DefaultSchedule = []time.Duration{0, 100 * time.Millisecond, 400 * time.Millisecond}

// ExtractWithRetry runs Extract at each delay of the schedule while the result is
// retryable. The last result is returned as-is once the schedule is exhausted or ctx
// ends, and the caller falls back to defaults. A ctx that ends before the first attempt
// yields a "Texture not loaded" result.
func ExtractWithRetry(ctx context.Context, p Provider, name string, d asset.Direction, schedule []time.Duration) Result {
	if len(schedule) == 0 {
		schedule = []time.Duration{0}
	}

	res := Result{Sprite: name, Error: ErrTextureNotLoaded}
	for _, delay := range schedule {
		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return res
			case <-t.C:
			}
		}
		res = Extract(p, name, d)
		if !res.Retryable() {
			return res
		}
	}
	return res
}

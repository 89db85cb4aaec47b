package bbox

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/sprite"
)

// fakeProvider serves fixed frames; pending counts down "not loaded" answers per sprite.
type fakeProvider struct {
	mu      sync.Mutex
	frames  map[string]*image.NRGBA
	pending map[string]int
	errs    map[string]error
	calls   int
	last    asset.Direction
}

func (f *fakeProvider) Frame(name string, d asset.Direction) (*image.NRGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = d
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if f.pending[name] > 0 {
		f.pending[name]--
		return nil, fmt.Errorf("fake: %w", sprite.ErrNotLoaded)
	}
	img, ok := f.frames[name]
	if !ok {
		return nil, fmt.Errorf("fake: %w", sprite.ErrNotFound)
	}
	return img, nil
}

func frameWithBox(w, h int, box image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	return img
}

func TestScan(t *testing.T) {
	cases := []struct {
		name string
		box  image.Rectangle
	}{
		{"interior", image.Rect(10, 20, 70, 70)},
		{"single pixel", image.Rect(5, 5, 6, 6)},
		{"full canvas", image.Rect(0, 0, 100, 100)},
		{"one column", image.Rect(99, 0, 100, 100)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, ok := Scan(frameWithBox(100, 100, c.box))
			require.True(t, ok)
			assert.Equal(t, c.box, r)
		})
	}
}

func TestScanEmptyFrame(t *testing.T) {
	_, ok := Scan(image.NewNRGBA(image.Rect(0, 0, 16, 16)))
	assert.False(t, ok)
}

func TestScanNonZeroOrigin(t *testing.T) {
	full := frameWithBox(20, 20, image.Rect(12, 12, 14, 15))
	sub := full.SubImage(image.Rect(10, 10, 20, 20)).(*image.NRGBA)
	r, ok := Scan(sub)
	require.True(t, ok)
	assert.Equal(t, image.Rect(2, 2, 4, 5), r)
}

func TestScanCountsPartialAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(3, 3, color.NRGBA{A: 1})
	r, ok := Scan(img)
	require.True(t, ok)
	assert.Equal(t, image.Rect(3, 3, 4, 4), r)
}

func TestExtract(t *testing.T) {
	p := &fakeProvider{frames: map[string]*image.NRGBA{
		"crate": frameWithBox(100, 100, image.Rect(10, 20, 70, 70)),
		"ghost": image.NewNRGBA(image.Rect(0, 0, 32, 48)),
	}}

	res := Extract(p, "crate", asset.South)
	require.True(t, res.OK())
	assert.Equal(t, image.Pt(100, 100), res.Original)
	require.NotNil(t, res.BoundingBox)
	assert.Equal(t, image.Rect(10, 20, 70, 70), *res.BoundingBox)

	rec, ok := res.Record()
	require.True(t, ok)
	assert.Equal(t, 10, rec.BoundingX)
	assert.Equal(t, 60, rec.BoundingWidth)
	assert.InDelta(t, 0.2, rec.AnchorOffsetY, 1e-9)

	empty := Extract(p, "ghost", asset.South)
	require.True(t, empty.OK())
	assert.Nil(t, empty.BoundingBox)
	rec, ok = empty.Record()
	require.True(t, ok)
	assert.Equal(t, 32, rec.OriginalWidth)
	assert.Zero(t, rec.BoundingWidth)
}

func TestExtractErrorTags(t *testing.T) {
	p := &fakeProvider{
		pending: map[string]int{"slow": 1},
		errs: map[string]error{
			"exotic": fmt.Errorf("decode: %w", sprite.ErrBackendUnavailable),
			"broken": errors.New("disk on fire"),
		},
	}

	assert.Equal(t, ErrSpriteNotFound, Extract(p, "missing", asset.South).Error)
	assert.Equal(t, ErrTextureNotLoaded, Extract(p, "slow", asset.South).Error)
	assert.Equal(t, ErrRendererUnavailable, Extract(p, "exotic", asset.South).Error)
	assert.Equal(t, "Failed to extract bounding box: disk on fire", Extract(p, "broken", asset.South).Error)
	assert.Equal(t, ErrRendererUnavailable, Extract(nil, "any", asset.South).Error)

	_, ok := Extract(p, "missing", asset.South).Record()
	assert.False(t, ok)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Result{Error: ErrTextureNotLoaded}.Retryable())
	assert.True(t, Result{Error: ErrRendererUnavailable}.Retryable())
	assert.False(t, Result{Error: ErrSpriteNotFound}.Retryable())
	assert.False(t, Result{}.Retryable())
}

func TestExtractWithRetry(t *testing.T) {
	schedule := []time.Duration{0, time.Millisecond, 2 * time.Millisecond}

	t.Run("becomes ready", func(t *testing.T) {
		p := &fakeProvider{
			frames:  map[string]*image.NRGBA{"tower": frameWithBox(8, 8, image.Rect(1, 1, 3, 3))},
			pending: map[string]int{"tower": 2},
		}
		res := ExtractWithRetry(context.Background(), p, "tower", asset.South, schedule)
		assert.True(t, res.OK())
		assert.Equal(t, 3, p.calls)
	})

	t.Run("exhausted", func(t *testing.T) {
		p := &fakeProvider{pending: map[string]int{"tower": 10}}
		res := ExtractWithRetry(context.Background(), p, "tower", asset.South, schedule)
		assert.Equal(t, ErrTextureNotLoaded, res.Error)
		assert.Equal(t, 3, p.calls)
	})

	t.Run("not found is final", func(t *testing.T) {
		p := &fakeProvider{}
		res := ExtractWithRetry(context.Background(), p, "tower", asset.South, schedule)
		assert.Equal(t, ErrSpriteNotFound, res.Error)
		assert.Equal(t, 1, p.calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		p := &fakeProvider{pending: map[string]int{"tower": 10}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := ExtractWithRetry(ctx, p, "tower", asset.South, []time.Duration{0, time.Hour})
		assert.Equal(t, ErrTextureNotLoaded, res.Error)
		assert.Equal(t, 1, p.calls)
	})
}

func TestCache(t *testing.T) {
	p := &fakeProvider{
		frames:  map[string]*image.NRGBA{"pillar": frameWithBox(4, 4, image.Rect(0, 0, 2, 4))},
		pending: map[string]int{"pillar": 1},
	}
	c := NewCache(p, asset.South, nil)
	ctx := context.Background()

	assert.Equal(t, ErrTextureNotLoaded, c.Get(ctx, "pillar").Error, "failures are not cached")
	first := c.Get(ctx, "pillar")
	require.True(t, first.OK())
	calls := p.calls

	again := c.Get(ctx, "pillar")
	assert.Equal(t, first, again)
	assert.Equal(t, calls, p.calls, "hit served from cache")

	c.Invalidate("pillar")
	c.Get(ctx, "pillar")
	assert.Equal(t, calls+1, p.calls)
}

func TestExtractWithRetryCancelledBeforeFirstAttempt(t *testing.T) {
	p := &fakeProvider{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := ExtractWithRetry(ctx, p, "tower", asset.South, []time.Duration{time.Hour})
	assert.Equal(t, "tower", res.Sprite)
	assert.Equal(t, ErrTextureNotLoaded, res.Error)
	assert.Equal(t, 0, p.calls)
}

func TestExtractUsesRequestedDirection(t *testing.T) {
	p := &fakeProvider{frames: map[string]*image.NRGBA{"gate": frameWithBox(4, 4, image.Rect(0, 0, 4, 4))}}

	require.True(t, Extract(p, "gate", asset.East).OK())
	assert.Equal(t, asset.East, p.last)

	c := NewCache(p, asset.North, nil)
	assert.Equal(t, asset.North, c.Direction())
	require.True(t, c.Get(context.Background(), "gate").OK())
	assert.Equal(t, asset.North, p.last)
}

func TestCacheRetriesOnSchedule(t *testing.T) {
	p := &fakeProvider{
		frames:  map[string]*image.NRGBA{"arch": frameWithBox(4, 4, image.Rect(1, 1, 3, 3))},
		pending: map[string]int{"arch": 2},
	}
	c := NewCache(p, asset.South, []time.Duration{0, time.Millisecond, time.Millisecond})

	res := c.Get(context.Background(), "arch")
	require.True(t, res.OK())
	assert.Equal(t, 3, p.calls)
}

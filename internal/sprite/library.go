package sprite

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"iso-asset-editor/internal/asset"
)

// Library serves sprite frames from an Index. Decoding happens in the background:
// the first request for an undecoded file schedules the decode and reports ErrNotLoaded,
// so callers retry the same way they would wait on a texture upload.
type Library struct {
	index *Index
	log   *zap.Logger

	mu    sync.RWMutex
	items map[string]*cacheEntry
	wg    sync.WaitGroup
}

type cacheEntry struct {
	img   *image.NRGBA
	err   error
	ready bool // false while the decode is in flight
}

// NewLibrary creates a library backed by the given index.
func NewLibrary(index *Index, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		index: index,
		log:   log.Named("sprite"),
		items: make(map[string]*cacheEntry),
	}
}

// Index exposes the underlying index.
func (l *Library) Index() *Index {
	return l.index
}

// Frame returns the decoded frame for a facing. Mirrored fallbacks are flipped on the fly.
func (l *Library) Frame(name string, d asset.Direction) (*image.NRGBA, error) {
	path, mirrored, ok := l.index.Lookup(name, d)
	if !ok {
		return nil, fmt.Errorf("sprite: frame %s/%s: %w", name, d, ErrNotFound)
	}

	img, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if mirrored {
		img = FlipHorizontal(img)
	}
	return img, nil
}

// FrameSize returns the canonical frame size once it is decoded.
func (l *Library) FrameSize(name string) (image.Point, bool) {
	img, err := l.Frame(name, asset.CanonicalDirection)
	if err != nil {
		return image.Point{}, false
	}
	return img.Bounds().Size(), true
}

func (l *Library) resolve(path string) (*image.NRGBA, error) {
	// Fast path: read lock
	l.mu.RLock()
	if entry, exists := l.items[path]; exists {
		l.mu.RUnlock()
		return entry.result(path)
	}
	l.mu.RUnlock()

	// Slow path: schedule a decode with double-check
	l.mu.Lock()
	if entry, exists := l.items[path]; exists {
		l.mu.Unlock()
		return entry.result(path)
	}
	l.items[path] = &cacheEntry{}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		l.store(path)
	}()

	return nil, fmt.Errorf("sprite: %s: %w", path, ErrNotLoaded)
}

func (e *cacheEntry) result(path string) (*image.NRGBA, error) {
	if !e.ready {
		return nil, fmt.Errorf("sprite: %s: %w", path, ErrNotLoaded)
	}
	return e.img, e.err
}

func (l *Library) store(path string) error {
	img, err := LoadFrame(path)

	l.mu.Lock()
	l.items[path] = &cacheEntry{img: img, err: err, ready: true}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("Sprite decode failed", zap.String("path", path), zap.Error(err))
		return err
	}
	l.log.Debug("Sprite decoded", zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}

// Warm decodes every frame file of the named sprites synchronously.
// It returns the first decode error; the other sprites are still cached.
func (l *Library) Warm(ctx context.Context, names []string, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	var paths []string
	seen := make(map[string]bool)
	for _, name := range names {
		for _, d := range asset.Directions {
			p, _, ok := l.index.Lookup(name, d)
			if ok && !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range paths {
		l.mu.RLock()
		entry, exists := l.items[p]
		l.mu.RUnlock()
		if exists && entry.ready {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return l.store(p)
		})
	}
	return g.Wait()
}

// Wait blocks until all background decodes have finished.
func (l *Library) Wait() {
	l.wg.Wait()
}

// Invalidate drops cached frames for a sprite so the next request decodes again.
func (l *Library) Invalidate(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range asset.Directions {
		if p, _, ok := l.index.Lookup(name, d); ok {
			delete(l.items, p)
		}
	}
}

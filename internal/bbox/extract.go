package bbox

import (
	"errors"
	"fmt"
	"image"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/sprite"
)

// Provider is the narrow view of the sprite library the extractor needs.
type Provider interface {
	Frame(name string, d asset.Direction) (*image.NRGBA, error)
}

// Result tags, surfaced verbatim to the UI.
const (
	ErrSpriteNotFound      = "Sprite not found"
	ErrTextureNotLoaded    = "Texture not loaded"
	ErrRendererUnavailable = "Renderer not available"
	errGenericPrefix       = "Failed to extract bounding box: "
)

// Result is the outcome of one extraction. Failures are reported in Error, never returned.
type Result struct {
	Sprite      string
	Original    image.Point
	BoundingBox *image.Rectangle // nil when the frame is fully transparent or on failure
	Error       string
}

// OK reports a successful scan (the box may still be nil for an empty frame).
func (r Result) OK() bool {
	return r.Error == ""
}

// Retryable reports whether the backing resource may still become ready.
func (r Result) Retryable() bool {
	return r.Error == ErrTextureNotLoaded || r.Error == ErrRendererUnavailable
}

// Record converts a successful result into the cache record stored with settings.
// An empty frame yields a zero-sized box at the origin.
func (r Result) Record() (asset.SpriteBoundingBox, bool) {
	if !r.OK() {
		return asset.SpriteBoundingBox{}, false
	}
	var rect image.Rectangle
	if r.BoundingBox != nil {
		rect = *r.BoundingBox
	}
	return asset.NewSpriteBoundingBox(r.Original.X, r.Original.Y, rect), true
}

// Extract scans one facing of a sprite; callers pass the configured canonical direction.
func Extract(p Provider, name string, d asset.Direction) Result {
	res := Result{Sprite: name}
	if p == nil {
		res.Error = ErrRendererUnavailable
		return res
	}

	frame, err := p.Frame(name, d)
	switch {
	case err == nil:
	case errors.Is(err, sprite.ErrNotFound):
		res.Error = ErrSpriteNotFound
		return res
	case errors.Is(err, sprite.ErrNotLoaded):
		res.Error = ErrTextureNotLoaded
		return res
	case errors.Is(err, sprite.ErrBackendUnavailable):
		res.Error = ErrRendererUnavailable
		return res
	default:
		res.Error = errGenericPrefix + err.Error()
		return res
	}
	if frame == nil {
		res.Error = ErrTextureNotLoaded
		return res
	}

	res.Original = frame.Bounds().Size()
	if r, ok := Scan(frame); ok {
		res.BoundingBox = &r
	}
	return res
}

// Scan returns the smallest rectangle (relative to the frame origin) enclosing every pixel
// whose alpha is non-zero. ok is false for a fully transparent frame.
func Scan(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func (r Result) String() string {
	if !r.OK() {
		return fmt.Sprintf("%s: %s", r.Sprite, r.Error)
	}
	if r.BoundingBox == nil {
		return fmt.Sprintf("%s: %dx%d, empty", r.Sprite, r.Original.X, r.Original.Y)
	}
	return fmt.Sprintf("%s: %dx%d, box %v", r.Sprite, r.Original.X, r.Original.Y, *r.BoundingBox)
}

// Package preview draws an inspection image of a sprite frame: the canvas outline, the
// trimmed bounding box and the resolved sprite anchor, upscaled for viewing.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"iso-asset-editor/internal/anchor"
)

// Padding is the transparent border around the upscaled frame, so marks on the canvas
// edge stay visible.
const Padding = 8

const anchorArm = 4

var (
	CanvasColor = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	BoxColor    = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	AnchorColor = color.NRGBA{R: 255, G: 32, B: 32, A: 255}
)

// Render draws frame at zoom× with overlays. box is the trimmed rect in frame pixels and
// may be nil; the anchor comes from res.SpritePixel.
func Render(frame *image.NRGBA, box *image.Rectangle, res anchor.Resolution, zoom int) *image.NRGBA {
	if zoom < 1 {
		zoom = 1
	}
	b := frame.Bounds()
	w, h := b.Dx()*zoom, b.Dy()*zoom
	out := image.NewNRGBA(image.Rect(0, 0, w+2*Padding, h+2*Padding))

	dst := image.Rect(Padding, Padding, Padding+w, Padding+h)
	draw.NearestNeighbor.Scale(out, dst, frame, b, draw.Over, nil)

	outline(out, dst, CanvasColor)
	if box != nil && !box.Empty() {
		r := image.Rect(
			Padding+box.Min.X*zoom, Padding+box.Min.Y*zoom,
			Padding+box.Max.X*zoom, Padding+box.Max.Y*zoom,
		)
		outline(out, r, BoxColor)
	}

	ax, ay := AnchorPixel(res, zoom)
	for d := -anchorArm; d <= anchorArm; d++ {
		set(out, ax+d, ay, AnchorColor)
		set(out, ax, ay+d, AnchorColor)
	}
	return out
}

// AnchorPixel maps the resolved sprite anchor into Render's output coordinates.
func AnchorPixel(res anchor.Resolution, zoom int) (x, y int) {
	if zoom < 1 {
		zoom = 1
	}
	x = Padding + int(math.Floor(res.SpritePixel[0]*float64(zoom)+0.5))
	y = Padding + int(math.Floor(res.SpritePixel[1]*float64(zoom)+0.5))
	return x, y
}

// outline draws the one-pixel border just inside r.
func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		set(img, x, r.Min.Y, c)
		set(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		set(img, r.Min.X, y, c)
		set(img, r.Max.X-1, y, c)
	}
}

func set(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// Encode writes img as lossless WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("preview: WebP encode: %w", err)
	}
	return nil
}

// WriteFile encodes img to path, creating parent directories.
func WriteFile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preview: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotFound           = errors.New("sprite not found")
	ErrNotLoaded          = errors.New("sprite not loaded yet")
	ErrBackendUnavailable = errors.New("no decoder for sprite format")
)

// LoadFrame reads and decodes one sprite file into NRGBA.
func LoadFrame(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("sprite: read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("sprite: read %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("sprite: decode %s: %w", path, ErrBackendUnavailable)
		}
		return nil, fmt.Errorf("sprite: decode %s: %w", path, err)
	}

	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin moved to (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// no alpha channel: draw then force opaque
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}

// FlipHorizontal mirrors an image left-to-right.
func FlipHorizontal(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcOff := img.PixOffset(b.Min.X, b.Min.Y+y)
		dstOff := y * out.Stride
		for x := 0; x < w; x++ {
			si := srcOff + (w-1-x)*4
			di := dstOff + x*4
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

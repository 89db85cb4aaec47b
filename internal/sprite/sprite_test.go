package sprite

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"iso-asset-editor/internal/asset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writePNG writes a w×h transparent image with one opaque pixel at (px,py).
func writePNG(t *testing.T, dir, name string, w, h, px, py int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(px, py, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestIndexLookup(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "brick_wall.png", 4, 4, 0, 0)
	writePNG(t, dir, "brick_wall_east.png", 4, 4, 0, 0)
	writePNG(t, dir, "floor.jpg", 4, 4, 0, 0)
	writePNG(t, dir, "floor.png", 4, 4, 0, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"brick_wall", "floor"}, idx.Names())

	p, mirrored, ok := idx.Lookup("brick_wall", asset.East)
	require.True(t, ok)
	assert.False(t, mirrored)
	assert.Equal(t, "brick_wall_east.png", filepath.Base(p))

	p, mirrored, ok = idx.Lookup("Brick_Wall", asset.West)
	require.True(t, ok)
	assert.True(t, mirrored)
	assert.Equal(t, "brick_wall_east.png", filepath.Base(p))

	p, mirrored, ok = idx.Lookup("brick_wall", asset.North)
	require.True(t, ok)
	assert.False(t, mirrored)
	assert.Equal(t, "brick_wall.png", filepath.Base(p))

	// png wins over jpg for the same stem
	p, _, ok = idx.Lookup("sprites/floor.png", asset.South)
	require.True(t, ok)
	assert.Equal(t, "floor.png", filepath.Base(p))

	_, _, ok = idx.Lookup("missing", asset.South)
	assert.False(t, ok)
}

func TestSplitDirectionIgnoresShortSuffixes(t *testing.T) {
	name, _, directional := splitDirection("tree_n")
	assert.False(t, directional)
	assert.Equal(t, "tree_n", name)

	name, d, directional := splitDirection("tree_north")
	assert.True(t, directional)
	assert.Equal(t, "tree", name)
	assert.Equal(t, asset.North, d)
}

func TestLibraryAsyncDecode(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "stone.png", 8, 6, 3, 2)

	lib := NewLibrary(BuildIndex(dir), nil)
	defer lib.Wait()

	_, err := lib.Frame("stone", asset.South)
	assert.ErrorIs(t, err, ErrNotLoaded, "first request only schedules the decode")

	require.Eventually(t, func() bool {
		_, err := lib.Frame("stone", asset.South)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	size, ok := lib.FrameSize("stone")
	require.True(t, ok)
	assert.Equal(t, image.Pt(8, 6), size)

	_, err = lib.Frame("nope", asset.South)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibraryWarmAndMirror(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "door_east.png", 4, 2, 0, 1)

	lib := NewLibrary(BuildIndex(dir), nil)
	require.NoError(t, lib.Warm(context.Background(), []string{"door"}, 2))

	east, err := lib.Frame("door", asset.East)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), east.NRGBAAt(0, 1).A)

	west, err := lib.Frame("door", asset.West)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), west.NRGBAAt(3, 1).A)
	assert.Equal(t, uint8(0), west.NRGBAAt(0, 1).A)
}

func TestLibraryUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	// right extension, wrong content
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0644))

	lib := NewLibrary(BuildIndex(dir), nil)
	err := lib.Warm(context.Background(), []string{"broken"}, 1)
	require.Error(t, err)

	_, err = lib.Frame("broken", asset.South)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotLoaded)
}

func TestLibraryInvalidate(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "rock.png", 2, 2, 0, 0)

	lib := NewLibrary(BuildIndex(dir), nil)
	require.NoError(t, lib.Warm(context.Background(), []string{"rock"}, 1))
	_, err := lib.Frame("rock", asset.South)
	require.NoError(t, err)

	lib.Invalidate("rock")
	_, err = lib.Frame("rock", asset.South)
	assert.ErrorIs(t, err, ErrNotLoaded)
	lib.Wait()
}

func TestFlipHorizontal(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{B: 2, A: 255})

	out := FlipHorizontal(img)
	assert.Equal(t, color.NRGBA{B: 2, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, out.NRGBAAt(2, 0))
}

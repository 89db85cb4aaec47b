package batch

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bbox"
	"iso-asset-editor/internal/bias"
	"iso-asset-editor/internal/sprite"
	"iso-asset-editor/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testSchedule = []time.Duration{0, 5 * time.Millisecond, 20 * time.Millisecond, 100 * time.Millisecond, 500 * time.Millisecond}

// writeSprite writes a w×h PNG whose opaque pixels fill box.
func writeSprite(t *testing.T, dir, name string, w, h int, box image.Rectangle) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

type fixture struct {
	lib   *sprite.Library
	store *store.Store
}

func newFixture(t *testing.T) (fixture, string) {
	t.Helper()
	dir := t.TempDir()
	return fixture{store: store.New(filepath.Join(dir, "positioning"), zaptest.NewLogger(t))}, dir
}

func (f *fixture) cache() *bbox.Cache {
	return bbox.NewCache(f.lib, asset.South, testSchedule)
}

func (f *fixture) index(t *testing.T, dir string) {
	f.lib = sprite.NewLibrary(sprite.BuildIndex(dir), nil)
	t.Cleanup(f.lib.Wait)
}

func TestRunCreatesTileDocuments(t *testing.T) {
	f, dir := newFixture(t)
	writeSprite(t, dir, "grass.png", 128, 196, image.Rect(10, 20, 110, 196))
	f.index(t, dir)
	cache := f.cache()
	// stale entry from an earlier scan; the run must rescan
	cache.Put(bbox.Result{Sprite: "grass", Original: image.Pt(1, 1)})

	results := Run(context.Background(), Config{
		Store:    f.store,
		Cache:    cache,
		Policy:   bias.RoundDown,
		Workers:  2,
		CreateAs: asset.Tile,
		Log:      zaptest.NewLogger(t),
	}, []string{"grass"})

	require.Len(t, results, 1)
	r := results[0]
	require.True(t, r.Success, r.Error)
	assert.True(t, r.Created)
	assert.Equal(t, 132.0, r.Bias)
	assert.Equal(t, image.Pt(128, 196), r.Original)
	assert.Equal(t, asset.NewSpriteBoundingBox(128, 196, image.Rect(10, 20, 110, 196)), *r.BoundingBox)

	doc, err := f.store.Load("grass")
	require.NoError(t, err)
	typ, b, err := doc.Behavior()
	require.NoError(t, err)
	assert.Equal(t, asset.Tile, typ)
	assert.Equal(t, 132.0, b.Shared.AutoComputedVerticalBias)
	assert.Equal(t, 132.0, b.Shared.ManualVerticalBias)
	assert.Equal(t, 1.0, b.Shared.HorizontalOffset)
	require.NotNil(t, b.Shared.BoundingBox)
	assert.Equal(t, 100, b.Shared.BoundingBox.BoundingWidth)

	cached := cache.Get(context.Background(), "grass")
	require.True(t, cached.OK())
	assert.Equal(t, r.Original, cached.Original)
}

func TestRunUpdatesEveryDirectionOfExistingDocument(t *testing.T) {
	f, dir := newFixture(t)
	writeSprite(t, dir, "door.png", 64, 128, image.Rect(0, 0, 64, 128))
	f.index(t, dir)

	b := asset.NewDefaultBehavior(asset.Wall, asset.ScopePerDirection)
	for _, d := range asset.Directions {
		s := b.Directional[d]
		s.ManualVerticalBias = 5
		b.Directional[d] = s
	}
	def := asset.NewDefinition("door", "doors", asset.Wall, "door")
	def.Behavior = b
	def.ZLayer = 1
	_, err := f.store.Save(store.NewAssetDocument(def))
	require.NoError(t, err)

	results := Run(context.Background(), Config{
		Cache:   f.cache(),
		Store:   f.store,
		Policy:  bias.SnapToNearest,
		Workers: 1,
	}, []string{"door"})
	require.True(t, results[0].Success, results[0].Error)
	assert.False(t, results[0].Created)
	// raw 128-32=96 snaps to 36 on the generic table
	assert.Equal(t, 36.0, results[0].Bias)

	doc, err := f.store.Load("door")
	require.NoError(t, err)
	require.NotNil(t, doc.Asset, "asset identity survives a recalculation")
	assert.Equal(t, def.ID, doc.Asset.ID)
	assert.Equal(t, 1, doc.Asset.ZLayer)
	_, got, err := doc.Behavior()
	require.NoError(t, err)
	for _, d := range asset.Directions {
		s := got.Directional[d]
		assert.Equal(t, 36.0, s.AutoComputedVerticalBias, d.String())
		assert.Equal(t, 5.0, s.ManualVerticalBias, d.String())
		assert.Equal(t, 0.0, s.HorizontalOffset, d.String())
		require.NotNil(t, s.BoundingBox)
	}
}

func TestRunReportsFailures(t *testing.T) {
	f, dir := newFixture(t)
	writeSprite(t, dir, "rock.png", 8, 8, image.Rect(0, 0, 8, 8))
	f.index(t, dir)

	results := Run(context.Background(), Config{
		Cache:   f.cache(),
		Store:   f.store,
		Workers: 4,
	}, []string{"rock"})
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "not found")

	results = Run(context.Background(), Config{
		Cache:    f.cache(),
		Store:    f.store,
		CreateAs: asset.Stair,
	}, []string{"missing"})
	assert.Equal(t, bbox.ErrSpriteNotFound, results[0].Error)

	_, err := f.store.Load("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	results = Run(context.Background(), Config{Store: f.store, CreateAs: asset.Tile}, []string{"rock"})
	assert.Equal(t, bbox.ErrRendererUnavailable, results[0].Error)
	_, err = f.store.Load("rock")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunCancelled(t *testing.T) {
	f, dir := newFixture(t)
	f.index(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{Cache: f.cache(), Store: f.store, Workers: 2, CreateAs: asset.Tile}, []string{"a", "b", "c"})
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, []string{"a", "b", "c"}[i], r.Name)
		assert.False(t, r.Success)
		assert.Equal(t, context.Canceled.Error(), r.Error)
	}
	ok, failed := Summarize(results)
	assert.Equal(t, 0, ok)
	assert.Equal(t, 3, failed)
}

func TestWriteReport(t *testing.T) {
	bb := asset.NewSpriteBoundingBox(128, 196, image.Rect(10, 20, 110, 196))
	results := []Result{
		{Name: "grass", Type: asset.Tile, Success: true, Bias: 132, Original: image.Pt(128, 196), BoundingBox: &bb},
		{Name: "rock", Error: bbox.ErrTextureNotLoaded},
	}
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(path, NewReport(bias.RoundDown, results)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r Report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "round_down", r.Policy)
	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, [4]int{10, 20, 100, 176}, r.Sprites[0].BoundingBox)
	assert.Equal(t, "Texture not loaded", r.Sprites[1].Error)
}

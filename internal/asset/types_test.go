package asset

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, in := range []string{"north", "N", "0"} {
		d, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, North, d)
	}
	d, err := ParseDirection(" West ")
	require.NoError(t, err)
	assert.Equal(t, West, d)

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestDirectionEncoding(t *testing.T) {
	assert.Equal(t, 0, int(North))
	assert.Equal(t, 1, int(East))
	assert.Equal(t, 2, int(South))
	assert.Equal(t, 3, int(West))
	assert.False(t, Direction(4).Valid())
	assert.Equal(t, "direction(7)", Direction(7).String())
}

func TestParseAssetType(t *testing.T) {
	at, err := ParseAssetType("WALL")
	require.NoError(t, err)
	assert.Equal(t, Wall, at)
	assert.True(t, at.EdgeAnchored())
	assert.False(t, Tile.EdgeAnchored())

	_, err = ParseAssetType("door")
	assert.ErrorIs(t, err, ErrUnknownAssetType)
}

func TestNewSpriteBoundingBox(t *testing.T) {
	bb := NewSpriteBoundingBox(100, 100, image.Rect(10, 20, 70, 70))
	assert.Equal(t, 60, bb.BoundingWidth)
	assert.Equal(t, 50, bb.BoundingHeight)
	assert.InDelta(t, 0.1, bb.AnchorOffsetX, 1e-9)
	assert.InDelta(t, 0.2, bb.AnchorOffsetY, 1e-9)
	assert.Equal(t, image.Rect(10, 20, 70, 70), bb.Rect())

	empty := NewSpriteBoundingBox(0, 0, image.Rectangle{})
	assert.Zero(t, empty.AnchorOffsetX)
}

func TestVerticalBias(t *testing.T) {
	s := DefaultSettings(Tile, South, ScopeShared)
	s.AutoComputedVerticalBias = 132
	s.ManualVerticalBias = 40

	assert.Equal(t, 132.0, s.VerticalBias(Tile))
	// auto is a tile-only feature
	assert.Equal(t, 40.0, s.VerticalBias(Wall))

	s.BiasSource = BiasManual
	assert.Equal(t, 40.0, s.VerticalBias(Tile))

	s.GridSnap = SnapAbove
	s.SnapAboveYOffset = -12
	assert.Equal(t, -12.0, s.VerticalBias(Tile))
}

func TestTrimmingEnabled(t *testing.T) {
	s := DefaultSettings(Tile, South, ScopeShared)
	s.Wall.Trimming = TrimmingOn
	assert.False(t, s.TrimmingEnabled(Tile), "tile in auto mode never trims")
	s.BiasSource = BiasManual
	assert.True(t, s.TrimmingEnabled(Tile))
	assert.True(t, s.TrimmingEnabled(Wall))
}

func TestDefaultSettings(t *testing.T) {
	tile := DefaultSettings(Tile, South, ScopeShared)
	assert.Equal(t, GridCenter, tile.GridAnchor.Point)
	assert.Equal(t, SpriteAnchorConfig{X: 0.5, Y: 1, UseDefault: true}, tile.SpriteAnchor)
	assert.Equal(t, 1.0, tile.HorizontalOffset)
	assert.Equal(t, BiasAuto, tile.BiasSource)

	wall := DefaultSettings(Wall, East, ScopeShared)
	assert.Equal(t, GridSouthEdge, wall.GridAnchor.Point)
	assert.Equal(t, 0.0, wall.HorizontalOffset)
	assert.Equal(t, BiasManual, wall.BiasSource)
	assert.Equal(t, ClassicWallOffsets(), wall.Wall)

	perDir := DefaultSettings(Wall, East, ScopePerDirection)
	assert.Equal(t, GridEastEdge, perDir.GridAnchor.Point)
}

func TestNewDefaultBehavior(t *testing.T) {
	shared := NewDefaultBehavior(Tile, ScopeShared)
	for _, d := range Directions {
		assert.Equal(t, shared.Shared, shared.Directional[d])
	}

	perDir := NewDefaultBehavior(Stair, ScopePerDirection)
	assert.Equal(t, ScopePerDirection, perDir.Scope)
	assert.Equal(t, GridNorthEdge, perDir.Directional[North].GridAnchor.Point)
	assert.Equal(t, GridWestEdge, perDir.Directional[West].GridAnchor.Point)
	assert.Equal(t, GridSouthEdge, perDir.Shared.GridAnchor.Point)
}

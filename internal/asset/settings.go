package asset

import "image"

// Margins are legacy per-side values. They are persisted but no longer applied to rendering
// or to the bias formula.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// GridAnchorConfig pins a sprite to a point on the grid diamond.
// X and Y are only meaningful when Point is GridCustom.
type GridAnchorConfig struct {
	Point      GridAnchorPoint
	X          float64
	Y          float64
	UseDefault bool
}

// SpriteAnchorConfig is a normalized point on the sprite canvas, or on the trimmed
// bounding box when Bounds is BoundsTrimmed.
type SpriteAnchorConfig struct {
	X          float64
	Y          float64
	UseDefault bool
	Bounds     AnchorBounds
}

// WallOffsets holds the edge-relative terms used by non-tile assets.
type WallOffsets struct {
	AlongEdge    float64
	TowardCenter float64
	DiagonalA    float64
	DiagonalB    float64
	Division     DiagonalDivision

	ManualHorizontal        float64
	ManualDiagonalNorthEast float64
	ManualDiagonalNorthWest float64

	Trimming WallTrimming
}

// SpriteBoundingBox caches the trimmed rectangle of a sprite's canonical frame.
type SpriteBoundingBox struct {
	OriginalWidth  int
	OriginalHeight int
	BoundingX      int
	BoundingY      int
	BoundingWidth  int
	BoundingHeight int
	AnchorOffsetX  float64 // BoundingX / OriginalWidth
	AnchorOffsetY  float64 // BoundingY / OriginalHeight
}

// NewSpriteBoundingBox builds the cache record for a trimmed rect inside an original canvas.
func NewSpriteBoundingBox(originalW, originalH int, r image.Rectangle) SpriteBoundingBox {
	bb := SpriteBoundingBox{
		OriginalWidth:  originalW,
		OriginalHeight: originalH,
		BoundingX:      r.Min.X,
		BoundingY:      r.Min.Y,
		BoundingWidth:  r.Dx(),
		BoundingHeight: r.Dy(),
	}
	if originalW > 0 {
		bb.AnchorOffsetX = float64(r.Min.X) / float64(originalW)
	}
	if originalH > 0 {
		bb.AnchorOffsetY = float64(r.Min.Y) / float64(originalH)
	}
	return bb
}

// Rect returns the trimmed rectangle in canvas pixels.
func (b SpriteBoundingBox) Rect() image.Rectangle {
	return image.Rect(b.BoundingX, b.BoundingY, b.BoundingX+b.BoundingWidth, b.BoundingY+b.BoundingHeight)
}

// PositioningSettings is one immutable bundle of placement parameters.
// Updates produce a new value; see package settings.
type PositioningSettings struct {
	Margins Margins

	AutoComputedVerticalBias float64
	BiasSource               BiasSource
	ManualVerticalBias       float64
	GridSnap                 GridSnap
	SnapAboveYOffset         float64

	GridAnchor   GridAnchorConfig
	SpriteAnchor SpriteAnchorConfig

	HorizontalOffset float64
	VerticalOffset   float64
	ScaleX           float64
	ScaleY           float64
	KeepProportions  bool
	Rotation         float64
	Alpha            float64
	Tint             uint32

	Wall WallOffsets

	// BoundingBox is shared between copies and must never be mutated in place.
	BoundingBox *SpriteBoundingBox
}

// VerticalBias returns the bias in effect for the given asset type.
// Auto mode is ignored for anything but tiles.
func (s PositioningSettings) VerticalBias(t AssetType) float64 {
	if s.GridSnap == SnapAbove {
		return s.SnapAboveYOffset
	}
	if t == Tile && s.BiasSource == BiasAuto {
		return s.AutoComputedVerticalBias
	}
	return s.ManualVerticalBias
}

// TrimmingEnabled reports whether wall trimming is active, taking the tile/auto coupling into account.
func (s PositioningSettings) TrimmingEnabled(t AssetType) bool {
	if t == Tile && s.BiasSource == BiasAuto {
		return false
	}
	return s.Wall.Trimming == TrimmingOn
}

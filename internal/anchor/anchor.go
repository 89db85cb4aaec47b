package anchor

import (
	"image"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/mathutil"
)

// Grid points are normalized to the diamond's bounding quad: vertices sit on the quad's
// edge midpoints, edge points halfway between two vertices.
var gridPoints = map[asset.GridAnchorPoint]mathutil.Vec2{
	asset.GridCenter:      {0.5, 0.5},
	asset.GridNorthCorner: {0.5, 0},
	asset.GridEastCorner:  {1, 0.5},
	asset.GridSouthCorner: {0.5, 1},
	asset.GridWestCorner:  {0, 0.5},
	asset.GridNorthEdge:   {0.75, 0.25},
	asset.GridEastEdge:    {0.75, 0.75},
	asset.GridSouthEdge:   {0.25, 0.75},
	asset.GridWestEdge:    {0.25, 0.25},
}

var spritePoints = map[asset.SpriteAnchorPoint]mathutil.Vec2{
	asset.SpriteTopLeft:      {0, 0},
	asset.SpriteTopCenter:    {0.5, 0},
	asset.SpriteTopRight:     {1, 0},
	asset.SpriteMiddleLeft:   {0, 0.5},
	asset.SpriteCenter:       {0.5, 0.5},
	asset.SpriteMiddleRight:  {1, 0.5},
	asset.SpriteBottomLeft:   {0, 1},
	asset.SpriteBottomCenter: {0.5, 1},
	asset.SpriteBottomRight:  {1, 1},
}

// GridCoords returns the fixed coordinates of a named grid point.
func GridCoords(p asset.GridAnchorPoint) (mathutil.Vec2, bool) {
	v, ok := gridPoints[p]
	return v, ok
}

// SpriteCoords returns the fixed coordinates of a named sprite point.
func SpriteCoords(p asset.SpriteAnchorPoint) (mathutil.Vec2, bool) {
	v, ok := spritePoints[p]
	return v, ok
}

// GridPoint resolves a grid anchor config. Custom points use the stored pair, clamped.
func GridPoint(cfg asset.GridAnchorConfig) mathutil.Vec2 {
	if cfg.Point == asset.GridCustom {
		return mathutil.Vec2{mathutil.Clamp01(cfg.X), mathutil.Clamp01(cfg.Y)}
	}
	if v, ok := gridPoints[cfg.Point]; ok {
		return v
	}
	return gridPoints[asset.GridCenter]
}

// SelectGridPoint switches the named point and stores its coordinates, so a later switch
// to custom starts where the named point was.
func SelectGridPoint(cfg asset.GridAnchorConfig, p asset.GridAnchorPoint) asset.GridAnchorConfig {
	if v, ok := gridPoints[p]; ok {
		cfg.X, cfg.Y = v[0], v[1]
	}
	cfg.Point = p
	cfg.UseDefault = false
	return cfg
}

// SelectSpritePoint overwrites the stored pair with a named point's coordinates.
// Selecting custom keeps the last resolved pair.
func SelectSpritePoint(cfg asset.SpriteAnchorConfig, p asset.SpriteAnchorPoint) asset.SpriteAnchorConfig {
	if v, ok := spritePoints[p]; ok {
		cfg.X, cfg.Y = v[0], v[1]
	}
	cfg.UseDefault = false
	return cfg
}

// NamedSpritePoint reports which named point the stored pair sits on, or custom.
func NamedSpritePoint(cfg asset.SpriteAnchorConfig) asset.SpriteAnchorPoint {
	for name, v := range spritePoints {
		if mathutil.NearlyEqual(v[0], cfg.X, 1e-9) && mathutil.NearlyEqual(v[1], cfg.Y, 1e-9) {
			return name
		}
	}
	return asset.SpriteCustom
}

// Resolution is the output handed to the renderer.
type Resolution struct {
	GridPoint   mathutil.Vec2 // within the diamond's bounding quad
	SpritePoint mathutil.Vec2 // within SpriteRect
	Bounds      asset.AnchorBounds
	SpriteRect  image.Rectangle // full canvas or trimmed box, canvas pixels
	SpritePixel mathutil.Vec2   // anchor position in canvas pixels
	CanvasPoint mathutil.Vec2   // SpritePixel normalized to the full canvas
}

// Resolve computes both anchors for a bundle. canvas is the sprite's frame size; when it
// is zero the cached bounding box's original size is used. Trimmed anchoring falls back to
// the full canvas while no bounding box is cached.
func Resolve(t asset.AssetType, s asset.PositioningSettings, canvas image.Point) Resolution {
	bb := s.BoundingBox
	if canvas == (image.Point{}) && bb != nil {
		canvas = image.Pt(bb.OriginalWidth, bb.OriginalHeight)
	}

	res := Resolution{
		GridPoint:   GridPoint(s.GridAnchor),
		SpritePoint: mathutil.Vec2{mathutil.Clamp01(s.SpriteAnchor.X), mathutil.Clamp01(s.SpriteAnchor.Y)},
		Bounds:      asset.BoundsCanvas,
		SpriteRect:  image.Rectangle{Max: canvas},
	}

	trimmed := s.SpriteAnchor.Bounds == asset.BoundsTrimmed ||
		(t.EdgeAnchored() && s.TrimmingEnabled(t))
	if trimmed && bb != nil {
		res.Bounds = asset.BoundsTrimmed
		res.SpriteRect = bb.Rect()
	}

	r := res.SpriteRect
	res.SpritePixel = mathutil.Vec2{
		float64(r.Min.X) + res.SpritePoint[0]*float64(r.Dx()),
		float64(r.Min.Y) + res.SpritePoint[1]*float64(r.Dy()),
	}
	if canvas.X > 0 && canvas.Y > 0 {
		res.CanvasPoint = mathutil.Vec2{
			res.SpritePixel[0] / float64(canvas.X),
			res.SpritePixel[1] / float64(canvas.Y),
		}
	}
	return res
}

// RestoreDefaults resets both anchors to the asset type's canonical defaults.
func RestoreDefaults(t asset.AssetType, d asset.Direction, scope asset.SettingsScope, s asset.PositioningSettings) asset.PositioningSettings {
	s.GridAnchor = asset.DefaultGridAnchor(t, d, scope)
	if v, ok := gridPoints[s.GridAnchor.Point]; ok {
		s.GridAnchor.X, s.GridAnchor.Y = v[0], v[1]
	}
	s.SpriteAnchor = asset.DefaultSpriteAnchor()
	return s
}

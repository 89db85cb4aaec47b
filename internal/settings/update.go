package settings

import (
	"errors"
	"fmt"
	"image"

	"iso-asset-editor/internal/anchor"
	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bias"
	"iso-asset-editor/internal/mathutil"
	"iso-asset-editor/internal/wall"
)

var (
	ErrAutoBiasTileOnly = errors.New("auto-computed bias is only available for tiles")
	ErrWallOnly         = errors.New("wall offsets do not apply to tiles")
	ErrInvalidValue     = errors.New("invalid value")
)

// Target describes where an update lands.
type Target struct {
	Type      asset.AssetType
	Direction asset.Direction
	Scope     asset.SettingsScope
}

// Update is a closed set of typed edits. Each returns a new bundle.
type Update interface {
	apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error)
	fmt.Stringer
}

// Anchor updates.

type SetGridAnchor struct {
	Point asset.GridAnchorPoint
	X, Y  float64 // used when Point is custom
}

func (u SetGridAnchor) String() string { return "grid anchor" }

func (u SetGridAnchor) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if u.Point == asset.GridCustom {
		s.GridAnchor = asset.GridAnchorConfig{
			Point: asset.GridCustom,
			X:     mathutil.Clamp01(u.X),
			Y:     mathutil.Clamp01(u.Y),
		}
		return s, nil
	}
	if _, ok := anchor.GridCoords(u.Point); !ok {
		return s, fmt.Errorf("grid point %q: %w", u.Point, ErrInvalidValue)
	}
	s.GridAnchor = anchor.SelectGridPoint(s.GridAnchor, u.Point)
	return s, nil
}

type SelectSpritePoint struct {
	Point asset.SpriteAnchorPoint
}

func (u SelectSpritePoint) String() string { return "sprite anchor point" }

func (u SelectSpritePoint) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if _, ok := anchor.SpriteCoords(u.Point); !ok && u.Point != asset.SpriteCustom {
		return s, fmt.Errorf("sprite point %q: %w", u.Point, ErrInvalidValue)
	}
	s.SpriteAnchor = anchor.SelectSpritePoint(s.SpriteAnchor, u.Point)
	return s, nil
}

type SetSpriteAnchor struct {
	X, Y float64
}

func (u SetSpriteAnchor) String() string { return "sprite anchor" }

func (u SetSpriteAnchor) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	s.SpriteAnchor.X = mathutil.Clamp01(u.X)
	s.SpriteAnchor.Y = mathutil.Clamp01(u.Y)
	s.SpriteAnchor.UseDefault = false
	return s, nil
}

// SetAnchorBounds changes which rectangle the sprite anchor ratios refer to. The stored
// ratios do not move.
type SetAnchorBounds struct {
	Bounds asset.AnchorBounds
}

func (u SetAnchorBounds) String() string { return "anchor bounds" }

func (u SetAnchorBounds) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	s.SpriteAnchor.Bounds = u.Bounds
	return s, nil
}

type RestoreAnchorDefaults struct{}

func (u RestoreAnchorDefaults) String() string { return "restore anchor defaults" }

func (u RestoreAnchorDefaults) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	return anchor.RestoreDefaults(t.Type, t.Direction, t.Scope, s), nil
}

// Bias updates.

// SetBiasSource switches auto/manual bias. Auto is rejected for non-tiles and forces
// wall trimming off for tiles.
type SetBiasSource struct {
	Source asset.BiasSource
}

func (u SetBiasSource) String() string { return "bias source" }

func (u SetBiasSource) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if u.Source == asset.BiasAuto {
		if t.Type != asset.Tile {
			return s, ErrAutoBiasTileOnly
		}
		s.Wall.Trimming = asset.TrimmingOff
	}
	s.BiasSource = u.Source
	return s, nil
}

type SetManualBias struct {
	Value float64
}

func (u SetManualBias) String() string { return "manual bias" }

func (u SetManualBias) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if err := finite("manual bias", u.Value); err != nil {
		return s, err
	}
	s.ManualVerticalBias = u.Value
	return s, nil
}

type SetGridSnap struct {
	Snap         asset.GridSnap
	AboveYOffset float64
}

func (u SetGridSnap) String() string { return "grid snap" }

func (u SetGridSnap) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if err := finite("snap offset", u.AboveYOffset); err != nil {
		return s, err
	}
	s.GridSnap = u.Snap
	s.SnapAboveYOffset = u.AboveYOffset
	return s, nil
}

// RecalculateBias runs a bias computation pass for a sprite size.
type RecalculateBias struct {
	Size       image.Point
	Policy     bias.Policy
	Calculator bias.Calculator
}

func (u RecalculateBias) String() string { return "recalculate bias" }

func (u RecalculateBias) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if u.Size.X <= 0 || u.Size.Y <= 0 {
		return s, fmt.Errorf("sprite size %v: %w", u.Size, ErrInvalidValue)
	}
	return u.Calculator.Apply(t.Type, s, u.Size, u.Policy), nil
}

// Transform updates.

type SetOffsets struct {
	Horizontal, Vertical float64
}

func (u SetOffsets) String() string { return "offsets" }

func (u SetOffsets) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if err := finite("offsets", u.Horizontal, u.Vertical); err != nil {
		return s, err
	}
	s.HorizontalOffset = u.Horizontal
	s.VerticalOffset = u.Vertical
	return s, nil
}

// SetScale sets both scale factors; with KeepProportions on, Y follows X.
type SetScale struct {
	X, Y float64
}

func (u SetScale) String() string { return "scale" }

func (u SetScale) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	y := u.Y
	if s.KeepProportions {
		y = u.X
	}
	if !mathutil.Positive(u.X) || !mathutil.Positive(y) {
		return s, fmt.Errorf("scale %vx%v: %w", u.X, y, ErrInvalidValue)
	}
	s.ScaleX, s.ScaleY = u.X, y
	return s, nil
}

type SetKeepProportions struct {
	Keep bool
}

func (u SetKeepProportions) String() string { return "keep proportions" }

func (u SetKeepProportions) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	s.KeepProportions = u.Keep
	if u.Keep {
		s.ScaleY = s.ScaleX
	}
	return s, nil
}

type SetAppearance struct {
	Rotation float64
	Alpha    float64
	Tint     uint32
}

func (u SetAppearance) String() string { return "appearance" }

func (u SetAppearance) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if err := finite("rotation", u.Rotation); err != nil {
		return s, err
	}
	s.Rotation = u.Rotation
	s.Alpha = mathutil.Clamp01(u.Alpha)
	s.Tint = u.Tint & 0xFFFFFF
	return s, nil
}

// SetMargins edits the legacy margins. They are stored only.
type SetMargins struct {
	Margins asset.Margins
}

func (u SetMargins) String() string { return "margins" }

func (u SetMargins) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	s.Margins = u.Margins
	return s, nil
}

type SetBoundingBox struct {
	Box *asset.SpriteBoundingBox
}

func (u SetBoundingBox) String() string { return "bounding box" }

func (u SetBoundingBox) apply(_ Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if u.Box == nil {
		s.BoundingBox = nil
		return s, nil
	}
	bb := *u.Box
	s.BoundingBox = &bb
	return s, nil
}

// Wall offset updates. All of them are rejected for tiles, except trimming.

type SetWallOffsets struct {
	AlongEdge    float64
	TowardCenter float64
	DiagonalA    float64
	DiagonalB    float64
}

func (u SetWallOffsets) String() string { return "wall offsets" }

func (u SetWallOffsets) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if !t.Type.EdgeAnchored() {
		return s, ErrWallOnly
	}
	if err := finite("wall offsets", u.AlongEdge, u.TowardCenter, u.DiagonalA, u.DiagonalB); err != nil {
		return s, err
	}
	s.Wall.AlongEdge = u.AlongEdge
	s.Wall.TowardCenter = u.TowardCenter
	s.Wall.DiagonalA = u.DiagonalA
	s.Wall.DiagonalB = u.DiagonalB
	return s, nil
}

type SetManualWallOffsets struct {
	Horizontal        float64
	DiagonalNorthEast float64
	DiagonalNorthWest float64
}

func (u SetManualWallOffsets) String() string { return "manual wall offsets" }

func (u SetManualWallOffsets) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if !t.Type.EdgeAnchored() {
		return s, ErrWallOnly
	}
	if err := finite("manual wall offsets", u.Horizontal, u.DiagonalNorthEast, u.DiagonalNorthWest); err != nil {
		return s, err
	}
	s.Wall.ManualHorizontal = u.Horizontal
	s.Wall.ManualDiagonalNorthEast = u.DiagonalNorthEast
	s.Wall.ManualDiagonalNorthWest = u.DiagonalNorthWest
	return s, nil
}

type SetDiagonalDivision struct {
	Division asset.DiagonalDivision
}

func (u SetDiagonalDivision) String() string { return "diagonal division" }

func (u SetDiagonalDivision) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if !t.Type.EdgeAnchored() {
		return s, ErrWallOnly
	}
	s.Wall.Division = u.Division
	return s, nil
}

// SetWallTrimming is forced off for a tile in auto-bias mode.
type SetWallTrimming struct {
	Trimming asset.WallTrimming
}

func (u SetWallTrimming) String() string { return "wall trimming" }

func (u SetWallTrimming) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	s.Wall.Trimming = u.Trimming
	if t.Type == asset.Tile && s.BiasSource == asset.BiasAuto {
		s.Wall.Trimming = asset.TrimmingOff
	}
	return s, nil
}

type ResetWallDefaults struct{}

func (u ResetWallDefaults) String() string { return "reset wall defaults" }

func (u ResetWallDefaults) apply(t Target, s asset.PositioningSettings) (asset.PositioningSettings, error) {
	if !t.Type.EdgeAnchored() {
		return s, ErrWallOnly
	}
	s.Wall = wall.ResetClassic(s.Wall)
	return s, nil
}

func finite(label string, vals ...float64) error {
	for _, v := range vals {
		if !mathutil.Finite(v) {
			return fmt.Errorf("%s %v: %w", label, v, ErrInvalidValue)
		}
	}
	return nil
}

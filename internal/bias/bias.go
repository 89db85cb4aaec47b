package bias

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"iso-asset-editor/internal/asset"
)

// Policy is the global rounding policy applied to the raw bias.
type Policy int

const (
	RoundDown Policy = iota
	RoundUp
	SnapToNearest
)

var ErrUnknownPolicy = errors.New("unknown rounding policy")

func (p Policy) String() string {
	switch p {
	case RoundDown:
		return "round_down"
	case RoundUp:
		return "round_up"
	case SnapToNearest:
		return "snap_to_nearest"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy accepts "round_down", "ROUND_UP", "snap-to-nearest" and similar spellings.
func ParsePolicy(s string) (Policy, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "round_down", "floor", "":
		return RoundDown, nil
	case "round_up", "ceil":
		return RoundUp, nil
	case "snap_to_nearest", "snap":
		return SnapToNearest, nil
	}
	return RoundDown, fmt.Errorf("bias: parse policy %q: %w", s, ErrUnknownPolicy)
}

// SnapTable is a pair of snap targets.
type SnapTable [2]float64

// The two tables are not interchangeable: sprite configs go through the generic one,
// asset definitions through the tile one.
var (
	GenericSnapTable = SnapTable{36, 196}
	TileSnapTable    = SnapTable{44, 204}
)

// Snap returns the closer target; ties go to the lower one.
func (t SnapTable) Snap(v float64) float64 {
	lo, hi := t[0], t[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	if math.Abs(v-hi) < math.Abs(v-lo) {
		return hi
	}
	return lo
}

// RawBias is the unrounded vertical bias for a sprite of the given pixel size.
func RawBias(width, height float64) float64 {
	return height - width/2
}

// Calculator computes and applies the auto bias with one snap table.
type Calculator struct {
	Table SnapTable
}

var (
	// Legacy is used for per-sprite config documents.
	Legacy = Calculator{Table: GenericSnapTable}
	// Asset is used for asset definitions.
	Asset = Calculator{Table: TileSnapTable}
)

// Round applies a policy to a raw bias. Unknown policies round down.
func (c Calculator) Round(raw float64, p Policy) float64 {
	switch p {
	case RoundUp:
		return math.Ceil(raw)
	case SnapToNearest:
		return c.Table.Snap(raw)
	}
	return math.Floor(raw)
}

// Compute returns the rounded bias for a sprite size.
func (c Calculator) Compute(size image.Point, p Policy) float64 {
	return c.Round(RawBias(float64(size.X), float64(size.Y)), p)
}

// Apply runs one computation pass over a bundle: the cached auto bias is refreshed, the
// horizontal offset reset to the type default, and for tiles the manual bias is seeded
// with the computed value so leaving auto mode starts from it.
func (c Calculator) Apply(t asset.AssetType, s asset.PositioningSettings, size image.Point, p Policy) asset.PositioningSettings {
	v := c.Compute(size, p)
	s.AutoComputedVerticalBias = v
	if t == asset.Tile {
		s.ManualVerticalBias = v
	}
	s.HorizontalOffset = asset.DefaultHorizontalOffset(t)
	return s
}

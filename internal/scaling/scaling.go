package scaling

import (
	"errors"
	"fmt"
	"sort"

	"iso-asset-editor/internal/mathutil"
)

// Factory base values.
const (
	FactoryGridDiamondWidth = 400.0
	FactorySpriteScale      = 1.0
)

var ErrInvalidValue = errors.New("invalid scaling value")

// ZLayer is one vertical level of the grid.
type ZLayer struct {
	Z              int
	VerticalOffset float64
	Name           string
	Color          string
}

// FactoryZLayers returns the default levels.
func FactoryZLayers() []ZLayer {
	return []ZLayer{
		{Z: 0, VerticalOffset: 0, Name: "Ground", Color: "#4caf50"},
		{Z: 1, VerticalOffset: 36, Name: "Level 1", Color: "#2196f3"},
		{Z: 2, VerticalOffset: 196, Name: "Level 2", Color: "#ff9800"},
	}
}

// ViewState keeps grid width, sprite scale and level offsets. While RatioLocked, every
// current value equals its base value times the same ratio, with level offsets rounded.
// Methods return a new state; layer slices are never shared between states.
type ViewState struct {
	GridDiamondWidth     float64
	SpriteScale          float64
	BaseGridDiamondWidth float64
	BaseSpriteScale      float64
	RatioLocked          bool
	ZLayers              []ZLayer
	BaseZLayers          []ZLayer
}

// NewViewState returns the factory state, locked.
func NewViewState() ViewState {
	return ViewState{
		GridDiamondWidth:     FactoryGridDiamondWidth,
		SpriteScale:          FactorySpriteScale,
		BaseGridDiamondWidth: FactoryGridDiamondWidth,
		BaseSpriteScale:      FactorySpriteScale,
		RatioLocked:          true,
		ZLayers:              FactoryZLayers(),
		BaseZLayers:          FactoryZLayers(),
	}
}

// GridDiamondHeight is half the width on a 2:1 grid.
func (v ViewState) GridDiamondHeight() float64 {
	return v.GridDiamondWidth / 2
}

// Ratio is the current grid width relative to its base.
func (v ViewState) Ratio() float64 {
	if v.BaseGridDiamondWidth == 0 {
		return 1
	}
	return v.GridDiamondWidth / v.BaseGridDiamondWidth
}

// SetGridDiamondWidth edits the grid width. Locked: sprite scale and level offsets follow
// from the base values. Unlocked: only the width and its base change.
func (v ViewState) SetGridDiamondWidth(w float64) (ViewState, error) {
	if !mathutil.Positive(w) {
		return v, fmt.Errorf("scaling: grid width %v: %w", w, ErrInvalidValue)
	}
	v = v.clone()
	if !v.RatioLocked {
		v.GridDiamondWidth = w
		v.BaseGridDiamondWidth = w
		return v, nil
	}
	v.applyRatio(w / v.BaseGridDiamondWidth)
	return v, nil
}

// SetSpriteScale is the mirror of SetGridDiamondWidth.
func (v ViewState) SetSpriteScale(s float64) (ViewState, error) {
	if !mathutil.Positive(s) {
		return v, fmt.Errorf("scaling: sprite scale %v: %w", s, ErrInvalidValue)
	}
	v = v.clone()
	if !v.RatioLocked {
		v.SpriteScale = s
		v.BaseSpriteScale = s
		return v, nil
	}
	v.applyRatio(s / v.BaseSpriteScale)
	return v, nil
}

// SetZLayerOffset edits one level. Locked, the base is back-computed so the invariant
// keeps holding; unlocked, the base takes the new value.
func (v ViewState) SetZLayerOffset(z int, offset float64) (ViewState, error) {
	i := indexOf(v.ZLayers, z)
	if i < 0 {
		return v, fmt.Errorf("scaling: z layer %d: %w", z, ErrInvalidValue)
	}
	if !mathutil.Finite(offset) {
		return v, fmt.Errorf("scaling: z layer %d offset %v: %w", z, offset, ErrInvalidValue)
	}
	v = v.clone()
	offset = mathutil.Round(offset)
	v.ZLayers[i].VerticalOffset = offset
	base := offset
	if v.RatioLocked {
		base = offset / v.Ratio()
	}
	if j := indexOf(v.BaseZLayers, z); j >= 0 {
		v.BaseZLayers[j].VerticalOffset = base
	}
	return v, nil
}

// AddZLayer inserts or replaces a level. The given offset is taken as the base value.
func (v ViewState) AddZLayer(l ZLayer) (ViewState, error) {
	if !mathutil.Finite(l.VerticalOffset) {
		return v, fmt.Errorf("scaling: z layer %d offset %v: %w", l.Z, l.VerticalOffset, ErrInvalidValue)
	}
	v = v.clone()
	base := l
	if v.RatioLocked {
		l.VerticalOffset = mathutil.Round(base.VerticalOffset * v.Ratio())
	}
	v.ZLayers = upsert(v.ZLayers, l)
	v.BaseZLayers = upsert(v.BaseZLayers, base)
	return v, nil
}

// Layer returns the current level z.
func (v ViewState) Layer(z int) (ZLayer, bool) {
	if i := indexOf(v.ZLayers, z); i >= 0 {
		return v.ZLayers[i], true
	}
	return ZLayer{}, false
}

// SetRatioLocked turns the lock on or off. Turning it on re-derives sprite scale and
// level offsets from the current grid ratio.
func (v ViewState) SetRatioLocked(locked bool) ViewState {
	v = v.clone()
	v.RatioLocked = locked
	if locked {
		v.applyRatio(v.Ratio())
	}
	return v
}

// CaptureBase makes the current values the new base.
func (v ViewState) CaptureBase() ViewState {
	v = v.clone()
	v.BaseGridDiamondWidth = v.GridDiamondWidth
	v.BaseSpriteScale = v.SpriteScale
	v.BaseZLayers = cloneLayers(v.ZLayers)
	return v
}

// ResetBase restores the factory base. Locked, the current grid width is kept and the
// other values are re-derived against the factory base. Levels outside the factory set
// keep their current offset.
func (v ViewState) ResetBase() ViewState {
	v = v.clone()
	v.BaseGridDiamondWidth = FactoryGridDiamondWidth
	v.BaseSpriteScale = FactorySpriteScale
	v.BaseZLayers = FactoryZLayers()
	if v.RatioLocked {
		v.applyRatio(v.Ratio())
	}
	return v
}

// Reconcile makes the base levels match the current ones by Z. A current level without a
// base gets one back-computed from the current ratio; a base level with no current
// counterpart is dropped.
func (v ViewState) Reconcile() ViewState {
	v = v.clone()
	v.reconcile()
	return v
}

func (v *ViewState) reconcile() {
	ratio := 1.0
	if v.RatioLocked {
		ratio = v.Ratio()
	}
	base := make([]ZLayer, 0, len(v.ZLayers))
	for _, l := range v.ZLayers {
		if j := indexOf(v.BaseZLayers, l.Z); j >= 0 {
			base = append(base, v.BaseZLayers[j])
			continue
		}
		b := l
		b.VerticalOffset = l.VerticalOffset / ratio
		base = append(base, b)
	}
	sort.Slice(base, func(a, b int) bool { return base[a].Z < base[b].Z })
	v.BaseZLayers = base
}

// applyRatio recomputes every current value from its base. v must already be a clone.
func (v *ViewState) applyRatio(ratio float64) {
	v.reconcile()
	v.GridDiamondWidth = v.BaseGridDiamondWidth * ratio
	v.SpriteScale = v.BaseSpriteScale * ratio
	layers := make([]ZLayer, len(v.BaseZLayers))
	for i, base := range v.BaseZLayers {
		l := base
		if j := indexOf(v.ZLayers, base.Z); j >= 0 {
			l.Name, l.Color = v.ZLayers[j].Name, v.ZLayers[j].Color
		}
		l.VerticalOffset = mathutil.Round(base.VerticalOffset * ratio)
		layers[i] = l
	}
	v.ZLayers = layers
}

func (v ViewState) clone() ViewState {
	v.ZLayers = cloneLayers(v.ZLayers)
	v.BaseZLayers = cloneLayers(v.BaseZLayers)
	return v
}

func cloneLayers(ls []ZLayer) []ZLayer {
	if ls == nil {
		return nil
	}
	out := make([]ZLayer, len(ls))
	copy(out, ls)
	return out
}

func indexOf(ls []ZLayer, z int) int {
	for i, l := range ls {
		if l.Z == z {
			return i
		}
	}
	return -1
}

func upsert(ls []ZLayer, l ZLayer) []ZLayer {
	if i := indexOf(ls, l.Z); i >= 0 {
		ls[i] = l
		return ls
	}
	ls = append(ls, l)
	sort.Slice(ls, func(a, b int) bool { return ls[a].Z < ls[b].Z })
	return ls
}

package wall

import (
	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/mathutil"
)

// Screen-space diagonal steps of a 2:1 isometric grid, y down.
var (
	NorthEast = mathutil.Vec2{1, -0.5}
	SouthEast = mathutil.Vec2{1, 0.5}
	SouthWest = mathutil.Vec2{-1, 0.5}
	NorthWest = mathutil.Vec2{-1, -0.5}
	Right     = mathutil.Vec2{1, 0}
)

// OutwardAxis points from the cell center through the edge a wall faces.
func OutwardAxis(d asset.Direction) mathutil.Vec2 {
	switch d {
	case asset.North:
		return NorthEast
	case asset.East:
		return SouthEast
	case asset.West:
		return NorthWest
	}
	return SouthWest
}

// AlongAxis runs along the facing edge, clockwise around the cell.
func AlongAxis(d asset.Direction) mathutil.Vec2 {
	switch d {
	case asset.North:
		return SouthEast
	case asset.East:
		return SouthWest
	case asset.West:
		return NorthEast
	}
	return NorthWest
}

// EffectiveA returns the A magnitude in use for a facing.
func EffectiveA(w asset.WallOffsets, d asset.Direction) float64 {
	if w.Division == asset.DivisionHalveNorthEast && (d == asset.North || d == asset.East) {
		return w.DiagonalA / 2
	}
	return w.DiagonalA
}

// Breakdown lists each term of the wall offset separately.
type Breakdown struct {
	AlongEdge    mathutil.Vec2
	TowardCenter mathutil.Vec2
	Diagonal     mathutil.Vec2 // A/B pair
	Manual       mathutil.Vec2 // NE, NW and horizontal overrides
	Total        mathutil.Vec2
}

// Offset computes the wall-relative screen offset, in unscaled sprite pixels, for an
// asset facing d. Tiles get a zero offset.
func Offset(t asset.AssetType, w asset.WallOffsets, d asset.Direction) Breakdown {
	if !t.EdgeAnchored() {
		return Breakdown{}
	}

	out := OutwardAxis(d)
	along := AlongAxis(d)

	var b Breakdown
	b.AlongEdge = along.Scale(w.AlongEdge)
	b.TowardCenter = out.Neg().Scale(w.TowardCenter)
	b.Diagonal = out.Scale(EffectiveA(w, d)).Add(along.Scale(w.DiagonalB))
	b.Manual = NorthEast.Scale(w.ManualDiagonalNorthEast).
		Add(NorthWest.Scale(w.ManualDiagonalNorthWest)).
		Add(Right.Scale(w.ManualHorizontal))
	b.Total = b.AlongEdge.Add(b.TowardCenter).Add(b.Diagonal).Add(b.Manual)
	return b
}

// ResetClassic restores the classic A/B configuration. Manual overrides and the trimming
// choice are left untouched.
func ResetClassic(w asset.WallOffsets) asset.WallOffsets {
	c := asset.ClassicWallOffsets()
	w.AlongEdge = 0
	w.TowardCenter = 0
	w.DiagonalA = c.DiagonalA
	w.DiagonalB = c.DiagonalB
	w.Division = c.Division
	return w
}

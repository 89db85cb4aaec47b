// Package placement turns resolved positioning settings and the global view state into a
// screen placement for one sprite instance.
package placement

import (
	"image"

	"iso-asset-editor/internal/anchor"
	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/mathutil"
	"iso-asset-editor/internal/scaling"
	"iso-asset-editor/internal/wall"
)

// Input is everything needed to place one sprite instance.
type Input struct {
	Type      asset.AssetType
	Direction asset.Direction
	Settings  asset.PositioningSettings
	View      scaling.ViewState
	Frame     image.Point // frame size in sprite pixels
	Cell      image.Point // grid column, row
	Z         int
}

// Placement is what the renderer needs to draw the sprite.
type Placement struct {
	Origin   mathutil.Vec2 // top-left of the cell's bounding quad
	Anchor   mathutil.Vec2 // grid anchor in screen pixels
	TopLeft  mathutil.Vec2 // top-left of the scaled sprite in screen pixels
	Size     mathutil.Vec2 // scaled sprite size
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Alpha    float64
	Tint     uint32

	Resolution anchor.Resolution
	Wall       wall.Breakdown
	ZOffset    float64
}

// CellOrigin returns the top-left of the bounding quad of cell (col,row) on a 2:1 grid
// whose cell (0,0) quad starts at the screen origin.
func CellOrigin(v scaling.ViewState, cell image.Point) mathutil.Vec2 {
	w, h := v.GridDiamondWidth, v.GridDiamondHeight()
	return mathutil.Vec2{
		float64(cell.X-cell.Y) * w / 2,
		float64(cell.X+cell.Y) * h / 2,
	}
}

// Place computes the screen placement. Offsets, bias, wall terms and sprite pixels are
// all multiplied by the global sprite scale; the Z layer lifts the sprite by its offset.
func Place(in Input) Placement {
	s := in.Settings
	v := in.View
	global := v.SpriteScale

	p := Placement{
		Origin:   CellOrigin(v, in.Cell),
		ScaleX:   s.ScaleX * global,
		ScaleY:   s.ScaleY * global,
		Rotation: s.Rotation,
		Alpha:    mathutil.Clamp01(s.Alpha),
		Tint:     s.Tint & 0xFFFFFF,
	}
	if s.KeepProportions {
		p.ScaleY = p.ScaleX
	}

	res := anchor.Resolve(in.Type, s, in.Frame)
	p.Resolution = res

	quad := mathutil.Vec2{v.GridDiamondWidth, v.GridDiamondHeight()}
	p.Anchor = p.Origin.Add(mathutil.Vec2{res.GridPoint[0] * quad[0], res.GridPoint[1] * quad[1]})

	spritePx := mathutil.Vec2{res.SpritePixel[0] * p.ScaleX, res.SpritePixel[1] * p.ScaleY}
	top := p.Anchor.Sub(spritePx)

	top = top.Add(mathutil.Vec2{s.HorizontalOffset, s.VerticalOffset + s.VerticalBias(in.Type)}.Scale(global))

	p.Wall = wall.Offset(in.Type, s.Wall, in.Direction)
	top = top.Add(p.Wall.Total.Scale(global))

	if l, ok := v.Layer(in.Z); ok {
		p.ZOffset = l.VerticalOffset
		top[1] -= l.VerticalOffset
	}

	p.TopLeft = top
	frame := in.Frame
	if frame == (image.Point{}) && s.BoundingBox != nil {
		frame = image.Pt(s.BoundingBox.OriginalWidth, s.BoundingBox.OriginalHeight)
	}
	p.Size = mathutil.Vec2{float64(frame.X) * p.ScaleX, float64(frame.Y) * p.ScaleY}
	return p
}

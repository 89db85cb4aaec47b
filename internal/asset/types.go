package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is a compass facing. The integer values are the persisted encoding.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every facing in encoding order.
var Directions = [4]Direction{North, East, South, West}

// CanonicalDirection is the frame used whenever one representative frame is needed.
const CanonicalDirection = South

var ErrInvalidDirection = errors.New("invalid direction")

func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection accepts names ("north", "N") or the integer encoding ("0".."3").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "0":
		return North, nil
	case "east", "e", "1":
		return East, nil
	case "south", "s", "2":
		return South, nil
	case "west", "w", "3":
		return West, nil
	}
	return 0, fmt.Errorf("asset: parse direction %q: %w", s, ErrInvalidDirection)
}

// AssetType decides which defaults and optional fields are meaningful.
type AssetType string

const (
	Tile  AssetType = "tile"
	Wall  AssetType = "wall"
	Stair AssetType = "stair"
)

var ErrUnknownAssetType = errors.New("unknown asset type")

func (t AssetType) Valid() bool {
	return t == Tile || t == Wall || t == Stair
}

// EdgeAnchored reports whether the type is positioned against a cell edge (walls, stairs).
func (t AssetType) EdgeAnchored() bool {
	return t == Wall || t == Stair
}

func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("asset: parse type %q: %w", s, ErrUnknownAssetType)
	}
	return t, nil
}

// GridAnchorPoint names a point on the grid diamond.
type GridAnchorPoint string

const (
	GridCenter      GridAnchorPoint = "center"
	GridNorthEdge   GridAnchorPoint = "north_edge"
	GridEastEdge    GridAnchorPoint = "east_edge"
	GridSouthEdge   GridAnchorPoint = "south_edge"
	GridWestEdge    GridAnchorPoint = "west_edge"
	GridNorthCorner GridAnchorPoint = "north_corner"
	GridEastCorner  GridAnchorPoint = "east_corner"
	GridSouthCorner GridAnchorPoint = "south_corner"
	GridWestCorner  GridAnchorPoint = "west_corner"
	GridCustom      GridAnchorPoint = "custom"
)

// EdgeFor returns the edge point matching a facing.
func EdgeFor(d Direction) GridAnchorPoint {
	switch d {
	case North:
		return GridNorthEdge
	case East:
		return GridEastEdge
	case West:
		return GridWestEdge
	}
	return GridSouthEdge
}

// SpriteAnchorPoint names one of the nine canonical rectangle positions.
type SpriteAnchorPoint string

const (
	SpriteTopLeft      SpriteAnchorPoint = "top_left"
	SpriteTopCenter    SpriteAnchorPoint = "top_center"
	SpriteTopRight     SpriteAnchorPoint = "top_right"
	SpriteMiddleLeft   SpriteAnchorPoint = "middle_left"
	SpriteCenter       SpriteAnchorPoint = "center"
	SpriteMiddleRight  SpriteAnchorPoint = "middle_right"
	SpriteBottomLeft   SpriteAnchorPoint = "bottom_left"
	SpriteBottomCenter SpriteAnchorPoint = "bottom_center"
	SpriteBottomRight  SpriteAnchorPoint = "bottom_right"
	SpriteCustom       SpriteAnchorPoint = "custom"
)

// BiasSource selects where the vertical bias comes from. Auto is only honoured for tiles.
type BiasSource int

const (
	BiasManual BiasSource = iota
	BiasAuto
)

// AnchorBounds selects the rectangle sprite anchor ratios are measured against.
type AnchorBounds int

const (
	BoundsCanvas AnchorBounds = iota
	BoundsTrimmed
)

// SettingsScope selects shared vs per-direction positioning bundles.
type SettingsScope int

const (
	ScopeShared SettingsScope = iota
	ScopePerDirection
)

// DiagonalDivision controls the north/east halving of the A magnitude.
type DiagonalDivision int

const (
	DivisionNone DiagonalDivision = iota
	DivisionHalveNorthEast
)

// GridSnap selects the below-grid (bias driven) or above-grid snap branch.
type GridSnap int

const (
	SnapBelow GridSnap = iota
	SnapAbove
)

// WallTrimming selects whether wall anchoring uses the trimmed sprite box.
type WallTrimming int

const (
	TrimmingOff WallTrimming = iota
	TrimmingOn
)

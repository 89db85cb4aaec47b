package store

import (
	"fmt"
	"strconv"
	"time"

	"iso-asset-editor/internal/asset"
)

// DocumentVersion is written into every sprite document.
const DocumentVersion = 2

// Document is the persisted per-sprite configuration. Directional keys are the integer
// direction encoding ("0" north .. "3" west).
type Document struct {
	SpriteName          string              `json:"spriteName"`
	SpriteType          string              `json:"spriteType"`
	Version             int                 `json:"version"`
	LastModified        time.Time           `json:"lastModified"`
	UseSharedSettings   bool                `json:"useSharedSettings"`
	SharedSettings      Settings            `json:"sharedSettings"`
	DirectionalSettings map[string]Settings `json:"directionalSettings"`
	SpriteBoundingBox   *BoundingBox        `json:"spriteBoundingBox,omitempty"`
	Asset               *AssetInfo          `json:"asset,omitempty"`
}

// AssetInfo carries the identity of the asset definition a sprite document was created
// from. Documents written by older tools have none.
type AssetInfo struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	SourceSprite string `json:"sourceSprite"`
	ZLayer       int    `json:"zLayer"`
}

// GridAnchor is the wire form of asset.GridAnchorConfig.
type GridAnchor struct {
	Point      string  `json:"point"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	UseDefault bool    `json:"useDefault"`
}

// SpriteAnchor is the wire form of asset.SpriteAnchorConfig.
type SpriteAnchor struct {
	X                    float64 `json:"x"`
	Y                    float64 `json:"y"`
	UseDefault           bool    `json:"useDefault"`
	UseBoundingBoxAnchor bool    `json:"useBoundingBoxAnchor"`
}

// BoundingBox is the wire form of asset.SpriteBoundingBox.
type BoundingBox struct {
	OriginalWidth  int     `json:"originalWidth"`
	OriginalHeight int     `json:"originalHeight"`
	BoundingX      int     `json:"boundingX"`
	BoundingY      int     `json:"boundingY"`
	BoundingWidth  int     `json:"boundingWidth"`
	BoundingHeight int     `json:"boundingHeight"`
	AnchorOffsetX  float64 `json:"anchorOffsetX"`
	AnchorOffsetY  float64 `json:"anchorOffsetY"`
}

// Settings is the wire form of one positioning bundle. Choices modelled as enums in
// package asset are booleans here.
type Settings struct {
	MarginTop    float64 `json:"marginTop"`
	MarginRight  float64 `json:"marginRight"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`

	AutoComputedVerticalBias float64 `json:"autoComputedVerticalBias"`
	UseAutoComputed          bool    `json:"useAutoComputed"`
	ManualVerticalBias       float64 `json:"manualVerticalBias"`
	UseAbovePositioning      bool    `json:"useAbovePositioning"`
	SnapAboveYOffset         float64 `json:"snapAboveYOffset"`

	GridAnchor   GridAnchor   `json:"gridAnchor"`
	SpriteAnchor SpriteAnchor `json:"spriteAnchor"`

	HorizontalOffset float64 `json:"horizontalOffset"`
	VerticalOffset   float64 `json:"verticalOffset"`
	ScaleX           float64 `json:"scaleX"`
	ScaleY           float64 `json:"scaleY"`
	KeepProportions  bool    `json:"keepProportions"`
	Rotation         float64 `json:"rotation"`
	Alpha            float64 `json:"alpha"`
	Tint             uint32  `json:"tint"`

	ManualHorizontalOffset        float64 `json:"manualHorizontalOffset"`
	ManualDiagonalNorthEastOffset float64 `json:"manualDiagonalNorthEastOffset"`
	ManualDiagonalNorthWestOffset float64 `json:"manualDiagonalNorthWestOffset"`
	RelativeAlongEdgeOffset       float64 `json:"relativeAlongEdgeOffset"`
	RelativeTowardCenterOffset    float64 `json:"relativeTowardCenterOffset"`
	RelativeDiagonalAOffset       float64 `json:"relativeDiagonalAOffset"`
	RelativeDiagonalBOffset       float64 `json:"relativeDiagonalBOffset"`
	UseADivisionForNorthEast      bool    `json:"useADivisionForNorthEast"`
	UseSpriteTrimmingForWalls     bool    `json:"useSpriteTrimmingForWalls"`

	SpriteBoundingBox *BoundingBox `json:"spriteBoundingBox,omitempty"`
}

// DirectionKey is the document key for a direction.
func DirectionKey(d asset.Direction) string {
	return strconv.Itoa(int(d))
}

// NewDocument encodes a behavior. The document-level bounding box is taken from the
// canonical bundle in effect.
func NewDocument(name string, t asset.AssetType, b asset.DirectionalBehavior) Document {
	doc := Document{
		SpriteName:          name,
		SpriteType:          string(t),
		Version:             DocumentVersion,
		UseSharedSettings:   b.Scope == asset.ScopeShared,
		SharedSettings:      FromSettings(b.Shared),
		DirectionalSettings: make(map[string]Settings, len(asset.Directions)),
	}
	for _, d := range asset.Directions {
		doc.DirectionalSettings[DirectionKey(d)] = FromSettings(b.Directional[d])
	}
	canonical := b.Shared
	if b.Scope == asset.ScopePerDirection {
		canonical = b.Directional[asset.CanonicalDirection]
	}
	if canonical.BoundingBox != nil {
		doc.SpriteBoundingBox = fromBoundingBox(*canonical.BoundingBox)
	}
	return doc
}

// NewAssetDocument encodes an asset definition under its name.
func NewAssetDocument(def asset.Definition) Document {
	doc := NewDocument(def.Name, def.Type, def.Behavior)
	doc.Asset = &AssetInfo{
		ID:           def.ID,
		Category:     def.Category,
		SourceSprite: def.SourceSprite,
		ZLayer:       def.ZLayer,
	}
	return doc
}

// Definition decodes the document as an asset definition. Documents without asset info
// get an empty ID and use the sprite name as their source.
func (doc Document) Definition() (asset.Definition, error) {
	t, b, err := doc.Behavior()
	if err != nil {
		return asset.Definition{}, err
	}
	def := asset.Definition{
		Name:         doc.SpriteName,
		Type:         t,
		SourceSprite: doc.SpriteName,
		Behavior:     b,
	}
	if doc.Asset != nil {
		def.ID = doc.Asset.ID
		def.Category = doc.Asset.Category
		def.ZLayer = doc.Asset.ZLayer
		if doc.Asset.SourceSprite != "" {
			def.SourceSprite = doc.Asset.SourceSprite
		}
	}
	return def, nil
}

// Behavior decodes the document. Missing direction keys are filled from the shared bundle,
// and bundles without their own bounding box inherit the document-level one.
func (doc Document) Behavior() (asset.AssetType, asset.DirectionalBehavior, error) {
	t, err := asset.ParseAssetType(doc.SpriteType)
	if err != nil {
		return "", asset.DirectionalBehavior{}, fmt.Errorf("store: decode %s: %w", doc.SpriteName, err)
	}
	for key := range doc.DirectionalSettings {
		if n, err := strconv.Atoi(key); err != nil || !asset.Direction(n).Valid() {
			return "", asset.DirectionalBehavior{}, fmt.Errorf("store: decode %s: key %q: %w", doc.SpriteName, key, asset.ErrInvalidDirection)
		}
	}

	var docBox *asset.SpriteBoundingBox
	if doc.SpriteBoundingBox != nil {
		bb := doc.SpriteBoundingBox.toAsset()
		docBox = &bb
	}
	decode := func(s Settings) asset.PositioningSettings {
		ps := s.ToSettings()
		if ps.BoundingBox == nil {
			ps.BoundingBox = docBox
		}
		return ps
	}

	b := asset.DirectionalBehavior{Scope: asset.ScopePerDirection, Shared: decode(doc.SharedSettings)}
	if doc.UseSharedSettings {
		b.Scope = asset.ScopeShared
	}
	for _, d := range asset.Directions {
		if s, ok := doc.DirectionalSettings[DirectionKey(d)]; ok {
			b.Directional[d] = decode(s)
		} else {
			b.Directional[d] = b.Shared
		}
	}
	return t, b, nil
}

// FromSettings encodes one bundle.
func FromSettings(s asset.PositioningSettings) Settings {
	out := Settings{
		MarginTop:    s.Margins.Top,
		MarginRight:  s.Margins.Right,
		MarginBottom: s.Margins.Bottom,
		MarginLeft:   s.Margins.Left,

		AutoComputedVerticalBias: s.AutoComputedVerticalBias,
		UseAutoComputed:          s.BiasSource == asset.BiasAuto,
		ManualVerticalBias:       s.ManualVerticalBias,
		UseAbovePositioning:      s.GridSnap == asset.SnapAbove,
		SnapAboveYOffset:         s.SnapAboveYOffset,

		GridAnchor: GridAnchor{
			Point:      string(s.GridAnchor.Point),
			X:          s.GridAnchor.X,
			Y:          s.GridAnchor.Y,
			UseDefault: s.GridAnchor.UseDefault,
		},
		SpriteAnchor: SpriteAnchor{
			X:                    s.SpriteAnchor.X,
			Y:                    s.SpriteAnchor.Y,
			UseDefault:           s.SpriteAnchor.UseDefault,
			UseBoundingBoxAnchor: s.SpriteAnchor.Bounds == asset.BoundsTrimmed,
		},

		HorizontalOffset: s.HorizontalOffset,
		VerticalOffset:   s.VerticalOffset,
		ScaleX:           s.ScaleX,
		ScaleY:           s.ScaleY,
		KeepProportions:  s.KeepProportions,
		Rotation:         s.Rotation,
		Alpha:            s.Alpha,
		Tint:             s.Tint,

		ManualHorizontalOffset:        s.Wall.ManualHorizontal,
		ManualDiagonalNorthEastOffset: s.Wall.ManualDiagonalNorthEast,
		ManualDiagonalNorthWestOffset: s.Wall.ManualDiagonalNorthWest,
		RelativeAlongEdgeOffset:       s.Wall.AlongEdge,
		RelativeTowardCenterOffset:    s.Wall.TowardCenter,
		RelativeDiagonalAOffset:       s.Wall.DiagonalA,
		RelativeDiagonalBOffset:       s.Wall.DiagonalB,
		UseADivisionForNorthEast:      s.Wall.Division == asset.DivisionHalveNorthEast,
		UseSpriteTrimmingForWalls:     s.Wall.Trimming == asset.TrimmingOn,
	}
	if s.BoundingBox != nil {
		out.SpriteBoundingBox = fromBoundingBox(*s.BoundingBox)
	}
	return out
}

// ToSettings decodes one bundle.
func (s Settings) ToSettings() asset.PositioningSettings {
	out := asset.PositioningSettings{
		Margins: asset.Margins{
			Top:    s.MarginTop,
			Right:  s.MarginRight,
			Bottom: s.MarginBottom,
			Left:   s.MarginLeft,
		},
		AutoComputedVerticalBias: s.AutoComputedVerticalBias,
		BiasSource:               pick(s.UseAutoComputed, asset.BiasAuto, asset.BiasManual),
		ManualVerticalBias:       s.ManualVerticalBias,
		GridSnap:                 pick(s.UseAbovePositioning, asset.SnapAbove, asset.SnapBelow),
		SnapAboveYOffset:         s.SnapAboveYOffset,
		GridAnchor: asset.GridAnchorConfig{
			Point:      asset.GridAnchorPoint(s.GridAnchor.Point),
			X:          s.GridAnchor.X,
			Y:          s.GridAnchor.Y,
			UseDefault: s.GridAnchor.UseDefault,
		},
		SpriteAnchor: asset.SpriteAnchorConfig{
			X:          s.SpriteAnchor.X,
			Y:          s.SpriteAnchor.Y,
			UseDefault: s.SpriteAnchor.UseDefault,
			Bounds:     pick(s.SpriteAnchor.UseBoundingBoxAnchor, asset.BoundsTrimmed, asset.BoundsCanvas),
		},
		HorizontalOffset: s.HorizontalOffset,
		VerticalOffset:   s.VerticalOffset,
		ScaleX:           s.ScaleX,
		ScaleY:           s.ScaleY,
		KeepProportions:  s.KeepProportions,
		Rotation:         s.Rotation,
		Alpha:            s.Alpha,
		Tint:             s.Tint,
		Wall: asset.WallOffsets{
			AlongEdge:               s.RelativeAlongEdgeOffset,
			TowardCenter:            s.RelativeTowardCenterOffset,
			DiagonalA:               s.RelativeDiagonalAOffset,
			DiagonalB:               s.RelativeDiagonalBOffset,
			Division:                pick(s.UseADivisionForNorthEast, asset.DivisionHalveNorthEast, asset.DivisionNone),
			ManualHorizontal:        s.ManualHorizontalOffset,
			ManualDiagonalNorthEast: s.ManualDiagonalNorthEastOffset,
			ManualDiagonalNorthWest: s.ManualDiagonalNorthWestOffset,
			Trimming:                pick(s.UseSpriteTrimmingForWalls, asset.TrimmingOn, asset.TrimmingOff),
		},
	}
	if s.SpriteBoundingBox != nil {
		bb := s.SpriteBoundingBox.toAsset()
		out.BoundingBox = &bb
	}
	return out
}

func pick[T any](cond bool, yes, no T) T {
	if cond {
		return yes
	}
	return no
}

func fromBoundingBox(b asset.SpriteBoundingBox) *BoundingBox {
	return &BoundingBox{
		OriginalWidth:  b.OriginalWidth,
		OriginalHeight: b.OriginalHeight,
		BoundingX:      b.BoundingX,
		BoundingY:      b.BoundingY,
		BoundingWidth:  b.BoundingWidth,
		BoundingHeight: b.BoundingHeight,
		AnchorOffsetX:  b.AnchorOffsetX,
		AnchorOffsetY:  b.AnchorOffsetY,
	}
}

func (b BoundingBox) toAsset() asset.SpriteBoundingBox {
	return asset.SpriteBoundingBox{
		OriginalWidth:  b.OriginalWidth,
		OriginalHeight: b.OriginalHeight,
		BoundingX:      b.BoundingX,
		BoundingY:      b.BoundingY,
		BoundingWidth:  b.BoundingWidth,
		BoundingHeight: b.BoundingHeight,
		AnchorOffsetX:  b.AnchorOffsetX,
		AnchorOffsetY:  b.AnchorOffsetY,
	}
}

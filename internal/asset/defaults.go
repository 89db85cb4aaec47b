package asset

// Classic A/B magnitudes for wall diagonal offsets.
const (
	ClassicDiagonalA = 8.0
	ClassicDiagonalB = 3.0
)

// DefaultTint is opaque white (no tint).
const DefaultTint uint32 = 0xFFFFFF

// ClassicWallOffsets returns the classic A/B configuration with manual terms zeroed.
func ClassicWallOffsets() WallOffsets {
	return WallOffsets{
		DiagonalA: ClassicDiagonalA,
		DiagonalB: ClassicDiagonalB,
		Division:  DivisionHalveNorthEast,
	}
}

// DefaultGridAnchor is the type's canonical grid anchor. Edge-anchored assets use the
// edge of the facing in per-direction scope and the south edge in shared scope.
func DefaultGridAnchor(t AssetType, d Direction, scope SettingsScope) GridAnchorConfig {
	cfg := GridAnchorConfig{Point: GridCenter, X: 0.5, Y: 0.5, UseDefault: true}
	if t.EdgeAnchored() {
		cfg.Point = GridSouthEdge
		if scope == ScopePerDirection {
			cfg.Point = EdgeFor(d)
		}
	}
	return cfg
}

// DefaultSpriteAnchor is bottom-center of the full canvas for every type.
func DefaultSpriteAnchor() SpriteAnchorConfig {
	return SpriteAnchorConfig{X: 0.5, Y: 1.0, UseDefault: true, Bounds: BoundsCanvas}
}

// DefaultHorizontalOffset is 1 for tiles and 0 for everything else.
func DefaultHorizontalOffset(t AssetType) float64 {
	if t == Tile {
		return 1
	}
	return 0
}

// DefaultSettings builds the bundle an asset starts with when first authored from a sprite.
func DefaultSettings(t AssetType, d Direction, scope SettingsScope) PositioningSettings {
	s := PositioningSettings{
		BiasSource:       BiasManual,
		GridAnchor:       DefaultGridAnchor(t, d, scope),
		SpriteAnchor:     DefaultSpriteAnchor(),
		HorizontalOffset: DefaultHorizontalOffset(t),
		ScaleX:           1,
		ScaleY:           1,
		KeepProportions:  true,
		Alpha:            1,
		Tint:             DefaultTint,
		Wall:             ClassicWallOffsets(),
	}
	if t == Tile {
		s.BiasSource = BiasAuto
	}
	return s
}

package asset

// DirectionalBehavior holds the shared bundle and one bundle per facing.
// Directional always carries all four bundles, also in shared scope, so switching
// scope never loses data.
type DirectionalBehavior struct {
	Scope       SettingsScope
	Shared      PositioningSettings
	Directional [4]PositioningSettings
}

// NewSharedBehavior starts in shared scope with every facing mirroring shared.
func NewSharedBehavior(shared PositioningSettings) DirectionalBehavior {
	b := DirectionalBehavior{Scope: ScopeShared, Shared: shared}
	for _, d := range Directions {
		b.Directional[d] = shared
	}
	return b
}

// NewDefaultBehavior builds type defaults for the given scope.
func NewDefaultBehavior(t AssetType, scope SettingsScope) DirectionalBehavior {
	b := NewSharedBehavior(DefaultSettings(t, CanonicalDirection, ScopeShared))
	if scope == ScopePerDirection {
		b.Scope = ScopePerDirection
		for _, d := range Directions {
			b.Directional[d] = DefaultSettings(t, d, ScopePerDirection)
		}
	}
	return b
}

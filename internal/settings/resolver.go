package settings

import (
	"fmt"

	"iso-asset-editor/internal/asset"
)

// Resolve returns the bundle in effect for a facing: the shared bundle in shared scope,
// otherwise the facing's own bundle.
func Resolve(b asset.DirectionalBehavior, d asset.Direction) (asset.PositioningSettings, error) {
	if !d.Valid() {
		return asset.PositioningSettings{}, fmt.Errorf("settings: resolve %s: %w", d, asset.ErrInvalidDirection)
	}
	if b.Scope == asset.ScopeShared {
		return b.Shared, nil
	}
	return b.Directional[d], nil
}

// Apply runs an update against the bundle Resolve would return and writes the result back
// to that same slot. Other bundles are left untouched.
func Apply(b asset.DirectionalBehavior, t asset.AssetType, d asset.Direction, u Update) (asset.DirectionalBehavior, error) {
	cur, err := Resolve(b, d)
	if err != nil {
		return b, err
	}
	next, err := u.apply(Target{Type: t, Direction: d, Scope: b.Scope}, cur)
	if err != nil {
		return b, fmt.Errorf("settings: apply %s to %s: %w", u, d, err)
	}
	if b.Scope == asset.ScopeShared {
		b.Shared = next
	} else {
		b.Directional[d] = next
	}
	return b, nil
}

// ApplyAll runs an update against every bundle in effect: the shared bundle in shared
// scope, each facing's bundle otherwise.
func ApplyAll(b asset.DirectionalBehavior, t asset.AssetType, u Update) (asset.DirectionalBehavior, error) {
	if b.Scope == asset.ScopeShared {
		return Apply(b, t, asset.CanonicalDirection, u)
	}
	var err error
	for _, d := range asset.Directions {
		if b, err = Apply(b, t, d, u); err != nil {
			return b, err
		}
	}
	return b, nil
}

// SetScope switches between shared and per-direction bundles.
//
// Per-direction to shared: the selected facing's bundle becomes the shared bundle and is
// copied to the other facings. Shared to per-direction: every facing starts from the
// shared bundle.
func SetScope(b asset.DirectionalBehavior, scope asset.SettingsScope, selected asset.Direction) (asset.DirectionalBehavior, error) {
	if !selected.Valid() {
		return b, fmt.Errorf("settings: set scope: %w", asset.ErrInvalidDirection)
	}
	if b.Scope == scope {
		return b, nil
	}
	switch scope {
	case asset.ScopeShared:
		b.Shared = b.Directional[selected]
	case asset.ScopePerDirection:
	default:
		return b, fmt.Errorf("settings: unknown scope %d", scope)
	}
	for _, d := range asset.Directions {
		b.Directional[d] = b.Shared
	}
	b.Scope = scope
	return b, nil
}

// ApplyDefinition applies an update to an asset definition's behavior.
func ApplyDefinition(def asset.Definition, d asset.Direction, u Update) (asset.Definition, error) {
	b, err := Apply(def.Behavior, def.Type, d, u)
	if err != nil {
		return def, err
	}
	def.Behavior = b
	return def, nil
}

package asset

import (
	"fmt"

	"github.com/google/uuid"
)

// Definition is one authored asset in the library.
type Definition struct {
	ID           string
	Name         string
	Category     string
	Type         AssetType
	SourceSprite string
	Behavior     DirectionalBehavior
	ZLayer       int
	Processing   []ProcessingOp

	// Set by Validate.
	Errors  []string
	IsValid bool
}

// NewDefinition creates an asset with type defaults in shared scope.
func NewDefinition(name, category string, t AssetType, sourceSprite string) Definition {
	return Definition{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		Type:         t,
		SourceSprite: sourceSprite,
		Behavior:     NewDefaultBehavior(t, ScopeShared),
	}
}

// Validate returns a copy with Errors and IsValid filled in. It never fails; an invalid
// asset can still be edited.
func (d Definition) Validate() Definition {
	var errs []string
	if d.Name == "" {
		errs = append(errs, "Name is required")
	}
	if d.Category == "" {
		errs = append(errs, "Category is required")
	}
	if d.SourceSprite == "" {
		errs = append(errs, "Source image is required")
	}
	if !d.Type.Valid() {
		errs = append(errs, fmt.Sprintf("Unknown asset type %q", d.Type))
	}
	if d.ZLayer < 0 {
		errs = append(errs, "Z layer must not be negative")
	}

	if d.Behavior.Scope == ScopeShared {
		errs = append(errs, validateSettings("shared", d.Behavior.Shared)...)
	} else {
		for _, dir := range Directions {
			errs = append(errs, validateSettings(dir.String(), d.Behavior.Directional[dir])...)
		}
	}

	d.Errors = errs
	d.IsValid = len(errs) == 0
	return d
}

func validateSettings(label string, s PositioningSettings) []string {
	var errs []string
	if s.ScaleX <= 0 || s.ScaleY <= 0 {
		errs = append(errs, fmt.Sprintf("Scale must be positive (%s)", label))
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		errs = append(errs, fmt.Sprintf("Alpha must be between 0 and 1 (%s)", label))
	}
	if !inUnit(s.SpriteAnchor.X) || !inUnit(s.SpriteAnchor.Y) {
		errs = append(errs, fmt.Sprintf("Sprite anchor must be between 0 and 1 (%s)", label))
	}
	if s.GridAnchor.Point == GridCustom && (!inUnit(s.GridAnchor.X) || !inUnit(s.GridAnchor.Y)) {
		errs = append(errs, fmt.Sprintf("Grid anchor must be between 0 and 1 (%s)", label))
	}
	return errs
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

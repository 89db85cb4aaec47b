package asset

import (
	"errors"
	"fmt"
	"image"
)

// ProcessingKind names an image operation that can be attached to an asset.
type ProcessingKind string

const (
	ProcessCrop      ProcessingKind = "crop"
	ProcessResize    ProcessingKind = "resize"
	ProcessFilter    ProcessingKind = "filter"
	ProcessComposite ProcessingKind = "composite"
)

var ErrProcessingNotImplemented = errors.New("processing operation not implemented")

// ProcessingOp is stored with the asset but not executed yet.
type ProcessingOp struct {
	Kind   ProcessingKind
	Params map[string]float64
}

// Apply always fails: the operations are modeled only.
func (op ProcessingOp) Apply(img *image.NRGBA) (*image.NRGBA, error) {
	return nil, fmt.Errorf("asset: apply %s: %w", op.Kind, ErrProcessingNotImplemented)
}

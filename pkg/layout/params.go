package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

// Default layout parameters.
const (
	DefaultPointExpansion = 1.5
	DefaultTextExpansion  = 1.2
	DefaultPointForce     = 0.5
	DefaultTextForce      = 0.5
	DefaultMaxIterations  = 500
	DefaultAnchorPull     = 0.02
)

// Params configures an Engine. It is treated as an immutable value.
type Params struct {
	// PointExpansion scales a label box before testing it against markers.
	PointExpansion r2.Vec
	// TextExpansion scales both boxes before testing label against label.
	TextExpansion r2.Vec

	PointForce float64
	TextForce  float64

	// MaxIterations bounds the run. Zero performs no iterations.
	MaxIterations int

	// AnchorPull is the fraction of its offset a label that was not pushed
	// gives back each iteration.
	AnchorPull float64
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		PointExpansion: r2.Vec{X: DefaultPointExpansion, Y: DefaultPointExpansion},
		TextExpansion:  r2.Vec{X: DefaultTextExpansion, Y: DefaultTextExpansion},
		PointForce:     DefaultPointForce,
		TextForce:      DefaultTextForce,
		MaxIterations:  DefaultMaxIterations,
		AnchorPull:     DefaultAnchorPull,
	}
}

// Validate reports an INVALID_CONFIG error for unusable parameters.
func (p Params) Validate() error {
	switch {
	case !(p.PointExpansion.X > 0 && p.PointExpansion.Y > 0) || !finiteVec(p.PointExpansion):
		return errors.New(errors.ErrCodeInvalidConfig, "point expansion must be positive, got (%g, %g)",
			p.PointExpansion.X, p.PointExpansion.Y)
	case !(p.TextExpansion.X > 0 && p.TextExpansion.Y > 0) || !finiteVec(p.TextExpansion):
		return errors.New(errors.ErrCodeInvalidConfig, "text expansion must be positive, got (%g, %g)",
			p.TextExpansion.X, p.TextExpansion.Y)
	case !(p.PointForce >= 0) || !finite(p.PointForce):
		return errors.New(errors.ErrCodeInvalidConfig, "point force must be non-negative, got %g", p.PointForce)
	case !(p.TextForce >= 0) || !finite(p.TextForce):
		return errors.New(errors.ErrCodeInvalidConfig, "text force must be non-negative, got %g", p.TextForce)
	case p.MaxIterations < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max iterations must be non-negative, got %d", p.MaxIterations)
	case !(p.AnchorPull >= 0 && p.AnchorPull <= 1):
		return errors.New(errors.ErrCodeInvalidConfig, "anchor pull must be within [0, 1], got %g", p.AnchorPull)
	}
	return nil
}

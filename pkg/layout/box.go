package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

// LabelBox is a label's bounding box in display space. Anchor, Width and
// Height are fixed; the engine only changes Offset.
type LabelBox struct {
	// Index is the dataset index of the labeled point. It also identifies
	// the label's own marker and orders tie-breaks.
	Index  int
	Anchor r2.Vec
	Offset r2.Vec
	Width  float64
	Height float64
}

// Center returns the box center, Anchor+Offset.
func (b LabelBox) Center() r2.Vec {
	return r2.Add(b.Anchor, b.Offset)
}

// Rect returns the box scaled about its center by expansion.
func (b LabelBox) Rect(expansion r2.Vec) r2.Box {
	h := b.half(expansion)
	c := b.Center()
	return r2.Box{Min: r2.Sub(c, h), Max: r2.Add(c, h)}
}

func (b LabelBox) half(expansion r2.Vec) r2.Vec {
	return r2.Vec{X: b.Width / 2 * expansion.X, Y: b.Height / 2 * expansion.Y}
}

// Overlaps reports whether a and b intersect once both are scaled by
// expansion. Touching edges do not count.
func Overlaps(a, b LabelBox, expansion r2.Vec) bool {
	_, ok := depth(a.Center(), b.Center(), r2.Add(a.half(expansion), b.half(expansion)))
	return ok
}

// Covers reports whether marker lies strictly inside b scaled by expansion.
func Covers(b LabelBox, marker r2.Vec, expansion r2.Vec) bool {
	_, ok := depth(b.Center(), marker, b.half(expansion))
	return ok
}

// depth returns the per-axis penetration of two centers whose combined half
// extents are reach, and whether both axes penetrate.
func depth(a, b, reach r2.Vec) (r2.Vec, bool) {
	d := r2.Vec{
		X: reach.X - math.Abs(a.X-b.X),
		Y: reach.Y - math.Abs(a.Y-b.Y),
	}
	return d, d.X > 0 && d.Y > 0
}

// Placement is the final offset for the label of one dataset point.
type Placement struct {
	Index  int    `json:"index"`
	Offset r2.Vec `json:"offset"`
}

func validate(boxes []LabelBox, markers []r2.Vec) error {
	for _, b := range boxes {
		if !finiteVec(b.Anchor) {
			return errors.New(errors.ErrCodeLayout, "label %d: anchor (%g, %g) is not finite",
				b.Index, b.Anchor.X, b.Anchor.Y)
		}
		if !finiteVec(b.Offset) {
			return errors.New(errors.ErrCodeLayout, "label %d: offset (%g, %g) is not finite",
				b.Index, b.Offset.X, b.Offset.Y)
		}
		if !(b.Width > 0) || !(b.Height > 0) || !finite(b.Width) || !finite(b.Height) {
			return errors.New(errors.ErrCodeLayout, "label %d: size %gx%g must be positive",
				b.Index, b.Width, b.Height)
		}
	}
	for j, m := range markers {
		if !finiteVec(m) {
			return errors.New(errors.ErrCodeLayout, "marker %d: position (%g, %g) is not finite", j, m.X, m.Y)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v r2.Vec) bool {
	return finite(v.X) && finite(v.Y)
}

package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// padRatio adds a margin to every push, as a fraction of the smaller
// expanded half-height, so that pushes clear an overlap in finitely many
// steps instead of approaching the boundary asymptotically.
const padRatio = 0.1

// frame is the frozen state of one iteration. It is read concurrently and
// never written after construction.
type frame struct {
	params  Params
	boxes   []LabelBox
	markers []r2.Vec
}

// forceOn computes the accumulated push on label i from the snapshot and
// reports whether anything pushed it.
func (f *frame) forceOn(i int) (r2.Vec, bool) {
	var (
		sum    r2.Vec
		pushed bool
	)
	b := f.boxes[i]
	c := b.Center()

	textHalf := b.half(f.params.TextExpansion)
	for j := range f.boxes {
		if j == i {
			continue
		}
		o := f.boxes[j]
		otherHalf := o.half(f.params.TextExpansion)
		d, ok := depth(c, o.Center(), r2.Add(textHalf, otherHalf))
		if !ok {
			continue
		}
		pad := padRatio * math.Min(textHalf.Y, otherHalf.Y)
		dir := direction(c, o.Center(), b.Index, o.Index)
		sum = r2.Add(sum, r2.Scale(f.params.TextForce*(math.Min(d.X, d.Y)+pad), dir))
		pushed = true
	}

	pointHalf := b.half(f.params.PointExpansion)
	for j, m := range f.markers {
		if j == b.Index {
			continue
		}
		d, ok := depth(c, m, pointHalf)
		if !ok {
			continue
		}
		pad := padRatio * pointHalf.Y
		dir := direction(c, m, b.Index, j)
		sum = r2.Add(sum, r2.Scale(f.params.PointForce*(math.Min(d.X, d.Y)+pad), dir))
		pushed = true
	}

	return sum, pushed
}

// direction is the unit vector from other to self. Coincident positions fall
// back to the x axis: the lower index goes negative, the higher positive.
func direction(self, other r2.Vec, selfIndex, otherIndex int) r2.Vec {
	d := r2.Sub(self, other)
	if n := r2.Norm(d); n > 0 {
		return r2.Scale(1/n, d)
	}
	if selfIndex < otherIndex {
		return r2.Vec{X: -1}
	}
	return r2.Vec{X: 1}
}

// step returns the committed offset for label i given its accumulated push.
func (f *frame) step(i int, push r2.Vec, pushed bool) r2.Vec {
	off := f.boxes[i].Offset
	if pushed {
		return r2.Add(off, push)
	}
	return r2.Scale(1-f.params.AnchorPull, off)
}

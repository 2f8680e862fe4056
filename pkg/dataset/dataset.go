package dataset

import "slices"

// Point is a single labeled observation. Its identity is its index in the
// owning Dataset; labels need not be unique.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Dataset is the normalized result of a load. It is not modified after
// [Load] returns. Empty strings mean the title or axis label was absent.
type Dataset struct {
	Title  string  `json:"title,omitempty"`
	XLabel string  `json:"xlabel,omitempty"`
	YLabel string  `json:"ylabel,omitempty"`
	Points []Point `json:"points"`
}

// Len returns the number of points.
func (d *Dataset) Len() int { return len(d.Points) }

// Xs returns the X coordinates in point order.
func (d *Dataset) Xs() []float64 {
	xs := make([]float64, len(d.Points))
	for i, p := range d.Points {
		xs[i] = p.X
	}
	return xs
}

// Ys returns the Y coordinates in point order.
func (d *Dataset) Ys() []float64 {
	ys := make([]float64, len(d.Points))
	for i, p := range d.Points {
		ys[i] = p.Y
	}
	return ys
}

// DistinctY returns the sorted set of distinct Y values.
func (d *Dataset) DistinctY() []float64 {
	ys := d.Ys()
	slices.Sort(ys)
	return slices.Compact(ys)
}

package render

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
)

// Export is the JSON form of a placement. Display-space values are in
// points, origin bottom left.
type Export struct {
	Title      string        `json:"title,omitempty"`
	XLabel     string        `json:"xlabel,omitempty"`
	YLabel     string        `json:"ylabel,omitempty"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Settled    bool          `json:"settled"`
	Iterations int           `json:"iterations"`
	Points     []ExportPoint `json:"points"`
}

// ExportPoint is one data point and, when labeled, its placed label.
type ExportPoint struct {
	Index  int        `json:"index"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Label  string     `json:"label"`
	Anchor [2]float64 `json:"anchor"`
	Box    *ExportBox `json:"box,omitempty"`
}

// ExportBox is a placed label box.
type ExportBox struct {
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func newExport(ds *dataset.Dataset, r renderer, res layout.Result, markers []r2.Vec) Export {
	e := Export{
		Title:      firstNonEmpty(ds.Title, r.title),
		XLabel:     firstNonEmpty(ds.XLabel, r.xlabel),
		YLabel:     firstNonEmpty(ds.YLabel, r.ylabel),
		Width:      r.width.Points(),
		Height:     r.height.Points(),
		Settled:    res.Settled,
		Iterations: res.Iterations,
		Points:     make([]ExportPoint, ds.Len()),
	}
	for i, p := range ds.Points {
		e.Points[i] = ExportPoint{
			Index:  i,
			X:      p.X,
			Y:      p.Y,
			Label:  p.Label,
			Anchor: [2]float64{markers[i].X, markers[i].Y},
		}
	}
	for _, b := range res.Boxes {
		e.Points[b.Index].Box = &ExportBox{DX: b.Offset.X, DY: b.Offset.Y, Width: b.Width, Height: b.Height}
	}
	return e
}

func (e Export) marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

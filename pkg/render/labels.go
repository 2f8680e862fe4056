package render

import (
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
)

// labelPadRatio is the padding around label text as a fraction of the font
// size.
const labelPadRatio = 0.3

var (
	labelBoxColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	connectorStyle  = draw.LineStyle{Color: color.Gray{Y: 140}, Width: vg.Points(0.5)}
	labelTextColor  = color.Black
	connectorMinLen = vg.Points(0.5)
)

func (r renderer) labelStyle() text.Style {
	return text.Style{
		Color:   labelTextColor,
		Font:    font.From(plot.DefaultFont, r.fontSize),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

// measure builds one box per non-empty label and one marker per point, all
// in display space.
func measure(ds *dataset.Dataset, sty text.Style, trX, trY func(float64) vg.Length) ([]layout.LabelBox, []r2.Vec) {
	pad := 2 * labelPadRatio * sty.Font.Size
	markers := make([]r2.Vec, ds.Len())
	boxes := make([]layout.LabelBox, 0, ds.Len())
	for i, p := range ds.Points {
		anchor := r2.Vec{X: float64(trX(p.X)), Y: float64(trY(p.Y))}
		markers[i] = anchor
		if strings.TrimSpace(p.Label) == "" {
			continue
		}
		boxes = append(boxes, layout.LabelBox{
			Index:  i,
			Anchor: anchor,
			Width:  float64(sty.Width(p.Label) + pad),
			Height: float64(sty.Height(p.Label) + pad),
		})
	}
	return boxes, markers
}

// drawLabels draws connectors first so the label boxes cover their ends.
func drawLabels(c *draw.Canvas, ds *dataset.Dataset, sty text.Style, res layout.Result) {
	for _, b := range res.Boxes {
		if r2.Norm(b.Offset) < float64(connectorMinLen) {
			continue
		}
		center := b.Center()
		c.StrokeLine2(connectorStyle,
			vg.Length(b.Anchor.X), vg.Length(b.Anchor.Y),
			vg.Length(center.X), vg.Length(center.Y))
	}
	for _, b := range res.Boxes {
		rect := b.Rect(r2.Vec{X: 1, Y: 1})
		c.FillPolygon(labelBoxColor, []vg.Point{
			{X: vg.Length(rect.Min.X), Y: vg.Length(rect.Min.Y)},
			{X: vg.Length(rect.Max.X), Y: vg.Length(rect.Min.Y)},
			{X: vg.Length(rect.Max.X), Y: vg.Length(rect.Max.Y)},
			{X: vg.Length(rect.Min.X), Y: vg.Length(rect.Max.Y)},
		})
		center := b.Center()
		c.FillText(sty, vg.Point{X: vg.Length(center.X), Y: vg.Length(center.Y)}, ds.Points[b.Index].Label)
	}
}

package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
)

// rangePad widens each axis by this fraction of its span on both sides.
const rangePad = 0.08

func (r renderer) newPlot(ds *dataset.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = firstNonEmpty(ds.Title, r.title)
	p.X.Label.Text = firstNonEmpty(ds.XLabel, r.xlabel)
	p.Y.Label.Text = firstNonEmpty(ds.YLabel, r.ylabel)
	p.Title.Padding = vg.Points(8)

	xys := make(plotter.XYs, ds.Len())
	for i, pt := range ds.Points {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}

	if r.style == StyleDefault {
		grid := plotter.NewGrid()
		grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		grid.Horizontal.Dashes = grid.Vertical.Dashes
		grid.Vertical.Color = color.Gray{Y: 200}
		grid.Horizontal.Color = grid.Vertical.Color
		p.Add(grid)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "scatter points")
	}
	scatter.GlyphStyle = draw.GlyphStyle{
		Color:  color.Black,
		Radius: vg.Points(4),
		Shape:  draw.CircleGlyph{},
	}

	tiers := tiersOf(ds)
	if r.style == StyleDefault && tiers != nil {
		colors := tiers.colors()
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			g := scatter.GlyphStyle
			g.Color = colors[tiers.index(ds.Points[i].Y)]
			return g
		}
	}
	p.Add(scatter)

	if tiers != nil {
		p.Y.Tick.Marker = tiers.ticks()
	}
	setRanges(p, ds)
	return p, nil
}

// setRanges pads the data range so edge markers and their labels keep some
// room. An empty dataset gets the unit square.
func setRanges(p *plot.Plot, ds *dataset.Dataset) {
	if ds.Len() == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return
	}
	p.X.Min, p.X.Max = padded(ds.Xs())
	p.Y.Min, p.Y.Max = padded(ds.Ys())
}

func padded(vs []float64) (lo, hi float64) {
	lo, hi = floats.Min(vs), floats.Max(vs)
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	return lo - span*rangePad, hi + span*rangePad
}

// newCanvas returns the backend for the configured format. JSON output uses
// the SVG backend for geometry only.
func (r renderer) newCanvas() vg.CanvasWriterTo {
	switch r.format {
	case FormatPNG:
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))}
	case FormatPDF:
		return vgpdf.New(r.width, r.height)
	default:
		return vgsvg.New(r.width, r.height)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

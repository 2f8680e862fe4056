// Package render draws a labeled scatter plot with gonum/plot.
//
// # Overview
//
// [Render] is the collaborator around the label layout engine. It builds the
// figure (title, axes, grid, markers), measures every label with the figure's
// font, transforms each data point to display space, runs the
// [layout.Engine] on the resulting boxes and finally draws each label at its
// placed position:
//
//	out, err := render.Render(ds, layout.New(layout.DefaultParams()),
//	    render.WithFormat(render.FormatPNG),
//	    render.WithDPI(150),
//	)
//
// # Formats
//
//   - svg: vector output via vg/vgsvg (default)
//   - png: raster output via vg/vgimg at the configured DPI
//   - pdf: vector output via vg/vgpdf
//   - json: the placement itself (see [Export]), computed on the same
//     geometry as the image formats
//
// # Styles
//
//   - default: markers coloured by tier when the data has at most
//     [MaxTiers] distinct Y values, plus a dashed grid
//   - mono: black markers, no grid
//
// Labels sit on a translucent white box. A label that moved away from its
// point is joined to it by a thin grey connector.
package render

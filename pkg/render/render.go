package render

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Styles.
const (
	StyleDefault = "default"
	StyleMono    = "mono"
)

// Defaults.
const (
	DefaultFormat   = FormatSVG
	DefaultStyle    = StyleDefault
	DefaultWidth    = 12.0 // inches
	DefaultHeight   = 8.0  // inches
	DefaultDPI      = 300
	DefaultFontSize = 8.0 // points
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Styles lists the supported styles.
var Styles = []string{StyleDefault, StyleMono}

var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ValidateFormat returns an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateStyle returns an INVALID_INPUT error for unknown styles.
func ValidateStyle(style string) error {
	if !slices.Contains(Styles, style) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown style %q (want one of %s)",
			style, strings.Join(Styles, ", "))
	}
	return nil
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FormatFromPath returns the format implied by an output file extension.
func FormatFromPath(path string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if slices.Contains(Formats, ext) {
		return ext, true
	}
	return "", false
}

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	format   string
	style    string
	width    vg.Length
	height   vg.Length
	dpi      int
	fontSize vg.Length
	title    string
	xlabel   string
	ylabel   string
}

// WithFormat selects the output format.
func WithFormat(f string) Option { return func(r *renderer) { r.format = f } }

// WithStyle selects the visual style.
func WithStyle(s string) Option { return func(r *renderer) { r.style = s } }

// WithSize sets the figure size in inches.
func WithSize(width, height float64) Option {
	return func(r *renderer) {
		r.width = vg.Length(width) * vg.Inch
		r.height = vg.Length(height) * vg.Inch
	}
}

// WithDPI sets the PNG resolution.
func WithDPI(dpi int) Option { return func(r *renderer) { r.dpi = dpi } }

// WithFontSize sets the label font size in points.
func WithFontSize(pt float64) Option { return func(r *renderer) { r.fontSize = vg.Points(pt) } }

// WithFallbackLabels sets the title and axis labels used when the dataset
// has none.
func WithFallbackLabels(title, xlabel, ylabel string) Option {
	return func(r *renderer) { r.title, r.xlabel, r.ylabel = title, xlabel, ylabel }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		format:   DefaultFormat,
		style:    DefaultStyle,
		width:    DefaultWidth * vg.Inch,
		height:   DefaultHeight * vg.Inch,
		dpi:      DefaultDPI,
		fontSize: vg.Points(DefaultFontSize),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r renderer) validate() error {
	if err := ValidateFormat(r.format); err != nil {
		return err
	}
	if err := ValidateStyle(r.style); err != nil {
		return err
	}
	switch {
	case !(r.width > 0) || !(r.height > 0):
		return errors.New(errors.ErrCodeInvalidInput, "figure size must be positive, got %gx%g in",
			r.width/vg.Inch, r.height/vg.Inch)
	case r.dpi <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", r.dpi)
	case !(r.fontSize > 0):
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", r.fontSize.Points())
	}
	return nil
}

// Output is a rendered artifact together with the placement it was drawn
// from.
type Output struct {
	Format string
	Data   []byte
	Layout layout.Result

	// LayoutTime is the time spent placing labels.
	LayoutTime time.Duration
}

// ContentType returns the MIME type of Data.
func (o *Output) ContentType() string { return ContentType(o.Format) }

// Render draws ds, placing labels with engine.
func Render(ds *dataset.Dataset, engine *layout.Engine, opts ...Option) (*Output, error) {
	r := newRenderer(opts...)
	if err := r.validate(); err != nil {
		return nil, err
	}

	p, err := r.newPlot(ds)
	if err != nil {
		return nil, err
	}

	c := r.newCanvas()
	dc := draw.New(c)
	p.Draw(dc)

	data := p.DataCanvas(dc)
	trX, trY := p.Transforms(&data)
	sty := r.labelStyle()
	boxes, markers := measure(ds, sty, trX, trY)

	start := time.Now()
	res, err := engine.Run(boxes, markers)
	if err != nil {
		return nil, err
	}

	out := &Output{Format: r.format, Layout: res, LayoutTime: time.Since(start)}
	if r.format == FormatJSON {
		out.Data, err = newExport(ds, r, res, markers).marshal()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
		}
		return out, nil
	}

	drawLabels(&dc, ds, sty, res)

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", r.format)
	}
	out.Data = buf.Bytes()
	return out, nil
}

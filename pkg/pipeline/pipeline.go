// Package pipeline runs the load → layout → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: detect the input format and parse it into a dataset
//  2. Layout: place labels with the force-directed engine
//  3. Render: draw the figure in each requested format
//
// Layout runs inside the render stage because label sizes depend on the
// figure's text metrics and display transform.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.FileInput("models.csv"), pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
//
// Parsed datasets and rendered artifacts are cached by the SHA-256 of the
// input bytes plus every option that changes the output. Cache failures are
// logged and otherwise ignored.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/hugojosefson/scatter-svg/pkg/cache"
	"github.com/hugojosefson/scatter-svg/pkg/config"
	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The zero value renders SVG with the
// default layout parameters.
type Options struct {
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Width    float64  `json:"width,omitempty"`  // inches
	Height   float64  `json:"height,omitempty"` // inches
	DPI      int      `json:"dpi,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`

	// Fallbacks for datasets without a title or axis labels.
	Title  string `json:"title,omitempty"`
	XLabel string `json:"xlabel,omitempty"`
	YLabel string `json:"ylabel,omitempty"`

	// Layout holds the engine parameters. A zero value means
	// layout.DefaultParams.
	Layout  layout.Params `json:"-"`
	Workers int           `json:"-"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL is the expiry for entries written by this run.
	CacheTTL time.Duration `json:"-"`

	validated bool
}

// FromConfig builds options from a validated configuration.
func FromConfig(cfg config.Config) Options {
	r := cfg.Render
	return Options{
		Formats:  []string{r.Format},
		Style:    r.Style,
		Width:    r.Width,
		Height:   r.Height,
		DPI:      r.DPI,
		FontSize: r.FontSize,
		Title:    r.Title,
		XLabel:   r.XLabel,
		YLabel:   r.YLabel,
		Layout:   cfg.Layout.Params(),
		Workers:  cfg.Layout.Workers,
		CacheTTL: cfg.Cache.Duration(),
	}
}

// ValidateAndSetDefaults fills unset fields and validates the result. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.setDefaults()
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if err := render.ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be non-negative, got %d", o.Workers)
	}
	o.validated = true
	return nil
}

func (o *Options) setDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.DefaultFormat}
	}
	o.Formats = slices.Compact(o.Formats)
	if o.Style == "" {
		o.Style = render.DefaultStyle
	}
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = render.DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = render.DefaultDPI
	}
	if o.FontSize == 0 {
		o.FontSize = render.DefaultFontSize
	}
	if o.Layout == (layout.Params{}) {
		o.Layout = layout.DefaultParams()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = config.DefaultCacheTTL
	}
}

// Clone returns a copy that does not share Formats with o and is validated
// again on use.
func (o Options) Clone() Options {
	o.Formats = slices.Clone(o.Formats)
	o.validated = false
	return o
}

// renderOptions returns the render options for format.
func (o *Options) renderOptions(format string) []render.Option {
	return []render.Option{
		render.WithFormat(format),
		render.WithStyle(o.Style),
		render.WithSize(o.Width, o.Height),
		render.WithDPI(o.DPI),
		render.WithFontSize(o.FontSize),
		render.WithFallbackLabels(o.Title, o.XLabel, o.YLabel),
	}
}

// ArtifactKeyOpts returns the cache key inputs for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	p := o.Layout
	return cache.ArtifactKeyOpts{
		Format:         format,
		Style:          o.Style,
		Width:          o.Width,
		Height:         o.Height,
		DPI:            o.DPI,
		FontSize:       o.FontSize,
		Title:          o.Title,
		XLabel:         o.XLabel,
		YLabel:         o.YLabel,
		PointExpansion: [2]float64{p.PointExpansion.X, p.PointExpansion.Y},
		TextExpansion:  [2]float64{p.TextExpansion.X, p.TextExpansion.Y},
		PointForce:     p.PointForce,
		TextForce:      p.TextForce,
		MaxIterations:  p.MaxIterations,
		AnchorPull:     p.AnchorPull,
	}
}

// =============================================================================
// Input
// =============================================================================

// Input names a dataset source. Name is used for format detection and
// messages; "" and "-" mean standard input.
type Input struct {
	Name   string
	Source dataset.Source
}

// FileInput reads path.
func FileInput(path string) Input {
	return Input{Name: path, Source: dataset.File(path)}
}

// ReaderInput reads r once, on first use.
func ReaderInput(name string, r io.Reader) Input {
	return Input{Name: name, Source: dataset.Reader(r)}
}

// BytesInput wraps in-memory content. name may be empty.
func BytesInput(name string, content []byte) Input {
	return Input{Name: name, Source: dataset.Bytes(content)}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of one run.
type Result struct {
	// Dataset is the loaded input.
	Dataset *dataset.Dataset

	// DatasetKey is the cache key of the parsed dataset. It covers the input
	// bytes and every source property the parser depends on.
	DatasetKey string

	// Layout is the label placement of the first requested format.
	Layout layout.Result

	// Artifacts holds rendered output keyed by format.
	Artifacts map[string][]byte

	Stats    Stats
	CacheHit CacheInfo
}

// Stats holds counts and stage timings. LayoutTime is zero when every
// artifact came from the cache.
type Stats struct {
	Points     int
	Labels     int
	Iterations int
	Settled    bool
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	Dataset  bool
	Artifact bool // true only when every format hit
}

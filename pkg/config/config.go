// Package config holds the explicit configuration value threaded through the
// loader, the layout engine and the renderer.
//
// A [Config] starts from [Default] and may be overlaid by a TOML or YAML file
// (see [Load]) and then by command-line flags or request parameters. Nothing
// in this package is global: callers pass the value they built.
//
// Example TOML file:
//
//	[layout]
//	max_iterations = 1000
//	text_expansion = { x = 1.3, y = 1.3 }
//
//	[render]
//	format = "png"
//	dpi = 150
//
//	[cache]
//	url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// Pair is an (x, y) factor.
type Pair struct {
	X float64 `toml:"x" yaml:"x" json:"x"`
	Y float64 `toml:"y" yaml:"y" json:"y"`
}

func (p Pair) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Config is the complete configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout" json:"layout"`
	Render RenderConfig `toml:"render" yaml:"render" json:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache" json:"cache"`
}

// LayoutConfig configures label placement.
type LayoutConfig struct {
	PointExpansion Pair    `toml:"point_expansion" yaml:"point_expansion" json:"point_expansion"`
	TextExpansion  Pair    `toml:"text_expansion" yaml:"text_expansion" json:"text_expansion"`
	PointForce     float64 `toml:"point_force" yaml:"point_force" json:"point_force"`
	TextForce      float64 `toml:"text_force" yaml:"text_force" json:"text_force"`
	MaxIterations  int     `toml:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	AnchorPull     float64 `toml:"anchor_pull" yaml:"anchor_pull" json:"anchor_pull"`
	// Workers is the goroutine count for large label sets; 0 means GOMAXPROCS.
	Workers int `toml:"workers" yaml:"workers" json:"workers"`
}

// Params converts the section to layout parameters.
func (l LayoutConfig) Params() layout.Params {
	return layout.Params{
		PointExpansion: l.PointExpansion.vec(),
		TextExpansion:  l.TextExpansion.vec(),
		PointForce:     l.PointForce,
		TextForce:      l.TextForce,
		MaxIterations:  l.MaxIterations,
		AnchorPull:     l.AnchorPull,
	}
}

// RenderConfig configures the rendered figure.
type RenderConfig struct {
	Format   string  `toml:"format" yaml:"format" json:"format"`
	Style    string  `toml:"style" yaml:"style" json:"style"`
	Width    float64 `toml:"width" yaml:"width" json:"width"`    // inches
	Height   float64 `toml:"height" yaml:"height" json:"height"` // inches
	DPI      int     `toml:"dpi" yaml:"dpi" json:"dpi"`
	FontSize float64 `toml:"font_size" yaml:"font_size" json:"font_size"` // points

	// Used when the dataset has no title or axis label of its own.
	Title  string `toml:"title" yaml:"title" json:"title,omitempty"`
	XLabel string `toml:"xlabel" yaml:"xlabel" json:"xlabel,omitempty"`
	YLabel string `toml:"ylabel" yaml:"ylabel" json:"ylabel,omitempty"`
}

// Cache backends selected by CacheConfig.URL.
const (
	CacheNone = "none"
)

// CacheConfig selects the artifact cache. URL is empty for the local file
// cache, "none" to disable caching, or a redis:// or rediss:// URL.
type CacheConfig struct {
	URL string `toml:"url" yaml:"url" json:"url,omitempty"`
	Dir string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	TTL string `toml:"ttl" yaml:"ttl" json:"ttl,omitempty"`
}

// DefaultCacheTTL applies when CacheConfig.TTL is empty.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Duration returns the parsed TTL, or DefaultCacheTTL when unset.
func (c CacheConfig) Duration() time.Duration {
	if c.TTL == "" {
		return DefaultCacheTTL
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return DefaultCacheTTL
	}
	return d
}

// IsRedis reports whether URL selects the Redis backend.
func (c CacheConfig) IsRedis() bool {
	return strings.HasPrefix(c.URL, "redis://") || strings.HasPrefix(c.URL, "rediss://")
}

// Default returns the built-in configuration.
func Default() Config {
	p := layout.DefaultParams()
	return Config{
		Layout: LayoutConfig{
			PointExpansion: Pair{X: p.PointExpansion.X, Y: p.PointExpansion.Y},
			TextExpansion:  Pair{X: p.TextExpansion.X, Y: p.TextExpansion.Y},
			PointForce:     p.PointForce,
			TextForce:      p.TextForce,
			MaxIterations:  p.MaxIterations,
			AnchorPull:     p.AnchorPull,
		},
		Render: RenderConfig{
			Format:   render.DefaultFormat,
			Style:    render.DefaultStyle,
			Width:    render.DefaultWidth,
			Height:   render.DefaultHeight,
			DPI:      render.DefaultDPI,
			FontSize: render.DefaultFontSize,
		},
	}
}

// Validate reports the first invalid setting as INVALID_CONFIG.
func (c Config) Validate() error {
	if err := c.Layout.Params().Validate(); err != nil {
		return err
	}
	if c.Layout.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.workers must be non-negative, got %d", c.Layout.Workers)
	}

	r := c.Render
	if err := render.ValidateFormat(r.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.format")
	}
	if err := render.ValidateStyle(r.Style); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.style")
	}
	switch {
	case !(r.Width > 0) || !(r.Height > 0):
		return errors.New(errors.ErrCodeInvalidConfig, "render size must be positive, got %gx%g", r.Width, r.Height)
	case r.DPI <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render.dpi must be positive, got %d", r.DPI)
	case !(r.FontSize > 0):
		return errors.New(errors.ErrCodeInvalidConfig, "render.font_size must be positive, got %g", r.FontSize)
	}

	if u := c.Cache.URL; u != "" && u != CacheNone && !c.Cache.IsRedis() {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.url must be empty, %q or a redis URL, got %q", CacheNone, u)
	}
	if c.Cache.TTL != "" {
		if d, err := time.ParseDuration(c.Cache.TTL); err != nil || d <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be a positive duration, got %q", c.Cache.TTL)
		}
	}
	return nil
}

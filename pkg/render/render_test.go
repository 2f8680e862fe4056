package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
)

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Title:  "Models",
		XLabel: "Speed",
		YLabel: "Quality",
		Points: []dataset.Point{
			{X: 1, Y: 1, Label: "alpha"},
			{X: 2, Y: 2, Label: "beta"},
			{X: 3, Y: 3, Label: "gamma"},
			{X: 3, Y: 3, Label: ""},
		},
	}
}

func engine() *layout.Engine {
	return layout.New(layout.DefaultParams())
}

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		format string
		magic  []byte
	}{
		{FormatSVG, []byte("<?xml")},
		{FormatPNG, []byte("\x89PNG")},
		{FormatPDF, []byte("%PDF")},
		{FormatJSON, []byte("{")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := Render(sampleDataset(), engine(),
				WithFormat(tt.format), WithSize(4, 3), WithDPI(50))
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !bytes.HasPrefix(out.Data, tt.magic) {
				t.Errorf("Data starts with %q, want %q", out.Data[:min(8, len(out.Data))], tt.magic)
			}
			if out.Format != tt.format {
				t.Errorf("Format = %q, want %q", out.Format, tt.format)
			}
			if got := len(out.Layout.Boxes); got != 3 {
				t.Errorf("len(Layout.Boxes) = %d, want 3 (empty label skipped)", got)
			}
		})
	}
}

func TestRenderSVGContainsLabels(t *testing.T) {
	out, err := Render(sampleDataset(), engine(), WithSize(4, 3))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	svg := string(out.Data)
	for _, want := range []string{"Models", "alpha", "beta", "gamma"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if out.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType() = %q", out.ContentType())
	}
}

func TestRenderCoincidentLabels(t *testing.T) {
	ds, err := dataset.Load("", dataset.Bytes([]byte(
		`{"points":[{"x":1,"y":1,"label":"A"},{"x":1,"y":1,"label":"B"}]}`)))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	out, err := Render(ds, engine(), WithFormat(FormatJSON))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	res := out.Layout
	if len(res.Boxes) != 2 {
		t.Fatalf("len(Boxes) = %d, want 2", len(res.Boxes))
	}
	a, b := res.Boxes[0], res.Boxes[1]
	if a.Offset == b.Offset {
		t.Errorf("offsets both %v, want distinct", a.Offset)
	}
	if res.Settled && layout.Overlaps(a, b, layout.DefaultParams().TextExpansion) {
		t.Error("settled with overlapping labels")
	}
	if !res.Settled && res.Iterations != layout.DefaultMaxIterations {
		t.Errorf("unsettled after %d iterations", res.Iterations)
	}

	var exp Export
	if err := json.Unmarshal(out.Data, &exp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(exp.Points) != 2 || exp.Points[0].Box == nil || exp.Points[1].Box == nil {
		t.Fatalf("export points = %+v, want two boxed points", exp.Points)
	}
	if exp.Settled != res.Settled || exp.Iterations != res.Iterations {
		t.Errorf("export settled/iterations = %v/%d, want %v/%d",
			exp.Settled, exp.Iterations, res.Settled, res.Iterations)
	}
}

func TestRenderJSONUnlabeledPoint(t *testing.T) {
	out, err := Render(sampleDataset(), engine(), WithFormat(FormatJSON), WithFallbackLabels("T", "X", "Y"))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	var exp Export
	if err := json.Unmarshal(out.Data, &exp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if exp.Points[3].Box != nil {
		t.Errorf("unlabeled point has box %+v", exp.Points[3].Box)
	}
	if exp.Title != "Models" {
		t.Errorf("Title = %q, want dataset title", exp.Title)
	}
	if exp.Width != DefaultWidth*72 || exp.Height != DefaultHeight*72 {
		t.Errorf("size = %gx%g, want %gx%g", exp.Width, exp.Height, DefaultWidth*72, DefaultHeight*72)
	}
}

func TestRenderEmptyDataset(t *testing.T) {
	out, err := Render(&dataset.Dataset{}, engine(), WithSize(3, 2))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !out.Layout.Settled || out.Layout.Iterations != 0 {
		t.Errorf("Layout = %+v, want settled with no iterations", out.Layout)
	}
}

func TestRenderMonoStyle(t *testing.T) {
	if _, err := Render(sampleDataset(), engine(), WithStyle(StyleMono), WithSize(3, 2)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		code errors.Code
	}{
		{"format", WithFormat("gif"), errors.ErrCodeInvalidFormat},
		{"style", WithStyle("fancy"), errors.ErrCodeInvalidInput},
		{"size", WithSize(0, 8), errors.ErrCodeInvalidInput},
		{"dpi", WithDPI(0), errors.ErrCodeInvalidInput},
		{"font", WithFontSize(-1), errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(sampleDataset(), engine(), tt.opt)
			if !errors.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"out.svg", FormatSVG, true},
		{"OUT.PNG", FormatPNG, true},
		{"dir/plot.pdf", FormatPDF, true},
		{"layout.json", FormatJSON, true},
		{"plot.gif", "", false},
		{"plot", "", false},
	}

	for _, tt := range tests {
		got, ok := FormatFromPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(FormatPNG); got != "image/png" {
		t.Errorf("ContentType(png) = %q", got)
	}
	if got := ContentType("bin"); got != "application/octet-stream" {
		t.Errorf("ContentType(bin) = %q", got)
	}
}

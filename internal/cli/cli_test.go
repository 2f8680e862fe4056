package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/buildinfo"
	"github.com/hugojosefson/scatter-svg/pkg/config"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

const (
	sampleCSV  = "name,speed,quality\nalpha,1,1\nbeta,2,2\ngamma,3,1\n"
	sampleJSON = `{"title":"Demo","points":[{"x":1,"y":1,"label":"A"},{"x":1,"y":1,"label":"B"}]}`
)

// run executes the root command and returns what it wrote to stdout. Call
// isolate first.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { uiOut = os.Stdout })

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// isolate points config and cache at fresh directories for the whole test.
func isolate(t *testing.T) (cacheHome string) {
	t.Helper()
	cacheHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return cacheHome
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readPrefix(t *testing.T, path string, n int) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data[:min(n, len(data))])
}

// =============================================================================
// plot
// =============================================================================

func TestPlotToFile(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.csv", sampleCSV)
	outPath := filepath.Join(t.TempDir(), "nested", "plot.svg")

	status, err := run(t, "", in, outPath, "--width", "4", "--height", "3")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if got := readPrefix(t, outPath, 5); got != "<?xml" {
		t.Errorf("output starts %q, want <?xml", got)
	}
	for _, want := range []string{"Plotted " + in, outPath, "3 points", "fresh"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}
}

func TestPlotFormatFromExtension(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.json", sampleJSON)

	tests := []struct {
		file   string
		args   []string
		prefix string
	}{
		{"plot.pdf", nil, "%PDF"},
		{"plot.png", []string{"--dpi", "40"}, "\x89PNG"},
		{"plot.out", []string{"-f", "json"}, "{"},
		{"plot.svg", []string{"--format", "json"}, "{"},
	}

	for _, tt := range tests {
		t.Run(tt.file+strings.Join(tt.args, ""), func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), tt.file)
			args := append([]string{"plot", in, outPath, "--width", "4", "--height", "3"}, tt.args...)
			if _, err := run(t, "", args...); err != nil {
				t.Fatalf("run() error: %v", err)
			}
			if got := readPrefix(t, outPath, len(tt.prefix)); got != tt.prefix {
				t.Errorf("output starts %q, want %q", got, tt.prefix)
			}
		})
	}
}

func TestPlotStdinToStdout(t *testing.T) {
	isolate(t)
	out, err := run(t, sampleJSON, "-", "-f", "json")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}

	var exp render.Export
	if err := json.Unmarshal([]byte(out), &exp); err != nil {
		t.Fatalf("stdout is not a layout export: %v\n%s", err, out)
	}
	if exp.Title != "Demo" || len(exp.Points) != 2 {
		t.Errorf("export = %+v", exp)
	}
	a, b := exp.Points[0].Box, exp.Points[1].Box
	if a == nil || b == nil || (a.DX == b.DX && a.DY == b.DY) {
		t.Errorf("coincident labels were not separated: %+v %+v", a, b)
	}
}

func TestPlotDefaultsToSVGOnStdout(t *testing.T) {
	isolate(t)
	out, err := run(t, sampleCSV, "--width", "4", "--height", "3")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("stdout starts %q, want SVG", out[:min(20, len(out))])
	}
}

func TestPlotMultipleFormats(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.csv", sampleCSV)
	base := filepath.Join(t.TempDir(), "plot")

	if _, err := run(t, "", in, base, "-f", "svg,json", "--width", "4", "--height", "3"); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if got := readPrefix(t, base+".svg", 5); got != "<?xml" {
		t.Errorf("plot.svg starts %q", got)
	}
	if got := readPrefix(t, base+".json", 1); got != "{" {
		t.Errorf("plot.json starts %q", got)
	}
}

func TestPlotCache(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.csv", sampleCSV)
	outPath := filepath.Join(t.TempDir(), "plot.json")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"first", nil, "fresh"},
		{"second", nil, "cached"},
		{"refresh", []string{"--refresh"}, "fresh"},
		{"no cache", []string{"--no-cache"}, "fresh"},
	}

	for _, tt := range tests {
		status, err := run(t, "", append([]string{in, outPath}, tt.args...)...)
		if err != nil {
			t.Fatalf("%s: run() error: %v", tt.name, err)
		}
		if !strings.Contains(status, tt.want) {
			t.Errorf("%s: status %q, want %q", tt.name, status, tt.want)
		}
	}
}

func TestPlotErrors(t *testing.T) {
	isolate(t)
	good := writeInput(t, "data.csv", sampleCSV)
	bad := writeInput(t, "bad.csv", "label,x,y\na,one,1\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"missing file", "", []string{filepath.Join(t.TempDir(), "nope.csv")}, errors.ErrCodeIO},
		{"schema", "", []string{bad, "-f", "json"}, errors.ErrCodeSchema},
		{"parse", `{"points":[{"x":1}]}`, []string{"-f", "json"}, errors.ErrCodeParse},
		{"unknown format", "", []string{good, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad style", "", []string{good, "--style", "neon"}, errors.ErrCodeInvalidInput},
		{"several formats to stdout", "", []string{good, "-f", "svg,png"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("run() error = nil")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestPlotTooManyArgs(t *testing.T) {
	isolate(t)
	if _, err := run(t, "", "plot", "a", "b", "c"); err == nil {
		t.Error("run() with three arguments succeeded")
	}
}

// =============================================================================
// layout
// =============================================================================

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.json", sampleJSON)

	out, err := run(t, "", "layout", in, "--font-size", "10")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	var exp render.Export
	if err := json.Unmarshal([]byte(out), &exp); err != nil {
		t.Fatalf("layout output is not JSON: %v", err)
	}
	if len(exp.Points) != 2 {
		t.Errorf("points = %d, want 2", len(exp.Points))
	}
}

func TestLayoutIgnoresOutputExtension(t *testing.T) {
	isolate(t)
	in := writeInput(t, "data.json", sampleJSON)
	outPath := filepath.Join(t.TempDir(), "layout.svg")

	if _, err := run(t, "", "layout", in, outPath); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if got := readPrefix(t, outPath, 1); got != "{" {
		t.Errorf("layout wrote %q, want JSON", got)
	}
}

// =============================================================================
// detect
// =============================================================================

func TestDetectCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		file  string
		body  string
		want  []string
		avoid string
	}{
		{
			name: "csv",
			file: "data.csv",
			body: sampleCSV,
			want: []string{"tabular", "','", "name (column 1)", "speed (column 2)", "quality (column 3)", "3"},
		},
		{
			name: "sniffed semicolons",
			file: "data.txt",
			body: "y;x;label\n1;2;a\n",
			want: []string{"tabular", "';'", "label (column 3)", "x (column 2)", "y (column 1)"},
		},
		{
			name:  "json",
			file:  "data.txt",
			body:  sampleJSON,
			want:  []string{"json", "2"},
			avoid: "delimiter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", "detect", writeInput(t, tt.file, tt.body))
			if err != nil {
				t.Fatalf("run() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			if tt.avoid != "" && strings.Contains(out, tt.avoid) {
				t.Errorf("output %q contains %q", out, tt.avoid)
			}
		})
	}
}

func TestDetectStdin(t *testing.T) {
	isolate(t)
	out, err := run(t, "label\tx\ty\na\t1\t2\n", "detect")
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.Contains(out, `'\t'`) {
		t.Errorf("output %q, want tab delimiter", out)
	}
}

func TestDetectInvalidData(t *testing.T) {
	isolate(t)
	_, err := run(t, "label,x,y\na,1\n", "detect")
	if got := errors.GetCode(err); got != errors.ErrCodeParse {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeParse)
	}
}

// =============================================================================
// config
// =============================================================================

func TestConfigFile(t *testing.T) {
	isolate(t)
	cfgPath := writeInput(t, "config.toml", "[render]\nformat = \"json\"\n\n[cache]\nurl = \"none\"\n")

	out, err := run(t, sampleCSV, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.HasPrefix(out, "{") {
		t.Errorf("stdout starts %q, want JSON from config format", out[:min(20, len(out))])
	}
}

func TestConfigFileDefaultLocation(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[render]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, sampleCSV)
	if err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.HasPrefix(out, "{") {
		t.Errorf("stdout starts %q, want JSON from default config", out[:min(20, len(out))])
	}
}

func TestConfigFileMissing(t *testing.T) {
	isolate(t)
	_, err := run(t, sampleCSV, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidConfig {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeInvalidConfig)
	}
}

func TestPlotFlagsOverrideConfig(t *testing.T) {
	var flags plotFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd, true)
	if err := cmd.ParseFlags([]string{"--width", "5", "--max-iterations", "7", "--title", "T", "--refresh"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Render.Height = 6
	cfg.Render.Format = "png"
	opts := flags.options(cmd, cfg)

	if opts.Width != 5 || opts.Height != 6 {
		t.Errorf("size = %gx%g, want 5x6", opts.Width, opts.Height)
	}
	if diff := cmp.Diff([]string{"png"}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	want := cfg.Layout.Params()
	want.MaxIterations = 7
	if opts.Layout != want {
		t.Errorf("Layout = %+v, want %+v", opts.Layout, want)
	}
	if opts.Title != "T" || !opts.Refresh {
		t.Errorf("Title = %q, Refresh = %v", opts.Title, opts.Refresh)
	}
}

// =============================================================================
// cache, version, completion
// =============================================================================

func TestCachePathAndClear(t *testing.T) {
	cacheHome := isolate(t)
	want := filepath.Join(cacheHome, appName)

	out, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	out, err = run(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear before use = %q", out)
	}

	if _, err := run(t, sampleCSV, "-f", "json"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("clear after plot = %q, want 2 entries", out)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version: "+buildinfo.Get().Version) {
		t.Errorf("version output = %q", out)
	}

	out, err = run(t, "", "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version --json: %v", err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version --json = %+v, want %+v", info, buildinfo.Get())
	}

	out, err = run(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" version ") {
		t.Errorf("--version = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s does not mention %s", shell, appName)
		}
	}
	if _, err := run(t, "", "completion", "tcsh"); err == nil {
		t.Error("completion tcsh succeeded")
	}
}

// =============================================================================
// Helpers
// =============================================================================

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"SVG, png,,pdf ", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		output  string
		formats []string
		want    map[string]string
	}{
		{"out/plot.png", []string{"png"}, map[string]string{"png": "out/plot.png"}},
		{"plot.txt", []string{"svg"}, map[string]string{"svg": "plot.txt"}},
		{"out/plot.svg", []string{"svg", "pdf"}, map[string]string{"svg": "out/plot.svg", "pdf": "out/plot.pdf"}},
		{"plot", []string{"svg", "json"}, map[string]string{"svg": "plot.svg", "json": "plot.json"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, outputPaths(tt.output, tt.formats)); diff != "" {
			t.Errorf("outputPaths(%q, %v) mismatch (-want +got):\n%s", tt.output, tt.formats, diff)
		}
	}
}

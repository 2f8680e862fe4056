package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/config"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/pipeline"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// plotFlags holds the flags shared by plot, layout and serve. Values are
// applied over the config file only when set on the command line.
type plotFlags struct {
	formats       string
	style         string
	width         float64
	height        float64
	dpi           int
	fontSize      float64
	maxIterations int
	workers       int
	title         string
	xlabel        string
	ylabel        string
	noCache       bool
	refresh       bool
}

// register adds the flags to cmd. withFormat is false for commands with a
// fixed output format.
func (f *plotFlags) register(cmd *cobra.Command, withFormat bool) {
	fs := cmd.Flags()
	if withFormat {
		fs.StringVarP(&f.formats, "format", "f", "", "output formats, comma-separated: svg, png, pdf, json (default: from output extension, else svg)")
		fs.StringVar(&f.style, "style", render.DefaultStyle, "plot style: default, mono")
		fs.IntVar(&f.dpi, "dpi", render.DefaultDPI, "resolution of png output")
	}
	fs.Float64Var(&f.width, "width", render.DefaultWidth, "figure width in inches")
	fs.Float64Var(&f.height, "height", render.DefaultHeight, "figure height in inches")
	fs.Float64Var(&f.fontSize, "font-size", render.DefaultFontSize, "label font size in points")
	fs.IntVar(&f.maxIterations, "max-iterations", 0, "maximum layout iterations (default from config)")
	fs.IntVar(&f.workers, "workers", 0, "layout goroutines for large label sets (default: GOMAXPROCS)")
	fs.StringVar(&f.title, "title", "", "title when the dataset has none")
	fs.StringVar(&f.xlabel, "xlabel", "", "x axis label when the dataset has none")
	fs.StringVar(&f.ylabel, "ylabel", "", "y axis label when the dataset has none")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// options overlays the flags that were set on cmd onto the config file.
func (f *plotFlags) options(cmd *cobra.Command, cfg config.Config) pipeline.Options {
	opts := pipeline.FromConfig(cfg)
	fs := cmd.Flags()

	if formats := parseFormats(f.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if fs.Changed("style") {
		opts.Style = f.style
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("dpi") {
		opts.DPI = f.dpi
	}
	if fs.Changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if fs.Changed("max-iterations") {
		opts.Layout.MaxIterations = f.maxIterations
	}
	if fs.Changed("workers") {
		opts.Workers = f.workers
	}
	if fs.Changed("title") {
		opts.Title = f.title
	}
	if fs.Changed("xlabel") {
		opts.XLabel = f.xlabel
	}
	if fs.Changed("ylabel") {
		opts.YLabel = f.ylabel
	}
	opts.Refresh = f.refresh
	return opts
}

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var flags plotFlags

	cmd := &cobra.Command{
		Use:   "plot [input] [output]",
		Short: "Render a labelled scatter plot",
		Long: `Render a labelled scatter plot from a JSON or delimited text dataset.

The output format is taken from --format, then from the output file
extension, then from the config file. With several formats the output path
is a base name and each format gets its own extension.

Rendered plots are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := ioArgs(args)
			return c.runPlot(cmd, &flags, input, output, "")
		},
	}
	flags.register(cmd, true)

	return cmd
}

// runPlot runs the pipeline and writes every artifact. A non-empty format
// overrides the flags and the config.
func (c *CLI) runPlot(cmd *cobra.Command, flags *plotFlags, input, output, format string) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	opts := flags.options(cmd, cfg)
	switch {
	case format != "":
		opts.Formats = []string{format}
	case !cmd.Flags().Changed("format") && !isStdio(output):
		if f, ok := render.FormatFromPath(output); ok {
			opts.Formats = []string{f}
		}
	}
	if isStdio(output) && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "%d formats requested; name an output file", len(opts.Formats))
	}

	runner := c.newRunner(ctx, cfg, flags.noCache)
	defer runner.Close()

	// Status lines would corrupt an artifact written to stdout.
	status := !isStdio(output)

	if !status {
		res, err := runner.Execute(ctx, c.input(cmd, input), opts)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Placing labels...")
	spinner.Start()
	res, err := runner.Execute(ctx, c.input(cmd, input), opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Plot failed")
		return err
	}

	paths := outputPaths(output, opts.Formats)
	for _, f := range opts.Formats {
		if err := writeFile(paths[f], res.Artifacts[f]); err != nil {
			spinner.StopWithError("Write failed")
			return err
		}
	}

	spinner.StopWithSuccess("Plotted " + displayInput(input))
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(res.Stats.Points, res.Stats.Iterations, res.Stats.Settled, res.CacheHit.Artifact)
	if !res.Stats.Settled {
		printWarning("Labels did not settle within %d iterations; some may overlap", res.Stats.Iterations)
		printNextStep("Allow more iterations", appName+" --max-iterations 5000 "+displayInput(input)+" "+output)
	}
	return nil
}

// input returns the pipeline input for a path argument.
func (c *CLI) input(cmd *cobra.Command, path string) pipeline.Input {
	if isStdio(path) {
		return pipeline.ReaderInput(stdio, cmd.InOrStdin())
	}
	return pipeline.FileInput(path)
}

// =============================================================================
// Helpers
// =============================================================================

// ioArgs splits positional arguments into input and output paths.
func ioArgs(args []string) (input, output string) {
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}
	return input, output
}

func isStdio(path string) bool {
	return path == "" || path == stdio
}

func displayInput(path string) string {
	if isStdio(path) {
		return "stdin"
	}
	return path
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// outputPaths maps each format to its file. A single format writes output
// as given; several formats replace its extension.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// readInput reads a path argument fully, from stdin for "-" or "".
func readInput(ctx context.Context, r io.Reader, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isStdio(path) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return data, nil
}

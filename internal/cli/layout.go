package cli

import (
	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// layoutCommand creates the layout command for exporting label placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags plotFlags

	cmd := &cobra.Command{
		Use:   "layout [input] [output]",
		Short: "Compute label placements as JSON",
		Long: `Compute label placements without drawing the plot.

The output is the JSON layout export: the dataset points with, for each
label, its anchor in figure coordinates, its size, and the offset the layout
moved it by, plus whether the layout settled. It is the same document as
'plot -f json'.

Label sizes depend on --font-size and the figure size, so pass the same
values you would plot with.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := ioArgs(args)
			return c.runPlot(cmd, &flags, input, output, render.FormatJSON)
		},
	}
	flags.register(cmd, false)

	return cmd
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hugojosefson/scatter-svg/pkg/dataset"
)

// detectCommand creates the detect command, which reports how an input
// would be parsed.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [input]",
		Short: "Show the detected format and column roles of a dataset",
		Long: `Show how a dataset would be read.

Prints the detected format and the number of points. For delimited text it
also prints the delimiter and which header columns were chosen for the
label, X and Y roles.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := ioArgs(args)
			return c.runDetect(cmd, input)
		},
	}
}

func (c *CLI) runDetect(cmd *cobra.Command, input string) error {
	content, err := readInput(cmd.Context(), cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	name := input
	if isStdio(name) {
		name = ""
	}

	format := dataset.Detect(name, dataset.Bytes(content))
	c.Logger.Debug("detected format", "source", displayInput(input), "format", format)

	printKeyValue("format", format.String())
	if format == dataset.FormatTabular {
		roles, err := dataset.Columns(name, content)
		if err != nil {
			return err
		}
		printKeyValue("delimiter", strconv.QuoteRune(dataset.Delimiter(name, content)))
		printKeyValue("label", columnRole(roles.Label, roles.LabelIndex))
		printKeyValue("x", columnRole(roles.X, roles.XIndex))
		printKeyValue("y", columnRole(roles.Y, roles.YIndex))
	}

	prog := newProgress(c.Logger)
	ds, err := dataset.Parse(name, format, content)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d points", ds.Len()))
	printKeyValue("points", strconv.Itoa(ds.Len()))
	return nil
}

// columnRole formats a resolved column with its 1-based position.
func columnRole(name string, index int) string {
	return fmt.Sprintf("%s (column %d)", name, index+1)
}

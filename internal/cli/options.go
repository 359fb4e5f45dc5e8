package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotforge/gplot/pkg/options"
)

// optionsCommand creates the command listing the option catalogues.
func (c *CLI) optionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "options [plot|curve]",
		Short:     "List the plot or curve option catalogue",
		ValidArgs: []string{"plot", "curve"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "plot"
			if len(args) == 1 {
				which = args[0]
			}
			sc := options.PlotSchema()
			if which == "curve" {
				sc = options.CurveSchema()
			}

			fmt.Println(StyleTitle.Render(which + " options"))
			printNewline()
			for _, name := range sc.Names() {
				doc, err := sc.Doc(name)
				if err != nil {
					return err
				}
				if doc == "" {
					doc = StyleDim.Render("(no description)")
				}
				fmt.Printf("  %-14s %s\n", StyleHighlight.Render(name), doc)
			}
			printNewline()
			printDetail("names may be abbreviated to any unique prefix")
			return nil
		},
	}
	return cmd
}

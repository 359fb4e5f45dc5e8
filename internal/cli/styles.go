package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotforge/gplot/pkg/styles"
)

// stylesCommand creates the command listing the supported drawing
// styles and their tuple arities.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List supported drawing styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Drawing styles"))
			printNewline()
			for _, s := range styles.All() {
				var notes []string
				if s.Image {
					notes = append(notes, "grid data")
				}
				if s.Binary {
					notes = append(notes, "binary only")
				}
				line := fmt.Sprintf("%-16s 2-D %-10s 3-D %-10s",
					s.Name, arityText(s.Arity2D), arityText(s.Arity3D))
				if len(notes) > 0 {
					line += "  " + StyleDim.Render(strings.Join(notes, ", "))
				}
				fmt.Println("  " + line)
			}
			printNewline()
			printDetail("n* marks arities that accept data without an explicit domain")
			return nil
		},
	}
}

// arityText renders an arity list; a negative catalogue entry means the
// style accepts implicit-domain data at that arity.
func arityText(arities []int) string {
	if len(arities) == 0 {
		return "-"
	}
	parts := make([]string, len(arities))
	for i, a := range arities {
		if a < 0 {
			parts[i] = strconv.Itoa(-a) + "*"
		} else {
			parts[i] = strconv.Itoa(a)
		}
	}
	return strings.Join(parts, ",")
}

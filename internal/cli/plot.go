package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotforge/gplot/pkg/cache"
	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/session"
	"github.com/plotforge/gplot/pkg/transfer"
)

// drawFlags holds the shared flags of the plot and splot commands.
type drawFlags struct {
	with     string
	legends  []string
	sets     []string
	terminal string
	output   string
	text     bool
	noCache  bool
}

func (f *drawFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.with, "with", "w", "", "drawing style (lines, points, image, ...)")
	cmd.Flags().StringSliceVarP(&f.legends, "legend", "l", nil, "curve legends, one per data file")
	cmd.Flags().StringArrayVarP(&f.sets, "set", "s", nil, "plot option as key=value (repeatable)")
	cmd.Flags().StringVarP(&f.terminal, "terminal", "t", "", "gnuplot terminal")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&f.text, "text", false, "prefer text data transfer over binary")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not record the draw for replot")
}

// plotCommand creates the 2-D plot command.
func (c *CLI) plotCommand() *cobra.Command {
	return c.drawCommand(false)
}

// splotCommand creates the 3-D plot command.
func (c *CLI) splotCommand() *cobra.Command {
	return c.drawCommand(true)
}

func (c *CLI) drawCommand(threeD bool) *cobra.Command {
	name, short := "plot", "Draw a 2-D plot from data files"
	if threeD {
		name, short = "splot", "Draw a 3-D plot from data files"
	}

	var f drawFlags
	cmd := &cobra.Command{
		Use:   name + " [flags] <datafile|-> ...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseSetFlags(f.sets)
			if err != nil {
				return err
			}
			if f.terminal != "" || f.output != "" {
				if opts == nil {
					opts = make(map[string]any)
				}
				if f.terminal != "" {
					opts["terminal"] = f.terminal
				}
				if f.output != "" {
					opts["output"] = f.output
				}
			}

			if len(f.legends) > len(args) {
				return fmt.Errorf("%d legends for %d data files", len(f.legends), len(args))
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			curves := make([]cache.Curve, 0, len(args))
			for i, path := range args {
				cols, err := readColumns(path)
				if err != nil {
					return err
				}
				curveOpts := make(map[string]any)
				if f.with != "" {
					curveOpts["with"] = f.with
				}
				if i < len(f.legends) {
					curveOpts["legend"] = f.legends[i]
				}
				curves = append(curves, cache.Curve{Options: curveOpts, Columns: cols})
			}
			prog.done(fmt.Sprintf("Read %d data file(s)", len(args)))

			draw := &cache.Draw{ThreeD: threeD, Options: opts, Curves: curves}
			return c.runDraw(cmd, draw, f.text, f.noCache, false)
		},
	}
	f.register(cmd)
	return cmd
}

// replotCommand creates the command repeating the recorded last draw.
func (c *CLI) replotCommand() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "replot [flags]",
		Short: "Repeat the last recorded draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore(false)
			draw, err := store.LoadLast(cmd.Context(), replayNamespace)
			if err != nil {
				return err
			}
			extra, err := parseSetFlags(sets)
			if err != nil {
				return err
			}
			if len(extra) > 0 {
				if draw.Options == nil {
					draw.Options = make(map[string]any)
				}
				for k, v := range extra {
					draw.Options[k] = v
				}
			}
			return c.runDraw(cmd, draw, false, false, true)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "plot option override as key=value (repeatable)")
	return cmd
}

// runDraw executes one recorded draw against a fresh session and, on
// success, records it for replot. replayed marks draws loaded from the
// replay store rather than built from fresh data files.
func (c *CLI) runDraw(cmd *cobra.Command, draw *cache.Draw, text, noCache, replayed bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Logger = logger
	if text {
		cfg.DefaultFormat = transfer.FormatText
	}
	// Interactive windows must outlive the one-shot CLI process.
	if draw.Options["output"] == nil {
		cfg.PersistWindow = true
	}

	s := session.New(cfg)
	defer s.Close()

	if len(draw.Options) > 0 {
		if err := s.SetOptions(draw.Options); err != nil {
			return err
		}
	}

	args := drawArgs(draw)
	sp := newSpinnerWithContext(ctx, "drawing")
	sp.Start()

	if draw.ThreeD {
		err = s.Splot(ctx, args...)
	} else {
		err = s.Plot(ctx, args...)
	}
	if err != nil {
		sp.Stop()
		printError("%s", errors.UserMessage(err))
		return err
	}
	sp.StopWithSuccess("draw complete")
	printStats(len(draw.Curves), drawPoints(draw), replayed)

	for _, w := range s.Warnings() {
		printWarning("%s", w)
	}
	if out, ok := draw.Options["output"].(string); ok && out != "" {
		printFile(out)
	}

	if !noCache {
		if err := newStore(false).SaveLast(ctx, replayNamespace, draw); err != nil {
			logger.Debug("recording draw failed", "err", err)
		} else {
			printNextStep("repeat with", "gplot replot")
		}
	}
	return nil
}

// drawPoints counts the data points of a recorded draw.
func drawPoints(d *cache.Draw) int {
	total := 0
	for _, curve := range d.Curves {
		if len(curve.Columns) > 0 {
			total += len(curve.Columns[0])
		}
	}
	return total
}

// drawArgs flattens a recorded draw into session arguments.
func drawArgs(d *cache.Draw) []any {
	var args []any
	for _, curve := range d.Curves {
		if len(curve.Options) > 0 {
			args = append(args, curve.Options)
		}
		for _, col := range curve.Columns {
			args = append(args, col)
		}
	}
	return args
}

// Package command compiles a rendered option preamble and chunker
// output into the draw command the gnuplot process reads: one
// comma-separated clause per chunk, each naming '-' as its inline data
// source, plus the minimal syntax-check variant used by the two-phase
// commit.
package command

import (
	"strings"

	"github.com/plotforge/gplot/pkg/chunk"
	"github.com/plotforge/gplot/pkg/options"
	"github.com/plotforge/gplot/pkg/transfer"
)

// Plan is one compiled draw call, ready for the session to execute.
type Plan struct {
	// Preamble holds the rendered plot-option lines sent before the
	// draw command.
	Preamble string

	// Draw is the real draw command line, without trailing newline.
	Draw string

	// Test is the structurally identical syntax-check variant: same
	// clauses, single-record data descriptors.
	Test string

	// Chunks are the broadcast single-curve chunks, in send order.
	Chunks []chunk.Chunk

	// Formats is the chosen transfer format per chunk.
	Formats []transfer.Format

	// Warnings collects non-fatal notes from chunking and format
	// selection.
	Warnings []string
}

// Compile renders plot options and builds the draw command for the
// chunker's output. threeD selects the splot grammar; sessionDefault
// is the session's preferred transfer format.
func Compile(plotOpts options.Set, res *chunk.Result, threeD bool, sessionDefault transfer.Format) (*Plan, error) {
	plan := &Plan{
		Preamble: options.Render(plotOpts, options.PlotSchema()),
		Chunks:   res.Chunks,
		Warnings: append([]string(nil), res.Warnings...),
	}

	verb := "plot "
	if threeD {
		verb = "splot "
	}

	timeAxes := options.TimeAxes(plotOpts)

	var real, test []string
	for i := range plan.Chunks {
		c := &plan.Chunks[i]
		format, warn := transfer.Choose(c, sessionDefault, timeAxes)
		if warn != "" {
			plan.Warnings = append(plan.Warnings, warn)
		}
		plan.Formats = append(plan.Formats, format)
		real = append(real, clause(c, transfer.Descriptor(c, format)))
		test = append(test, clause(c, transfer.ValidationDescriptor(c, format)))
	}

	ranges := inlineRanges(plan.Chunks)
	plan.Draw = verb + ranges + strings.Join(real, ", ")
	plan.Test = verb + ranges + strings.Join(test, ", ")
	return plan, nil
}

// clause renders one draw clause:
//
//	'-' [binary <format>] [using <cols>] [smooth <alg>]
//	    [title "<t>"|notitle] [with <style>] [axes <pair>]
func clause(c *chunk.Chunk, descriptor string) string {
	parts := []string{"'-'"}
	if descriptor != "" {
		parts = append(parts, descriptor)
	}

	if using, ok := c.Options["using"].([]any); ok && len(using) > 0 {
		spec := make([]string, len(using))
		for i, u := range using {
			spec[i] = options.FormatValue(u)
		}
		parts = append(parts, "using "+strings.Join(spec, ":"))
	}

	if smooth, ok := c.Options["smooth"].(string); ok && smooth != "" {
		parts = append(parts, "smooth "+smooth)
	}

	if legend, ok := c.Options["legend"].([]any); ok && len(legend) > 0 {
		if s, ok := legend[0].(string); ok {
			parts = append(parts, "title "+options.Quote(s))
		}
	} else {
		parts = append(parts, "notitle")
	}

	parts = append(parts, "with "+withSpec(c))

	if axes, ok := c.Options["axes"].(string); ok && axes != "" {
		parts = append(parts, "axes "+axes)
	}
	return strings.Join(parts, " ")
}

// withSpec renders the style name, its explicit modifiers, and the
// clause fragments implied by the arity-increasing options.
func withSpec(c *chunk.Chunk) string {
	parts := []string{c.Style.Name}
	if with, ok := c.Options["with"].([]any); ok && len(with) > 1 {
		for _, m := range with[1:] {
			parts = append(parts, options.FormatValue(m))
		}
	}
	if c.Options["varsize"] == true {
		parts = append(parts, "ps variable")
	}
	if c.Options["varcolor"] == true {
		parts = append(parts, "lc palette")
	}
	return strings.Join(parts, " ")
}

// inlineRanges renders the positional [low:high] specs of the first
// chunk's inline axis ranges. Missing leading axes render as [:] so
// later specs keep their position.
func inlineRanges(chunks []chunk.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	opts := chunks[0].Options
	axes := []string{"xrange", "yrange", "zrange"}
	last := -1
	for i, a := range axes {
		if _, ok := opts[a]; ok {
			last = i
		}
	}
	if last < 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i <= last; i++ {
		if v, ok := opts[axes[i]]; ok {
			b.WriteString(options.RangeText(v))
		} else {
			b.WriteString("[:]")
		}
		b.WriteByte(' ')
	}
	return b.String()
}

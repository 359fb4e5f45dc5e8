// Package chunk implements the argument chunker and broadcast engine:
// it walks a draw call's flat argument list, splits it into chunks of
// accumulated curve options plus aligned data columns, resolves each
// chunk's tuple arity from its drawing style, synthesizes implicit
// coordinate domains, broadcasts column shapes to a curve count, and
// splits threaded chunks into single-curve chunks.
package chunk

import (
	"fmt"
	"sort"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/options"
	"github.com/plotforge/gplot/pkg/shape"
	"github.com/plotforge/gplot/pkg/styles"
)

// Env carries the per-call context the chunker needs from the session.
type Env struct {
	ThreeD       bool
	DefaultStyle string // session default drawing style; empty means lines
}

// Chunk is one option-set-plus-data unit, post-split: exactly one
// curve for dimensionality 1, or one whole grid for dimensionality 2.
type Chunk struct {
	Options options.Set    // this curve's resolved option set
	Columns []shape.Column // aligned columns, one per tuple slot
	Style   *styles.Style
	Arity   int   // final column count
	CDim    int   // 1 per-point scalars, 2 whole grids
	Points  int   // records to transfer (product of point axes)
	Grid    []int // point-axis shape for CDim 2, [ny nx]
}

// HasStrings reports whether any column carries string data, which
// forces text transfer.
func (c *Chunk) HasStrings() bool {
	for _, col := range c.Columns {
		if col.IsString() {
			return true
		}
	}
	return false
}

// Result is the chunker's output: ordered single-curve chunks, the
// total curve count, and any non-fatal warnings raised on the way.
type Result struct {
	Chunks   []Chunk
	Curves   int
	Warnings []string
}

// rawChunk is a pre-broadcast chunk: accumulated options, optional
// per-curve option-set list, and the contiguous columns that follow.
type rawChunk struct {
	opts     options.Set
	curveSet []map[string]any // explicit per-curve option maps, if given
	cols     []shape.Column
}

// Split walks the argument list and produces broadcast, single-curve
// chunks. Arguments may be:
//
//   - map[string]any: curve options applied cumulatively
//   - []map[string]any: explicit per-curve option sets for the
//     following chunk's threaded curves
//   - a bare string followed by one value: a single key/value pair
//   - shape.Column, []float64, []int, []string, [][]float64: data
//     columns; a contiguous run forms one chunk
//
// Failures are the specification errors of the chunking rules:
// NO_DATA, INVALID_PLOT_STYLE, STYLE_NOT_SUPPORTED, ARITY_MISMATCH,
// THREAD_MISMATCH, LEGEND_COUNT_MISMATCH, TOO_MANY_OPTION_SETS.
func Split(args []any, env Env) (*Result, error) {
	raws, err := scan(args)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "draw call carries no data columns")
	}

	res := &Result{}
	for _, raw := range raws {
		if err := expand(raw, env, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// scan groups the flat argument list into raw chunks, applying option
// tokens cumulatively on the sticky carry-forward of the previous
// chunk's set.
func scan(args []any) ([]rawChunk, error) {
	sc := options.CurveSchema()
	set := options.NewSet()
	var raws []rawChunk
	cur := rawChunk{opts: set}
	sawData := false
	// pending tracks whether an option token arrived since the last
	// flush; the sticky carry-forward alone never makes a chunk.
	pending := false

	flush := func() {
		if len(cur.cols) > 0 {
			raws = append(raws, cur)
			next := options.CarryForward(cur.opts, sc)
			cur = rawChunk{opts: next}
			pending = false
		}
	}

	for i := 0; i < len(args); i++ {
		switch tok := args[i].(type) {
		case map[string]any:
			flush()
			if err := cur.opts.ApplyMap(sc, tok); err != nil {
				return nil, err
			}
			pending = true
		case []map[string]any:
			flush()
			cur.curveSet = tok
			pending = true
		case string:
			flush()
			if i+1 >= len(args) {
				return nil, errors.New(errors.ErrCodeInvalidOptionValue,
					"option %q has no value", tok)
			}
			if err := cur.opts.Apply(sc, tok, args[i+1]); err != nil {
				return nil, err
			}
			i++
			pending = true
		default:
			col, ok := toColumn(tok)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidOptionValue,
					"argument %d: unsupported type %T", i, tok)
			}
			cur.cols = append(cur.cols, col)
			sawData = true
		}
	}
	flush()

	if !sawData {
		return nil, errors.New(errors.ErrCodeNoData, "draw call carries no data columns")
	}
	if pending {
		return nil, errors.New(errors.ErrCodeNoData, "trailing options without data columns")
	}
	return raws, nil
}

func toColumn(v any) (shape.Column, bool) {
	switch c := v.(type) {
	case shape.Column:
		return c, true
	case []float64:
		return shape.Floats(c), true
	case []int:
		f := make([]float64, len(c))
		for i, n := range c {
			f[i] = float64(n)
		}
		return shape.Floats(f), true
	case []string:
		return shape.Strings(c), true
	case [][]float64:
		g, err := shape.Grid(c)
		if err != nil {
			return shape.Column{}, false
		}
		return g, true
	}
	return shape.Column{}, false
}

// expand resolves one raw chunk: style, arity, implicit domain,
// dimensionality, broadcasting, and curve splitting.
func expand(raw rawChunk, env Env, res *Result) error {
	style, err := resolveStyle(raw.opts, env)
	if err != nil {
		return err
	}

	cols := raw.cols
	// A plain image whose trailing axis holds 3 or 4 planes is really
	// color data; reinterpret as rgbimage/rgbalpha before arity rules.
	if style.Name == "image" && len(cols) > 0 {
		last := cols[len(cols)-1]
		if last.NDims() == 3 {
			switch last.TrailingSize() {
			case 3:
				style, _ = styles.Lookup("rgbimage")
			case 4:
				style, _ = styles.Lookup("rgbalpha")
			}
		}
	}
	if style.Prefilter != nil {
		cols = style.Prefilter(cols)
	}

	modifiers := countModifiers(raw.opts)
	cols, warn, err := matchArity(style, cols, modifiers, raw.opts, env)
	if err != nil {
		return err
	}
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
	}

	cdim := dimensionality(style, cols, raw.opts, env)

	// Point axes must agree exactly across columns.
	pointShape, err := pointAxes(cols, cdim)
	if err != nil {
		return err
	}
	points := 1
	for _, d := range pointShape {
		points *= d
	}

	threadShapes := make([][]int, len(cols))
	for i, c := range cols {
		threadShapes[i] = c.ThreadShape(cdim)
	}
	thread, err := shape.Broadcast(threadShapes...)
	if err != nil {
		return err
	}
	curves := shape.CurveCount(thread)

	if cdim == 2 {
		if curves > 1 {
			return errors.New(errors.ErrCodeThreadMismatch,
				"grid chunks cannot thread into %d curves; dimensionality-2 chunks are never split", curves)
		}
		sets, err := curveOptionSets(raw, 1)
		if err != nil {
			return err
		}
		res.Chunks = append(res.Chunks, Chunk{
			Options: sets[0],
			Columns: cols,
			Style:   style,
			Arity:   len(cols),
			CDim:    2,
			Points:  points,
			Grid:    pointShape,
		})
		res.Curves++
		return nil
	}

	sets, err := curveOptionSets(raw, curves)
	if err != nil {
		return err
	}
	for curve := 0; curve < curves; curve++ {
		sliced := make([]shape.Column, len(cols))
		for i, c := range cols {
			sliced[i] = c.CurveSlice(cdim, thread, curve)
		}
		res.Chunks = append(res.Chunks, Chunk{
			Options: sets[curve],
			Columns: sliced,
			Style:   style,
			Arity:   len(cols),
			CDim:    1,
			Points:  points,
		})
	}
	res.Curves += curves
	return nil
}

// resolveStyle picks the drawing style: explicit with-option, session
// default, else lines; then checks mode support.
func resolveStyle(set options.Set, env Env) (*styles.Style, error) {
	name := styles.DefaultName
	if env.DefaultStyle != "" {
		name = env.DefaultStyle
	}
	if with, ok := set["with"].([]any); ok && len(with) > 0 {
		if s, ok := with[0].(string); ok {
			name = s
		}
	}
	style, err := styles.Lookup(name)
	if err != nil {
		return nil, err
	}
	if env.ThreeD && !style.Supports3D() {
		return nil, errors.New(errors.ErrCodeStyleNotSupported,
			"style %q is not supported in 3-D mode", style.Name)
	}
	if !env.ThreeD && !style.Supports2D() {
		return nil, errors.New(errors.ErrCodeStyleNotSupported,
			"style %q is not supported in 2-D mode", style.Name)
	}
	return style, nil
}

// countModifiers counts the arity-increasing style modifiers in play.
func countModifiers(set options.Set) int {
	n := 0
	if set["varsize"] == true {
		n++
	}
	if set["varcolor"] == true {
		n++
	}
	return n
}

// matchArity validates the column count against the style's permitted
// arities, raised by the modifier count, and synthesizes implicit
// domains when the count is short by exactly the domain size. Returns
// the final columns and an optional warning for explicit overrides.
func matchArity(style *styles.Style, cols []shape.Column, modifiers int, set options.Set, env Env) ([]shape.Column, string, error) {
	n := len(cols)

	if ts, ok := set["tuplesize"].(float64); ok {
		want := int(ts)
		if n != want {
			return nil, "", errors.New(errors.ErrCodeArityMismatch,
				"explicit tuplesize %d but %d columns supplied", want, n)
		}
		for _, p := range style.PermittedCounts(env.ThreeD) {
			if p+modifiers == n {
				return cols, "", nil
			}
		}
		return cols, fmt.Sprintf("tuplesize %d overrides style %q catalogue", want, style.Name), nil
	}

	domain := 1
	if style.Image || env.ThreeD {
		domain = 2
	}

	var permitted []int
	for _, a := range style.Arities(env.ThreeD) {
		full := a
		if full < 0 {
			full = -full
		}
		full += modifiers
		permitted = append(permitted, full)

		if n == full {
			return cols, "", nil
		}
		if a < 0 && n == full-domain {
			synth, err := synthesizeDomain(style, cols, domain, env)
			if err != nil {
				return nil, "", err
			}
			return synth, "", nil
		}
	}
	sort.Ints(permitted)
	return nil, "", errors.New(errors.ErrCodeArityMismatch,
		"style %q permits %v columns (modifiers included), got %d", style.Name, permitted, n)
}

// synthesizeDomain prepends the implicit coordinate columns: a
// sequential integer domain when short by one, a two-axis index grid
// from the first column's leading dimensions when short by two.
func synthesizeDomain(style *styles.Style, cols []shape.Column, domain int, env Env) ([]shape.Column, error) {
	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "no columns to synthesize a domain for")
	}
	first := cols[0]
	if domain == 1 {
		out := make([]shape.Column, 0, len(cols)+1)
		out = append(out, shape.Sequence(first.Points()))
		return append(out, cols...), nil
	}
	dims := first.Shape()
	if len(dims) < 2 {
		return nil, errors.New(errors.ErrCodeArityMismatch,
			"style %q needs a two-axis grid to synthesize its domain, first column has shape %v",
			style.Name, dims)
	}
	x, y := shape.IndexGrid(dims[0], dims[1])
	out := make([]shape.Column, 0, len(cols)+2)
	out = append(out, x, y)
	return append(out, cols...), nil
}

// dimensionality decides whether columns are per-point scalars or
// whole grids: 2 for image-like styles, or in 3-D mode when columns
// carry two or more point dimensions, unless an explicit cdim
// overrides.
func dimensionality(style *styles.Style, cols []shape.Column, set options.Set, env Env) int {
	if v, ok := set["cdim"].(float64); ok {
		if int(v) == 2 {
			return 2
		}
		return 1
	}
	if style.Image {
		return 2
	}
	if env.ThreeD {
		for _, c := range cols {
			if c.NDims() >= 2 {
				return 2
			}
		}
	}
	return 1
}

// pointAxes checks the invariant that broadcast columns share an
// identical point-axis shape and returns it.
func pointAxes(cols []shape.Column, cdim int) ([]int, error) {
	var ref []int
	for i, c := range cols {
		dims := c.Shape()
		if len(dims) < cdim {
			return nil, errors.New(errors.ErrCodeThreadMismatch,
				"column %d has %d dimensions, needs at least %d point axes", i, len(dims), cdim)
		}
		p := dims[:cdim]
		if ref == nil {
			ref = p
			continue
		}
		for ax := range ref {
			if p[ax] != ref[ax] {
				return nil, errors.New(errors.ErrCodeThreadMismatch,
					"column %d point axis %d has length %d, want %d", i, ax, p[ax], ref[ax])
			}
		}
	}
	return ref, nil
}

// curveOptionSets expands a raw chunk's options into one set per
// curve: explicit per-curve maps win, then a legend list distributes,
// and missing sets copy the last one with its legend cleared.
func curveOptionSets(raw rawChunk, curves int) ([]options.Set, error) {
	sc := options.CurveSchema()

	if raw.curveSet != nil {
		if len(raw.curveSet) > curves {
			return nil, errors.New(errors.ErrCodeTooManyOptionSets,
				"%d per-curve option sets for %d curves", len(raw.curveSet), curves)
		}
		sets := make([]options.Set, curves)
		for i := 0; i < curves; i++ {
			base := raw.opts.Clone()
			src := raw.curveSet[min(i, len(raw.curveSet)-1)]
			if err := base.ApplyMap(sc, src); err != nil {
				return nil, err
			}
			if i >= len(raw.curveSet) {
				delete(base, "legend")
			}
			sets[i] = base
		}
		return sets, nil
	}

	legends, hasLegend := raw.opts["legend"].([]any)
	if hasLegend && len(legends) != curves {
		return nil, errors.New(errors.ErrCodeLegendCount,
			"%d legend entries for %d curves", len(legends), curves)
	}
	sets := make([]options.Set, curves)
	for i := 0; i < curves; i++ {
		s := raw.opts.Clone()
		if hasLegend {
			s["legend"] = []any{legends[i]}
		}
		sets[i] = s
	}
	return sets, nil
}

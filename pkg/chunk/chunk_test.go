package chunk

import (
	"reflect"
	"strings"
	"testing"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/shape"
)

func floats(c shape.Column) []float64 { return c.Floats() }

func TestSingleChunkExplicitDomain(t *testing.T) {
	// draw(style=lines, x=[0,1,2,3], y=[0,1,4,9]): one chunk, arity 2,
	// no implicit domain, 4 records.
	res, err := Split([]any{
		map[string]any{"with": "lines"},
		[]float64{0, 1, 2, 3},
		[]float64{0, 1, 4, 9},
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) != 1 || res.Curves != 1 {
		t.Fatalf("chunks = %d curves = %d, want 1/1", len(res.Chunks), res.Curves)
	}
	c := res.Chunks[0]
	if c.Arity != 2 {
		t.Errorf("Arity = %d, want 2", c.Arity)
	}
	if c.Points != 4 {
		t.Errorf("Points = %d, want 4", c.Points)
	}
	if !reflect.DeepEqual(floats(c.Columns[0]), []float64{0, 1, 2, 3}) {
		t.Errorf("x column = %v, want original domain", floats(c.Columns[0]))
	}
}

func TestImplicitDomainSynthesis(t *testing.T) {
	// draw(style=lines, y=[5,3,4,4]): implicit domain [0,1,2,3], arity 2.
	res, err := Split([]any{[]float64{5, 3, 4, 4}}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c := res.Chunks[0]
	if c.Arity != 2 {
		t.Fatalf("Arity = %d, want 2", c.Arity)
	}
	if !reflect.DeepEqual(floats(c.Columns[0]), []float64{0, 1, 2, 3}) {
		t.Errorf("synthesized domain = %v, want [0 1 2 3]", floats(c.Columns[0]))
	}
	if !reflect.DeepEqual(floats(c.Columns[1]), []float64{5, 3, 4, 4}) {
		t.Errorf("data column = %v", floats(c.Columns[1]))
	}
}

func TestCirclesArity(t *testing.T) {
	n := []float64{1, 2, 3}

	// x,y,r accepted with arity 3.
	res, err := Split([]any{map[string]any{"with": "circles"}, n, n, n}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunks[0].Arity != 3 {
		t.Errorf("Arity = %d, want 3", res.Chunks[0].Arity)
	}

	// x,y alone fails, naming the permitted arity set {3}.
	_, err = Split([]any{map[string]any{"with": "circles"}, n, n}, Env{})
	if err == nil {
		t.Fatal("circles with 2 columns accepted, want ARITY_MISMATCH")
	}
	if !errors.Is(err, errors.ErrCodeArityMismatch) {
		t.Fatalf("error code = %v, want ARITY_MISMATCH", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "[3]") {
		t.Errorf("error %q does not name permitted arities [3]", err.Error())
	}
}

func TestThreadedSplit(t *testing.T) {
	// Shapes (N) and (N,3) yield 3 single-curve chunks, each sliced.
	x := []float64{0, 1, 2, 3}
	y, err := shape.New([]int{4, 3}, []float64{
		10, 20, 30,
		11, 21, 31,
		12, 22, 32,
		13, 23, 33,
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Split([]any{
		map[string]any{"legend": []any{"a", "b", "c"}},
		x, y,
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Curves != 3 || len(res.Chunks) != 3 {
		t.Fatalf("curves = %d chunks = %d, want 3/3", res.Curves, len(res.Chunks))
	}
	wantY := [][]float64{{10, 11, 12, 13}, {20, 21, 22, 23}, {30, 31, 32, 33}}
	wantLegend := []string{"a", "b", "c"}
	for i, c := range res.Chunks {
		if !reflect.DeepEqual(floats(c.Columns[1]), wantY[i]) {
			t.Errorf("chunk %d y = %v, want %v", i, floats(c.Columns[1]), wantY[i])
		}
		leg, _ := c.Options["legend"].([]any)
		if len(leg) != 1 || leg[0] != wantLegend[i] {
			t.Errorf("chunk %d legend = %v, want %q", i, leg, wantLegend[i])
		}
	}
}

func TestLegendCountMismatch(t *testing.T) {
	y, _ := shape.New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	_, err := Split([]any{
		map[string]any{"legend": []any{"only one"}},
		[]float64{0, 1}, y,
	}, Env{})
	if err == nil {
		t.Fatal("1 legend for 3 curves accepted")
	}
	if !errors.Is(err, errors.ErrCodeLegendCount) {
		t.Errorf("error code = %v, want LEGEND_COUNT_MISMATCH", errors.GetCode(err))
	}
}

func TestPerCurveOptionSets(t *testing.T) {
	y, _ := shape.New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	// Too many explicit sets fails.
	_, err := Split([]any{
		[]map[string]any{{}, {}, {}, {}},
		[]float64{0, 1}, y,
	}, Env{})
	if err == nil {
		t.Fatal("4 option sets for 3 curves accepted")
	}
	if !errors.Is(err, errors.ErrCodeTooManyOptionSets) {
		t.Errorf("error code = %v, want TOO_MANY_OPTION_SETS", errors.GetCode(err))
	}

	// Fewer sets pad by copying the last with legend cleared.
	res, err := Split([]any{
		[]map[string]any{
			{"legend": "first", "axes": "x1y1"},
			{"legend": "second", "axes": "x2y1"},
		},
		[]float64{0, 1}, y,
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Curves != 3 {
		t.Fatalf("curves = %d, want 3", res.Curves)
	}
	third := res.Chunks[2].Options
	if _, hasLegend := third["legend"]; hasLegend {
		t.Error("padded curve kept a legend, want cleared")
	}
	if third["axes"] != "x2y1" {
		t.Errorf("padded curve axes = %v, want copy of last set", third["axes"])
	}
}

func TestThreadMismatch(t *testing.T) {
	a, _ := shape.New([]int{4, 2}, make([]float64, 8))
	b, _ := shape.New([]int{4, 3}, make([]float64, 12))
	_, err := Split([]any{a, b}, Env{})
	if err == nil {
		t.Fatal("incompatible thread shapes accepted")
	}
	if !errors.Is(err, errors.ErrCodeThreadMismatch) {
		t.Errorf("error code = %v, want THREAD_MISMATCH", errors.GetCode(err))
	}
}

func TestNoData(t *testing.T) {
	for _, args := range [][]any{
		{},
		{map[string]any{"with": "lines"}},
	} {
		_, err := Split(args, Env{})
		if err == nil {
			t.Fatal("dataless call accepted")
		}
		if !errors.Is(err, errors.ErrCodeNoData) {
			t.Errorf("error code = %v, want NO_DATA", errors.GetCode(err))
		}
	}
}

func TestLeadingStickyOptionsAccepted(t *testing.T) {
	// A sticky option before the columns must not read as trailing
	// options after the final chunk flushes.
	n := []float64{1, 2, 3}
	res, err := Split([]any{
		map[string]any{"with": "lines"},
		n, n,
	}, Env{})
	if err != nil {
		t.Fatalf("sticky option before data rejected: %v", err)
	}
	if len(res.Chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(res.Chunks))
	}
}

func TestTrailingOptionsRejected(t *testing.T) {
	n := []float64{1, 2, 3}
	for name, tail := range map[string]any{
		"option map": map[string]any{"legend": "late"},
		"option set": []map[string]any{{"axes": "x1y1"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Split([]any{n, n, tail}, Env{})
			if err == nil {
				t.Fatal("trailing options without data accepted")
			}
			if !errors.Is(err, errors.ErrCodeNoData) {
				t.Errorf("error code = %v, want NO_DATA", errors.GetCode(err))
			}
		})
	}
}

func TestInvalidStyleAndModeSupport(t *testing.T) {
	n := []float64{1, 2}

	_, err := Split([]any{map[string]any{"with": "sparkles"}, n, n}, Env{})
	if !errors.Is(err, errors.ErrCodeInvalidPlotStyle) {
		t.Errorf("error code = %v, want INVALID_PLOT_STYLE", errors.GetCode(err))
	}

	_, err = Split([]any{map[string]any{"with": "steps"}, n, n, n}, Env{ThreeD: true})
	if !errors.Is(err, errors.ErrCodeStyleNotSupported) {
		t.Errorf("error code = %v, want STYLE_NOT_SUPPORTED", errors.GetCode(err))
	}
}

func TestGridChunk(t *testing.T) {
	grid, _ := shape.Grid([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	res, err := Split([]any{map[string]any{"with": "image"}, grid}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c := res.Chunks[0]
	if c.CDim != 2 {
		t.Fatalf("CDim = %d, want 2", c.CDim)
	}
	if c.Arity != 3 {
		t.Errorf("Arity = %d, want 3 after index-grid synthesis", c.Arity)
	}
	if !reflect.DeepEqual(c.Grid, []int{2, 3}) {
		t.Errorf("Grid = %v, want [2 3]", c.Grid)
	}
	if c.Points != 6 {
		t.Errorf("Points = %d, want 6", c.Points)
	}
	// Synthesized x index runs 0..2 within each row.
	if !reflect.DeepEqual(floats(c.Columns[0])[:3], []float64{0, 1, 2}) {
		t.Errorf("x index grid = %v", floats(c.Columns[0]))
	}
}

func TestImageReinterpretedAsRGB(t *testing.T) {
	cube, err := shape.New([]int{2, 2, 3}, []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Split([]any{map[string]any{"with": "image"}, cube}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c := res.Chunks[0]
	if c.Style.Name != "rgbimage" {
		t.Errorf("style = %q, want rgbimage", c.Style.Name)
	}
	// x,y index grids + 3 unbundled planes.
	if c.Arity != 5 {
		t.Errorf("Arity = %d, want 5", c.Arity)
	}
}

func TestVarsizeModifierRaisesArity(t *testing.T) {
	n := []float64{1, 2, 3}

	// points + varsize expects one extra column: x,y,size.
	res, err := Split([]any{
		map[string]any{"with": "points", "varsize": true},
		n, n, n,
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunks[0].Arity != 3 {
		t.Errorf("Arity = %d, want 3", res.Chunks[0].Arity)
	}

	// Without the extra column the same call fails.
	_, err = Split([]any{
		map[string]any{"with": "points", "varsize": true},
		n,
	}, Env{})
	if !errors.Is(err, errors.ErrCodeArityMismatch) {
		t.Errorf("error code = %v, want ARITY_MISMATCH", errors.GetCode(err))
	}
}

func TestTupleSizeOverrideWarns(t *testing.T) {
	n := []float64{1, 2, 3}
	res, err := Split([]any{
		map[string]any{"with": "lines", "tuplesize": 4},
		n, n, n, n,
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one override warning", res.Warnings)
	}
	if res.Chunks[0].Arity != 4 {
		t.Errorf("Arity = %d, want 4", res.Chunks[0].Arity)
	}
}

func TestStickyCarryForwardBetweenChunks(t *testing.T) {
	n := []float64{1, 2}
	res, err := Split([]any{
		map[string]any{"with": "points", "legend": "first"},
		n, n,
		map[string]any{"legend": "second"},
		n, n,
	}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(res.Chunks))
	}
	second := res.Chunks[1]
	// with sticks, legend was replaced per chunk.
	if with, _ := second.Options["with"].([]any); len(with) == 0 || with[0] != "points" {
		t.Errorf("second chunk with = %v, want carried points", second.Options["with"])
	}
	leg, _ := second.Options["legend"].([]any)
	if len(leg) != 1 || leg[0] != "second" {
		t.Errorf("second chunk legend = %v, want [second]", leg)
	}
}

func TestSplotGridIn3D(t *testing.T) {
	z, _ := shape.Grid([][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	res, err := Split([]any{z}, Env{ThreeD: true})
	if err != nil {
		t.Fatal(err)
	}
	c := res.Chunks[0]
	if c.CDim != 2 {
		t.Fatalf("CDim = %d, want 2 for gridded 3-D data", c.CDim)
	}
	if c.Arity != 3 {
		t.Errorf("Arity = %d, want 3 after two-axis synthesis", c.Arity)
	}
}

// Package styles holds the static catalogue of gnuplot drawing styles
// and their tuple arity rules. Descriptors are read-only; the chunker
// consults them to resolve how many aligned data columns a call must
// supply and whether implicit domains may be synthesized.
package styles

import (
	"sort"
	"strings"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/shape"
)

// Style describes one drawing style. Arity entries are permitted
// column counts; a negative entry permits the style's implicit-domain
// synthesis at |entry| columns (short by one in 2-D, short by two for
// grids), in addition to the exact count.
type Style struct {
	Name    string
	Arity2D []int // permitted tuple arities in 2-D mode; nil means unsupported
	Arity3D []int // permitted tuple arities in 3-D mode; nil means unsupported
	Image   bool  // grid-image style; columns carry whole grids
	Binary  bool  // transfer format forced to binary

	// Prefilter reorganizes columns before arity matching. The image
	// styles use it to unbundle trailing RGB/RGBA planes.
	Prefilter func(cols []shape.Column) []shape.Column
}

// Supports2D reports whether the style may be used in 2-D mode.
func (s *Style) Supports2D() bool { return len(s.Arity2D) > 0 }

// Supports3D reports whether the style may be used in 3-D mode.
func (s *Style) Supports3D() bool { return len(s.Arity3D) > 0 }

// Arities returns the permitted arities for the given mode.
func (s *Style) Arities(threeD bool) []int {
	if threeD {
		return s.Arity3D
	}
	return s.Arity2D
}

// PermittedCounts lists the positive column counts the style accepts
// in a mode, including the implicit-domain reduced counts, sorted.
func (s *Style) PermittedCounts(threeD bool) []int {
	domain := 1
	if s.Image || threeD {
		domain = 2
	}
	seen := map[int]bool{}
	for _, a := range s.Arities(threeD) {
		if a < 0 {
			seen[-a] = true
			seen[-a-domain] = true
		} else {
			seen[a] = true
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		if c > 0 {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

var catalogue = buildCatalogue()

func buildCatalogue() map[string]*Style {
	list := []Style{
		{Name: "lines", Arity2D: []int{-2}, Arity3D: []int{-3}},
		{Name: "points", Arity2D: []int{-2}, Arity3D: []int{-3}},
		{Name: "linespoints", Arity2D: []int{-2}, Arity3D: []int{-3}},
		{Name: "dots", Arity2D: []int{-2}, Arity3D: []int{-3}},
		{Name: "impulses", Arity2D: []int{-2}, Arity3D: []int{-3}},
		{Name: "steps", Arity2D: []int{-2}},
		{Name: "fsteps", Arity2D: []int{-2}},
		{Name: "histeps", Arity2D: []int{-2}},
		{Name: "boxes", Arity2D: []int{-2, 3}},
		{Name: "filledcurves", Arity2D: []int{-2, 3}},
		{Name: "histograms", Arity2D: []int{-1, 2}},
		{Name: "errorbars", Arity2D: []int{3, 4}},
		{Name: "xerrorbars", Arity2D: []int{3, 4}},
		{Name: "yerrorbars", Arity2D: []int{3, 4}},
		{Name: "xyerrorbars", Arity2D: []int{4, 6}},
		{Name: "errorlines", Arity2D: []int{3, 4}},
		{Name: "xerrorlines", Arity2D: []int{3, 4}},
		{Name: "yerrorlines", Arity2D: []int{3, 4}},
		{Name: "xyerrorlines", Arity2D: []int{4, 6}},
		{Name: "boxerrorbars", Arity2D: []int{3, 4, 5}},
		{Name: "boxxyerrorbars", Arity2D: []int{4, 6}},
		{Name: "financebars", Arity2D: []int{5}},
		{Name: "candlesticks", Arity2D: []int{5}},
		{Name: "circles", Arity2D: []int{3}},
		{Name: "ellipses", Arity2D: []int{3, 4, 5}},
		{Name: "vectors", Arity2D: []int{4}, Arity3D: []int{6}},
		{Name: "labels", Arity2D: []int{3}, Arity3D: []int{4}},
		{Name: "fillsteps", Arity2D: []int{-2}},
		{Name: "boxplot", Arity2D: []int{2, 3, 4}},
		{Name: "pm3d", Arity3D: []int{-3}},
		{Name: "image", Arity2D: []int{-3}, Arity3D: []int{-4}, Image: true, Binary: true},
		{Name: "rgbimage", Arity2D: []int{-5}, Arity3D: []int{-6}, Image: true, Binary: true,
			Prefilter: unbundleColorPlanes},
		{Name: "rgbalpha", Arity2D: []int{-6}, Arity3D: []int{-7}, Image: true, Binary: true,
			Prefilter: unbundleColorPlanes},
	}
	m := make(map[string]*Style, len(list))
	for i := range list {
		m[list[i].Name] = &list[i]
	}
	return m
}

// unbundleColorPlanes splits a final column whose trailing axis has
// size 3 or 4 into separate R,G,B[,A] columns, so a bundled image cube
// reads as the columns gnuplot expects.
func unbundleColorPlanes(cols []shape.Column) []shape.Column {
	if len(cols) == 0 {
		return cols
	}
	last := cols[len(cols)-1]
	if n := last.TrailingSize(); n == 3 || n == 4 {
		out := make([]shape.Column, 0, len(cols)+n-1)
		out = append(out, cols[:len(cols)-1]...)
		out = append(out, last.SplitTrailing()...)
		return out
	}
	return cols
}

// Lookup resolves a style name after case and plural normalization.
// Fails with INVALID_PLOT_STYLE when no catalogue entry matches.
func Lookup(name string) (*Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if s, ok := catalogue[n]; ok {
		return s, nil
	}
	// Singular/plural tolerance: "line" for "lines", "histogramss"
	// never happens, but "histogram" does.
	if s, ok := catalogue[n+"s"]; ok {
		return s, nil
	}
	if strings.HasSuffix(n, "s") {
		if s, ok := catalogue[strings.TrimSuffix(n, "s")]; ok {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidPlotStyle,
		"unrecognized plot style %q; see All() for the catalogue", name)
}

// All returns the catalogue sorted by name.
func All() []*Style {
	out := make([]*Style, 0, len(catalogue))
	for _, s := range catalogue {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultName is the drawing style used when neither the call nor the
// session names one.
const DefaultName = "lines"

package options

import (
	"github.com/plotforge/gplot/pkg/errors"
)

var curveSchema = NewSchema(curveDescriptors())

// CurveSchema returns the per-curve option catalogue: options that
// shape one draw clause rather than the preamble. Everything except
// legend and the inline axis ranges is sticky, carrying forward
// between chunks within a single call.
func CurveSchema() *Schema { return curveSchema }

func curveDescriptors() []Descriptor {
	d := []Descriptor{
		{Name: "with", Kind: KindList, Sort: 0, Sticky: true,
			Doc: "drawing style and its modifiers (with lines lw 2)"},
		{Name: "legend", Kind: KindCustom, Sort: 1, Sticky: false,
			Normalize: normalizeLegend,
			Doc:       "curve legend text; a list labels one curve per thread slot"},
		{Name: "axes", Kind: KindString, Sort: 2, Sticky: true,
			Doc: "axis pair the curve is plotted against (x1y1, x2y1, ...)"},
		{Name: "tuplesize", Kind: KindNumber, Sort: 3, Sticky: true,
			Doc: "explicit tuple arity override; accepts off-catalogue arities with a warning"},
		{Name: "using", Kind: KindList, Sort: 4, Sticky: true,
			Doc: "column selection spec passed through to the using clause"},
		{Name: "smooth", Kind: KindString, Sort: 5, Sticky: true,
			Doc: "smoothing algorithm (csplines, bezier, ...)"},
		{Name: "binary", Kind: KindBool, Sort: 6, Sticky: true,
			Doc: "per-chunk transfer format override: true forces binary, false forces text"},
		{Name: "varsize", Kind: KindCustom, Sort: 7, Sticky: true,
			Normalize: normalizeModifier,
			Doc:       "variable point size; expects one extra data column per point"},
		{Name: "varcolor", Kind: KindCustom, Sort: 8, Sticky: true,
			Normalize: normalizeModifier,
			Doc:       "per-point palette color; expects one extra data column per point"},
		{Name: "cdim", Kind: KindNumber, Sort: 9, Sticky: true,
			Doc: "explicit column dimensionality override (1 curve, 2 grid)"},
	}
	for _, axis := range []string{"x", "y", "z"} {
		d = append(d, Descriptor{
			Name: axis + "range", Kind: KindCustom, Sort: 10, Sticky: false,
			Normalize: normalizeRange, Render: renderRange,
			Doc: "inline axis range emitted on the draw command itself",
		})
	}
	return d
}

// normalizeLegend keeps legends as a list of strings, one per curve.
// A scalar labels a single curve; nil clears the legend.
func normalizeLegend(d *Descriptor, raw any, set Set) (Patch, error) {
	switch raw.(type) {
	case nil:
		return Patch{d.Name: Undef}, nil
	case undef:
		return Patch{d.Name: Undef}, nil
	}
	items := wrapList(raw)
	out := make([]any, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, badValue(d, raw, "legend strings")
		}
		out[i] = s
	}
	return Patch{d.Name: out}, nil
}

// normalizeModifier handles the arity-increasing style modifiers.
// They are plain booleans, except that combining them with a grid or
// image style is rejected: image data carries no per-point extra
// columns.
func normalizeModifier(d *Descriptor, raw any, set Set) (Patch, error) {
	v, err := normalizeBool(d.Name, raw)
	if err != nil {
		return nil, err
	}
	if v == true {
		if with, ok := set["with"].([]any); ok && len(with) > 0 {
			if s, ok := with[0].(string); ok && isImageStyleName(s) {
				return nil, errors.New(errors.ErrCodeConflictingOptions,
					"%s cannot be combined with image style %q", d.Name, s)
			}
		}
	}
	return Patch{d.Name: v}, nil
}

// isImageStyleName matches the grid-image styles without importing the
// style catalogue, which sits above this package.
func isImageStyleName(s string) bool {
	switch s {
	case "image", "rgbimage", "rgbalpha":
		return true
	}
	return false
}

// Sticky reports whether the canonical option carries forward between
// chunks of one call.
func Sticky(sc *Schema, canonical string) bool {
	d := sc.Lookup(canonical)
	return d != nil && d.Sticky
}

// CarryForward copies the sticky subset of a chunk-level set into a
// fresh set for the next chunk.
func CarryForward(set Set, sc *Schema) Set {
	out := NewSet()
	for k, v := range set {
		if Sticky(sc, k) {
			out[k] = v
		}
	}
	return out.Clone()
}

package options

import (
	"sort"
	"strings"

	"github.com/plotforge/gplot/pkg/errors"
)

// Emission order bands for the plot catalogue. Terminal setup must
// precede everything that depends on the active device; ranges come
// late so logscale is in effect when they are parsed.
const (
	sortDevice = iota
	sortTerminal
	sortOutput
	sortMode
	sortData
	sortAppearance
	sortStyle
	sortRange
	sortAnnotation
)

var plotSchema = NewSchema(plotDescriptors())

// PlotSchema returns the session/plot option catalogue: the options
// rendered as the preamble of every draw command.
func PlotSchema() *Schema { return plotSchema }

func plotDescriptors() []Descriptor {
	d := []Descriptor{
		{Name: "device", Kind: KindCustom, Sort: sortDevice, Sticky: true,
			Normalize: normalizeDevice,
			Doc:       `convenience spec "<file>/<terminal>"; fans out into terminal and output`},
		{Name: "terminal", Kind: KindList, Sort: sortTerminal, Sticky: true,
			Doc: "output device type and its settings (set terminal ...)"},
		{Name: "output", Kind: KindString, Sort: sortOutput, After: []string{"terminal"}, Sticky: true,
			Doc: "output file for file-producing terminals; must follow terminal"},
		{Name: "multiplot", Kind: KindList, Sort: sortMode, After: []string{"output"}, Sticky: true,
			Doc: "multiplot layout mode"},

		{Name: "timefmt", Kind: KindString, Sort: sortData, Sticky: true,
			Doc: "format for reading time-formatted axis data"},
		{Name: "format", Kind: KindMap, Sort: sortData, Sticky: true,
			Render: renderFormat,
			Doc:    "per-axis tic label format; assigning false for an axis deletes its entry"},

		{Name: "polar", Kind: KindBool, Sort: sortMode, Sticky: true, Doc: "polar coordinate mode"},
		{Name: "parametric", Kind: KindBool, Sort: sortMode, Sticky: true, Doc: "parametric mode"},
		{Name: "hidden3d", Kind: KindList, Sort: sortMode, Sticky: true, Doc: "hidden-line removal for surfaces"},
		{Name: "surface", Kind: KindBool, Sort: sortMode, Sticky: true, Doc: "draw 3-D surfaces"},
		{Name: "mapping", Kind: KindString, Sort: sortMode, Sticky: true, Doc: "3-D coordinate mapping (cartesian/spherical/cylindrical)"},
		{Name: "view", Kind: KindList, Sort: sortMode, Sticky: true, Doc: "3-D viewing angles"},
		{Name: "dgrid3d", Kind: KindList, Sort: sortMode, Sticky: true, Doc: "grid interpolation of scattered 3-D data"},

		{Name: "title", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "plot title"},
		{Name: "xlabel", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "x axis label"},
		{Name: "ylabel", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "y axis label"},
		{Name: "zlabel", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "z axis label"},
		{Name: "cblabel", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "colorbar label"},
		{Name: "x2label", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "secondary x axis label"},
		{Name: "y2label", Kind: KindString, Sort: sortAppearance, Sticky: true, Doc: "secondary y axis label"},
		{Name: "grid", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "background grid"},
		{Name: "key", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "legend box placement"},
		{Name: "border", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "plot border"},
		{Name: "tics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "tic mark defaults"},
		{Name: "xtics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "x axis tics"},
		{Name: "ytics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "y axis tics"},
		{Name: "ztics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "z axis tics"},
		{Name: "mxtics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "minor x tics"},
		{Name: "mytics", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "minor y tics"},
		{Name: "colorbox", Kind: KindBool, Sort: sortAppearance, Sticky: true, Doc: "palette colorbox"},
		{Name: "palette", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "pm3d color palette"},
		{Name: "pm3d", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "pm3d surface shading"},
		{Name: "clip", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "point clipping"},
		{Name: "samples", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "function sampling rate"},
		{Name: "isosamples", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "iso line sampling rate"},
		{Name: "size", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "plot size and aspect"},
		{Name: "origin", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "plot origin within the canvas"},
		{Name: "boxwidth", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "default box width"},
		{Name: "bars", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "errorbar tick size"},
		{Name: "pointsize", Kind: KindNumber, Sort: sortAppearance, Sticky: true, Doc: "default point size"},
		{Name: "contour", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "contour drawing"},
		{Name: "cntrparam", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "contour parameters"},
		{Name: "logscale", Kind: KindList, Sort: sortAppearance, Sticky: true, Doc: "logarithmic axes"},

		{Name: "style", Kind: KindCumulative, Sort: sortStyle, Sticky: true,
			Doc: "style settings; accumulates one set line per item, undef clears"},
		{Name: "globalwith", Kind: KindList, Sort: sortStyle, Sticky: true,
			Render: renderNothing,
			Doc:    "session default drawing style for curves without an explicit with"},

		{Name: "label", Kind: KindIndexed, Sort: sortAnnotation, Sticky: false,
			Doc: "positioned text label; label3 addresses slot 3, bare label auto-increments"},
		{Name: "arrow", Kind: KindIndexed, Sort: sortAnnotation, Sticky: false,
			Doc: "positioned arrow; index-addressed like label"},
		{Name: "object", Kind: KindIndexed, Sort: sortAnnotation, Sticky: false,
			Doc: "positioned object; index-addressed like label"},
	}

	for _, axis := range []string{"x", "y", "z", "x2", "y2", "r", "t", "u", "v", "cb"} {
		d = append(d, Descriptor{
			Name: axis + "range", Kind: KindCustom, Sort: sortRange,
			After: []string{"logscale"}, Sticky: false,
			Normalize: normalizeRange, Render: renderRange,
			Doc: "axis range [low:high]; * keeps autoscale for that bound",
		})
	}
	for _, axis := range []string{"x", "y", "z", "x2", "y2", "cb"} {
		d = append(d, Descriptor{
			Name: axis + "data", Kind: KindString, Sort: sortData,
			After: []string{"timefmt"}, Sticky: true,
			Doc: `axis data class; "time" switches the axis to time parsing`,
		})
	}
	return d
}

// renderNothing suppresses set lines for options that only steer the
// driver itself.
func renderNothing(d *Descriptor, value any, set Set) []string { return nil }

// normalizeDevice fans the convenience "<file>/<terminal>" spec into
// the lower-level terminal and output options.
func normalizeDevice(d *Descriptor, raw any, set Set) (Patch, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, badValue(d, raw, `a "<file>/<terminal>" or "<terminal>" string`)
	}
	slash := strings.LastIndex(s, "/")
	if slash < 0 {
		return Patch{"terminal": []any{s}}, nil
	}
	file, term := s[:slash], s[slash+1:]
	if term == "" {
		return nil, badValue(d, raw, "a terminal name after the slash")
	}
	if file == "" {
		return Patch{"terminal": []any{term}}, nil
	}
	if out, present := set["output"]; present {
		return nil, errors.New(errors.ErrCodeConflictingOptions,
			"device names output file %q but output is already %v; set only one", file, out)
	}
	return Patch{"terminal": []any{term}, "output": file}, nil
}

// normalizeRange parses an axis range from a 2..3 element list or the
// textual "[low:high]" form. Bounds are numbers or "*" (autoscale).
func normalizeRange(d *Descriptor, raw any, set Set) (Patch, error) {
	switch v := raw.(type) {
	case nil:
		return Patch{d.Name: Absent}, nil
	case undef:
		return Patch{d.Name: Undef}, nil
	case string:
		text := strings.TrimSpace(v)
		text = strings.TrimPrefix(text, "[")
		text = strings.TrimSuffix(text, "]")
		parts := strings.Split(text, ":")
		if len(parts) != 2 {
			return nil, badValue(d, raw, `a "[low:high]" range`)
		}
		bounds := make([]any, 2)
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if p == "*" || p == "" {
				bounds[i] = "*"
				continue
			}
			f, ok := toFloat(p)
			if !ok {
				return nil, badValue(d, raw, "numeric or * bounds")
			}
			bounds[i] = f
		}
		return Patch{d.Name: bounds}, nil
	}

	items := wrapList(raw)
	if len(items) != 2 {
		return nil, badValue(d, raw, "two bounds")
	}
	bounds := make([]any, 2)
	for i, it := range items {
		if s, ok := it.(string); ok && (s == "*" || s == "") {
			bounds[i] = "*"
			continue
		}
		f, ok := toFloat(it)
		if !ok {
			return nil, badValue(d, raw, "numeric or * bounds")
		}
		bounds[i] = f
	}
	return Patch{d.Name: bounds}, nil
}

// renderRange emits "set xrange [low:high]".
func renderRange(d *Descriptor, value any, set Set) []string {
	bounds, ok := value.([]any)
	if !ok || len(bounds) != 2 {
		return nil
	}
	return []string{"set " + d.Name + " [" + FormatValue(bounds[0]) + ":" + FormatValue(bounds[1]) + "]"}
}

// renderFormat emits one "set format <axis> \"<fmt>\"" line per axis,
// in sorted axis order.
func renderFormat(d *Descriptor, value any, set Set) []string {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	axes := make([]string, 0, len(m))
	for k := range m {
		axes = append(axes, k)
	}
	sort.Strings(axes)
	lines := make([]string, 0, len(axes))
	for _, axis := range axes {
		lines = append(lines, "set format "+axis+" "+Quote(stringify(m[axis])))
	}
	return lines
}

// RangeText renders just the "[low:high]" spec of a normalized range
// value, for inline use on a draw command.
func RangeText(value any) string {
	bounds, ok := value.([]any)
	if !ok || len(bounds) != 2 {
		return ""
	}
	return "[" + FormatValue(bounds[0]) + ":" + FormatValue(bounds[1]) + "]"
}

// TimeAxes reports whether any axis of the set is time-formatted:
// either an axis data class is "time" or a timefmt is configured.
// Time-formatted axes force text transfer; the renderer's time parsing
// is unreliable over binary records.
func TimeAxes(set Set) bool {
	for _, axis := range []string{"x", "y", "z", "x2", "y2", "cb"} {
		if v, ok := set[axis+"data"].(string); ok && strings.HasPrefix(v, "time") {
			return true
		}
	}
	if _, ok := set["timefmt"].(string); ok {
		return true
	}
	return false
}

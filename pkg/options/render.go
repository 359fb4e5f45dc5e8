package options

import (
	"sort"
	"strconv"
	"strings"
)

// Render turns a normalized set into command text: one "set <name> ..."
// or "unset <name>" line per option, ordered by the schema's sort
// indices with must-follow splicing applied. Absent values render
// nothing. The result ends with a newline unless empty.
func Render(set Set, sc *Schema) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if sc.Lookup(k) != nil {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := sc.Lookup(keys[i]), sc.Lookup(keys[j])
		if di.Sort != dj.Sort {
			return di.Sort < dj.Sort
		}
		return keys[i] < keys[j]
	})
	keys = spliceAfter(keys, sc)

	var b strings.Builder
	for _, k := range keys {
		d := sc.Lookup(k)
		for _, line := range renderValue(d, set[k], set) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// spliceAfter moves each key with must-follow constraints to sit after
// the last occurrence of any name in its After set. Bounded passes, so
// contradictory catalogues cannot loop; catalogues are static and kept
// consistent.
func spliceAfter(keys []string, sc *Schema) []string {
	for pass := 0; pass < len(keys); pass++ {
		moved := false
		for i, k := range keys {
			after := sc.Lookup(k).After
			if len(after) == 0 {
				continue
			}
			last := -1
			for j, other := range keys {
				if other == k {
					continue
				}
				for _, a := range after {
					if other == a && j > last {
						last = j
					}
				}
			}
			if last > i {
				// Move k to directly follow its latest dependency.
				cp := make([]string, 0, len(keys))
				cp = append(cp, keys[:i]...)
				cp = append(cp, keys[i+1:last+1]...)
				cp = append(cp, k)
				cp = append(cp, keys[last+1:]...)
				keys = cp
				moved = true
				break
			}
		}
		if !moved {
			break
		}
	}
	return keys
}

// renderValue renders one option's value into command lines.
func renderValue(d *Descriptor, value any, set Set) []string {
	if _, isAbsent := value.(absent); isAbsent {
		return nil
	}
	if d.Render != nil {
		return d.Render(d, value, set)
	}

	switch d.Kind {
	case KindBool:
		if value == true {
			return []string{"set " + d.Name}
		}
		return []string{"unset " + d.Name}

	case KindNumber:
		return []string{"set " + d.Name + " " + FormatValue(value)}

	case KindString:
		return []string{"set " + d.Name + " " + Quote(value.(string))}

	case KindList, KindCustom:
		return renderList(d.Name, value)

	case KindCumulative:
		items, _ := value.([]any)
		lines := make([]string, 0, len(items))
		for _, it := range items {
			lines = append(lines, "set "+d.Name+" "+FormatValue(it))
		}
		return lines

	case KindMap:
		m, _ := value.(map[string]any)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := []string{"set", d.Name}
		for _, k := range keys {
			parts = append(parts, k)
			if m[k] != true {
				parts = append(parts, FormatValue(m[k]))
			}
		}
		return []string{strings.Join(parts, " ")}

	case KindIndexed:
		slots, _ := value.(map[int]any)
		idx := make([]int, 0, len(slots))
		for i := range slots {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		lines := make([]string, 0, len(idx))
		for _, i := range idx {
			v := slots[i]
			if _, isAbsent := v.(absent); isAbsent {
				lines = append(lines, "unset "+d.Name+" "+strconv.Itoa(i))
				continue
			}
			parts := []string{"set", d.Name, strconv.Itoa(i)}
			for _, it := range v.([]any) {
				parts = append(parts, FormatValue(it))
			}
			lines = append(lines, strings.Join(parts, " "))
		}
		return lines
	}
	return nil
}

func renderList(name string, value any) []string {
	switch v := value.(type) {
	case bool:
		if v {
			return []string{"set " + name}
		}
		return []string{"unset " + name}
	case []any:
		parts := []string{"set", name}
		for _, it := range v {
			parts = append(parts, FormatValue(it))
		}
		return []string{strings.Join(parts, " ")}
	}
	return nil
}

// FormatValue renders one scalar the way gnuplot reads it back:
// floats in shortest round-trip form, strings verbatim.
func FormatValue(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	}
	return strings.TrimSpace(strings.ReplaceAll(stringify(v), "\n", " "))
}

// Quote wraps a string in double quotes, escaping embedded quotes and
// stripping newlines, which the process would read as command
// boundaries.
func Quote(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

package options

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/plotforge/gplot/pkg/errors"
)

// Set maps canonical option names to normalized values. Sets never
// contain unresolved abbreviations; Apply resolves names before
// storing anything.
type Set map[string]any

// NewSet returns an empty option set.
func NewSet() Set { return make(Set) }

// Clone returns a copy of the set deep enough that mutating the copy
// never leaks into the original. Lists, maps, and indexed slots are
// copied; element values are immutable.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		switch val := v.(type) {
		case []any:
			cp := make([]any, len(val))
			copy(cp, val)
			out[k] = cp
		case map[string]any:
			cp := make(map[string]any, len(val))
			for mk, mv := range val {
				cp[mk] = mv
			}
			out[k] = cp
		case map[int]any:
			cp := make(map[int]any, len(val))
			for ik, iv := range val {
				cp[ik] = iv
			}
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}

// Apply resolves name against the schema, normalizes raw for the
// resolved descriptor, and applies the resulting patch atomically.
// Nothing is stored if normalization fails.
func (s Set) Apply(sc *Schema, name string, raw any) error {
	canonical, index, hasIndex, err := sc.Resolve(name)
	if err != nil {
		return err
	}
	d := sc.Lookup(canonical)
	patch, err := normalizeValue(d, index, hasIndex, raw, s)
	if err != nil {
		return err
	}
	s.applyPatch(patch)
	return nil
}

// ApplyMap applies every entry of opts in sorted key order, so a
// single map application is deterministic.
func (s Set) ApplyMap(sc *Schema, opts map[string]any) error {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Apply(sc, k, opts[k]); err != nil {
			return err
		}
	}
	return nil
}

// applyPatch writes a normalized patch into the set. An Undef value
// deletes the key.
func (s Set) applyPatch(p Patch) {
	for k, v := range p {
		if _, isUndef := v.(undef); isUndef {
			delete(s, k)
			continue
		}
		s[k] = v
	}
}

// normalizeValue dispatches on the descriptor's kind. The returned
// patch usually assigns only the option itself; custom normalizers may
// patch several keys at once.
func normalizeValue(d *Descriptor, index int, hasIndex bool, raw any, s Set) (Patch, error) {
	if d.Normalize != nil {
		return d.Normalize(d, raw, s)
	}

	switch d.Kind {
	case KindBool:
		v, err := normalizeBool(d.Name, raw)
		if err != nil {
			return nil, err
		}
		return Patch{d.Name: v}, nil

	case KindNumber:
		f, ok := toFloat(raw)
		if !ok {
			return nil, badValue(d, raw, "a number")
		}
		return Patch{d.Name: f}, nil

	case KindString:
		if raw == nil {
			return Patch{d.Name: Absent}, nil
		}
		if _, isUndef := raw.(undef); isUndef {
			return Patch{d.Name: Undef}, nil
		}
		return Patch{d.Name: stringify(raw)}, nil

	case KindList:
		v, err := normalizeList(d, raw)
		if err != nil {
			return nil, err
		}
		return Patch{d.Name: v}, nil

	case KindCumulative:
		if isUndefValue(raw) {
			return Patch{d.Name: Undef}, nil
		}
		existing, _ := s[d.Name].([]any)
		items := wrapList(raw)
		merged := make([]any, 0, len(existing)+len(items))
		merged = append(merged, existing...)
		merged = append(merged, items...)
		return Patch{d.Name: merged}, nil

	case KindMap:
		if isUndefValue(raw) {
			return Patch{d.Name: Undef}, nil
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, badValue(d, raw, "a string-keyed map")
		}
		merged := make(map[string]any)
		if existing, ok := s[d.Name].(map[string]any); ok {
			for k, v := range existing {
				merged[k] = v
			}
		}
		// Deterministic merge order, so later deletes win consistently.
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := m[k]
			if v == nil || v == false {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		return Patch{d.Name: merged}, nil

	case KindIndexed:
		slots := make(map[int]any)
		if existing, ok := s[d.Name].(map[int]any); ok {
			for k, v := range existing {
				slots[k] = v
			}
		}
		slot := index
		if !hasIndex {
			slot = 1
			for k := range slots {
				if k >= slot {
					slot = k + 1
				}
			}
		}
		if isUndefValue(raw) {
			if hasIndex {
				delete(slots, slot)
				return Patch{d.Name: slots}, nil
			}
			return Patch{d.Name: Undef}, nil
		}
		slots[slot] = wrapList(raw)
		return Patch{d.Name: slots}, nil

	case KindCustom:
		return nil, errors.New(errors.ErrCodeInternal,
			"custom option %q has no normalizer", d.Name)
	}

	return nil, errors.New(errors.ErrCodeInternal, "unhandled kind %v for %q", d.Kind, d.Name)
}

func normalizeBool(name string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return Absent, nil
	case absent:
		return Absent, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		switch v {
		case "on", "true", "yes", "1":
			return true, nil
		case "off", "false", "no", "0":
			return false, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidOptionValue,
		"option %q wants a boolean, got %v", name, raw)
}

func normalizeList(d *Descriptor, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return Absent, nil
	case absent:
		return Absent, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	}
	return wrapList(raw), nil
}

// wrapList wraps scalars into a one-element list and converts typed
// slices to []any.
func wrapList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		cp := make([]any, len(v))
		copy(cp, v)
		return cp
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out
	default:
		return []any{raw}
	}
}

func isUndefValue(raw any) bool {
	if raw == nil {
		return false
	}
	if _, ok := raw.(undef); ok {
		return true
	}
	if s, ok := raw.(string); ok && s == "undef" {
		return true
	}
	return false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(raw)
	}
}

func badValue(d *Descriptor, raw any, want string) error {
	return errors.New(errors.ErrCodeInvalidOptionValue,
		"option %q wants %s, got %T(%v)", d.Name, want, raw, raw)
}

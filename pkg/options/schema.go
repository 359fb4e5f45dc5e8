package options

import (
	"sort"
	"strconv"
	"strings"

	"github.com/plotforge/gplot/pkg/errors"
)

// Patch is the atomic result of normalizing one option: a set of
// canonical-name to normalized-value assignments applied together.
// Most options patch only themselves; custom options may fan out into
// several lower-level keys. A value of Undef deletes the key.
type Patch map[string]any

// NormalizeFunc turns a raw caller value into a Patch. It receives the
// full current set read-only so it can reject incompatible
// combinations with CONFLICTING_OPTIONS.
type NormalizeFunc func(d *Descriptor, raw any, set Set) (Patch, error)

// RenderFunc renders one normalized value into zero or more command
// lines. It is a pure function of name, value, and the full set.
type RenderFunc func(d *Descriptor, value any, set Set) []string

// Descriptor describes one option. Descriptors are immutable and
// shared schema-wide.
type Descriptor struct {
	Name string // canonical name, lower case
	Kind Kind

	// Sort is the primary emission order index; ties break by name.
	Sort int

	// After lists options this one must be emitted after, when both
	// are present. The renderer splices the option to follow the last
	// occurrence of any listed name.
	After []string

	// Sticky controls whether a chunk-level value carries forward to
	// the next chunk within one call. Legend/label options are not
	// sticky.
	Sticky bool

	// Doc is a one-line description surfaced by introspection.
	Doc string

	// Normalize and Render override the kind's default behavior.
	// Normalize is required for KindCustom.
	Normalize NormalizeFunc
	Render    RenderFunc
}

// Schema is a registry of descriptors with an abbreviation table
// built once at construction.
type Schema struct {
	byName map[string]*Descriptor
	names  []string // sorted canonical names
}

// NewSchema builds a schema from descriptors. Names must be unique;
// duplicates panic since catalogues are static program data.
func NewSchema(descs []Descriptor) *Schema {
	s := &Schema{byName: make(map[string]*Descriptor, len(descs))}
	for i := range descs {
		d := &descs[i]
		if _, dup := s.byName[d.Name]; dup {
			panic("options: duplicate descriptor " + d.Name)
		}
		s.byName[d.Name] = d
		s.names = append(s.names, d.Name)
	}
	sort.Strings(s.names)
	return s
}

// Lookup returns the descriptor for a canonical name, or nil.
func (s *Schema) Lookup(canonical string) *Descriptor {
	return s.byName[canonical]
}

// Names returns all canonical names in sorted order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Doc returns the documentation line for a possibly-abbreviated name.
func (s *Schema) Doc(name string) (string, error) {
	canonical, _, _, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	return s.byName[canonical].Doc, nil
}

// Resolve maps a possibly-abbreviated, possibly index-suffixed option
// name to its canonical form. Trailing digits are taken as an index
// only when the stem resolves to an index-addressed option; otherwise
// the digits are re-validated as part of the name. Resolve is
// idempotent on canonical names.
//
// Failures: UNKNOWN_OPTION when no prefix matches, AMBIGUOUS_OPTION
// (listing the candidates) when several do.
func (s *Schema) Resolve(name string) (canonical string, index int, hasIndex bool, err error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", 0, false, errors.New(errors.ErrCodeUnknownOption, "empty option name")
	}

	stem := strings.TrimRight(n, "0123456789")
	if stem != n && stem != "" {
		if canon, merr := s.match(stem); merr == nil && s.byName[canon].Kind == KindIndexed {
			idx, _ := strconv.Atoi(n[len(stem):])
			return canon, idx, true, nil
		}
	}

	canonical, err = s.match(n)
	return canonical, 0, false, err
}

// match resolves an exact or unique-prefix name.
func (s *Schema) match(n string) (string, error) {
	if _, ok := s.byName[n]; ok {
		return n, nil
	}
	var hits []string
	for _, name := range s.names {
		if strings.HasPrefix(name, n) {
			hits = append(hits, name)
		}
	}
	switch len(hits) {
	case 0:
		return "", errors.New(errors.ErrCodeUnknownOption, "no option matches %q", n)
	case 1:
		return hits[0], nil
	default:
		return "", errors.New(errors.ErrCodeAmbiguousOption,
			"option %q is ambiguous between %s", n, strings.Join(hits, ", "))
	}
}

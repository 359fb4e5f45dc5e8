package options

// Kind selects the normalize and render behavior of an option. The
// enum is closed; every switch over Kind in this package is
// exhaustive.
type Kind int

const (
	// KindBool is tri-state: true renders "set <name>", false renders
	// "unset <name>", Absent renders nothing.
	KindBool Kind = iota

	// KindNumber holds a single float64.
	KindNumber

	// KindString holds a single string, rendered quoted.
	KindString

	// KindList holds a single-line list. Scalars are wrapped, lists
	// pass through, 0/false means "off", a bare nonzero integer means
	// "on".
	KindList

	// KindCumulative appends items across applications; assigning
	// Undef clears the accumulated list.
	KindCumulative

	// KindMap merges string-keyed entries; a false value deletes the
	// key.
	KindMap

	// KindIndexed addresses numeric slots (e.g. "label2"); assignment
	// without an index auto-increments past the highest used slot.
	KindIndexed

	// KindCustom delegates to the descriptor's Normalize/Render
	// functions.
	KindCustom
)

// String returns the kind's name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCumulative:
		return "cumulative"
	case KindMap:
		return "map"
	case KindIndexed:
		return "indexed"
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

// absent is the type of the Absent sentinel.
type absent struct{}

// Absent is the explicit "present but renders empty" value. Assigning
// it keeps the key in the set while suppressing all output for it.
var Absent = absent{}

// undef is the type of the Undef sentinel.
type undef struct{}

// Undef clears an option entirely: cumulative lists drop their
// accumulated items and the key is removed from the set.
var Undef = undef{}

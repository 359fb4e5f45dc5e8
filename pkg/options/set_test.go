package options

import (
	"reflect"
	"testing"

	"github.com/plotforge/gplot/pkg/errors"
)

func TestApplyKinds(t *testing.T) {
	sc := PlotSchema()

	tests := []struct {
		name  string
		apply func(s Set) error
		key   string
		want  any
	}{
		{
			name:  "bool true",
			apply: func(s Set) error { return s.Apply(sc, "polar", true) },
			key:   "polar",
			want:  true,
		},
		{
			name:  "bool from int zero",
			apply: func(s Set) error { return s.Apply(sc, "polar", 0) },
			key:   "polar",
			want:  false,
		},
		{
			name:  "bool tri-state absent",
			apply: func(s Set) error { return s.Apply(sc, "polar", nil) },
			key:   "polar",
			want:  Absent,
		},
		{
			name:  "number coerces string",
			apply: func(s Set) error { return s.Apply(sc, "pointsize", "2.5") },
			key:   "pointsize",
			want:  2.5,
		},
		{
			name:  "string",
			apply: func(s Set) error { return s.Apply(sc, "xlabel", "time") },
			key:   "xlabel",
			want:  "time",
		},
		{
			name:  "list wraps scalar",
			apply: func(s Set) error { return s.Apply(sc, "grid", "xtics") },
			key:   "grid",
			want:  []any{"xtics"},
		},
		{
			name:  "list passes list",
			apply: func(s Set) error { return s.Apply(sc, "terminal", []any{"png", "size", "640,480"}) },
			key:   "terminal",
			want:  []any{"png", "size", "640,480"},
		},
		{
			name:  "list bare nonzero int means on",
			apply: func(s Set) error { return s.Apply(sc, "grid", 1) },
			key:   "grid",
			want:  true,
		},
		{
			name:  "list zero means off",
			apply: func(s Set) error { return s.Apply(sc, "grid", 0) },
			key:   "grid",
			want:  false,
		},
		{
			name: "cumulative appends",
			apply: func(s Set) error {
				if err := s.Apply(sc, "style", "data histogram"); err != nil {
					return err
				}
				return s.Apply(sc, "style", "fill solid")
			},
			key:  "style",
			want: []any{"data histogram", "fill solid"},
		},
		{
			name: "map merges and false deletes",
			apply: func(s Set) error {
				if err := s.Apply(sc, "format", map[string]any{"x": "%g", "y": "%.2f"}); err != nil {
					return err
				}
				return s.Apply(sc, "format", map[string]any{"y": false, "z": "%e"})
			},
			key:  "format",
			want: map[string]any{"x": "%g", "z": "%e"},
		},
		{
			name:  "range from list",
			apply: func(s Set) error { return s.Apply(sc, "xrange", []float64{0, 5}) },
			key:   "xrange",
			want:  []any{0.0, 5.0},
		},
		{
			name:  "range from text",
			apply: func(s Set) error { return s.Apply(sc, "xrange", "[0:5]") },
			key:   "xrange",
			want:  []any{0.0, 5.0},
		},
		{
			name:  "range autoscale bound",
			apply: func(s Set) error { return s.Apply(sc, "yrange", "[*:10]") },
			key:   "yrange",
			want:  []any{"*", 10.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			if err := tt.apply(s); err != nil {
				t.Fatalf("apply error = %v", err)
			}
			if got := s[tt.key]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("set[%q] = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestCumulativeUndefClears(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()
	if err := s.Apply(sc, "style", "data histogram"); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(sc, "style", Undef); err != nil {
		t.Fatal(err)
	}
	if _, present := s["style"]; present {
		t.Error("style still present after Undef, want cleared")
	}
}

func TestIndexedSlots(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()

	// Explicit slot.
	if err := s.Apply(sc, "label2", []any{`"two"`, "at", "1,1"}); err != nil {
		t.Fatal(err)
	}
	// Auto-increment past the highest used slot.
	if err := s.Apply(sc, "label", []any{`"three"`}); err != nil {
		t.Fatal(err)
	}
	slots, ok := s["label"].(map[int]any)
	if !ok {
		t.Fatalf("label value is %T, want map[int]any", s["label"])
	}
	if _, ok := slots[2]; !ok {
		t.Error("slot 2 missing")
	}
	if _, ok := slots[3]; !ok {
		t.Errorf("auto-increment slot 3 missing, have %v", slots)
	}

	// Overwrite an existing slot.
	if err := s.Apply(sc, "label2", []any{`"replaced"`}); err != nil {
		t.Fatal(err)
	}
	slots = s["label"].(map[int]any)
	if got := slots[2].([]any)[0]; got != `"replaced"` {
		t.Errorf("slot 2 = %v, want replaced", got)
	}
}

func TestDeviceFanOut(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()
	if err := s.Apply(sc, "device", "out.png/png"); err != nil {
		t.Fatal(err)
	}
	if got := s["terminal"]; !reflect.DeepEqual(got, []any{"png"}) {
		t.Errorf("terminal = %#v, want [png]", got)
	}
	if got := s["output"]; got != "out.png" {
		t.Errorf("output = %#v, want out.png", got)
	}
	if _, present := s["device"]; present {
		t.Error("device key stored; the convenience option must fan out only")
	}
}

func TestDeviceConflictsWithOutput(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()
	if err := s.Apply(sc, "output", "a.png"); err != nil {
		t.Fatal(err)
	}
	err := s.Apply(sc, "device", "b.png/png")
	if err == nil {
		t.Fatal("device over explicit output accepted, want CONFLICTING_OPTIONS")
	}
	if !errors.Is(err, errors.ErrCodeConflictingOptions) {
		t.Errorf("error code = %v, want CONFLICTING_OPTIONS", errors.GetCode(err))
	}
	// Failed normalization must not have touched the set.
	if s["output"] != "a.png" {
		t.Errorf("output = %v, want untouched a.png", s["output"])
	}
	if _, present := s["terminal"]; present {
		t.Error("terminal set by failed device application, want no partial patch")
	}
}

func TestCloneIsolation(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()
	if err := s.Apply(sc, "terminal", []any{"png"}); err != nil {
		t.Fatal(err)
	}
	cp := s.Clone()
	if err := cp.Apply(sc, "terminal", []any{"svg"}); err != nil {
		t.Fatal(err)
	}
	if got := s["terminal"].([]any)[0]; got != "png" {
		t.Errorf("original mutated through clone: terminal = %v", got)
	}
}

func TestApplyUnknownLeavesSetUntouched(t *testing.T) {
	sc := PlotSchema()
	s := NewSet()
	if err := s.Apply(sc, "nosuchoption", 1); err == nil {
		t.Fatal("unknown option accepted")
	}
	if len(s) != 0 {
		t.Errorf("set has %d entries after failed apply, want 0", len(s))
	}
}

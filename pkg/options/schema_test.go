package options

import (
	"strings"
	"testing"

	"github.com/plotforge/gplot/pkg/errors"
)

func TestResolve(t *testing.T) {
	sc := PlotSchema()

	tests := []struct {
		name      string
		input     string
		want      string
		wantIndex int
		hasIndex  bool
		wantCode  errors.Code
	}{
		{name: "canonical", input: "xlabel", want: "xlabel"},
		{name: "unique prefix", input: "xlab", want: "xlabel"},
		{name: "case folded", input: "XLabel", want: "xlabel"},
		{name: "indexed with slot", input: "label3", want: "label", wantIndex: 3, hasIndex: true},
		{name: "indexed without slot", input: "label", want: "label"},
		{name: "digits belong to name", input: "x2label", want: "x2label"},
		{name: "digits revalidated as name", input: "pm3", want: "pm3d"},
		{name: "ambiguous", input: "x", wantCode: errors.ErrCodeAmbiguousOption},
		{name: "unknown", input: "zzz", wantCode: errors.ErrCodeUnknownOption},
		{name: "empty", input: "", wantCode: errors.ErrCodeUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, idx, hasIdx, err := sc.Resolve(tt.input)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("Resolve(%q) error = nil, want %s", tt.input, tt.wantCode)
				}
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if got != tt.want || idx != tt.wantIndex || hasIdx != tt.hasIndex {
				t.Errorf("Resolve(%q) = (%q, %d, %v), want (%q, %d, %v)",
					tt.input, got, idx, hasIdx, tt.want, tt.wantIndex, tt.hasIndex)
			}
		})
	}
}

func TestResolveIdempotentOnCanonical(t *testing.T) {
	sc := PlotSchema()
	for _, name := range sc.Names() {
		got, _, hasIdx, err := sc.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", name, err)
			continue
		}
		if got != name || hasIdx {
			t.Errorf("Resolve(%q) = (%q, hasIndex=%v), want identity", name, got, hasIdx)
		}
	}
}

func TestAmbiguousListsCandidates(t *testing.T) {
	sc := CurveSchema()
	_, _, _, err := sc.Resolve("var")
	if err == nil {
		t.Fatal("Resolve(var) error = nil, want AMBIGUOUS_OPTION")
	}
	msg := err.Error()
	for _, want := range []string{"varsize", "varcolor"} {
		if !strings.Contains(msg, want) {
			t.Errorf("ambiguity message %q does not name candidate %q", msg, want)
		}
	}
}

func TestDoc(t *testing.T) {
	sc := PlotSchema()
	doc, err := sc.Doc("xlab")
	if err != nil {
		t.Fatalf("Doc() error = %v", err)
	}
	if doc == "" {
		t.Error("Doc() returned empty documentation for xlabel")
	}
}

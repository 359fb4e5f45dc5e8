package styles

import (
	"reflect"
	"testing"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/shape"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "exact", input: "lines", want: "lines"},
		{name: "case folded", input: "Lines", want: "lines"},
		{name: "singular tolerated", input: "line", want: "lines"},
		{name: "plural tolerated", input: "boxplots", want: "boxplot"},
		{name: "histogram singular", input: "histogram", want: "histograms"},
		{name: "unknown", input: "sparkles", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Lookup(%q) error = nil, want INVALID_PLOT_STYLE", tt.input)
				}
				if !errors.Is(err, errors.ErrCodeInvalidPlotStyle) {
					t.Errorf("error code = %v, want INVALID_PLOT_STYLE", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.input, err)
			}
			if s.Name != tt.want {
				t.Errorf("Lookup(%q).Name = %q, want %q", tt.input, s.Name, tt.want)
			}
		})
	}
}

func TestPermittedCounts(t *testing.T) {
	tests := []struct {
		style  string
		threeD bool
		want   []int
	}{
		{style: "lines", threeD: false, want: []int{1, 2}},
		{style: "lines", threeD: true, want: []int{1, 3}},
		{style: "circles", threeD: false, want: []int{3}},
		{style: "image", threeD: false, want: []int{1, 3}},
		{style: "boxes", threeD: false, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		s, err := Lookup(tt.style)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.PermittedCounts(tt.threeD); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s (threeD=%v) PermittedCounts = %v, want %v", tt.style, tt.threeD, got, tt.want)
		}
	}
}

func TestModeSupport(t *testing.T) {
	steps, _ := Lookup("steps")
	if steps.Supports3D() {
		t.Error("steps reports 3-D support")
	}
	pm3d, _ := Lookup("pm3d")
	if pm3d.Supports2D() {
		t.Error("pm3d reports 2-D support")
	}
}

func TestUnbundleColorPlanes(t *testing.T) {
	cube, err := shape.New([]int{2, 2, 3}, []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	if err != nil {
		t.Fatal(err)
	}
	rgb, _ := Lookup("rgbimage")
	cols := rgb.Prefilter([]shape.Column{cube})
	if len(cols) != 3 {
		t.Fatalf("prefilter produced %d columns, want 3", len(cols))
	}
	for i, c := range cols {
		if !reflect.DeepEqual(c.Shape(), []int{2, 2}) {
			t.Errorf("plane %d shape = %v, want [2 2]", i, c.Shape())
		}
	}

	// Columns without a 3/4-wide trailing axis pass through untouched.
	plain := shape.Floats([]float64{1, 2, 3})
	if got := rgb.Prefilter([]shape.Column{plain}); len(got) != 1 {
		t.Errorf("prefilter split a plain column into %d", len(got))
	}
}

func TestAllSorted(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("empty catalogue")
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("catalogue not sorted at %q", all[i].Name)
		}
	}
}

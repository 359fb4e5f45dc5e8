// Package shape provides the column data type handed to plotting calls
// and the size-1-or-equal broadcasting ("threading") rules used to
// decide how many independent curves a set of columns describes.
//
// A Column is an n-dimensional array stored flat in row-major order.
// The leading axis (or the two leading axes for grid data) indexes
// points; every axis beyond the point axes is a thread axis. Columns
// whose thread shapes are compatible under broadcasting describe one
// curve per element of the combined thread shape.
package shape

import (
	"fmt"

	"github.com/plotforge/gplot/pkg/errors"
)

// Column is an immutable n-dimensional data column. A column holds
// either float64 or string elements; string columns are limited to a
// single dimension and force text transfer downstream.
type Column struct {
	dims []int
	f    []float64
	s    []string
}

// Floats builds a one-dimensional numeric column.
func Floats(v []float64) Column {
	return Column{dims: []int{len(v)}, f: v}
}

// Strings builds a one-dimensional string column.
func Strings(v []string) Column {
	return Column{dims: []int{len(v)}, s: v}
}

// New builds a numeric column with the given shape over flat row-major
// data. The product of dims must equal len(data).
func New(dims []int, data []float64) (Column, error) {
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return Column{}, errors.New(errors.ErrCodeInternal, "column dimension must be positive, got %d", d)
		}
		n *= d
	}
	if n != len(data) {
		return Column{}, errors.New(errors.ErrCodeInternal,
			"shape %v wants %d elements, data has %d", dims, n, len(data))
	}
	d := make([]int, len(dims))
	copy(d, dims)
	return Column{dims: d, f: data}, nil
}

// Grid builds a two-dimensional numeric column from rows. All rows
// must have equal length; dims become [len(rows), len(rows[0])].
func Grid(rows [][]float64) (Column, error) {
	if len(rows) == 0 {
		return Column{}, errors.New(errors.ErrCodeInternal, "grid column needs at least one row")
	}
	w := len(rows[0])
	flat := make([]float64, 0, len(rows)*w)
	for i, r := range rows {
		if len(r) != w {
			return Column{}, errors.New(errors.ErrCodeInternal,
				"grid row %d has length %d, want %d", i, len(r), w)
		}
		flat = append(flat, r...)
	}
	return Column{dims: []int{len(rows), w}, f: flat}, nil
}

// Sequence returns the integer domain 0..n-1 as a numeric column.
func Sequence(n int) Column {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i)
	}
	return Floats(v)
}

// IndexGrid synthesizes the two-axis index domain for an ny-by-nx grid.
// The first returned column holds the fast (x) index, the second the
// slow (y) index, both shaped [ny, nx].
func IndexGrid(ny, nx int) (Column, Column) {
	x := make([]float64, ny*nx)
	y := make([]float64, ny*nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			x[i*nx+j] = float64(j)
			y[i*nx+j] = float64(i)
		}
	}
	return Column{dims: []int{ny, nx}, f: x}, Column{dims: []int{ny, nx}, f: y}
}

// Shape returns a copy of the column's dimensions.
func (c Column) Shape() []int {
	d := make([]int, len(c.dims))
	copy(d, c.dims)
	return d
}

// NDims returns the number of dimensions.
func (c Column) NDims() int { return len(c.dims) }

// Points returns the size of the leading (point) axis.
func (c Column) Points() int {
	if len(c.dims) == 0 {
		return 0
	}
	return c.dims[0]
}

// Size returns the total element count.
func (c Column) Size() int {
	n := 1
	for _, d := range c.dims {
		n *= d
	}
	return n
}

// IsString reports whether the column holds string elements.
func (c Column) IsString() bool { return c.s != nil }

// Float returns the element at flat row-major index i.
func (c Column) Float(i int) float64 { return c.f[i] }

// String returns the string element at flat index i.
func (c Column) String(i int) string { return c.s[i] }

// Floats returns the backing numeric slice. Callers must not modify it.
func (c Column) Floats() []float64 { return c.f }

// ThreadShape returns the column's shape beyond the first pointAxes
// axes. A column with no thread axes returns an empty shape.
func (c Column) ThreadShape(pointAxes int) []int {
	if len(c.dims) <= pointAxes {
		return nil
	}
	t := make([]int, len(c.dims)-pointAxes)
	copy(t, c.dims[pointAxes:])
	return t
}

// TrailingSize returns the size of the last axis, or 0 for
// one-dimensional columns. Used to detect bundled RGB/RGBA planes.
func (c Column) TrailingSize() int {
	if len(c.dims) < 2 {
		return 0
	}
	return c.dims[len(c.dims)-1]
}

// SplitTrailing unbundles the last axis into separate columns, one per
// slot. A column shaped [N, k] yields k columns shaped [N].
func (c Column) SplitTrailing() []Column {
	k := c.dims[len(c.dims)-1]
	lead := c.dims[:len(c.dims)-1]
	n := 1
	for _, d := range lead {
		n *= d
	}
	out := make([]Column, k)
	for s := 0; s < k; s++ {
		v := make([]float64, n)
		for i := 0; i < n; i++ {
			v[i] = c.f[i*k+s]
		}
		dims := make([]int, len(lead))
		copy(dims, lead)
		out[s] = Column{dims: dims, f: v}
	}
	return out
}

// Broadcast combines thread shapes under the size-1-or-equal rule:
// axes are aligned from the left, missing axes count as size 1, and a
// size-1 axis stands in for any size on that axis. It returns the
// combined thread shape or a THREAD_MISMATCH error naming the
// offending axis.
func Broadcast(shapes ...[]int) ([]int, error) {
	width := 0
	for _, s := range shapes {
		if len(s) > width {
			width = len(s)
		}
	}
	out := make([]int, width)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		for i, d := range s {
			switch {
			case d == out[i] || d == 1:
			case out[i] == 1:
				out[i] = d
			default:
				return nil, errors.New(errors.ErrCodeThreadMismatch,
					"thread axis %d has incompatible sizes %d and %d", i, out[i], d)
			}
		}
	}
	return out, nil
}

// CurveCount returns the number of curves a thread shape describes.
func CurveCount(threadShape []int) int {
	n := 1
	for _, d := range threadShape {
		n *= d
	}
	return n
}

// CurveSlice extracts the curve-th slice of the column, broadcast
// against threadShape beyond the first pointAxes axes. Curves are
// numbered in row-major order over the thread shape. The result keeps
// only the point axes.
func (c Column) CurveSlice(pointAxes int, threadShape []int, curve int) Column {
	// Decompose curve into a thread multi-index, last axis fastest.
	idx := make([]int, len(threadShape))
	rem := curve
	for i := len(threadShape) - 1; i >= 0; i-- {
		idx[i] = rem % threadShape[i]
		rem /= threadShape[i]
	}

	own := c.ThreadShape(pointAxes)
	// Flat offset within this column's thread block, clamping size-1
	// and missing axes to slot 0.
	off := 0
	stride := 1
	for i := len(own) - 1; i >= 0; i-- {
		j := idx[i]
		if own[i] == 1 {
			j = 0
		}
		off += j * stride
		stride *= own[i]
	}
	block := stride // total thread block size

	points := 1
	for _, d := range c.dims[:min(pointAxes, len(c.dims))] {
		points *= d
	}

	dims := make([]int, 0, pointAxes)
	for i := 0; i < pointAxes && i < len(c.dims); i++ {
		dims = append(dims, c.dims[i])
	}
	if len(dims) == 0 {
		dims = []int{points}
	}

	if c.IsString() {
		v := make([]string, points)
		for p := 0; p < points; p++ {
			v[p] = c.s[p*block+off]
		}
		return Column{dims: dims, s: v}
	}
	v := make([]float64, points)
	for p := 0; p < points; p++ {
		v[p] = c.f[p*block+off]
	}
	return Column{dims: dims, f: v}
}

// GoString renders a short debug form such as Column[4,3].
func (c Column) GoString() string {
	return fmt.Sprintf("Column%v", c.dims)
}

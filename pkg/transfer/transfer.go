// Package transfer serializes chunk data onto the command pipe:
// binary fixed-width records in native byte order, or delimited text
// lines with an end-of-data marker. It also implements the format
// selection rules tying chunks, session preference, and time-formatted
// axes together.
package transfer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/plotforge/gplot/pkg/chunk"
	"github.com/plotforge/gplot/pkg/errors"
)

// Format is the wire format of one chunk's data.
type Format int

const (
	// FormatBinary streams fixed-width float64 records, native byte
	// order, no delimiters.
	FormatBinary Format = iota

	// FormatText streams one line per point plus an end-of-data
	// marker line.
	FormatText
)

// String returns "binary" or "text".
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "binary"
}

// endOfData is the marker line closing an inline text data block.
const endOfData = "e"

// Choose picks a chunk's transfer format. Grid chunks always go
// binary; otherwise an explicit per-chunk override wins, string
// columns force text, time-formatted axes force text (the renderer's
// time parsing is unreliable over binary), and the session preference
// decides the rest. The returned warning is non-empty when a forced
// choice contradicts a preference.
func Choose(c *chunk.Chunk, sessionDefault Format, timeAxes bool) (Format, string) {
	override, hasOverride := c.Options["binary"].(bool)

	if c.CDim == 2 {
		if (hasOverride && !override) || (!hasOverride && sessionDefault == FormatText) {
			return FormatBinary, "grid data always transfers binary; text preference ignored"
		}
		return FormatBinary, ""
	}

	if c.HasStrings() {
		if hasOverride && override {
			return FormatText, "string columns cannot transfer binary; override ignored"
		}
		return FormatText, ""
	}

	if hasOverride {
		if override {
			return FormatBinary, ""
		}
		return FormatText, ""
	}

	if c.Style.Binary {
		return FormatBinary, ""
	}
	if timeAxes {
		return FormatText, ""
	}
	return sessionDefault, ""
}

// Descriptor renders the inline-data format clause for a chunk, e.g.
//
//	binary record=4 format="%double%double"
//	binary record=(3,2) format="%double%double%double"
//
// Text chunks carry no descriptor; gnuplot reads lines until the
// end-of-data marker.
func Descriptor(c *chunk.Chunk, f Format) string {
	if f != FormatBinary {
		return ""
	}
	format := strings.Repeat("%double", c.Arity)
	if c.CDim == 2 {
		// record=(fast,slow): the fast axis is the trailing grid axis.
		return fmt.Sprintf("binary record=(%d,%d) format=%q", c.Grid[1], c.Grid[0], format)
	}
	return fmt.Sprintf("binary record=%d format=%q", c.Points, format)
}

// ValidationDescriptor renders the descriptor for the syntax-check
// payload: a single padded record regardless of the chunk's size.
func ValidationDescriptor(c *chunk.Chunk, f Format) string {
	if f != FormatBinary {
		return ""
	}
	return fmt.Sprintf("binary record=1 format=%q", strings.Repeat("%double", c.Arity))
}

// Write streams one chunk's data in the given format. Binary chunks
// interleave all columns per point in column order as native-order
// float64 values with no delimiter; text chunks emit one line per
// point of space-separated values followed by the end-of-data marker.
func Write(w io.Writer, c *chunk.Chunk, f Format) error {
	bw := bufio.NewWriter(w)
	if f == FormatBinary {
		if err := writeBinary(bw, c); err != nil {
			return err
		}
		return bw.Flush()
	}
	if err := writeText(bw, c); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteTest streams the minimal placeholder payload for the two-phase
// test command: one zero record (text: one zero line plus marker).
func WriteTest(w io.Writer, c *chunk.Chunk, f Format) error {
	bw := bufio.NewWriter(w)
	if f == FormatBinary {
		var buf [8]byte
		for i := 0; i < c.Arity; i++ {
			binary.NativeEndian.PutUint64(buf[:], math.Float64bits(0))
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
		return bw.Flush()
	}
	fields := make([]string, c.Arity)
	for i := range fields {
		fields[i] = "0"
	}
	if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, endOfData); err != nil {
		return err
	}
	return bw.Flush()
}

func writeBinary(w *bufio.Writer, c *chunk.Chunk) error {
	if c.HasStrings() {
		return errors.New(errors.ErrCodeInternal, "string columns reached the binary writer")
	}
	var buf [8]byte
	for p := 0; p < c.Points; p++ {
		for _, col := range c.Columns {
			binary.NativeEndian.PutUint64(buf[:], math.Float64bits(col.Float(p)))
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeText(w *bufio.Writer, c *chunk.Chunk) error {
	for p := 0; p < c.Points; p++ {
		for i, col := range c.Columns {
			if i > 0 {
				if err := w.WriteByte(' '); err != nil {
					return err
				}
			}
			var field string
			if col.IsString() {
				field = quoteField(col.String(p))
			} else {
				field = strconv.FormatFloat(col.Float(p), 'g', -1, 64)
			}
			if _, err := w.WriteString(field); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	_, err := w.WriteString(endOfData + "\n")
	return err
}

// quoteField quotes a string value for a text data line. Embedded
// quotes are escaped; newlines would break the line protocol and are
// stripped.
func quoteField(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

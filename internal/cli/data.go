package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readColumns parses whitespace-separated numeric columns from a data
// file. "-" reads stdin. Blank lines and #-comments are skipped; every
// remaining row must have the same field count.
func readColumns(path string) ([][]float64, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	cols, err := parseColumns(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}

func parseColumns(r io.Reader) ([][]float64, error) {
	var cols [][]float64
	lineNo := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if cols == nil {
			cols = make([][]float64, len(fields))
		}
		if len(fields) != len(cols) {
			return nil, fmt.Errorf("line %d has %d fields, want %d", lineNo, len(fields), len(cols))
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not a number", lineNo, f)
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return cols, nil
}

// parseSetFlags turns repeated key=value flags into an option map. A
// bare key means true; values parse as bool, then number, then string.
func parseSetFlags(entries []string) (map[string]any, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	opts := make(map[string]any, len(entries))
	for _, e := range entries {
		key, val, found := strings.Cut(e, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty option name in %q", e)
		}
		if !found {
			opts[key] = true
			continue
		}
		opts[key] = parseOptionValue(strings.TrimSpace(val))
	}
	return opts, nil
}

func parseOptionValue(val string) any {
	switch val {
	case "true", "on", "yes":
		return true
	case "false", "off", "no":
		return false
	case "undef":
		return "undef"
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}

// Package pkg provides the core libraries of the gplot driver.
//
// # Overview
//
// gplot compiles structured plot descriptions into the exact command
// stream a gnuplot subprocess reads, and synchronizes on its
// diagnostics so errors surface as errors. The pkg directory is
// organized along the compile pipeline:
//
//  1. [options] - option catalogues, abbreviation resolution, rendering
//  2. [shape] - data columns, broadcasting, curve splitting
//  3. [styles] - the drawing-style catalogue and its arity rules
//  4. [chunk] - argument scanning and chunk expansion
//  5. [command] - draw-command compilation
//  6. [transfer] - binary/text data serialization
//  7. [session] - subprocess lifecycle, checkpoints, two-phase commit
//  8. [gplot] - the package-level convenience surface
//
// # Architecture
//
// The typical flow of one draw call:
//
//	argument list (options + columns)
//	         ↓
//	    [chunk] package (scan, broadcast, split into curves)
//	         ↓
//	    [command] package (render options, build plot/splot clauses)
//	         ↓
//	    [session] package (syntax check, then command + data, checkpoint)
//	         ↓
//	    gnuplot subprocess
//
// # Quick Start
//
//	err := gplot.Plot(ctx,
//	    map[string]any{"with": "lines", "legend": "squares"},
//	    []float64{0, 1, 2, 3},
//	    []float64{0, 1, 4, 9},
//	)
//
// Supporting packages: [errors] for coded errors, [cache] for the CLI's
// replay store, [observability] for instrumentation hooks, and
// [buildinfo] for version stamping.
package pkg

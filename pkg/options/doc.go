// Package options implements the declarative option machinery of the
// gplot driver: per-option descriptors, abbreviation-tolerant name
// resolution, value normalization, and rendering of option sets back
// into the command text the gnuplot process understands.
//
// # Architecture
//
// The package is built around three pieces:
//
//   - Descriptor: an immutable, schema-wide record describing one
//     option (its value kind, emission order, must-follow constraints,
//     and documentation).
//   - Schema: a registry of descriptors with a prefix table built once,
//     so possibly-abbreviated, possibly index-suffixed names resolve to
//     canonical descriptors in one lookup.
//   - Set: a canonical-name to normalized-value map. Session-level
//     sets persist across calls; chunk-level sets are fresh per call
//     with a sticky subset carried between chunks.
//
// Kinds form a closed enum; each kind selects a normalize and a render
// behavior. Custom options supply their own functions and may patch
// other keys of the same set, returned as an explicit Patch that the
// caller applies atomically.
//
// Two catalogues ship with the package: PlotSchema (session/plot
// options such as terminal, output, ranges, labels) and CurveSchema
// (per-curve options such as with, legend, axes, tuplesize).
package options

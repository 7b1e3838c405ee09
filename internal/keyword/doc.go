// Package keyword reads and writes the line-oriented FE keyword decks
// hullfit consumes and produces.
//
// Key capabilities:
//   - *NODE, *ELEMENT_SHELL, *ELEMENT_BEAM parsing into the entity model
//   - *DEFINE_CURVE id indexing, with the curve data preserved verbatim
//   - Round-tripping of unrecognized keyword blocks so solver cards the
//     tool does not understand survive a rewrite
//   - Provenance header comments and the boundary block emitted after a
//     morph run
package keyword

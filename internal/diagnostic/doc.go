// Package diagnostic provides structured warnings, errors, and
// informational notes accumulated across the hullfit pipeline.
//
// Key capabilities:
//   - Unresolved-element warnings with entity context
//   - Seed conflict reports (persisted association vs. fresh search)
//   - Degenerate-geometry notes from the morph phase
//   - Aggregation and merging across pipeline phases
package diagnostic

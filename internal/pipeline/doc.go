// Package pipeline drives a full hullfit run: input validation,
// association seeding and search, node segmentation, and the morph
// phase, aggregating diagnostics along the way.
//
// Key capabilities:
//   - Fatal validation before any mutation (empty hull or skeleton,
//     bad cone or morph parameters)
//   - Association-only runs when no morph mode is configured
//   - Load-curve id validation surfaced as a warning, never an abort
package pipeline

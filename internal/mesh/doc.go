// Package mesh holds the in-memory entity model shared by every
// hullfit phase: the deformable shell hull, the rigid beam skeleton,
// and the nodes both reference.
//
// Key capabilities:
//   - Lookup by id and by entity kind, with id-sorted deterministic iteration
//   - Node cloning with fresh ids above the current maximum
//   - Element re-wiring when the segmenter splits a shared node
package mesh

// Package assoc maps each shell element of the hull onto one beam of
// the target skeleton.
//
// Key capabilities:
//   - Nearest-segment search inside an adaptively widened cone around
//     the element normal
//   - Association table with a consistent per-beam inverse index
//   - YAML set files that persist a computed association for reuse,
//     with conflict detection when a seed disagrees with a fresh search
package assoc

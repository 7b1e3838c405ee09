// Package common holds tiny helpers shared by the hullfit packages.
package common

import (
	"cmp"
	"sort"
)

// UnknownStr is the fallback String() value for out-of-range enum values.
const UnknownStr = "unknown"

// SortedKeys returns the keys of m in ascending order.
// Map iteration order is randomized; every map walked for output or
// tie-breaking goes through this.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

package store

import (
	"sort"

	"github.com/maruel/natural"

	"charsheet/pkg/geom"
)

// SortedKeys returns the keys of overrides in natural order, so "pos-slot-2"
// sorts before "pos-slot-10".
func SortedKeys(overrides map[string]geom.Geometry) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i], keys[j]) })
	return keys
}

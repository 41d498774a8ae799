// Package suggest finds the closest known key for a lookup that missed, so
// warnings can point at likely typos in the hand-maintained tables.
package suggest

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Index is an immutable set of candidate keys.
type Index struct {
	keys []string
}

// NewIndex builds an Index over keys. Duplicates are kept once.
func NewIndex(keys []string) *Index {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return &Index{keys: out}
}

// FromMap builds an Index over the keys of m.
func FromMap[V any](m map[string]V) *Index {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return NewIndex(keys)
}

// Closest returns the candidate with the smallest edit distance to target,
// provided that distance is within the limit for target's length. Ties go to
// the lexically smaller key.
//
// Postcondition: ok is false when no candidate is close enough.
func (ix *Index) Closest(target string) (match string, ok bool) {
	if ix == nil || target == "" {
		return "", false
	}
	limit := distanceLimit(len(target))
	best := limit + 1
	for _, k := range ix.keys {
		if k == target {
			return k, true
		}
		d := levenshtein.ComputeDistance(target, k)
		if d < best {
			best = d
			match = k
		}
	}
	return match, best <= limit
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

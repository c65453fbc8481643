package shopping

import "sort"

// KeySet is a set of normalized ingredient names. Methods never modify the
// receiver; Toggle returns a new set.
type KeySet map[string]struct{}

// StapleSet holds pantry items hidden from the list by default.
type StapleSet = KeySet

// CheckState holds items already acquired.
type CheckState = KeySet

// NewKeySet normalizes names into a set.
func NewKeySet(names ...string) KeySet {
	s := make(KeySet, len(names))
	for _, n := range names {
		if k := NormalizeName(n); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name, once normalized, is in the set.
func (s KeySet) Contains(name string) bool {
	_, ok := s[NormalizeName(name)]
	return ok
}

// Toggle flips the membership of name and returns the new set.
func (s KeySet) Toggle(name string) KeySet {
	out := make(KeySet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	k := NormalizeName(name)
	if k == "" {
		return out
	}
	if _, ok := out[k]; ok {
		delete(out, k)
	} else {
		out[k] = struct{}{}
	}
	return out
}

// Slice returns the keys sorted, for persistence.
func (s KeySet) Slice() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FilterStaples drops items whose name is in staples unless showStaples is
// set. Matching is exact after normalization, never by substring.
func FilterStaples(items []AggregatedItem, staples StapleSet, showStaples bool) []AggregatedItem {
	out := make([]AggregatedItem, 0, len(items))
	for _, it := range items {
		if !showStaples && staples.Contains(it.Name) {
			continue
		}
		out = append(out, it)
	}
	return out
}

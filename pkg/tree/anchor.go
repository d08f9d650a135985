package tree

import "slices"

// Clade pairs a character with the taxon names in its ones set.
type Clade struct {
	Character string
	Taxa      []string
}

// Anchor is the result of [SelectAnchor]. Prefer is empty when no character
// qualifies.
type Anchor struct {
	Character string
	Prefer    string
}

// SelectAnchor picks the characters that drive [Tree.AnchoredNewick].
//
// The anchor is the character with the largest non-trivial clade (size
// strictly between 1 and n-1), ties broken by the lexicographically smallest
// name. Without a non-trivial clade the lexicographically smallest character
// overall is used. The prefer character is the one with the largest clade
// that is a proper subset of the anchor's clade, ties broken the same way.
//
// SelectAnchor returns the zero Anchor when clades is empty.
func SelectAnchor(clades []Clade, n int) Anchor {
	if len(clades) == 0 {
		return Anchor{}
	}

	best := -1
	for i, c := range clades {
		size := len(c.Taxa)
		if size <= 1 || size >= n-1 {
			continue
		}
		if best < 0 || better(c, clades[best]) {
			best = i
		}
	}
	if best < 0 {
		best = 0
		for i, c := range clades {
			if c.Character < clades[best].Character {
				best = i
			}
		}
	}

	a := Anchor{Character: clades[best].Character}
	outer := clades[best].Taxa
	prefer := -1
	for i, c := range clades {
		if i == best || !properSubset(c.Taxa, outer) {
			continue
		}
		if prefer < 0 || better(c, clades[prefer]) {
			prefer = i
		}
	}
	if prefer >= 0 {
		a.Prefer = clades[prefer].Character
	}
	return a
}

// better reports whether a outranks b: larger clade first, then smaller name.
func better(a, b Clade) bool {
	if len(a.Taxa) != len(b.Taxa) {
		return len(a.Taxa) > len(b.Taxa)
	}
	return a.Character < b.Character
}

func properSubset(inner, outer []string) bool {
	if len(inner) >= len(outer) {
		return false
	}
	for _, x := range inner {
		if !slices.Contains(outer, x) {
			return false
		}
	}
	return true
}

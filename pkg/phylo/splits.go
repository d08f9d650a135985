package phylo

import (
	"slices"
	"strings"

	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// SplitHeader is the header row of the split table.
const SplitHeader = "character,clade"

// SplitMap records, for every informative character, the taxon names in its
// ones set. Names iterate in the order they were recorded (the sorted column
// order); each clade is sorted lexicographically.
//
// The zero value is an empty map ready to use.
type SplitMap struct {
	names  []string
	clades map[string][]string
}

// Set records the clade of character. Recording a character again replaces
// its clade but keeps its original position.
func (s *SplitMap) Set(character string, taxa []string) {
	if s.clades == nil {
		s.clades = make(map[string][]string)
	}
	if _, ok := s.clades[character]; !ok {
		s.names = append(s.names, character)
	}
	sorted := slices.Clone(taxa)
	slices.Sort(sorted)
	s.clades[character] = sorted
}

// Get returns a copy of the clade recorded for character.
func (s *SplitMap) Get(character string) ([]string, bool) {
	c, ok := s.clades[character]
	return slices.Clone(c), ok
}

// Names returns the recorded characters in recording order.
func (s *SplitMap) Names() []string { return slices.Clone(s.names) }

// Len returns the number of recorded characters.
func (s *SplitMap) Len() int { return len(s.names) }

// Clades converts the map into the input of [tree.SelectAnchor].
func (s *SplitMap) Clades() []tree.Clade {
	out := make([]tree.Clade, len(s.names))
	for i, name := range s.names {
		out[i] = tree.Clade{Character: name, Taxa: slices.Clone(s.clades[name])}
	}
	return out
}

// Clone returns an independent copy.
func (s *SplitMap) Clone() *SplitMap {
	c := &SplitMap{}
	for _, name := range s.names {
		c.Set(name, s.clades[name])
	}
	return c
}

// SplitRows formats the split table body: one "<id>,<clade>" row per
// recorded character, where id is the numeric suffix of the character name
// and clade is the sorted taxon names concatenated without a separator.
// The header ([SplitHeader]) is not included.
func SplitRows(s *SplitMap) []string {
	rows := make([]string, 0, s.Len())
	for _, name := range s.names {
		rows = append(rows, CharacterID(name)+","+strings.Join(s.clades[name], ""))
	}
	return rows
}

// CharacterID returns the trailing run of ASCII digits of name ("C12" → "12").
// Names without a numeric suffix are returned unchanged.
func CharacterID(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name
	}
	return name[i:]
}

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clade(name string, taxa ...string) Clade { return Clade{Character: name, Taxa: taxa} }

func TestSelectAnchor(t *testing.T) {
	tests := []struct {
		name   string
		clades []Clade
		n      int
		want   Anchor
	}{
		{
			name: "empty",
			n:    3,
			want: Anchor{},
		},
		{
			name:   "largest non-trivial clade with nested prefer",
			clades: []Clade{clade("C1", "A", "B", "C"), clade("C2", "A", "B"), clade("C3", "D", "E")},
			n:      5,
			want:   Anchor{Character: "C1", Prefer: "C2"},
		},
		{
			name:   "size tie broken by name",
			clades: []Clade{clade("X2", "A", "B"), clade("X1", "C", "D")},
			n:      6,
			want:   Anchor{Character: "X1"},
		},
		{
			name:   "prefer tie broken by name",
			clades: []Clade{clade("K", "A", "B", "C", "D"), clade("P2", "A"), clade("P1", "B")},
			n:      6,
			want:   Anchor{Character: "K", Prefer: "P1"},
		},
		{
			name:   "no non-trivial clade uses smallest name",
			clades: []Clade{clade("C2", "A", "B"), clade("C1", "A", "B")},
			n:      3,
			want:   Anchor{Character: "C1"},
		},
		{
			name:   "fallback anchor still gets a prefer",
			clades: []Clade{clade("Z", "A"), clade("B", "A", "B")},
			n:      3,
			want:   Anchor{Character: "B", Prefer: "Z"},
		},
		{
			name:   "equal clade is not a proper subset",
			clades: []Clade{clade("C1", "A", "B"), clade("C2", "A", "B")},
			n:      5,
			want:   Anchor{Character: "C1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectAnchor(tt.clades, tt.n))
		})
	}
}

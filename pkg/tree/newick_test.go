package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubbed has an empty hub joining (A,B), C and the node holding D,E.
func hubbed(t *testing.T) *Tree {
	t.Helper()
	tr, err := New(
		[]string{"A", "B", "C", "D", "E"},
		[][]int{{3, 4}, nil, {0, 1}, {2}},
		[]Edge{
			{U: 0, V: 1, Labels: []string{"K"}},
			{U: 1, V: 2, Labels: []string{"X"}},
			{U: 1, V: 3, Labels: []string{"P"}},
		},
	)
	require.NoError(t, err)
	return tr
}

func TestNewick(t *testing.T) {
	single, err := New([]string{"A"}, [][]int{{0}}, nil)
	require.NoError(t, err)

	skip, err := New(
		[]string{"A", "B", "C"},
		[][]int{{2}, {0}, {1}},
		[]Edge{
			{U: 0, V: 1, Labels: []string{"C1"}},
			{U: 0, V: 2, Labels: []string{"C2"}},
		},
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		tree *Tree
		want string
	}{
		{"single taxon", single, "A;"},
		{"nested chain", chain(t), "(D,(C,(A,B)));"},
		{"star with empty hub", star(t), "(A,B,C);"},
		{"starts past degree-two node", skip, "(A,(C,B));"},
		{"empty hub inside", hubbed(t), "(D,E,((A,B),C));"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tree.Newick())
		})
	}
}

func TestAnchoredNewick(t *testing.T) {
	tests := []struct {
		name           string
		tree           *Tree
		anchor, prefer string
		want           string
	}{
		{"anchor at inner clade", chain(t), "C2", "", "((A,B),(C,D));"},
		{"anchor at outer clade", chain(t), "C1", "", "(((A,B),C),D);"},
		{"size then names", hubbed(t), "K", "", "(((A,B),C),(D,E));"},
		{"prefer beats size", hubbed(t), "K", "P", "((C,(A,B)),(D,E));"},
		{"unknown anchor falls back", hubbed(t), "nope", "", "(D,E,((A,B),C));"},
		{"no anchor falls back", chain(t), "", "", "(D,(C,(A,B)));"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tree.AnchoredNewick(tt.anchor, tt.prefer))
		})
	}
}

func TestAnchoredNewick_IgnoresNodeNumbering(t *testing.T) {
	// The same tree as hubbed with nodes and edges created in another order.
	renumbered, err := New(
		[]string{"A", "B", "C", "D", "E"},
		[][]int{{2}, {0, 1}, nil, {3, 4}},
		[]Edge{
			{U: 2, V: 0, Labels: []string{"P"}},
			{U: 1, V: 2, Labels: []string{"X"}},
			{U: 3, V: 2, Labels: []string{"K"}},
		},
	)
	require.NoError(t, err)

	for _, prefer := range []string{"", "P", "X"} {
		assert.Equal(t, hubbed(t).AnchoredNewick("K", prefer), renumbered.AnchoredNewick("K", prefer), "prefer %q", prefer)
	}
}

func TestNewick_QuotesNames(t *testing.T) {
	tr, err := New([]string{"a b", "it's", "plain"}, [][]int{{0, 1, 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "('a b','it''s',plain);", tr.Newick())
}

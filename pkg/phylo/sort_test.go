package phylo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortColumns(t *testing.T) {
	tests := []struct {
		name      string
		cells     [][]int
		chars     []string
		wantOrder []int
	}{
		{
			name:      "lexicographic with ones first",
			cells:     [][]int{{0, 1, 1}, {1, 1, 0}, {0, 1, 0}},
			chars:     []string{"C1", "C2", "C3"},
			wantOrder: []int{1, 2, 0},
		},
		{
			name:      "superset precedes subset",
			cells:     [][]int{{1, 1}, {0, 1}, {0, 0}, {0, 0}},
			chars:     []string{"C1", "C2"},
			wantOrder: []int{1, 0},
		},
		{
			name:      "identical columns keep input order",
			cells:     [][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 1}},
			chars:     []string{"C1", "C2", "C3"},
			wantOrder: []int{0, 1, 2},
		},
		{
			name:      "all-zero column sorts last",
			cells:     [][]int{{0, 1}, {0, 0}},
			chars:     []string{"Z", "C1"},
			wantOrder: []int{1, 0},
		},
		{
			name:      "no columns",
			cells:     [][]int{{}, {}},
			chars:     []string{},
			wantOrder: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr, err := SortColumns(tt.cells, tt.chars)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, sr.Order)

			for k, src := range sr.Order {
				assert.Equal(t, tt.chars[src], sr.Characters[k])
				for i := range tt.cells {
					assert.Equal(t, tt.cells[i][src], sr.Matrix[i][k], "row %d sorted column %d", i, k)
				}
			}
		})
	}
}

func TestSortColumns_SupersetsFirst(t *testing.T) {
	// Nested clades given smallest first.
	cells := [][]int{
		{1, 1, 1, 1},
		{0, 1, 1, 1},
		{0, 0, 1, 1},
		{0, 0, 0, 1},
		{0, 0, 0, 0},
	}
	sr, err := SortColumns(cells, []string{"C1", "C2", "C3", "C4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "C3", "C2", "C1"}, sr.Characters)
}

func TestSortColumns_DoesNotModifyInput(t *testing.T) {
	cells := [][]int{{0, 1}, {1, 0}}
	chars := []string{"C1", "C2"}
	_, err := SortColumns(cells, chars)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, cells)
	assert.Equal(t, []string{"C1", "C2"}, chars)
}

func TestSortColumns_Errors(t *testing.T) {
	_, err := SortColumns(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyMatrix)

	_, err = SortColumns([][]int{{1, 0}, {1}}, []string{"C1", "C2"})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = SortColumns([][]int{{1, 0}}, []string{"C1"})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

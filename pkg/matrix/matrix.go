package matrix

import (
	"slices"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

// Matrix is a binary taxon×character table. Cells[i][j] is the state of
// character j in taxon i.
type Matrix struct {
	Taxa       []string `json:"taxa"`
	Characters []string `json:"characters"`
	Cells      [][]int  `json:"cells"`
}

// Rows returns the number of taxa.
func (m *Matrix) Rows() int { return len(m.Taxa) }

// Cols returns the number of characters.
func (m *Matrix) Cols() int { return len(m.Characters) }

// Validate checks a matrix built in memory or decoded from JSON against the
// same rules [Read] applies to CSV input. Row numbers in messages are
// 1-based taxon positions.
func (m *Matrix) Validate() error {
	if len(m.Taxa) == 0 {
		return pperrors.New(pperrors.ErrCodeInvalidMatrix, "matrix has no taxa")
	}
	if len(m.Characters) == 0 {
		return pperrors.New(pperrors.ErrCodeInvalidMatrix, "matrix has no characters")
	}
	if err := uniqueNames("character", m.Characters); err != nil {
		return err
	}
	if err := uniqueNames("taxon", m.Taxa); err != nil {
		return err
	}
	if len(m.Cells) != len(m.Taxa) {
		return pperrors.New(pperrors.ErrCodeInvalidMatrix, "%d rows of cells for %d taxa", len(m.Cells), len(m.Taxa))
	}
	for i, row := range m.Cells {
		if len(row) != len(m.Characters) {
			return pperrors.New(pperrors.ErrCodeInvalidMatrix, "row %d: %d cells, want %d", i+1, len(row), len(m.Characters))
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return pperrors.New(pperrors.ErrCodeInvalidMatrix, "row %d: character %s has state %d, want 0 or 1", i+1, m.Characters[j], v)
			}
		}
	}
	return nil
}

func uniqueNames(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := pperrors.ValidateName(kind, name); err != nil {
			return err
		}
		if seen[name] {
			return pperrors.New(pperrors.ErrCodeInvalidMatrix, "duplicate %s name %q", kind, name)
		}
		seen[name] = true
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{
		Taxa:       slices.Clone(m.Taxa),
		Characters: slices.Clone(m.Characters),
		Cells:      make([][]int, len(m.Cells)),
	}
	for i, row := range m.Cells {
		out.Cells[i] = slices.Clone(row)
	}
	return out
}

// DropAllZeroColumns returns a copy of m without the characters no taxon
// has, together with the names of the dropped characters in input order.
func (m *Matrix) DropAllZeroColumns() (*Matrix, []string) {
	var keep []int
	var dropped []string
	for j, name := range m.Characters {
		if m.columnHasOne(j) {
			keep = append(keep, j)
		} else {
			dropped = append(dropped, name)
		}
	}

	out := &Matrix{
		Taxa:       slices.Clone(m.Taxa),
		Characters: make([]string, len(keep)),
		Cells:      make([][]int, len(m.Cells)),
	}
	for k, j := range keep {
		out.Characters[k] = m.Characters[j]
	}
	for i, row := range m.Cells {
		out.Cells[i] = make([]int, len(keep))
		for k, j := range keep {
			out.Cells[i][k] = row[j]
		}
	}
	return out, dropped
}

func (m *Matrix) columnHasOne(j int) bool {
	for _, row := range m.Cells {
		if row[j] == 1 {
			return true
		}
	}
	return false
}

// NormalizeByFirstRow returns a copy of m in which every character where the
// first taxon has state 1 is complemented, so the first taxon ends up with
// all zeros. It also returns the names of the flipped characters.
//
// Under this normalization two characters are compatible in the unrooted
// sense exactly when their ones sets are disjoint or nested.
func (m *Matrix) NormalizeByFirstRow() (*Matrix, []string) {
	out := m.Clone()
	if len(out.Cells) == 0 {
		return out, nil
	}
	var flipped []string
	for j, v := range out.Cells[0] {
		if v != 1 {
			continue
		}
		flipped = append(flipped, out.Characters[j])
		for _, row := range out.Cells {
			row[j] = 1 - row[j]
		}
	}
	return out, flipped
}

package matrix

import (
	"reflect"
	"testing"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

func sample() *Matrix {
	return &Matrix{
		Taxa:       []string{"A", "B", "C", "D"},
		Characters: []string{"C1", "C2", "C3", "C4"},
		Cells: [][]int{
			{1, 0, 0, 1},
			{1, 0, 1, 0},
			{0, 0, 1, 1},
			{0, 0, 0, 1},
		},
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Fatalf("Validate(sample) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(m *Matrix)
		code   pperrors.Code
	}{
		{"no taxa", func(m *Matrix) { m.Taxa, m.Cells = nil, nil }, pperrors.ErrCodeInvalidMatrix},
		{"no characters", func(m *Matrix) { m.Characters = nil }, pperrors.ErrCodeInvalidMatrix},
		{"duplicate taxon", func(m *Matrix) { m.Taxa[3] = "A" }, pperrors.ErrCodeInvalidMatrix},
		{"duplicate character", func(m *Matrix) { m.Characters[1] = "C1" }, pperrors.ErrCodeInvalidMatrix},
		{"empty taxon", func(m *Matrix) { m.Taxa[0] = "" }, pperrors.ErrCodeInvalidName},
		{"missing row", func(m *Matrix) { m.Cells = m.Cells[:3] }, pperrors.ErrCodeInvalidMatrix},
		{"ragged row", func(m *Matrix) { m.Cells[2] = m.Cells[2][:3] }, pperrors.ErrCodeInvalidMatrix},
		{"non-binary", func(m *Matrix) { m.Cells[1][1] = 2 }, pperrors.ErrCodeInvalidMatrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sample()
			tt.mutate(m)
			err := m.Validate()
			if got := pperrors.GetCode(err); got != tt.code {
				t.Errorf("Validate() = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestDropAllZeroColumns(t *testing.T) {
	m := sample()
	out, dropped := m.DropAllZeroColumns()

	if !reflect.DeepEqual(dropped, []string{"C2"}) {
		t.Errorf("dropped = %v, want [C2]", dropped)
	}
	if !reflect.DeepEqual(out.Characters, []string{"C1", "C3", "C4"}) {
		t.Errorf("Characters = %v", out.Characters)
	}
	wantCells := [][]int{{1, 0, 1}, {1, 1, 0}, {0, 1, 1}, {0, 0, 1}}
	if !reflect.DeepEqual(out.Cells, wantCells) {
		t.Errorf("Cells = %v, want %v", out.Cells, wantCells)
	}
	if m.Cols() != 4 {
		t.Error("input was modified")
	}
}

func TestDropAllZeroColumns_NothingToDrop(t *testing.T) {
	m := &Matrix{Taxa: []string{"A"}, Characters: []string{"C1"}, Cells: [][]int{{1}}}
	out, dropped := m.DropAllZeroColumns()
	if dropped != nil {
		t.Errorf("dropped = %v, want none", dropped)
	}
	if !reflect.DeepEqual(out, m) {
		t.Errorf("DropAllZeroColumns() = %+v, want %+v", out, m)
	}
}

func TestNormalizeByFirstRow(t *testing.T) {
	m := sample()
	out, flipped := m.NormalizeByFirstRow()

	if !reflect.DeepEqual(flipped, []string{"C1", "C4"}) {
		t.Errorf("flipped = %v, want [C1 C4]", flipped)
	}
	for j, v := range out.Cells[0] {
		if v != 0 {
			t.Errorf("first taxon has state %d for %s after normalization", v, out.Characters[j])
		}
	}
	wantCells := [][]int{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{1, 0, 1, 0},
		{1, 0, 0, 0},
	}
	if !reflect.DeepEqual(out.Cells, wantCells) {
		t.Errorf("Cells = %v, want %v", out.Cells, wantCells)
	}
	if m.Cells[0][0] != 1 {
		t.Error("input was modified")
	}
}

func TestClone(t *testing.T) {
	m := sample()
	c := m.Clone()
	c.Cells[0][0] = 0
	c.Taxa[0] = "Z"
	if m.Cells[0][0] != 1 || m.Taxa[0] != "A" {
		t.Error("Clone shares storage with the original")
	}
}

package pipeline

import (
	"bytes"

	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	"github.com/Nir-David-Duani/pp-linear/pkg/matrix"
)

// Parse loads the input matrix named by opts: Matrix when set, else the CSV
// bytes in Input, else the file at Source.
func Parse(opts Options) (*matrix.Matrix, error) {
	csvOpts := matrix.Options{Delimiter: opts.Delimiter}
	switch {
	case opts.Matrix != nil:
		if err := opts.Matrix.Validate(); err != nil {
			return nil, err
		}
		return opts.Matrix.Clone(), nil
	case len(opts.Input) > 0:
		return matrix.Read(bytes.NewReader(opts.Input), csvOpts)
	default:
		return matrix.Load(opts.Source, csvOpts)
	}
}

// Prepared is a matrix ready for analysis together with the columns
// preprocessing touched.
type Prepared struct {
	Matrix  *matrix.Matrix
	Flipped []string
	Dropped []string
}

// Prepare normalizes m by its first row when opts.Normalize is set, then
// drops all-zero columns unless opts.KeepZeroColumns is set. Normalizing
// first lets columns it empties be dropped too. m is not modified.
func Prepare(m *matrix.Matrix, opts Options) Prepared {
	p := Prepared{Matrix: m}
	if opts.Normalize {
		p.Matrix, p.Flipped = p.Matrix.NormalizeByFirstRow()
	}
	if !opts.KeepZeroColumns {
		p.Matrix, p.Dropped = p.Matrix.DropAllZeroColumns()
	}
	return p
}

// MatrixHash returns the content hash of m: the SHA-256 of its canonical
// comma-separated encoding. Inputs that differ only in delimiter, BOM, blank
// lines or cell padding hash the same.
func MatrixHash(m *matrix.Matrix) (string, error) {
	var buf bytes.Buffer
	if err := matrix.Write(&buf, m, matrix.Options{}); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

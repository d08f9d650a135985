package matrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

// HeaderTaxon is the required first header cell.
const HeaderTaxon = "taxon"

const bom = "\ufeff"

// Options controls CSV reading and writing.
type Options struct {
	// Delimiter separates cells. Zero means comma.
	Delimiter rune
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// Load reads a matrix from the CSV file at path.
// A missing file is reported with code FILE_NOT_FOUND.
func Load(path string, opts Options) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, pperrors.Wrap(pperrors.ErrCodeFileNotFound, err, "matrix file %s", path)
		}
		return nil, pperrors.Wrap(pperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	m, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses and validates a CSV matrix from r. See the package
// documentation for the accepted format.
func Read(r io.Reader, opts Options) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "file is empty")
	}
	if err != nil {
		return nil, readError(err)
	}
	header[0] = strings.TrimPrefix(header[0], bom)
	if strings.TrimSpace(header[0]) != HeaderTaxon {
		return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line 1: first header cell must be %q, got %q", HeaderTaxon, header[0])
	}
	if len(header) < 2 {
		return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line 1: header needs at least one character column")
	}

	m := &Matrix{Characters: make([]string, len(header)-1)}
	seenChar := make(map[string]int, len(header)-1)
	for j, name := range header[1:] {
		if err := pperrors.ValidateName("character", name); err != nil {
			return nil, lineError(1, err)
		}
		if col, dup := seenChar[name]; dup {
			return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line 1: character %q repeats column %d", name, col+2)
		}
		seenChar[name] = j
		m.Characters[j] = name
	}

	seenTaxon := make(map[string]int)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(header) {
			return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line %d: %d cells, want %d", line, len(rec), len(header))
		}

		taxon := rec[0]
		if err := pperrors.ValidateName("taxon", taxon); err != nil {
			return nil, lineError(line, err)
		}
		if first, dup := seenTaxon[taxon]; dup {
			return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line %d: taxon %q already defined on line %d", line, taxon, first)
		}
		seenTaxon[taxon] = line

		row := make([]int, len(m.Characters))
		for j, cell := range rec[1:] {
			switch strings.TrimSpace(cell) {
			case "0":
			case "1":
				row[j] = 1
			default:
				return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "line %d: character %s has state %q, want 0 or 1", line, m.Characters[j], cell)
			}
		}
		m.Taxa = append(m.Taxa, taxon)
		m.Cells = append(m.Cells, row)
	}

	if len(m.Taxa) == 0 {
		return nil, pperrors.New(pperrors.ErrCodeInvalidMatrix, "no data rows")
	}
	return m, nil
}

func readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pperrors.New(pperrors.ErrCodeInvalidMatrix, "line %d: %v", pe.Line, pe.Err)
	}
	return pperrors.Wrap(pperrors.ErrCodeInvalidFormat, err, "read csv")
}

func lineError(line int, err error) error {
	return pperrors.New(pperrors.GetCode(err), "line %d: %s", line, pperrors.UserMessage(err))
}

// Write encodes m as CSV in the format [Read] accepts.
func Write(w io.Writer, m *Matrix, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter()

	header := make([]string, 0, len(m.Characters)+1)
	header = append(header, HeaderTaxon)
	header = append(header, m.Characters...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(m.Characters)+1)
	for i, taxon := range m.Taxa {
		rec[0] = taxon
		for j, v := range m.Cells[i] {
			rec[j+1] = strconv.Itoa(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", taxon, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

package pipeline

import (
	"errors"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
)

// Analyze runs the perfect phylogeny algorithm on a prepared matrix. A
// conflict is reported through the returned result, not as an error.
func Analyze(p Prepared) (*phylo.Result, error) {
	m := p.Matrix
	res, err := phylo.Run(m.Taxa, m.Characters, m.Cells)
	if err != nil {
		var iv *phylo.InvariantViolationError
		if errors.As(err, &iv) {
			return nil, pperrors.Wrap(pperrors.ErrCodeInternal, err, "analysis invariant violated")
		}
		return nil, pperrors.Wrap(pperrors.ErrCodeInvalidMatrix, err, "analyze matrix")
	}
	return res, nil
}

// Summarize extracts the cacheable summary of an analysis.
func Summarize(res *phylo.Result, p Prepared) Summary {
	s := Summary{
		Perfect:    res.Perfect(),
		Witness:    res.Witness(),
		Newick:     res.Newick(),
		Splits:     phylo.SplitRows(res.Splits),
		Taxa:       p.Matrix.Rows(),
		Characters: p.Matrix.Cols(),
		Dropped:    p.Dropped,
		Flipped:    p.Flipped,
	}
	if res.Conflict != nil {
		s.Conflict = res.Conflict.Characters
	}
	if res.Tree != nil {
		s.Nodes = res.Tree.NodeCount()
		s.Edges = res.Tree.EdgeCount()
	}
	return s
}

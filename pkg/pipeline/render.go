package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	ppio "github.com/Nir-David-Duani/pp-linear/pkg/io"
	"github.com/Nir-David-Duani/pp-linear/pkg/matrix"
	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// renderSVG is swapped out in tests that count renders.
var renderSVG = tree.RenderSVG

// Render generates artifacts in the requested formats. Tree formats require
// a perfect phylogeny; the manifest is built by the [Runner], not here.
func Render(ctx context.Context, res *phylo.Result, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string
	for _, format := range formats {
		if treeFormats[format] && res.Tree == nil {
			return nil, fmt.Errorf("render %s: matrix has no perfect phylogeny", format)
		}
		var buf bytes.Buffer
		var err error

		switch format {
		case FormatNewick:
			err = ppio.WriteNewick(&buf, res.Newick())
		case FormatSplits:
			err = ppio.WriteSplits(&buf, res.Splits)
		case FormatWitness:
			err = ppio.WriteWitness(&buf, res)
		case FormatSorted:
			err = matrix.Write(&buf, sortedMatrix(res), matrix.Options{})
		case FormatJSON:
			err = ppio.WriteJSON(res.Tree, &buf)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = res.Tree.ToDOT()
			}
			if format == FormatDOT {
				buf.WriteString(dot)
				break
			}
			var svg []byte
			svg, err = renderSVG(ctx, dot)
			buf.Write(svg)
		default:
			return nil, pperrors.New(pperrors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}

func sortedMatrix(res *phylo.Result) *matrix.Matrix {
	return &matrix.Matrix{
		Taxa:       res.Taxa,
		Characters: res.Sort.Characters,
		Cells:      res.Sort.Matrix,
	}
}

// Manifest describes one run. It is written as manifest.json next to the
// other artifacts.
type Manifest struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source,omitempty"`
	MatrixHash string    `json:"matrix_hash"`
	CreatedAt  time.Time `json:"created_at"`
	Outcome    string    `json:"outcome"`
	Summary    Summary   `json:"summary"`
	Files      []string  `json:"files"`
	Skipped    []string  `json:"skipped,omitempty"`
}

// Outcome values for manifests and batch reports.
const (
	OutcomePerfect  = "perfect"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

func outcome(s Summary) string {
	if s.Perfect {
		return OutcomePerfect
	}
	return OutcomeConflict
}

// buildManifest encodes the manifest for result. Files lists every artifact
// written, the manifest included.
func buildManifest(result *Result, source string, now time.Time) ([]byte, error) {
	m := Manifest{
		RunID:      result.RunID,
		Source:     source,
		MatrixHash: result.MatrixHash,
		CreatedAt:  now.UTC(),
		Outcome:    outcome(result.Summary),
		Summary:    result.Summary,
		Skipped:    result.Skipped,
	}
	for _, f := range AllFormats {
		if _, ok := result.Artifacts[f]; ok || f == FormatManifest {
			m.Files = append(m.Files, FileName[f])
		}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteArtifacts writes each artifact to its file in dir, creating dir if
// needed, and returns the written paths in format order.
func WriteArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, f := range AllFormats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := filepath.Join(dir, FileName[f])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", FileName[f], err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

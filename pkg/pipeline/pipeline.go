// Package pipeline runs a binary character matrix through the complete
// load → analyze → render sequence shared by the CLI and the analysis
// server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: parse the CSV matrix, then normalize and drop uninformative columns
//  2. Analyze: sort the columns and refine them into a tree ([phylo.Run])
//  3. Render: produce the requested artifacts (Newick, split table, DOT, SVG, ...)
//
// A [Runner] adds caching on top: the analysis summary and every rendered
// artifact are stored under keys derived from a hash of the loaded matrix,
// so repeated runs over the same input skip the analysis entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "data/primates.csv",
//	    Formats: []string{pipeline.FormatNewick, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary.Newick)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	"github.com/Nir-David-Duani/pp-linear/pkg/matrix"
	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
)

// Format constants for output artifacts.
const (
	FormatNewick   = "newick"
	FormatSplits   = "splits"
	FormatWitness  = "witness"
	FormatSorted   = "sorted"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatManifest = "manifest"
)

// AllFormats lists every format in the order artifacts are rendered and
// written.
var AllFormats = []string{
	FormatNewick,
	FormatSplits,
	FormatWitness,
	FormatSorted,
	FormatJSON,
	FormatDOT,
	FormatSVG,
	FormatManifest,
}

// FileName maps each format to the file it is written to.
var FileName = map[string]string{
	FormatNewick:   "tree_unrooted.nwk",
	FormatSplits:   "splits.csv",
	FormatWitness:  "witness.txt",
	FormatSorted:   "sorted_matrix.csv",
	FormatJSON:     "tree.json",
	FormatDOT:      "tree.dot",
	FormatSVG:      "tree.svg",
	FormatManifest: "manifest.json",
}

// treeFormats need a tree and are skipped when the matrix has a conflict.
var treeFormats = map[string]bool{
	FormatNewick: true,
	FormatJSON:   true,
	FormatDOT:    true,
	FormatSVG:    true,
}

// Options configures a pipeline run.
type Options struct {
	// Source labels the input in logs and hooks. When neither Matrix nor
	// Input is set, it is the path the matrix is loaded from.
	Source string `json:"source,omitempty"`
	// Input holds CSV bytes. Ignored when Matrix is set.
	Input []byte `json:"-"`
	// Matrix is an already decoded matrix.
	Matrix *matrix.Matrix `json:"-"`

	Delimiter       rune     `json:"-"`
	Normalize       bool     `json:"normalize"`
	KeepZeroColumns bool     `json:"keep_zero_columns"`
	Formats         []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool   `json:"-"`
	RunID   string `json:"run_id,omitempty"`
}

// Summary is the cacheable outcome of an analysis. It carries everything the
// CLI and the server report without keeping the tree itself.
type Summary struct {
	Perfect    bool     `json:"perfect"`
	Witness    string   `json:"witness"`
	Conflict   []string `json:"conflict,omitempty"`
	Newick     string   `json:"newick,omitempty"`
	Splits     []string `json:"splits"`
	Taxa       int      `json:"taxa"`
	Characters int      `json:"characters"`
	Dropped    []string `json:"dropped,omitempty"`
	Flipped    []string `json:"flipped,omitempty"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	RunID      string
	MatrixHash string
	// Matrix is the analyzed matrix, after normalization and column dropping.
	Matrix  *matrix.Matrix
	Summary Summary
	// Analysis is nil when the summary and all artifacts came from the cache.
	Analysis  *phylo.Result
	Artifacts map[string][]byte
	// Skipped lists requested tree formats that were not produced because
	// the matrix has a conflict.
	Skipped   []string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds stage timings.
type Stats struct {
	LoadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

type CacheInfo struct {
	ResultHit bool // Whether the analysis summary came from cache
	RenderHit bool // Whether all cacheable artifacts came from cache
}

// ValidFormats is the set of supported output formats.
var ValidFormats = func() map[string]bool {
	m := make(map[string]bool, len(AllFormats))
	for _, f := range AllFormats {
		m[f] = true
	}
	return m
}()

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return pperrors.New(pperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults: every
// format when none is requested and a fresh run id. Formats are
// deduplicated and put in [AllFormats] order.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Matrix == nil && len(o.Input) == 0 && o.Source == "" {
		return pperrors.New(pperrors.ErrCodeInvalidInput, "no input matrix")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(AllFormats)
	} else {
		o.Formats = ordered(o.Formats)
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	return nil
}

// ResultKeyOpts returns the options that identify a cached analysis.
func (o Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Normalize:       o.Normalize,
		KeepZeroColumns: o.KeepZeroColumns,
	}
}

// ArtifactKeyOpts returns the options that identify a cached artifact.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

// plan splits formats into those to render and the tree formats skipped
// because the analysis found a conflict. The manifest is in neither list.
func plan(formats []string, perfect bool) (render, skipped []string) {
	for _, f := range formats {
		switch {
		case f == FormatManifest:
		case treeFormats[f] && !perfect:
			skipped = append(skipped, f)
		default:
			render = append(render, f)
		}
	}
	return render, skipped
}

func ordered(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range AllFormats {
		if slices.Contains(formats, f) {
			out = append(out, f)
		}
	}
	return out
}

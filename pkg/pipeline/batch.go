package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

// ResultsDir is the subdirectory of a batch directory that receives one
// artifact directory per input file.
const ResultsDir = "results"

// BatchItem is the outcome for one input file.
type BatchItem struct {
	Name    string // file name without extension
	Path    string
	OutDir  string
	Outcome string // OutcomePerfect, OutcomeConflict or OutcomeError
	Witness string
	Err     error
	Result  *Result
}

// BatchReport collects the per-file outcomes of [Runner.Batch].
type BatchReport struct {
	Dir   string
	Items []BatchItem
}

// Count returns the number of items with the given outcome.
func (b *BatchReport) Count(outcome string) int {
	n := 0
	for _, it := range b.Items {
		if it.Outcome == outcome {
			n++
		}
	}
	return n
}

// String returns the one-line summary printed at the end of a batch.
func (b *BatchReport) String() string {
	return fmt.Sprintf("%d files: %d perfect, %d conflict, %d failed",
		len(b.Items), b.Count(OutcomePerfect), b.Count(OutcomeConflict), b.Count(OutcomeError))
}

// Batch analyzes every *.csv file in dir, in name order, writing the
// artifacts of file <name>.csv to dir/results/<name>/. A failing file is
// recorded and the batch continues; only a listing failure or context
// cancellation stops it early. The input fields of opts are ignored.
func (r *Runner) Batch(ctx context.Context, dir string, opts Options) (*BatchReport, error) {
	names, err := csvFiles(dir)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{Dir: dir}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Items = append(report.Items, r.batchItem(ctx, dir, name, opts))
	}

	r.Logger.Info("batch complete",
		"files", len(report.Items),
		"perfect", report.Count(OutcomePerfect),
		"conflict", report.Count(OutcomeConflict),
		"failed", report.Count(OutcomeError))
	return report, nil
}

func (r *Runner) batchItem(ctx context.Context, dir, name string, opts Options) BatchItem {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	item := BatchItem{
		Name:   stem,
		Path:   filepath.Join(dir, name),
		OutDir: filepath.Join(dir, ResultsDir, stem),
	}

	err := pperrors.ValidateOutputName(stem)
	if err == nil {
		run := opts
		run.Source, run.Input, run.Matrix, run.RunID = item.Path, nil, nil, ""
		item.Result, err = r.Execute(ctx, run)
	}
	if err == nil {
		_, err = WriteArtifacts(item.OutDir, item.Result.Artifacts)
	}
	if err != nil {
		r.Logger.Error("batch item failed", "file", name, "err", err)
		item.Outcome, item.Err = OutcomeError, err
		return item
	}

	item.Outcome = outcome(item.Result.Summary)
	item.Witness = item.Result.Summary.Witness
	return item
}

// csvFiles lists the regular *.csv files in dir, sorted by name.
func csvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, pperrors.Wrap(pperrors.ErrCodeFileNotFound, err, "directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, pperrors.New(pperrors.ErrCodeInvalidInput, "no .csv files in %s", dir)
	}
	return names, nil
}

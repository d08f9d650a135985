package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBatch(t *testing.T) {
	stubSVG(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_conflict.csv"), conflictCSV)
	writeFile(t, filepath.Join(dir, "a_perfect.csv"), perfectCSV)
	writeFile(t, filepath.Join(dir, "c_broken.csv"), "taxon,C1\nA,x\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	report, err := quietRunner(nil).Batch(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	want := []struct {
		name    string
		outcome string
	}{
		{"a_perfect", OutcomePerfect},
		{"b_conflict", OutcomeConflict},
		{"c_broken", OutcomeError},
	}
	if len(report.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(report.Items), len(want))
	}
	for i, w := range want {
		it := report.Items[i]
		if it.Name != w.name || it.Outcome != w.outcome {
			t.Errorf("item %d = %s/%s, want %s/%s", i, it.Name, it.Outcome, w.name, w.outcome)
		}
	}
	if got, want := report.String(), "3 files: 1 perfect, 1 conflict, 1 failed"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	broken := report.Items[2]
	if !pperrors.Is(broken.Err, pperrors.ErrCodeInvalidMatrix) {
		t.Errorf("broken item error = %v", broken.Err)
	}
	if _, err := os.Stat(broken.OutDir); !os.IsNotExist(err) {
		t.Errorf("failed item should not create %s", broken.OutDir)
	}

	perfectOut := filepath.Join(dir, ResultsDir, "a_perfect")
	data, err := os.ReadFile(filepath.Join(perfectOut, "tree_unrooted.nwk"))
	if err != nil || string(data) != "((A,B),(C,D));\n" {
		t.Errorf("a_perfect newick = %q, %v", data, err)
	}

	conflictOut := filepath.Join(dir, ResultsDir, "b_conflict")
	if _, err := os.Stat(filepath.Join(conflictOut, "tree_unrooted.nwk")); !os.IsNotExist(err) {
		t.Error("conflict run should not write a tree")
	}
	data, err = os.ReadFile(filepath.Join(conflictOut, "witness.txt"))
	if err != nil || string(data) != "conflict at character C2 (intersects multiple clades)\n" {
		t.Errorf("b_conflict witness = %q, %v", data, err)
	}
	if report.Items[1].Witness != "conflict at character C2 (intersects multiple clades)" {
		t.Errorf("Witness = %q", report.Items[1].Witness)
	}
}

func TestBatchErrors(t *testing.T) {
	empty := t.TempDir()
	writeFile(t, filepath.Join(empty, "readme.md"), "")

	tests := []struct {
		name string
		dir  string
		code pperrors.Code
	}{
		{"no csv files", empty, pperrors.ErrCodeInvalidInput},
		{"missing dir", filepath.Join(empty, "missing"), pperrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(nil).Batch(context.Background(), tt.dir, Options{})
			if got := pperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), perfectCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := quietRunner(nil).Batch(ctx, dir, Options{})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if report == nil || len(report.Items) != 0 {
		t.Errorf("report = %+v, want no items", report)
	}
}

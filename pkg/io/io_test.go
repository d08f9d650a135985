package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

func analyze(t *testing.T) *phylo.Result {
	t.Helper()
	res, err := phylo.Run(
		[]string{"A", "B", "C", "D"},
		[]string{"C1", "C2", "C3"},
		[][]int{
			{1, 1, 0},
			{1, 1, 0},
			{1, 0, 1},
			{0, 0, 0},
		},
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Perfect() {
		t.Fatalf("unexpected conflict: %v", res.Conflict)
	}
	return res
}

func TestJSONRoundTrip(t *testing.T) {
	orig := analyze(t).Tree

	var buf bytes.Buffer
	if err := WriteJSON(orig, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.Newick() != orig.Newick() {
		t.Errorf("Newick = %q, want %q", got.Newick(), orig.Newick())
	}
	if got.ToDOT() != orig.ToDOT() {
		t.Errorf("DOT differs after round trip:\n%s\nwant:\n%s", got.ToDOT(), orig.ToDOT())
	}
}

func TestExportImportJSON(t *testing.T) {
	orig := analyze(t).Tree
	path := filepath.Join(t.TempDir(), "tree.json")

	if err := ExportJSON(orig, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.EdgeCount() != orig.EdgeCount() {
		t.Errorf("EdgeCount = %d, want %d", got.EdgeCount(), orig.EdgeCount())
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON(missing) succeeded")
	}
}

func TestWriteJSON_Format(t *testing.T) {
	tr, err := tree.New([]string{"A", "B"}, [][]int{{1}, {0}}, []tree.Edge{{U: 0, V: 1, Labels: []string{"C1"}}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(tr, &buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"taxa": [`, `"id": 1,`, `"u": 0,`, `"v": 1,`, `"C1"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %s:\n%s", want, buf.String())
		}
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"malformed", `{"taxa": [`, nil, "decode"},
		{"duplicate taxon", `{"taxa": ["A", "A"], "nodes": [], "edges": []}`, nil, `taxon "A" listed twice`},
		{"unknown taxon", `{"taxa": ["A"], "nodes": [{"id": 0, "taxa": ["B"]}], "edges": []}`, nil, `unknown taxon "B"`},
		{"id out of order", `{"taxa": ["A"], "nodes": [{"id": 3, "taxa": ["A"]}], "edges": []}`, nil, "has id 3"},
		{"edge id out of order", `{"taxa": ["A","B"], "nodes": [{"id": 0, "taxa": ["A"]}, {"id": 1, "taxa": ["B"]}], "edges": [{"id": 4, "u": 0, "v": 1, "labels": ["C1"]}]}`, nil, "has id 4"},
		{"missing taxon", `{"taxa": ["A", "B"], "nodes": [{"id": 0, "taxa": ["A"]}], "edges": []}`, tree.ErrTaxonCoverage, ""},
		{"unlabeled edge", `{"taxa": ["A","B"], "nodes": [{"id": 0, "taxa": ["A"]}, {"id": 1, "taxa": ["B"]}], "edges": [{"id": 0, "u": 0, "v": 1, "labels": []}]}`, tree.ErrEmptyLabels, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestWriteSplits(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSplits(&buf, analyze(t).Splits); err != nil {
		t.Fatal(err)
	}
	want := "character,clade\n1,ABC\n2,AB\n3,C\n"
	if buf.String() != want {
		t.Errorf("WriteSplits() = %q, want %q", buf.String(), want)
	}
}

func TestWriteWitnessAndNewick(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWitness(&buf, analyze(t)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "OK\n" {
		t.Errorf("WriteWitness() = %q, want %q", buf.String(), "OK\n")
	}

	conflict, err := phylo.Run([]string{"A", "B", "C"}, []string{"C1", "C2"}, [][]int{{1, 0}, {1, 1}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := WriteWitness(&buf, conflict); err != nil {
		t.Fatal(err)
	}
	if want := "conflict at character C2 (intersects multiple clades)\n"; buf.String() != want {
		t.Errorf("WriteWitness() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteNewick(&buf, analyze(t).Newick()); err != nil {
		t.Fatal(err)
	}
	if want := "((A,B),(C,D));\n"; buf.String() != want {
		t.Errorf("WriteNewick() = %q, want %q", buf.String(), want)
	}
}

package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

type treeDoc struct {
	Taxa  []string  `json:"taxa"`
	Nodes []nodeDoc `json:"nodes"`
	Edges []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID   int      `json:"id"`
	Taxa []string `json:"taxa"`
}

type edgeDoc struct {
	ID     int      `json:"id"`
	U      int      `json:"u"`
	V      int      `json:"v"`
	Labels []string `json:"labels"`
}

// WriteJSON encodes t as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(t *tree.Tree, w io.Writer) error {
	taxa := t.Taxa()
	out := treeDoc{Taxa: taxa}

	for _, n := range t.Nodes() {
		names := make([]string, len(n.Taxa))
		for i, x := range n.Taxa {
			names[i] = taxa[x]
		}
		out.Nodes = append(out.Nodes, nodeDoc{ID: n.ID, Taxa: names})
	}
	out.Edges = make([]edgeDoc, 0, t.EdgeCount())
	for _, e := range t.Edges() {
		out.Edges = append(out.Edges, edgeDoc{ID: e.ID, U: e.U, V: e.V, Labels: e.Labels})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes t to a JSON file at path.
func ExportJSON(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteNewick writes s followed by a newline.
func WriteNewick(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}

// WriteSplits writes the split table: the [phylo.SplitHeader] line followed by
// one row per recorded character, in recording order.
func WriteSplits(w io.Writer, s *phylo.SplitMap) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(phylo.SplitHeader + "\n")
	for _, row := range phylo.SplitRows(s) {
		bw.WriteString(row + "\n")
	}
	return bw.Flush()
}

// WriteWitness writes the one-line outcome of res: "OK" for a perfect
// phylogeny, the conflict description otherwise.
func WriteWitness(w io.Writer, res *phylo.Result) error {
	_, err := io.WriteString(w, res.Witness()+"\n")
	return err
}

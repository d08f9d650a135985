package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// ReadJSON decodes a tree written by [WriteJSON].
//
// Node and edge ids must match their position in the arrays. Every node taxon
// must name an entry of the "taxa" array. The decoded parts are passed to
// [tree.New], so a document that does not describe a tree is rejected with
// one of the tree package's sentinel errors.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Tree, error) {
	var data treeDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	index := make(map[string]int, len(data.Taxa))
	for i, name := range data.Taxa {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("taxon %q listed twice", name)
		}
		index[name] = i
	}

	nodeTaxa := make([][]int, len(data.Nodes))
	for pos, n := range data.Nodes {
		if n.ID != pos {
			return nil, fmt.Errorf("node at position %d has id %d", pos, n.ID)
		}
		for _, name := range n.Taxa {
			x, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("node %d: unknown taxon %q", n.ID, name)
			}
			nodeTaxa[pos] = append(nodeTaxa[pos], x)
		}
	}

	edges := make([]tree.Edge, len(data.Edges))
	for pos, e := range data.Edges {
		if e.ID != pos {
			return nil, fmt.Errorf("edge at position %d has id %d", pos, e.ID)
		}
		edges[pos] = tree.Edge{U: e.U, V: e.V, Labels: e.Labels}
	}

	t, err := tree.New(data.Taxa, nodeTaxa, edges)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	return t, nil
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
func ImportJSON(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

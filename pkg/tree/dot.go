package tree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns an undirected Graphviz representation of the tree.
//
// Nodes are emitted in id order and labeled with their taxa (one per line);
// nodes without taxa are drawn as small points. Edges are labeled with their
// characters, comma-separated. The output depends only on the tree, so it is
// byte-identical across runs.
func (t *Tree) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("graph Phylogeny {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11, fontcolor=\"#555555\"];\n\n")

	for _, n := range t.nodes {
		if len(n.Taxa) == 0 {
			fmt.Fprintf(&buf, "  n%d [shape=point, label=\"\"];\n", n.ID)
			continue
		}
		names := make([]string, len(n.Taxa))
		for i, x := range n.Taxa {
			names[i] = t.taxa[x]
		}
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", n.ID, strings.Join(names, "\n"))
	}

	buf.WriteString("\n")
	for _, e := range t.edges {
		fmt.Fprintf(&buf, "  n%d -- n%d [label=%q];\n", e.U, e.V, strings.Join(e.Labels, ","))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

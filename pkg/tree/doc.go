// Package tree provides the unrooted tree produced by perfect-phylogeny
// reconstruction, together with its deterministic serializations.
//
// # Overview
//
// A [Tree] is an undirected tree whose nodes are clades (blocks of taxa) and
// whose edges are the splits induced by characters. An edge carries one or
// more character labels; several labels on one edge ("co-labels") mean that
// those characters induce the identical split.
//
// Trees are built once, from the artifacts of partition refinement, with
// [New]. After construction a Tree is read-only: every method in this package,
// including the serializers, leaves it untouched.
//
// # Newick
//
// [Tree.Newick] renders the plain form: the traversal starts at the first node
// whose degree is not 2 and emits each node's own taxa next to one
// sub-expression per neighbor. [Tree.AnchoredNewick] renders the canonical
// form: the root bipartition is the edge carrying an anchor character, and
// siblings are ordered by a fixed rule, so two structurally identical trees
// always serialize to the same string regardless of internal node numbering.
// [SelectAnchor] implements the anchor/prefer policy used by callers.
//
//	t, err := tree.New(taxa, nodeTaxa, edges)
//	if err != nil {
//	    return err
//	}
//	a := tree.SelectAnchor(clades, len(taxa))
//	fmt.Println(t.AnchoredNewick(a.Character, a.Prefer))
//
// # Graphviz
//
// [Tree.ToDOT] produces an undirected Graphviz graph and [RenderSVG] turns any
// DOT source into SVG using github.com/goccy/go-graphviz.
//
// # Traversal
//
// All traversals use an explicit stack and a visited set keyed by node id, so
// arbitrarily deep (caterpillar) trees never depend on call-stack depth.
package tree

package tree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoTaxa is returned by [New] when the taxon list is empty.
	ErrNoTaxa = errors.New("tree must have at least one taxon")

	// ErrInvalidEndpoint is returned by [New] when an edge references a node
	// id outside the node list, or connects a node to itself.
	ErrInvalidEndpoint = errors.New("invalid edge endpoint")

	// ErrTaxonCoverage is returned by [New] when a taxon index is out of range,
	// appears on more than one node, or appears on no node at all.
	ErrTaxonCoverage = errors.New("every taxon must sit on exactly one node")

	// ErrEmptyLabels is returned by [New] for an edge without character labels.
	ErrEmptyLabels = errors.New("edge must carry at least one label")

	// ErrNotTree is returned by [New] when nodes and edges do not form a
	// single connected acyclic graph.
	ErrNotTree = errors.New("nodes and edges do not form a tree")
)

// Node is one clade of the tree. Taxa holds the indices of the taxa sitting
// directly on this node (ascending); Neighbors lists adjacent node ids in the
// order their connecting edges were created.
type Node struct {
	ID        int
	Taxa      []int
	Neighbors []int
}

// Edge is an undirected link between nodes U and V. When the edge was created
// by a split, V is the node holding the split-off clade.
type Edge struct {
	ID     int
	U, V   int
	Labels []string
}

// Has reports whether label is one of the edge's characters.
func (e Edge) Has(label string) bool {
	return label != "" && slices.Contains(e.Labels, label)
}

// Tree is an immutable unrooted tree over a fixed taxon set.
//
// The zero value is not usable; construct trees with [New].
type Tree struct {
	taxa   []string
	nodes  []Node
	edges  []Edge
	adj    [][]int // node id -> incident edge ids, creation order
	edgeOf map[string]int
}

// New assembles a Tree from refinement artifacts: taxon names, the taxa
// assigned to each node id, and the edge list. Edge ids are assigned from the
// slice position; any ID already set on an Edge is ignored.
//
// New copies its inputs and validates that every taxon sits on exactly one
// node and that the nodes and edges form a tree.
func New(taxa []string, nodeTaxa [][]int, edges []Edge) (*Tree, error) {
	if len(taxa) == 0 {
		return nil, ErrNoTaxa
	}
	if len(nodeTaxa) == 0 || len(edges) != len(nodeTaxa)-1 {
		return nil, fmt.Errorf("%w: %d nodes, %d edges", ErrNotTree, len(nodeTaxa), len(edges))
	}

	t := &Tree{
		taxa:   slices.Clone(taxa),
		nodes:  make([]Node, len(nodeTaxa)),
		edges:  make([]Edge, len(edges)),
		adj:    make([][]int, len(nodeTaxa)),
		edgeOf: make(map[string]int),
	}

	seen := make([]bool, len(taxa))
	for id, members := range nodeTaxa {
		sorted := slices.Clone(members)
		slices.Sort(sorted)
		for _, x := range sorted {
			if x < 0 || x >= len(taxa) || seen[x] {
				return nil, fmt.Errorf("%w: taxon %d on node %d", ErrTaxonCoverage, x, id)
			}
			seen[x] = true
		}
		t.nodes[id] = Node{ID: id, Taxa: sorted}
	}
	if i := slices.Index(seen, false); i >= 0 {
		return nil, fmt.Errorf("%w: taxon %q unassigned", ErrTaxonCoverage, taxa[i])
	}

	for id, e := range edges {
		if e.U < 0 || e.U >= len(nodeTaxa) || e.V < 0 || e.V >= len(nodeTaxa) || e.U == e.V {
			return nil, fmt.Errorf("%w: edge %d (%d,%d)", ErrInvalidEndpoint, id, e.U, e.V)
		}
		if len(e.Labels) == 0 {
			return nil, fmt.Errorf("%w: edge %d", ErrEmptyLabels, id)
		}
		e.ID = id
		e.Labels = slices.Clone(e.Labels)
		t.edges[id] = e
		t.adj[e.U] = append(t.adj[e.U], id)
		t.adj[e.V] = append(t.adj[e.V], id)
		t.nodes[e.U].Neighbors = append(t.nodes[e.U].Neighbors, e.V)
		t.nodes[e.V].Neighbors = append(t.nodes[e.V].Neighbors, e.U)
		for _, l := range e.Labels {
			if _, dup := t.edgeOf[l]; !dup {
				t.edgeOf[l] = id
			}
		}
	}

	// n-1 edges plus connectivity implies acyclic.
	if reached := len(t.component(0, -1)); reached != len(nodeTaxa) {
		return nil, fmt.Errorf("%w: %d of %d nodes reachable", ErrNotTree, reached, len(nodeTaxa))
	}
	return t, nil
}

// Taxa returns a copy of the taxon names, indexed by taxon index.
func (t *Tree) Taxa() []string { return slices.Clone(t.taxa) }

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// Node returns the node with the given id.
func (t *Tree) Node(id int) (Node, bool) {
	if id < 0 || id >= len(t.nodes) {
		return Node{}, false
	}
	return cloneNode(t.nodes[id]), true
}

// Nodes returns copies of all nodes in id order.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = cloneNode(n)
	}
	return out
}

// Edges returns copies of all edges in id order.
func (t *Tree) Edges() []Edge {
	out := make([]Edge, len(t.edges))
	for i, e := range t.edges {
		e.Labels = slices.Clone(e.Labels)
		out[i] = e
	}
	return out
}

// Degree returns the number of neighbors of node id, or 0 if id is unknown.
func (t *Tree) Degree(id int) int {
	if id < 0 || id >= len(t.nodes) {
		return 0
	}
	return len(t.adj[id])
}

// EdgeFor returns the edge labeled with character, if any.
func (t *Tree) EdgeFor(character string) (Edge, bool) {
	id, ok := t.edgeOf[character]
	if !ok {
		return Edge{}, false
	}
	e := t.edges[id]
	e.Labels = slices.Clone(e.Labels)
	return e, true
}

// Leaves returns all taxon names in lexicographic order.
func (t *Tree) Leaves() []string {
	out := slices.Clone(t.taxa)
	slices.Sort(out)
	return out
}

// Cut removes edge id and returns the sorted taxon names on its V side.
// For an edge created by a split this is exactly the split-off clade.
func (t *Tree) Cut(id int) ([]string, error) {
	if id < 0 || id >= len(t.edges) {
		return nil, fmt.Errorf("edge %d: %w", id, ErrInvalidEndpoint)
	}
	var names []string
	for _, n := range t.component(t.edges[id].V, id) {
		for _, x := range t.nodes[n].Taxa {
			names = append(names, t.taxa[x])
		}
	}
	slices.Sort(names)
	return names, nil
}

// component returns the node ids reachable from start without crossing the
// blocked edge (-1 blocks nothing), in discovery order.
func (t *Tree) component(start, blocked int) []int {
	visited := make([]bool, len(t.nodes))
	visited[start] = true
	order := []int{start}
	stack := []int{start}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, eid := range t.adj[u] {
			if eid == blocked {
				continue
			}
			v := t.edges[eid].other(u)
			if visited[v] {
				continue
			}
			visited[v] = true
			order = append(order, v)
			stack = append(stack, v)
		}
	}
	return order
}

func (e Edge) other(u int) int {
	if e.U == u {
		return e.V
	}
	return e.U
}

func cloneNode(n Node) Node {
	n.Taxa = slices.Clone(n.Taxa)
	n.Neighbors = slices.Clone(n.Neighbors)
	return n
}

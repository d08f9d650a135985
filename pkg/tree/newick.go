package tree

import (
	"cmp"
	"slices"
	"strings"
)

// rooted is a view of the tree hung from a start node, optionally with one
// edge removed. order lists nodes in discovery order, so iterating it
// backwards visits every child before its parent.
type rooted struct {
	order  []int
	parent []int // -1 for the start node and unreached nodes
	via    []int // edge to parent, -1 for the start node
}

func (t *Tree) hang(start, blocked int) rooted {
	r := rooted{
		parent: make([]int, len(t.nodes)),
		via:    make([]int, len(t.nodes)),
	}
	for i := range r.parent {
		r.parent[i], r.via[i] = -1, -1
	}
	r.order = t.component(start, blocked)
	for _, u := range r.order {
		for _, eid := range t.adj[u] {
			if eid == blocked {
				continue
			}
			v := t.edges[eid].other(u)
			if v != start && r.parent[v] == -1 && v != r.parent[u] {
				r.parent[v], r.via[v] = u, eid
			}
		}
	}
	return r
}

// children returns u's children in the rooted view, in edge creation order.
func (t *Tree) children(r rooted, u int) []int {
	var out []int
	for _, eid := range t.adj[u] {
		v := t.edges[eid].other(u)
		if r.via[v] == eid {
			out = append(out, v)
		}
	}
	return out
}

// Newick renders the tree in plain Newick form.
//
// The traversal starts at the first node whose degree is not 2 (node 0 if
// every node has degree 2). Each node contributes its own taxa as leaves and
// one sub-expression per neighbor away from the start; a node with a single
// part is emitted without parentheses.
func (t *Tree) Newick() string {
	start := 0
	for id := range t.nodes {
		if len(t.adj[id]) != 2 {
			start = id
			break
		}
	}
	r := t.hang(start, -1)

	text := make([]string, len(t.nodes))
	for i := len(r.order) - 1; i >= 0; i-- {
		u := r.order[i]
		var parts []string
		for _, x := range t.nodes[u].Taxa {
			parts = append(parts, quoteName(t.taxa[x]))
		}
		for _, c := range t.children(r, u) {
			if text[c] != "" {
				parts = append(parts, text[c])
			}
		}
		text[u] = joinParts(parts)
	}
	return text[start] + ";"
}

// subtree is one sibling in the anchored rendering.
type subtree struct {
	text   string
	leaves []string // sorted
	key    string   // leaves joined by "|"
	prefer bool
}

// AnchoredNewick renders the canonical Newick form rooted at the edge carrying
// the anchor character.
//
// The two endpoints of that edge define the top-level bipartition. Within
// every node, sibling subtrees are ordered so that a subtree whose incident
// edge or any descendant edge carries prefer comes first, then larger
// subtrees (by leaf count) before smaller ones, then by the lexicographic
// order of their sorted, pipe-joined leaf names. The two top-level sides are
// ordered by leaf count and leaf names only.
//
// If no edge carries anchor, AnchoredNewick falls back to [Tree.Newick].
func (t *Tree) AnchoredNewick(anchor, prefer string) string {
	eid, ok := t.edgeOf[anchor]
	if !ok {
		return t.Newick()
	}
	e := t.edges[eid]
	sides := []subtree{t.side(e.U, eid, prefer), t.side(e.V, eid, prefer)}
	slices.SortStableFunc(sides, bySize)
	return "(" + sides[0].text + "," + sides[1].text + ");"
}

// side renders the subtree reachable from start without crossing blocked.
func (t *Tree) side(start, blocked int, prefer string) subtree {
	r := t.hang(start, blocked)
	subs := make([]subtree, len(t.nodes))
	for i := len(r.order) - 1; i >= 0; i-- {
		u := r.order[i]
		var parts []subtree
		for _, x := range t.nodes[u].Taxa {
			name := t.taxa[x]
			parts = append(parts, subtree{text: quoteName(name), leaves: []string{name}, key: name})
		}
		for _, c := range t.children(r, u) {
			s := subs[c]
			if s.text == "" {
				continue
			}
			s.prefer = s.prefer || t.edges[r.via[c]].Has(prefer)
			parts = append(parts, s)
		}
		slices.SortStableFunc(parts, func(a, b subtree) int {
			if a.prefer != b.prefer {
				if a.prefer {
					return -1
				}
				return 1
			}
			return bySize(a, b)
		})
		subs[u] = merge(parts)
	}
	return subs[start]
}

// bySize orders larger subtrees first, then by leaf names.
func bySize(a, b subtree) int {
	if c := cmp.Compare(len(b.leaves), len(a.leaves)); c != 0 {
		return c
	}
	return strings.Compare(a.key, b.key)
}

func merge(parts []subtree) subtree {
	var out subtree
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.text
		out.leaves = append(out.leaves, p.leaves...)
		out.prefer = out.prefer || p.prefer
	}
	slices.Sort(out.leaves)
	out.key = strings.Join(out.leaves, "|")
	out.text = joinParts(texts)
	return out
}

func joinParts(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// quoteName single-quotes names that contain Newick metacharacters.
func quoteName(name string) string {
	if !strings.ContainsAny(name, "()[]':;, \t\n") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

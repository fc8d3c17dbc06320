// Package diff implements the semantic Markdown tree differencing
// engine: content-hash node signatures, weighted priority matching,
// match propagation, a bottom-up/top-down optimization pass, and a
// final lock-step merge that runs word-level LCS over changed text.
package diff

import "github.com/kristapsdz/mdcore/ast"

// descriptor is one tree's per-node bookkeeping entry: its content
// signature, its weight, and the index of whatever node it has been
// matched to in the other tree's table (-1 if unmatched).
type descriptor struct {
	node   *ast.Node
	sig    uint64
	weight float64
	match  int
}

// table is the dense, postorder-indexed descriptor array for one
// tree — the xnode/xmap-equivalent node table spec.md §4.2 describes.
// Because children are appended before their parent, a node's own
// index is always greater than every one of its descendants' indices,
// and the tree's root always occupies the last slot.
type table struct {
	nodes []descriptor
	index map[*ast.Node]int
}

func buildTable(root *ast.Node) *table {
	t := &table{index: make(map[*ast.Node]int)}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		for _, c := range n.Children {
			walk(c)
		}
		idx := len(t.nodes)
		t.nodes = append(t.nodes, descriptor{node: n, match: -1})
		t.index[n] = idx
	}
	walk(root)
	return t
}

func (t *table) idx(n *ast.Node) int {
	return t.index[n]
}

func (t *table) rootIdx() int {
	return len(t.nodes) - 1
}

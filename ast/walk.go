package ast

// WalkStatus controls traversal in Walk, mirroring goldmark's
// ast.WalkStatus — the teacher (catmd) calls ast.Walk throughout
// parser.go and transform.go with exactly this three-way result.
type WalkStatus int

const (
	WalkStop WalkStatus = iota
	WalkSkipChildren
	WalkContinue
)

// Walker is called twice per node during Walk: once entering (before
// its children) and once leaving (after), distinguished by entering.
type Walker func(n *Node, entering bool) (WalkStatus, error)

// Walk performs a depth-first preorder/postorder traversal of the
// subtree rooted at n, calling walker on enter and leave. A WalkStop
// unwinds the whole traversal immediately without producing an error.
func Walk(n *Node, walker Walker) error {
	_, err := walk(n, walker)
	return err
}

func walk(n *Node, walker Walker) (WalkStatus, error) {
	status, err := walker(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		for _, c := range n.Children {
			st, err := walk(c, walker)
			if err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	status, err = walker(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// WalkFunc is a convenience wrapper for callers that only care about
// the entering visit and never need to stop or skip early.
func WalkFunc(n *Node, f func(n *Node)) {
	_ = Walk(n, func(n *Node, entering bool) (WalkStatus, error) {
		if entering {
			f(n)
		}
		return WalkContinue, nil
	})
}

// Preorder returns every node in the subtree rooted at n, in document
// (preorder) order — the order node ids must already follow per
// invariant 2 of spec.md §8.
func Preorder(n *Node) []*Node {
	var out []*Node
	WalkFunc(n, func(n *Node) { out = append(out, n) })
	return out
}

// AssignIDs numbers every node in the subtree rooted at n in preorder
// starting at start, returning one past the last id used (max_id+1 in
// spec.md's terms is the returned value; max_id itself is the return
// value minus one).
func AssignIDs(n *Node, start int) int {
	id := start
	WalkFunc(n, func(n *Node) {
		n.ID = id
		id++
	})
	return id
}

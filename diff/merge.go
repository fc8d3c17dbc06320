package diff

import "github.com/kristapsdz/mdcore/ast"

// mergeTrees implements spec.md §4.2.7's node_clone/node_merge walk:
// given two trees whose descriptor tables carry whatever matches
// Phase 3/4 established, it produces one result tree carrying the new
// tree's shape and content plus ChangeInsert/ChangeDelete annotations
// for whatever didn't survive the match, and a word-level text diff
// (lcs.go) between co-located unmatched NORMAL_TEXT children of each
// merged pair.
//
// oldRoot and newRoot are always the merge's anchor pair: each Parse
// call produces exactly one ROOT node, so there is nothing for Phase 3
// to discover about which root corresponds to which — they are the
// same document's two versions by construction. diff.go's anchorRoots
// records this in the descriptor tables too (so topDownOptimize can
// propagate a positional pairing down from the roots), but mergeTrees
// doesn't depend on that bookkeeping having happened: content-hash
// signature equality can fail to reach the root even for a small
// in-place edit, since every ancestor's hash depends on all of its
// descendants'.
func mergeTrees(oldT, newT *table, oldRoot, newRoot *ast.Node) *ast.Node {
	return mergeMatched(oldT, newT, oldRoot, newRoot)
}

// mergeMatched merges one matched (o, n) pair, lock-stepping through
// both children sequences the way node_merge does: runs of unmatched
// non-text children flush as whole delete/insert clones, a co-located
// pair of unmatched NORMAL_TEXT children runs word-level LCS directly
// by position (no table match required — most edited prose never ends
// up matched by Phase 3/4, since a changed leaf changes every ancestor
// signature above it too), and a matched new child is located in the
// remaining old sequence, flushing anything skipped over as deletes.
func mergeMatched(oldT, newT *table, o, n *ast.Node) *ast.Node {
	if isTextLeaf(o) && isTextLeaf(n) {
		return mergeText(o, n)
	}

	result := n.Clone(0)

	oc, nc := o.Children, n.Children
	oi, ni := 0, 0

	matched := func(t *table, c *ast.Node) int {
		return t.nodes[t.idx(c)].match
	}

	for ni < len(nc) {
		for oi < len(oc) && matched(oldT, oc[oi]) == -1 && !isNormalText(oc[oi]) {
			result.AppendChild(cloneSubtree(oc[oi], ast.ChangeDelete))
			oi++
		}
		for ni < len(nc) && matched(newT, nc[ni]) == -1 && !isNormalText(nc[ni]) {
			result.AppendChild(cloneSubtree(nc[ni], ast.ChangeInsert))
			ni++
		}

		if oi < len(oc) && ni < len(nc) &&
			isNormalText(oc[oi]) && matched(oldT, oc[oi]) == -1 &&
			isNormalText(nc[ni]) && matched(newT, nc[ni]) == -1 {
			for _, child := range diffWords(payloadBytes(oc[oi]), payloadBytes(nc[ni])) {
				result.AppendChild(child)
			}
			oi++
			ni++
			continue
		}

		for oi < len(oc) && matched(oldT, oc[oi]) == -1 {
			result.AppendChild(cloneSubtree(oc[oi], ast.ChangeDelete))
			oi++
		}
		for ni < len(nc) && matched(newT, nc[ni]) == -1 {
			result.AppendChild(cloneSubtree(nc[ni], ast.ChangeInsert))
			ni++
		}

		if ni >= len(nc) {
			break
		}

		// nc[ni] is matched: find its partner at or after oi.
		want := matched(newT, nc[ni])
		pos := -1
		for k := oi; k < len(oc); k++ {
			if oldT.idx(oc[k]) == want {
				pos = k
				break
			}
		}

		if pos == -1 {
			// Its old partner was already passed over and emitted as
			// a deleted subtree (a move): emit this side as an
			// inserted subtree.
			result.AppendChild(cloneSubtree(nc[ni], ast.ChangeInsert))
			ni++
			continue
		}

		for oi < pos {
			result.AppendChild(cloneSubtree(oc[oi], ast.ChangeDelete))
			oi++
		}
		result.AppendChild(mergeMatched(oldT, newT, oc[oi], nc[ni]))
		oi++
		ni++
	}

	for oi < len(oc) {
		result.AppendChild(cloneSubtree(oc[oi], ast.ChangeDelete))
		oi++
	}

	return result
}

func isNormalText(n *ast.Node) bool {
	return n.Kind == ast.NORMAL_TEXT
}

// mergeText runs diffWords over two matched text leaves and wraps the
// result as children of a clone of n: the node keeps n's Kind (and
// any non-Text fields, e.g. a CODESPAN's none), but its Text is now
// expressed through its NORMAL_TEXT children instead of directly.
func mergeText(o, n *ast.Node) *ast.Node {
	result := n.Clone(0)
	if textsEqual(o, n) {
		return result
	}
	result.Text = nil
	for _, child := range diffWords(payloadBytes(o), payloadBytes(n)) {
		result.AppendChild(child)
	}
	return result
}

func textsEqual(o, n *ast.Node) bool {
	op, np := payloadBytes(o), payloadBytes(n)
	if len(op) != len(np) {
		return false
	}
	for i := range op {
		if op[i] != np[i] {
			return false
		}
	}
	return true
}

func cloneSubtree(n *ast.Node, chng ast.ChangeKind) *ast.Node {
	cp := n.Clone(0)
	cp.Chng = chng
	for _, c := range n.Children {
		cp.AppendChild(cloneSubtree(c, chng))
	}
	return cp
}

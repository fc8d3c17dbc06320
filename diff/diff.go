package diff

import "github.com/kristapsdz/mdcore/ast"

// Options configures a single Diff call (spec.md §6.2). The zero
// value is valid: it uses DefaultMatchThreshold.
type Options struct {
	// MatchThreshold overrides Phase 4's bottom-up weight fraction
	// cutoff (the top-down pass does not use it). Zero means
	// DefaultMatchThreshold.
	MatchThreshold float64
}

// Diff implements spec.md's tree-differencing pipeline end to end:
//
//  1. build a postorder descriptor table per tree and compute content
//     signatures and weights (§4.2.3/§4.2.4);
//  2. run the weighted priority-queue signature match, seeded with
//     only the new root (§4.2.5), propagating each match both down and
//     up as it's found;
//  3. run the bottom-up/top-down optimization pass over any stragglers
//     (§4.2.6);
//  4. merge the two trees into one result tree, carrying per-node
//     insert/delete labels and running word-level LCS over co-located
//     unmatched NORMAL_TEXT children of each merged pair (§4.2.7/§4.2.8).
//
// oldRoot and newRoot are not mutated; the returned tree is entirely
// new nodes. The returned int is the resulting tree's node count.
func Diff(oldRoot, newRoot *ast.Node, opts Options) (*ast.Node, int, error) {
	oldT := buildTable(oldRoot)
	newT := buildTable(newRoot)
	computeSignatures(oldT)
	computeSignatures(newT)

	matchBySignature(oldT, newT)
	anchorRoots(oldT, newT)
	bottomUpOptimize(oldT, newT, opts.MatchThreshold)
	topDownOptimize(oldT, newT, opts.MatchThreshold)

	result := mergeTrees(oldT, newT, oldRoot, newRoot)
	count := ast.AssignIDs(result, 0)
	return result, count, nil
}

// anchorRoots records the two tree roots as matched if Phase 3 didn't
// already find them equal by signature. Each Parse call produces
// exactly one ROOT, so the two roots are the same document's two
// versions by construction — mergeTrees already treats them as the
// merge's anchor pair regardless of the table, and recording that here
// too lets topDownOptimize propagate a positional pairing down from
// the roots even when nothing below matched by content.
func anchorRoots(oldT, newT *table) {
	oi, ni := oldT.rootIdx(), newT.rootIdx()
	if oldT.nodes[oi].match == -1 && newT.nodes[ni].match == -1 {
		oldT.nodes[oi].match = ni
		newT.nodes[ni].match = oi
	}
}

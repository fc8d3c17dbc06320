package diff

import (
	"container/heap"
	"math"
)

// matchDown implements spec.md §4.2.6's downward propagation: once a
// pair is matched by signature equality, their children are guaranteed
// structurally identical, so they're paired off positionally with no
// further check.
func matchDown(oldT, newT *table, oldIdx, newIdx int) {
	o := oldT.nodes[oldIdx].node
	n := newT.nodes[newIdx].node
	if len(o.Children) != len(n.Children) || len(o.Children) == 0 {
		return
	}
	for i := range o.Children {
		oi, ni := oldT.idx(o.Children[i]), newT.idx(n.Children[i])
		if oldT.nodes[oi].match != -1 || newT.nodes[ni].match != -1 {
			continue
		}
		oldT.nodes[oi].match = ni
		newT.nodes[ni].match = oi
		matchDown(oldT, newT, oi, ni)
	}
}

// matchUp implements spec.md §4.2.6's upward propagation: starting
// from a freshly matched pair, climb both parent chains together up to
// depth d, matching ancestor pairs as long as their Kind agrees and
// neither is already matched (non-overwriting — an existing match
// always wins). If the climb reaches depth d, it keeps going through
// same-Kind ancestor pairs that each have a single child on both sides
// (the "singleton ancestor chain" extension preserved from the
// reference implementation).
func matchUp(oldT, newT *table, oldIdx, newIdx int, d int) {
	op := oldT.nodes[oldIdx].node.Parent
	np := newT.nodes[newIdx].node.Parent
	steps := 0
	for op != nil && np != nil && steps < d {
		oi, ni := oldT.idx(op), newT.idx(np)
		if oldT.nodes[oi].match != -1 || newT.nodes[ni].match != -1 {
			break
		}
		if op.Kind != np.Kind {
			break
		}
		oldT.nodes[oi].match = ni
		newT.nodes[ni].match = oi
		steps++
		op, np = op.Parent, np.Parent
	}
	if steps != d {
		return
	}

	// Pass up singletons past depth d: an extension of the algorithm.
	for op != nil && np != nil {
		oi, ni := oldT.idx(op), newT.idx(np)
		if len(op.Children) != 1 || len(np.Children) != 1 {
			break
		}
		if oldT.nodes[oi].match != -1 || newT.nodes[ni].match != -1 {
			break
		}
		if op.Kind != np.Kind {
			break
		}
		oldT.nodes[oi].match = ni
		newT.nodes[ni].match = oi
		op, np = op.Parent, np.Parent
	}
}

// matchBySignature runs spec.md §4.2.5's Phase 3 exactly: a priority
// queue of NEW-tree nodes ordered by descending weight (ties by
// ascending id), seeded with only the new root. Popping a node scans
// the OLD descriptor table for unmatched same-signature entries; the
// best candidate (by optimality score) is matched and the match
// propagated down and up. A node with no candidate pushes its children
// onto the queue instead, so the search walks down into the new tree
// only as far as it has to.
//
// This replaces an earlier draft that force-matched the two tree roots
// and propagated that match blindly regardless of signature: that
// defeated move/reorder detection and could pair nodes of different
// Kind. The reference implementation (original_source/diff.c's
// lowdown_diff) primes its queue with the new root alone and matches
// exclusively on signature equality; this is a direct port of that.
func matchBySignature(oldT, newT *table) {
	bySigOld := make(map[uint64][]int, len(oldT.nodes))
	for i := range oldT.nodes {
		bySigOld[oldT.nodes[i].sig] = append(bySigOld[oldT.nodes[i].sig], i)
	}

	pq := &byWeight{t: newT, items: []int{newT.rootIdx()}}
	heap.Init(pq)

	newMaxID := 0
	for _, d := range newT.nodes {
		if d.node.ID > newMaxID {
			newMaxID = d.node.ID
		}
	}
	newMaxWeight := newT.nodes[newT.rootIdx()].weight
	if newMaxWeight <= 0 {
		newMaxWeight = 1
	}

	for pq.Len() > 0 {
		ni := heap.Pop(pq).(int)
		if newT.nodes[ni].match != -1 {
			continue
		}

		var candidates []int
		for _, c := range bySigOld[newT.nodes[ni].sig] {
			if oldT.nodes[c].match == -1 {
				candidates = append(candidates, c)
			}
		}

		if len(candidates) == 0 {
			for _, c := range newT.nodes[ni].node.Children {
				heap.Push(pq, newT.idx(c))
			}
			continue
		}

		d := int(math.Ceil(math.Log(float64(newMaxID)) * newT.nodes[ni].weight / newMaxWeight))
		if d < 1 {
			d = 1
		}
		best := selectCandidate(newT, ni, oldT, candidates, d)
		newT.nodes[ni].match = best
		oldT.nodes[best].match = ni
		matchDown(oldT, newT, best, ni)
		matchUp(oldT, newT, best, ni, d)
	}
}

// selectCandidate implements §4.2.5's optimality score: climb fromIdx
// (in fromT) and each candidate (in otherT) in lockstep up to depth d,
// counting the levels at which the climbed from-ancestor's match
// equals the climbed candidate-ancestor. The score is 1 plus that
// count; ties go to the candidate whose node id is numerically closest
// to the anchor's.
func selectCandidate(fromT *table, fromIdx int, otherT *table, candidates []int, d int) int {
	if len(candidates) == 1 {
		return candidates[0]
	}
	fromID := fromT.nodes[fromIdx].node.ID

	best, bestScore, bestDist := candidates[0], -1, -1
	for _, c := range candidates {
		score := 1 + agreementCount(fromT, fromIdx, otherT, c, d)
		dist := fromID - otherT.nodes[c].node.ID
		if dist < 0 {
			dist = -dist
		}
		if score > bestScore || (score == bestScore && dist < bestDist) {
			best, bestScore, bestDist = c, score, dist
		}
	}
	return best
}

// agreementCount climbs fromIdx's and candidateIdx's ancestor chains
// together up to depth d and counts how many levels the climbed
// from-ancestor is already matched to the climbed candidate-ancestor.
func agreementCount(fromT *table, fromIdx int, otherT *table, candidateIdx int, d int) int {
	fn := fromT.nodes[fromIdx].node.Parent
	cn := otherT.nodes[candidateIdx].node.Parent
	count := 0
	for i := 0; i < d && fn != nil && cn != nil; i++ {
		fi, ci := fromT.idx(fn), otherT.idx(cn)
		if fromT.nodes[fi].match == ci {
			count++
		}
		fn, cn = fn.Parent, cn.Parent
	}
	return count
}

// byWeight is the priority queue spec.md §4.2.5 describes: weight
// descending, node id ascending as the tie-break.
type byWeight struct {
	t     *table
	items []int
}

func (b *byWeight) Len() int { return len(b.items) }

func (b *byWeight) Less(i, j int) bool {
	wi := b.t.nodes[b.items[i]].weight
	wj := b.t.nodes[b.items[j]].weight
	if wi != wj {
		return wi > wj
	}
	return b.t.nodes[b.items[i]].node.ID < b.t.nodes[b.items[j]].node.ID
}

func (b *byWeight) Swap(i, j int) { b.items[i], b.items[j] = b.items[j], b.items[i] }

func (b *byWeight) Push(x any) { b.items = append(b.items, x.(int)) }

func (b *byWeight) Pop() any {
	n := len(b.items)
	it := b.items[n-1]
	b.items = b.items[:n-1]
	return it
}

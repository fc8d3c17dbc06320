package parser

import "github.com/kristapsdz/mdcore/ast"

// state carries everything mutable a single Parse call threads through
// both the block and span passes: the resolved options, the reference
// tables collected up front (spec.md §4.1.3), footnote numbering
// assigned in first-reference order (spec.md §3.1), the scratch-buffer
// pools and allocation budget (§5), and the nesting-depth guard (§4.1.7).
//
// A state is never shared across goroutines; one Parse call owns one.
type state struct {
	opts    Options
	refs    *refTable
	budget  *budget
	scratch scratch

	footnoteOrder []string
	footnoteNum   map[string]int

	meta []ast.MetaEntry

	depthLimit    int
	maxDepth      int
	nestingWarned bool
}

func newState(opts Options, refs *refTable) *state {
	return &state{
		opts:        opts,
		refs:        refs,
		budget:      newBudget(0),
		footnoteNum: make(map[string]int),
		depthLimit:  opts.maxDepth(),
	}
}

func (st *state) warn(w Warning) {
	st.opts.warn(w)
}

// enterNesting implements spec.md §4.1.7's nesting guard: once depth
// reaches the configured cap, further block/span recursion is refused
// (the caller falls back to a flat text node) and a single warning is
// emitted the first time the cap is crossed.
func (st *state) enterNesting(depth int) bool {
	if depth >= st.depthLimit {
		if !st.nestingWarned {
			st.nestingWarned = true
			st.warn(Warning{Kind: WarnNestingExceeded, Line: 0, Text: "maximum nesting depth reached"})
		}
		return false
	}
	return true
}

func (st *state) leaveNesting() {}

func (st *state) resolveMeta(key string) (string, bool) {
	return canonicalMetaValue(st.meta, normalizeMetaKey(key))
}

// footnoteOrdinal assigns footnote numbers in order of first reference
// (spec.md §3.1), not in order of definition: the first time id is
// seen during span parsing it gets the next sequential number: later
// references to the same id reuse it.
func (st *state) footnoteOrdinal(id string) int {
	if n, ok := st.footnoteNum[id]; ok {
		return n
	}
	n := len(st.footnoteOrder) + 1
	st.footnoteNum[id] = n
	st.footnoteOrder = append(st.footnoteOrder, id)
	return n
}

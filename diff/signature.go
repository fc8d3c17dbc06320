package diff

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/kristapsdz/mdcore/ast"
)

// computeSignatures fills in sig and weight for every descriptor in t,
// per spec.md §4.2.3/§4.2.4. It relies on t.nodes being in postorder
// (every child's index precedes its parent's), so a single forward
// pass sees each child's signature and weight already computed.
//
// xxhash replaces the reference implementation's MD5 (permitted by
// Design Notes §9: "any collision-resistant digest suffices; MD5 is
// an implementation detail, not a contract"); it is a direct dependency
// of this module's own go.mod and widely present across the example
// corpus as an indirect one.
func computeSignatures(t *table) {
	for i := range t.nodes {
		d := &t.nodes[i]
		n := d.node

		h := xxhash.New()
		h.Write([]byte{byte(n.Kind)})
		payload := payloadBytes(n)
		if len(payload) > 0 {
			h.Write(payload)
		}
		writeKindFields(h, n)
		var b [8]byte
		for _, c := range n.Children {
			binary.LittleEndian.PutUint64(b[:], t.nodes[t.idx(c)].sig)
			h.Write(b[:])
		}
		d.sig = h.Sum64()

		if n.IsLeaf() && len(payload) > 0 {
			d.weight = 1 + math.Log(float64(len(payload))+1)
		} else {
			w := 1.0
			for _, c := range n.Children {
				w += t.nodes[t.idx(c)].weight
			}
			d.weight = w
		}
	}
}

// payloadBytes returns the content bytes that participate in a node's
// signature and, for leaves, its weight — the kinds that carry a
// meaningful Text payload per ast.Node's field grouping.
func payloadBytes(n *ast.Node) []byte {
	switch n.Kind {
	case ast.NORMAL_TEXT, ast.CODESPAN, ast.BLOCKCODE, ast.RAW_HTML,
		ast.BLOCKHTML, ast.ENTITY, ast.MATH_BLOCK:
		return n.Text
	case ast.LINK, ast.LINK_AUTO, ast.IMAGE:
		return n.Link
	}
	return nil
}

// writeKindFields appends the kind-specific fields spec.md §4.2.3 lists
// as participating in a node's signature beyond its payload and its
// children's signatures — attributes that aren't mutable by
// surrounding context, so two nodes can only be signature-equal when
// these also agree. Without this, e.g. "# A" and "## A" (same text,
// different level) would hash identically, which would let matchDown
// treat them as structurally interchangeable.
func writeKindFields(h *xxhash.Digest, n *ast.Node) {
	var b [8]byte
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		h.Write(b[:])
	}
	switch n.Kind {
	case ast.HEADER:
		u64(uint64(n.Level))
	case ast.LIST:
		h.Write([]byte{byte(n.ListFlags)})
	case ast.LISTITEM:
		h.Write([]byte{byte(n.ItemFlags)})
		u64(uint64(n.Ordinal))
	case ast.LINK:
		h.Write(n.Title)
	case ast.LINK_AUTO:
		h.Write([]byte{byte(n.AutoLinkType)})
	case ast.BLOCKCODE:
		h.Write(n.Lang)
	case ast.TABLE_CELL:
		h.Write([]byte{byte(n.Align)})
	case ast.IMAGE:
		h.Write(n.Title)
		h.Write(n.Dims)
		h.Write(n.Alt)
	case ast.MATH_BLOCK:
		if n.MathBlock {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
}

// isTextLeaf reports whether n is eligible for Phase 5's word-level
// LCS (§4.2.8): a leaf whose payload is prose text, not a URL or raw
// markup fragment that word-tokenizing would mangle.
func isTextLeaf(n *ast.Node) bool {
	if !n.IsLeaf() {
		return false
	}
	switch n.Kind {
	case ast.NORMAL_TEXT, ast.CODESPAN, ast.BLOCKCODE, ast.ENTITY, ast.MATH_BLOCK:
		return len(n.Text) > 0
	default:
		return false
	}
}

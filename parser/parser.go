// Package parser implements the recursive block/span Markdown parser:
// it turns source bytes into the typed AST package ast defines, per
// the block grammar of §4.1.4 and the span grammar of §4.1.5.
package parser

import (
	"bytes"

	"github.com/kristapsdz/mdcore/ast"
)

// Parse runs the full pipeline described by spec.md §6.1: preprocess
// the input (BOM/newline/tab normalization), collect metadata and
// reference definitions, parse the remaining lines as a block
// sequence, assemble a trailing footnotes block from whichever
// footnotes were actually referenced, and assign every node a
// preorder ID. It returns the document root, the number of nodes in
// the resulting tree, and a non-nil error only on ErrOutOfMemory: any
// other malformed input is accepted and surfaces as a best-effort tree
// plus, if opts.OnWarning is set, advisory Warnings.
func Parse(input []byte, opts Options) (*ast.Node, int, error) {
	clean := preprocess(input)
	lines := splitLines(clean)

	footnotesOn := opts.enabled(Footnotes)
	lines, refs := collectReferences(lines, footnotesOn)

	var meta []ast.MetaEntry
	if opts.enabled(Metadata) {
		lines, meta = collectMetadata(lines, true, opts.warn)
	}

	st := newState(opts, refs)
	st.meta = meta

	root := ast.NewNode(ast.ROOT)

	if len(meta) > 0 {
		dh := ast.NewNode(ast.DOC_HEADER)
		dh.Meta = meta
		root.AppendChild(dh)
	}

	for _, n := range parseBlocks(lines, st, 0) {
		root.AppendChild(n)
	}

	if footnotesOn && len(st.footnoteOrder) > 0 {
		root.AppendChild(buildFootnotesBlock(st))
	}

	if root.Children == nil {
		root.AppendChild(ast.NewNode(ast.DOC_FOOTER))
	}

	count := ast.AssignIDs(root, 0)
	return root, count, nil
}

func splitLines(input []byte) [][]byte {
	if len(input) == 0 {
		return nil
	}
	return bytes.Split(input, []byte("\n"))
}

// buildFootnotesBlock assembles the trailing FOOTNOTES_BLOCK from
// every footnote id referenced at least once, in first-reference
// order (spec.md §3.1), parsing each definition's body as an
// independent block sequence.
func buildFootnotesBlock(st *state) *ast.Node {
	block := ast.NewNode(ast.FOOTNOTES_BLOCK)
	seen := make(map[string]bool)
	for _, id := range st.footnoteOrder {
		if seen[id] {
			st.warn(Warning{Kind: WarnDuplicateFootnoteID, Line: 0, Text: id})
			continue
		}
		seen[id] = true

		ref, ok := st.refs.lookupFootnote([]byte(id))
		def := ast.NewNode(ast.FOOTNOTE_DEF)
		def.Number = st.footnoteNum[id]
		if ok {
			bodyLines := bytes.Split(ref.body, []byte("\n"))
			def.Children = parseBlocks(bodyLines, st, 0)
			reparent(def)
		}
		block.AppendChild(def)
	}
	return block
}

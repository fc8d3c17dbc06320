package parser

import (
	"bytes"

	"github.com/kristapsdz/mdcore/ast"
)

// tryBracket implements spec.md §4.1.6's dispatch on a leading '[': a
// footnote reference (`[^id]`), a metadata reference (`[%key]`), an
// inline link (`[text](url "title")`), a reference link (`[text][id]`
// or the shorthand `[text][]`/bare `[text]`), or — if none resolve —
// literal text (the '[' falls through to the caller's plain-text run).
func tryBracket(text []byte, i int, st *state, depth int) (int, *ast.Node, bool) {
	if i+1 < len(text) && text[i+1] == '^' {
		if n, node, ok := tryFootnoteRef(text, i, st); ok {
			return n, node, ok
		}
	}
	if i+1 < len(text) && text[i+1] == '%' {
		if n, node, ok := tryMetaRef(text, i, st); ok {
			return n, node, ok
		}
	}
	return tryLink(text, i, st, depth, false)
}

func tryImage(text []byte, i int, st *state, depth int) (int, *ast.Node, bool) {
	if i+1 >= len(text) || text[i+1] != '[' {
		return 0, nil, false
	}
	return tryLink(text, i+1, st, depth, true)
}

// tryLink implements the shared inline/reference-link grammar used by
// both links and images (spec.md §4.1.6). bracketStart points at the
// '[' (for an image, one byte past the '!').
func tryLink(text []byte, bracketStart int, st *state, depth int, image bool) (int, *ast.Node, bool) {
	labelEnd := matchBalancedBrackets(text, bracketStart)
	if labelEnd < 0 {
		return 0, nil, false
	}
	label := text[bracketStart+1 : labelEnd]
	rest := text[labelEnd+1:]

	// Inline form: [text](url "title")
	if len(rest) > 0 && rest[0] == '(' {
		end := matchBalancedParens(rest, 0)
		if end > 0 {
			inner := rest[1:end]
			link, title := splitLinkInner(inner)
			n := buildLinkNode(image, label, link, title, st, depth)
			return labelEnd + 1 + end + 1, n, true
		}
	}

	// Reference form: [text][id] or shorthand [text][] / [text]
	refID := label
	consumed := labelEnd + 1
	if len(rest) > 0 && rest[0] == '[' {
		refEnd := bytes.IndexByte(rest, ']')
		if refEnd < 0 {
			return 0, nil, false
		}
		if refEnd > 1 {
			refID = rest[1:refEnd]
		}
		consumed = labelEnd + 1 + refEnd + 1
	}

	ref, ok := st.refs.lookupLink(refID)
	if !ok {
		st.warn(Warning{Kind: WarnUnresolvedReference, Line: 0, Text: string(refID)})
		return 0, nil, false
	}
	n := buildLinkNode(image, label, ref.link, ref.title, st, depth)
	return consumed, n, true
}

func buildLinkNode(image bool, label, link, title []byte, st *state, depth int) *ast.Node {
	if image {
		n := ast.NewNode(ast.IMAGE)
		n.Link = link
		n.Title = title
		n.Alt = label
		return n
	}
	n := ast.NewNode(ast.LINK)
	n.Link = link
	n.Title = title
	n.Children = parseSpans(label, st, depth+1)
	reparent(n)
	return n
}

func splitLinkInner(inner []byte) (link, title []byte) {
	inner = trimLeadingSpace(inner)
	link, rest := scanLinkTarget(inner)
	title = scanOptionalTitle(rest)
	return link, title
}

// matchBalancedBrackets returns the index of the ']' matching the '['
// at start, accounting for nested brackets and backslash escapes, or
// -1 if unterminated.
func matchBalancedBrackets(text []byte, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchBalancedParens returns the offset (relative to s) of the ')'
// matching the '(' at s[start], or -1 if unterminated.
func matchBalancedParens(s []byte, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tryFootnoteRef recognizes `[^id]` and resolves it against the
// footnote definitions collected up front, assigning it the next
// first-reference ordinal (spec.md §3.1).
func tryFootnoteRef(text []byte, i int, st *state) (int, *ast.Node, bool) {
	if !st.opts.enabled(Footnotes) {
		return 0, nil, false
	}
	end := bytes.IndexByte(text[i:], ']')
	if end < 0 {
		return 0, nil, false
	}
	id := text[i+2 : i+end]
	if _, ok := st.refs.lookupFootnote(id); !ok {
		st.warn(Warning{Kind: WarnUnresolvedReference, Line: 0, Text: string(id)})
		return 0, nil, false
	}
	n := ast.NewNode(ast.FOOTNOTE_REF)
	n.Number = st.footnoteOrdinal(string(id))
	return i + end + 1, n, true
}

// tryMetaRef recognizes `[%key]` and substitutes the document's
// canonical metadata value for key, per spec.md §6.5's metadata-ref
// dispatch; unresolved keys fall through to literal text.
func tryMetaRef(text []byte, i int, st *state) (int, *ast.Node, bool) {
	if !st.opts.enabled(Metadata) {
		return 0, nil, false
	}
	end := bytes.IndexByte(text[i:], ']')
	if end < 0 {
		return 0, nil, false
	}
	key := string(text[i+2 : i+end])
	val, ok := st.resolveMeta(key)
	if !ok {
		return 0, nil, false
	}
	n := ast.NewNode(ast.NORMAL_TEXT)
	n.Text = []byte(val)
	return i + end + 1, n, true
}

package parser

import (
	"bytes"

	"github.com/kristapsdz/mdcore/ast"
)

// parseSpans implements spec.md §4.1.5: a left-to-right scan of text
// dispatching on the current byte to the matching span rule, falling
// back to accumulating plain text when nothing matches. Adjacent plain
// runs are coalesced into a single NORMAL_TEXT node.
func parseSpans(text []byte, st *state, depth int) []*ast.Node {
	if !st.enterNesting(depth) {
		return []*ast.Node{plainTextNode(text)}
	}
	defer st.leaveNesting()

	var out []*ast.Node
	var buf bytes.Buffer
	flush := func() {
		if buf.Len() > 0 {
			cp := append([]byte(nil), buf.Bytes()...)
			out = append(out, plainTextNode(cp))
			buf.Reset()
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]

		if c == '\\' && i+1 < len(text) && isEscapable(text[i+1]) {
			buf.WriteByte(text[i+1])
			i += 2
			continue
		}

		if c == '\n' {
			if hardBreak, trimmed := takeHardBreak(buf.Bytes()); hardBreak {
				buf.Reset()
				buf.Write(trimmed)
				flush()
				out = append(out, ast.NewNode(ast.LINEBREAK))
				i++
				continue
			}
		}

		switch c {
		case '`':
			if n, node, ok := tryCodespan(text, i); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '!':
			if n, node, ok := tryImage(text, i, st, depth); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '[':
			if n, node, ok := tryBracket(text, i, st, depth); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '<':
			if n, node, ok := tryAutolinkOrRawHTML(text, i); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '&':
			if n, node, ok := tryEntity(text, i); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '*', '_':
			if n, node, ok := tryEmphasis(text, i, st, depth); ok {
				flush()
				out = append(out, node)
				i = n
				continue
			}
		case '~':
			if st.opts.enabled(Strikethrough) {
				if n, node, ok := tryDelimited(text, i, "~~", ast.STRIKETHROUGH, st, depth); ok {
					flush()
					out = append(out, node)
					i = n
					continue
				}
			}
		case '=':
			if st.opts.enabled(Highlight) {
				if n, node, ok := tryDelimited(text, i, "==", ast.HIGHLIGHT, st, depth); ok {
					flush()
					out = append(out, node)
					i = n
					continue
				}
			}
		case '^':
			if st.opts.enabled(Superscript) {
				if n, node, ok := trySuperscript(text, i, st, depth); ok {
					flush()
					out = append(out, node)
					i = n
					continue
				}
			}
		case '$':
			if st.opts.enabled(Math) {
				if n, node, ok := tryMath(text, i); ok {
					flush()
					out = append(out, node)
					i = n
					continue
				}
			}
		}

		buf.WriteByte(c)
		i++
	}
	flush()
	return out
}

func isEscapable(c byte) bool {
	return bytes.IndexByte([]byte("\\`*_{}[]()#+-.!<>~=^$\"'"), c) >= 0
}

// takeHardBreak reports whether the plain-text run just accumulated
// ends in two or more trailing spaces (spec.md §4.1.5's explicit
// linebreak rule) and, if so, returns the run with those spaces
// stripped.
func takeHardBreak(buf []byte) (bool, []byte) {
	n := len(buf)
	trailing := 0
	for trailing < n && buf[n-1-trailing] == ' ' {
		trailing++
	}
	if trailing < 2 {
		return false, buf
	}
	return true, buf[:n-trailing]
}

// --- codespan ----------------------------------------------------

func tryCodespan(text []byte, i int) (int, *ast.Node, bool) {
	fenceLen := 0
	for i+fenceLen < len(text) && text[i+fenceLen] == '`' {
		fenceLen++
	}
	fence := text[i : i+fenceLen]
	j := bytes.Index(text[i+fenceLen:], fence)
	if j < 0 {
		return 0, nil, false
	}
	start := i + fenceLen
	end := start + j
	body := text[start:end]
	body = bytes.TrimSpace(body)
	n := ast.NewNode(ast.CODESPAN)
	n.Text = body
	return end + fenceLen, n, true
}

// --- entities ------------------------------------------------------

// tryEntity recognizes `&#?[A-Za-z0-9]+;` (spec.md §4.1.5: the trivial
// well-formedness check, no name table per the Non-goals).
func tryEntity(text []byte, i int) (int, *ast.Node, bool) {
	j := i + 1
	if j < len(text) && text[j] == '#' {
		j++
	}
	start := j
	for j < len(text) && isAlnum(text[j]) {
		j++
	}
	if j == start || j >= len(text) || text[j] != ';' {
		return 0, nil, false
	}
	n := ast.NewNode(ast.ENTITY)
	n.Text = text[i : j+1]
	return j + 1, n, true
}

// --- autolinks and raw HTML -----------------------------------------

func tryAutolinkOrRawHTML(text []byte, i int) (int, *ast.Node, bool) {
	end := bytes.IndexByte(text[i:], '>')
	if end < 0 {
		return 0, nil, false
	}
	inner := text[i+1 : i+end]
	if len(inner) == 0 || bytes.ContainsAny(inner, " \t\n") {
		return 0, nil, false
	}

	if looksLikeURL(inner) {
		n := ast.NewNode(ast.LINK_AUTO)
		n.Link = inner
		n.AutoLinkType = ast.AutoLinkNormal
		return i + end + 1, n, true
	}
	if looksLikeEmail(inner) {
		n := ast.NewNode(ast.LINK_AUTO)
		n.Link = inner
		n.AutoLinkType = ast.AutoLinkEmail
		return i + end + 1, n, true
	}
	if isHTMLTagLike(inner) {
		n := ast.NewNode(ast.RAW_HTML)
		n.Text = text[i : i+end+1]
		return i + end + 1, n, true
	}
	return 0, nil, false
}

func looksLikeURL(s []byte) bool {
	schemes := [][]byte{[]byte("http://"), []byte("https://"), []byte("ftp://"), []byte("mailto:")}
	for _, sc := range schemes {
		if bytes.HasPrefix(s, sc) {
			return true
		}
	}
	return false
}

func looksLikeEmail(s []byte) bool {
	at := bytes.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return bytes.IndexByte(s[:at], ' ') < 0 && bytes.IndexByte(s[at:], '.') > 0
}

func isHTMLTagLike(s []byte) bool {
	t := s
	if len(t) > 0 && t[0] == '/' {
		t = t[1:]
	}
	t = bytes.TrimSuffix(t, []byte("/"))
	return len(t) > 0 && isAlnum(t[0])
}

// --- emphasis ---------------------------------------------------------

// tryEmphasis implements a simplified find_emph_char: it measures the
// run length of the delimiter character at i (1-3), searches forward
// for the nearest run of the same character with length >= the
// opening run, and recurses into the span it encloses. Length 1 is
// EMPHASIS, length 2 is DOUBLE_EMPHASIS, length 3 or more is
// TRIPLE_EMPHASIS, matching lowdown's own three-tier scheme.
func tryEmphasis(text []byte, i int, st *state, depth int) (int, *ast.Node, bool) {
	c := text[i]
	runLen := 0
	for i+runLen < len(text) && text[i+runLen] == c {
		runLen++
	}
	if runLen > 3 {
		runLen = 3
	}
	if st.opts.enabled(NoIntraEmphasis) && i > 0 && isAlnum(text[i-1]) {
		return 0, nil, false
	}
	open := i + runLen
	if open >= len(text) || text[open] == ' ' || text[open] == '\n' {
		return 0, nil, false
	}

	for j := open; j < len(text); j++ {
		if text[j] != c {
			continue
		}
		closeLen := 0
		for j+closeLen < len(text) && text[j+closeLen] == c {
			closeLen++
		}
		if closeLen >= runLen && text[j-1] != ' ' {
			inner := text[open:j]
			var kind ast.Kind
			switch runLen {
			case 1:
				kind = ast.EMPHASIS
			case 2:
				kind = ast.DOUBLE_EMPHASIS
			default:
				kind = ast.TRIPLE_EMPHASIS
			}
			n := ast.NewNode(kind)
			n.Children = parseSpans(inner, st, depth+1)
			reparent(n)
			return j + runLen, n, true
		}
	}
	return 0, nil, false
}

// tryDelimited handles simple two-byte-delimiter spans (strikethrough
// `~~`, highlight `==`) that don't need find_emph_char's run-length
// logic since the delimiter is fixed width.
func tryDelimited(text []byte, i int, delim string, kind ast.Kind, st *state, depth int) (int, *ast.Node, bool) {
	d := []byte(delim)
	if !bytes.HasPrefix(text[i:], d) {
		return 0, nil, false
	}
	open := i + len(d)
	end := bytes.Index(text[open:], d)
	if end <= 0 {
		return 0, nil, false
	}
	inner := text[open : open+end]
	n := ast.NewNode(kind)
	n.Children = parseSpans(inner, st, depth+1)
	reparent(n)
	return open + end + len(d), n, true
}

func trySuperscript(text []byte, i int, st *state, depth int) (int, *ast.Node, bool) {
	if i+1 >= len(text) {
		return 0, nil, false
	}
	if text[i+1] == '(' {
		end := bytes.IndexByte(text[i+2:], ')')
		if end < 0 {
			return 0, nil, false
		}
		inner := text[i+2 : i+2+end]
		n := ast.NewNode(ast.SUPERSCRIPT)
		n.Children = parseSpans(inner, st, depth+1)
		reparent(n)
		return i + 2 + end + 1, n, true
	}
	j := i + 1
	for j < len(text) && !isSpace(text[j]) {
		j++
	}
	if j == i+1 {
		return 0, nil, false
	}
	n := ast.NewNode(ast.SUPERSCRIPT)
	n.Children = parseSpans(text[i+1:j], st, depth+1)
	reparent(n)
	return j, n, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// --- math --------------------------------------------------------

func tryMath(text []byte, i int) (int, *ast.Node, bool) {
	block := false
	start := i + 1
	if start < len(text) && text[start] == '$' {
		block = true
		start++
	}
	delim := "$"
	if block {
		delim = "$$"
	}
	end := bytes.Index(text[start:], []byte(delim))
	if end < 0 {
		return 0, nil, false
	}
	n := ast.NewNode(ast.MATH_BLOCK)
	n.Text = text[start : start+end]
	n.MathBlock = block
	return start + end + len(delim), n, true
}

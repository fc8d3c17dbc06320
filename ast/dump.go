package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented, deterministic textual form of the subtree
// rooted at n to w, in the same spirit as goldmark's ast.Dump helper
// (which the teacher's dependency exposes for debugging goldmark
// trees). It is a debugging aid, not a general-purpose renderer: real
// renderers (HTML, LaTeX, ...) stay external per spec.md §1.
func Dump(w io.Writer, n *Node, level int) {
	indent := strings.Repeat("    ", level)
	fmt.Fprintf(w, "%s%s", indent, n.Kind)
	if extra := dumpAttrs(n); extra != "" {
		fmt.Fprintf(w, " {%s}", extra)
	}
	if n.Chng != ChangeNone {
		fmt.Fprintf(w, " <%s>", n.Chng)
	}
	fmt.Fprintln(w)
	for _, c := range n.Children {
		Dump(w, c, level+1)
	}
}

func dumpAttrs(n *Node) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}
	switch n.Kind {
	case HEADER:
		add("level=%d", n.Level)
	case LIST:
		add("flags=%d start=%d", n.ListFlags, n.ListStart)
	case LISTITEM:
		add("flags=%d ordinal=%d", n.ItemFlags, n.Ordinal)
	case TABLE_CELL:
		add("col=%d cols=%d align=%d", n.Col, n.Columns, n.Align)
	case TABLE_HEADER, TABLE_BLOCK:
		add("cols=%d", n.Columns)
	case BLOCKCODE:
		add("lang=%q text=%q", n.Lang, n.Text)
	case CODESPAN, RAW_HTML, BLOCKHTML, ENTITY, NORMAL_TEXT:
		add("text=%q", n.Text)
	case MATH_BLOCK:
		add("block=%t text=%q", n.MathBlock, n.Text)
	case LINK:
		add("link=%q title=%q", n.Link, n.Title)
	case LINK_AUTO:
		add("link=%q text=%q type=%d", n.Link, n.Text, n.AutoLinkType)
	case IMAGE:
		add("link=%q title=%q alt=%q dims=%q", n.Link, n.Title, n.Alt, n.Dims)
	case FOOTNOTE_DEF, FOOTNOTE_REF:
		add("num=%d", n.Number)
	case META:
		add("key=%q", n.MetaKey)
	}
	return strings.Join(parts, " ")
}

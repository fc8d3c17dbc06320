// Package ast defines the tagged-variant tree produced by package parser
// and consumed by package diff and by renderers external to this module.
package ast

// Kind discriminates a Node's variant. It is also the differ's label
// space: every node in a merged tree still carries its original Kind.
type Kind int

const (
	// Block kinds.
	ROOT Kind = iota
	BLOCKCODE
	BLOCKQUOTE
	DEFINITION
	DEFINITION_TITLE
	DEFINITION_DATA
	HEADER
	HRULE
	LIST
	LISTITEM
	PARAGRAPH
	TABLE_BLOCK
	TABLE_HEADER
	TABLE_BODY
	TABLE_ROW
	TABLE_CELL
	FOOTNOTES_BLOCK
	FOOTNOTE_DEF
	BLOCKHTML
	DOC_HEADER
	DOC_FOOTER
	META
	MATH_BLOCK

	// Span kinds.
	LINK_AUTO
	CODESPAN
	DOUBLE_EMPHASIS
	EMPHASIS
	HIGHLIGHT
	IMAGE
	LINEBREAK
	LINK
	TRIPLE_EMPHASIS
	STRIKETHROUGH
	SUPERSCRIPT
	SUBSCRIPT
	FOOTNOTE_REF
	RAW_HTML
	ENTITY
	NORMAL_TEXT
	FOOTNOTE

	maxKind
)

var kindNames = [maxKind]string{
	ROOT:             "ROOT",
	BLOCKCODE:        "BLOCKCODE",
	BLOCKQUOTE:       "BLOCKQUOTE",
	DEFINITION:       "DEFINITION",
	DEFINITION_TITLE: "DEFINITION_TITLE",
	DEFINITION_DATA:  "DEFINITION_DATA",
	HEADER:           "HEADER",
	HRULE:            "HRULE",
	LIST:             "LIST",
	LISTITEM:         "LISTITEM",
	PARAGRAPH:        "PARAGRAPH",
	TABLE_BLOCK:      "TABLE_BLOCK",
	TABLE_HEADER:     "TABLE_HEADER",
	TABLE_BODY:       "TABLE_BODY",
	TABLE_ROW:        "TABLE_ROW",
	TABLE_CELL:       "TABLE_CELL",
	FOOTNOTES_BLOCK:  "FOOTNOTES_BLOCK",
	FOOTNOTE_DEF:     "FOOTNOTE_DEF",
	BLOCKHTML:        "BLOCKHTML",
	DOC_HEADER:       "DOC_HEADER",
	DOC_FOOTER:       "DOC_FOOTER",
	META:             "META",
	MATH_BLOCK:       "MATH_BLOCK",
	LINK_AUTO:        "LINK_AUTO",
	CODESPAN:         "CODESPAN",
	DOUBLE_EMPHASIS:  "DOUBLE_EMPHASIS",
	EMPHASIS:         "EMPHASIS",
	HIGHLIGHT:        "HIGHLIGHT",
	IMAGE:            "IMAGE",
	LINEBREAK:        "LINEBREAK",
	LINK:             "LINK",
	TRIPLE_EMPHASIS:  "TRIPLE_EMPHASIS",
	STRIKETHROUGH:    "STRIKETHROUGH",
	SUPERSCRIPT:      "SUPERSCRIPT",
	SUBSCRIPT:        "SUBSCRIPT",
	FOOTNOTE_REF:     "FOOTNOTE_REF",
	RAW_HTML:         "RAW_HTML",
	ENTITY:           "ENTITY",
	NORMAL_TEXT:      "NORMAL_TEXT",
	FOOTNOTE:         "FOOTNOTE",
}

func (k Kind) String() string {
	if k < 0 || k >= maxKind {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// IsSpan reports whether k is one of the inline (span-level) kinds.
func (k Kind) IsSpan() bool {
	return k >= LINK_AUTO && k < maxKind
}

// IsBlock reports whether k is one of the block-level kinds.
func (k Kind) IsBlock() bool {
	return k >= ROOT && k < LINK_AUTO
}

// Valid reports whether k is one of the enumerated variants (invariant 3, §8).
func (k Kind) Valid() bool {
	return k >= ROOT && k < maxKind
}

// ChangeKind is the differ's per-node change label (§3.1).
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeInsert
	ChangeDelete
)

func (c ChangeKind) String() string {
	switch c {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	default:
		return "none"
	}
}

// ListFlags are the flag bits of a LIST node.
type ListFlags uint8

const (
	ListOrdered ListFlags = 1 << iota
	ListUnordered
	ListBlockSpaced // HLIST_FL_BLOCK: blank-line-separated items
)

// ItemFlags are the flag bits of a LISTITEM node.
type ItemFlags uint8

const (
	ItemOrdered ItemFlags = 1 << iota
	ItemUnordered
	ItemBlockSpaced
	ItemDef
	ItemChecked
	ItemUnchecked
)

// TableFlags are per-column alignment bits, reused for both a single
// TABLE_CELL's alignment and (as a slice) a TABLE_HEADER's per-column
// alignment vector.
type TableFlags uint8

const (
	TableAlignLeft TableFlags = 1 << iota
	TableAlignRight
	TableAlignCenter
	TableHeaderRow // set on TABLE_HEADER's own descriptive flags, unused per-cell
)

const TableAlignMask = TableAlignLeft | TableAlignRight | TableAlignCenter

// AutoLinkType distinguishes a LINK_AUTO node's source syntax (lowdown.h's
// halink_type, preserved per SPEC_FULL.md §5).
type AutoLinkType int

const (
	AutoLinkNone AutoLinkType = iota
	AutoLinkNormal
	AutoLinkEmail
)

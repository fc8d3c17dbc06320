package ast

// MetaEntry is a single (key, value) pair collected from META nodes
// (§3.3) and attached to the document's DOC_HEADER node in document
// order.
type MetaEntry struct {
	Key   string
	Value string
}

// Node is the uniform tagged-variant wrapper described in spec.md §9:
// one struct for every Kind, discriminated by Kind, carrying whichever
// kind-specific fields apply. Parent is a non-owning back-reference;
// Children is the node's sole ownership of its subtree (§3.2).
//
// Fields are grouped by the Kind(s) that populate them; a node of any
// other Kind simply leaves them at their zero value.
type Node struct {
	ID     int
	Kind   Kind
	Parent *Node
	Children []*Node
	Chng   ChangeKind

	// HEADER
	Level    int
	HeaderID string

	// LIST
	ListFlags ListFlags
	ListStart int
	ItemCount int

	// LISTITEM
	ItemFlags ItemFlags
	Ordinal   int

	// TABLE_BLOCK / TABLE_HEADER / TABLE_CELL
	Columns      int
	Col          int
	Align        TableFlags
	ColumnAligns []TableFlags // TABLE_HEADER only

	// BLOCKCODE / CODESPAN / BLOCKHTML / RAW_HTML / MATH_BLOCK / ENTITY / NORMAL_TEXT / META
	Text []byte
	Lang []byte

	// LINK / LINK_AUTO / IMAGE
	Link  []byte
	Title []byte

	// LINK_AUTO
	AutoLinkType AutoLinkType

	// IMAGE
	Alt    []byte
	Dims   []byte
	Width  []byte
	Height []byte

	// MATH_BLOCK
	MathBlock bool // true = $$...$$ (block mode), false = $...$

	// FOOTNOTE_DEF / FOOTNOTE_REF
	Number int

	// META
	MetaKey []byte

	// DOC_HEADER
	Meta []MetaEntry
}

// NewNode allocates a bare node of the given kind. The caller is
// responsible for assigning ID and linking it via AppendChild.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// AppendChild appends child to n's children and sets child's parent to n.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild removes child from n's children, if present. It does not
// clear child.Parent since the caller may be about to re-parent it.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ReplaceChild replaces old with replacement in n's children in place.
func (n *Node) ReplaceChild(old, replacement *Node) {
	for i, c := range n.Children {
		if c == old {
			n.Children[i] = replacement
			replacement.Parent = n
			return
		}
	}
}

// FirstChild returns n's first child, or nil if n is a leaf.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone returns a shallow copy of n (no children, no parent) with a
// fresh id, used by the differ when materializing the merged tree
// (spec.md §4.2.7's node_clone). Byte-slice payloads are shared: they
// are immutable after emission (§3.1), so sharing is safe and avoids a
// copy.
func (n *Node) Clone(id int) *Node {
	cp := *n
	cp.ID = id
	cp.Parent = nil
	cp.Children = nil
	cp.Chng = ChangeNone
	if n.Kind == TABLE_HEADER {
		// Column metrics are mutable by re-ordering; don't carry them
		// into the clone (spec.md §4.2.3/§4.2.7).
		cp.ColumnAligns = nil
	}
	if n.Kind == TABLE_CELL {
		cp.Col = 0
		cp.Columns = 0
	}
	if n.Kind == FOOTNOTE_DEF || n.Kind == FOOTNOTE_REF {
		cp.Number = 0
	}
	if n.Kind == DOC_HEADER {
		cp.Meta = append([]MetaEntry(nil), n.Meta...)
	}
	return &cp
}

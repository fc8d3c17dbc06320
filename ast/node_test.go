package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NodeComparer compares trees structurally (Kind, Chng, Text and
// children, recursively) and ignores Parent, a non-owning back-reference
// that would make cmp recurse the whole tree twice and, for siblings,
// infinitely. It lives in a test file, so only package ast's own tests
// can use it.
var NodeComparer = cmp.Comparer(nodesEqual)

func nodesEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Chng != b.Chng {
		return false
	}
	if string(a.Text) != string(b.Text) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !nodesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestAppendChildSetsParent(t *testing.T) {
	root := NewNode(ROOT)
	child := NewNode(PARAGRAPH)
	root.AppendChild(child)

	require.Len(t, root.Children, 1)
	assert.Same(t, root, child.Parent)
	assert.Same(t, child, root.FirstChild())
}

func TestRemoveChild(t *testing.T) {
	root := NewNode(ROOT)
	a, b, c := NewNode(PARAGRAPH), NewNode(HRULE), NewNode(PARAGRAPH)
	root.AppendChild(a)
	root.AppendChild(b)
	root.AppendChild(c)

	root.RemoveChild(b)

	assert.Equal(t, []*Node{a, c}, root.Children)
}

func TestAssignIDsIsPreorder(t *testing.T) {
	root := NewNode(ROOT)
	p1 := NewNode(PARAGRAPH)
	p2 := NewNode(PARAGRAPH)
	text := NewNode(NORMAL_TEXT)
	p1.AppendChild(text)
	root.AppendChild(p1)
	root.AppendChild(p2)

	maxID := AssignIDs(root, 0)

	var ids []int
	WalkFunc(root, func(n *Node) { ids = append(ids, n.ID) })
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
	assert.Equal(t, 4, maxID)
}

func TestWalkSkipChildren(t *testing.T) {
	root := NewNode(ROOT)
	skip := NewNode(BLOCKQUOTE)
	hidden := NewNode(PARAGRAPH)
	skip.AppendChild(hidden)
	root.AppendChild(skip)

	var seen []Kind
	err := Walk(root, func(n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		seen = append(seen, n.Kind)
		if n.Kind == BLOCKQUOTE {
			return WalkSkipChildren, nil
		}
		return WalkContinue, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []Kind{ROOT, BLOCKQUOTE}, seen)
}

func TestCloneDropsMutableTableMetrics(t *testing.T) {
	header := NewNode(TABLE_HEADER)
	header.ColumnAligns = []TableFlags{TableAlignLeft, TableAlignRight}
	header.Columns = 2

	clone := header.Clone(99)

	assert.Equal(t, 99, clone.ID)
	assert.Nil(t, clone.Parent)
	assert.Nil(t, clone.ColumnAligns)
}

func TestDumpIsDeterministic(t *testing.T) {
	root := NewNode(ROOT)
	h := NewNode(HEADER)
	h.Level = 1
	text := NewNode(NORMAL_TEXT)
	text.Text = []byte("Hello")
	h.AppendChild(text)
	root.AppendChild(h)

	var buf strings.Builder
	Dump(&buf, root, 0)

	assert.Contains(t, buf.String(), "HEADER {level=1}")
	assert.Contains(t, buf.String(), `NORMAL_TEXT {text="Hello"}`)
}

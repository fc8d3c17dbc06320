package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristapsdz/mdcore/ast"
	"github.com/kristapsdz/mdcore/parser"
)

func parseDoc(t *testing.T, src string) *ast.Node {
	t.Helper()
	root, _, err := parser.Parse([]byte(src), parser.Options{})
	require.NoError(t, err)
	return root
}

func findKind(n *ast.Node, k ast.Kind) *ast.Node {
	if n.Kind == k {
		return n
	}
	for _, c := range n.Children {
		if f := findKind(c, k); f != nil {
			return f
		}
	}
	return nil
}

func collectText(n *ast.Node, into *[]byte) {
	if len(n.Text) > 0 {
		*into = append(*into, n.Text...)
	}
	for _, c := range n.Children {
		collectText(c, into)
	}
}

func TestDiffHeaderTextChange(t *testing.T) {
	oldRoot := parseDoc(t, "# A\n")
	newRoot := parseDoc(t, "# B\n")

	result, count, err := Diff(oldRoot, newRoot, Options{})
	require.NoError(t, err)
	require.Greater(t, count, 0)

	h := findKind(result, ast.HEADER)
	require.NotNil(t, h)

	var kinds []ast.ChangeKind
	ast.WalkFunc(h, func(n *ast.Node) { kinds = append(kinds, n.Chng) })
	assert.Contains(t, kinds, ast.ChangeDelete)
	assert.Contains(t, kinds, ast.ChangeInsert)
}

func TestDiffWordLevelInsertion(t *testing.T) {
	oldRoot := parseDoc(t, "hello world\n")
	newRoot := parseDoc(t, "hello brave world\n")

	result, _, err := Diff(oldRoot, newRoot, Options{})
	require.NoError(t, err)

	p := findKind(result, ast.PARAGRAPH)
	require.NotNil(t, p)

	var inserted, unchanged bool
	ast.WalkFunc(p, func(n *ast.Node) {
		switch {
		case n.Chng == ast.ChangeInsert && string(n.Text) == "brave":
			inserted = true
		case n.Chng == ast.ChangeNone && string(n.Text) == "hello":
			unchanged = true
		}
	})
	assert.True(t, inserted, "expected an inserted \"brave\" token")
	assert.True(t, unchanged, "expected \"hello\" to be unchanged")
}

func TestDiffIdenticalDocumentsProduceNoChanges(t *testing.T) {
	oldRoot := parseDoc(t, "# Same\n\nSome text.\n")
	newRoot := parseDoc(t, "# Same\n\nSome text.\n")

	result, _, err := Diff(oldRoot, newRoot, Options{})
	require.NoError(t, err)

	var anyChange bool
	ast.WalkFunc(result, func(n *ast.Node) {
		if n.Chng != ast.ChangeNone {
			anyChange = true
		}
	})
	assert.False(t, anyChange)
}

func TestDiffAppendedParagraph(t *testing.T) {
	oldRoot := parseDoc(t, "# T\n\nOne.\n")
	newRoot := parseDoc(t, "# T\n\nOne.\n\nTwo.\n")

	result, _, err := Diff(oldRoot, newRoot, Options{})
	require.NoError(t, err)

	var found bool
	_ = ast.Walk(result, func(n *ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Chng == ast.ChangeInsert {
			var buf []byte
			collectText(n, &buf)
			if string(buf) == "Two." {
				found = true
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	assert.True(t, found, "expected the appended paragraph to appear as an insertion")
}

package mdcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristapsdz/mdcore/ast"
	"github.com/kristapsdz/mdcore/parser"
)

func TestParseAndMetadata(t *testing.T) {
	root, count, err := Parse([]byte("Title: Report\n\n# Hi\n"), parser.Options{Extensions: parser.Metadata})
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	val, ok := Metadata(root, "title")
	require.True(t, ok)
	assert.Equal(t, "Report", val)

	_, ok = Metadata(root, "missing")
	assert.False(t, ok)
}

func TestDiffEndToEnd(t *testing.T) {
	result, count, err := Diff([]byte("# A\n"), []byte("# B\n"), Options{})
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	var sawInsert bool
	ast.WalkFunc(result, func(n *ast.Node) {
		if n.Chng == ast.ChangeInsert {
			sawInsert = true
		}
	})
	assert.True(t, sawInsert)
}

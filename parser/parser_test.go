package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristapsdz/mdcore/ast"
)

func TestParseHeader(t *testing.T) {
	root, count, err := Parse([]byte("# Hello\n"), Options{})
	require.NoError(t, err)
	require.Greater(t, count, 0)
	require.Len(t, root.Children, 1)

	h := root.Children[0]
	assert.Equal(t, ast.HEADER, h.Kind)
	assert.Equal(t, 1, h.Level)
	require.Len(t, h.Children, 1)
	assert.Equal(t, ast.NORMAL_TEXT, h.Children[0].Kind)
	assert.Equal(t, "Hello", string(h.Children[0].Text))
}

func TestParseEmphasisInParagraph(t *testing.T) {
	root, _, err := Parse([]byte("a **b** c\n"), Options{})
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	p := root.Children[0]
	require.Equal(t, ast.PARAGRAPH, p.Kind)

	var kinds []ast.Kind
	for _, c := range p.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, ast.DOUBLE_EMPHASIS)

	for _, c := range p.Children {
		if c.Kind == ast.DOUBLE_EMPHASIS {
			require.Len(t, c.Children, 1)
			assert.Equal(t, "b", string(c.Children[0].Text))
		}
	}
}

func TestParseReferenceLink(t *testing.T) {
	src := "[x][y]\n\n[y]: http://example.com/ \"title\"\n"
	root, _, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	p := root.Children[0]
	require.Equal(t, ast.PARAGRAPH, p.Kind)
	require.Len(t, p.Children, 1)

	link := p.Children[0]
	require.Equal(t, ast.LINK, link.Kind)
	assert.Equal(t, "http://example.com/", string(link.Link))
	assert.Equal(t, "title", string(link.Title))
	require.Len(t, link.Children, 1)
	assert.Equal(t, "x", string(link.Children[0].Text))
}

func TestParseFencedCode(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n"
	root, _, err := Parse([]byte(src), Options{Extensions: FencedCode})
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	code := root.Children[0]
	require.Equal(t, ast.BLOCKCODE, code.Kind)
	assert.Equal(t, "go", string(code.Lang))
	assert.Equal(t, "fmt.Println(1)\n", string(code.Text))
}

func TestParseUnterminatedFenceWarns(t *testing.T) {
	var warnings []Warning
	opts := Options{
		Extensions: FencedCode,
		OnWarning:  func(w Warning) { warnings = append(warnings, w) },
	}
	_, _, err := Parse([]byte("```go\nfmt.Println(1)\n"), opts)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Equal(t, WarnUnterminatedFence, warnings[0].Kind)
}

func TestParseFootnote(t *testing.T) {
	src := "see[^a]\n\n[^a]: note body\n"
	root, _, err := Parse([]byte(src), Options{Extensions: Footnotes})
	require.NoError(t, err)

	require.Len(t, root.Children, 2)
	p := root.Children[0]
	require.Equal(t, ast.PARAGRAPH, p.Kind)

	var ref *ast.Node
	for _, c := range p.Children {
		if c.Kind == ast.FOOTNOTE_REF {
			ref = c
		}
	}
	require.NotNil(t, ref)
	assert.Equal(t, 1, ref.Number)

	fb := root.Children[1]
	require.Equal(t, ast.FOOTNOTES_BLOCK, fb.Kind)
	require.Len(t, fb.Children, 1)
	assert.Equal(t, ast.FOOTNOTE_DEF, fb.Children[0].Kind)
	assert.Equal(t, 1, fb.Children[0].Number)
}

func TestParseMetadataBlock(t *testing.T) {
	src := "Title: My Doc\nAuthor: Jo\n\n[%Title]\n"
	root, _, err := Parse([]byte(src), Options{Extensions: Metadata})
	require.NoError(t, err)

	require.NotEmpty(t, root.Children)
	dh := root.Children[0]
	require.Equal(t, ast.DOC_HEADER, dh.Kind)
	require.Len(t, dh.Meta, 2)
	assert.Equal(t, "title", dh.Meta[0].Key)
	assert.Equal(t, "My Doc", dh.Meta[0].Value)

	p := root.Children[1]
	require.Equal(t, ast.PARAGRAPH, p.Kind)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "My Doc", string(p.Children[0].Text))
}

func TestParseList(t *testing.T) {
	src := "- one\n- two\n"
	root, _, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	list := root.Children[0]
	require.Equal(t, ast.LIST, list.Kind)
	assert.Equal(t, ast.ListUnordered, list.ListFlags&ast.ListUnordered)
	require.Len(t, list.Children, 2)
	assert.Equal(t, ast.LISTITEM, list.Children[0].Kind)
}

func TestParseTable(t *testing.T) {
	src := "a|b\n-|-\n1|2\n"
	root, _, err := Parse([]byte(src), Options{Extensions: Tables})
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	tbl := root.Children[0]
	require.Equal(t, ast.TABLE_BLOCK, tbl.Kind)
	assert.Equal(t, 2, tbl.Columns)
	require.Len(t, tbl.Children, 2)
	assert.Equal(t, ast.TABLE_HEADER, tbl.Children[0].Kind)
	assert.Equal(t, ast.TABLE_BODY, tbl.Children[1].Kind)
}

func TestParseNestingGuardNeverPanics(t *testing.T) {
	deep := ""
	for i := 0; i < 300; i++ {
		deep += "*"
	}
	deep += "x" + deep
	assert.NotPanics(t, func() {
		_, _, err := Parse([]byte(deep+"\n"), Options{MaxDepth: 8})
		require.NoError(t, err)
	})
}

package diff

import (
	"bytes"

	"github.com/kristapsdz/mdcore/ast"
)

// token is one word or whitespace run from a tokenized NORMAL_TEXT
// payload, tracked separately per spec.md §4.2.8 so the emitted diff
// keeps whitespace as its own sibling rather than folding it into the
// adjacent word.
type token struct {
	text    []byte
	isSpace bool
}

func tokenize(text []byte) []token {
	var out []token
	i := 0
	for i < len(text) {
		sp := isWS(text[i])
		j := i + 1
		for j < len(text) && isWS(text[j]) == sp {
			j++
		}
		out = append(out, token{text: text[i:j], isSpace: sp})
		i = j
	}
	return out
}

func isWS(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// diffWords implements spec.md §4.2.8: tokenize both texts on
// whitespace, run word-level LCS, and emit a NORMAL_TEXT child per
// token, labeled ChangeNone/ChangeDelete/ChangeInsert.
func diffWords(oldText, newText []byte) []*ast.Node {
	a := tokenize(oldText)
	b := tokenize(newText)
	dp := lcsTable(a, b)

	var rev []*ast.Node
	i, j := len(a), len(b)
	for i > 0 && j > 0 {
		if tokensEqual(a[i-1], b[j-1]) {
			rev = append(rev, tokenNode(a[i-1], ast.ChangeNone))
			i--
			j--
			continue
		}
		if dp[i-1][j] >= dp[i][j-1] {
			rev = append(rev, tokenNode(a[i-1], ast.ChangeDelete))
			i--
		} else {
			rev = append(rev, tokenNode(b[j-1], ast.ChangeInsert))
			j--
		}
	}
	for ; i > 0; i-- {
		rev = append(rev, tokenNode(a[i-1], ast.ChangeDelete))
	}
	for ; j > 0; j-- {
		rev = append(rev, tokenNode(b[j-1], ast.ChangeInsert))
	}

	out := make([]*ast.Node, len(rev))
	for k, n := range rev {
		out[len(rev)-1-k] = n
	}
	return out
}

func tokensEqual(a, b token) bool {
	return a.isSpace == b.isSpace && bytes.Equal(a.text, b.text)
}

func tokenNode(t token, chng ast.ChangeKind) *ast.Node {
	n := ast.NewNode(ast.NORMAL_TEXT)
	n.Text = t.text
	n.Chng = chng
	return n
}

// lcsTable computes the standard forward LCS length table: dp[i][j]
// is the LCS length of a[:i] and b[:j].
func lcsTable(a, b []token) [][]int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if tokensEqual(a[i-1], b[j-1]) {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp
}

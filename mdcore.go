// Package mdcore parses Markdown into a typed AST and semantically
// diffs two versions of that AST (spec.md §2). It composes package
// parser and package diff behind a single entry point for the common
// case of "parse one document" or "diff two versions of a document",
// and exposes the metadata-export helper (§6.5) callers need without
// reaching into package ast themselves.
package mdcore

import (
	"strings"

	"github.com/kristapsdz/mdcore/ast"
	"github.com/kristapsdz/mdcore/diff"
	"github.com/kristapsdz/mdcore/parser"
)

// Options bundles parser.Options and diff.Options so one value
// configures both halves of an end-to-end Parse-then-Diff call site.
type Options struct {
	Parser parser.Options
	Diff   diff.Options
}

// Parse runs package parser's full pipeline over input, returning the
// document root, its node count, and any hard error (ErrOutOfMemory).
func Parse(input []byte, opts parser.Options) (*ast.Node, int, error) {
	return parser.Parse(input, opts)
}

// Diff parses oldInput and newInput independently and returns their
// semantic tree diff: one merged tree whose nodes carry
// ast.ChangeNone/ChangeInsert/ChangeDelete labels, with word-level
// detail where text at the same position in a merged parent differs.
// opts.Parser.MatchThreshold is used when opts.Diff.MatchThreshold is
// zero.
func Diff(oldInput, newInput []byte, opts Options) (*ast.Node, int, error) {
	oldRoot, _, err := parser.Parse(oldInput, opts.Parser)
	if err != nil {
		return nil, 0, err
	}
	newRoot, _, err := parser.Parse(newInput, opts.Parser)
	if err != nil {
		return nil, 0, err
	}
	mergeAdjacentText(oldRoot)
	mergeAdjacentText(newRoot)
	dopts := opts.Diff
	if dopts.MatchThreshold == 0 {
		dopts.MatchThreshold = opts.Parser.MatchThreshold
	}
	return diff.Diff(oldRoot, newRoot, dopts)
}

// mergeAdjacentText coalesces consecutive NORMAL_TEXT siblings into a
// single node throughout n's subtree, per spec.md §4.2.1: the differ's
// word-level LCS (§4.2.8) needs to run over whole text runs, not over
// whatever incidental split the parser happened to produce between two
// adjoining text spans (e.g. either side of a metadata substitution).
func mergeAdjacentText(n *ast.Node) {
	if len(n.Children) > 1 {
		merged := make([]*ast.Node, 0, len(n.Children))
		for _, c := range n.Children {
			if len(merged) > 0 {
				prev := merged[len(merged)-1]
				if prev.Kind == ast.NORMAL_TEXT && c.Kind == ast.NORMAL_TEXT {
					prev.Text = append(append([]byte(nil), prev.Text...), c.Text...)
					continue
				}
			}
			merged = append(merged, c)
		}
		n.Children = merged
	}
	for _, c := range n.Children {
		mergeAdjacentText(c)
	}
}

// Metadata returns the canonical (first-occurrence-wins) value for
// key from a parsed document's DOC_HEADER node, per spec.md §3.3 and
// §6.5. It returns ("", false) if root has no DOC_HEADER child or key
// was never set.
func Metadata(root *ast.Node, key string) (string, bool) {
	for _, c := range root.Children {
		if c.Kind != ast.DOC_HEADER {
			continue
		}
		for _, e := range c.Meta {
			if strings.EqualFold(e.Key, key) {
				return e.Value, true
			}
		}
	}
	return "", false
}

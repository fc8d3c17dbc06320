// Command mdcore is a thin CLI over package mdcore: given one file it
// parses and dumps the resulting AST; given two it diffs them and
// dumps the merged, change-annotated tree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	mdcore "github.com/kristapsdz/mdcore"
	"github.com/kristapsdz/mdcore/ast"
	"github.com/kristapsdz/mdcore/parser"
)

func main() {
	var (
		tables     = flag.Bool("tables", false, "enable the tables extension")
		fenced     = flag.Bool("fenced", false, "enable the fenced-code extension")
		footnotes  = flag.Bool("footnotes", false, "enable the footnotes extension")
		metadata   = flag.Bool("metadata", false, "enable the metadata extension")
		strikeout  = flag.Bool("strikethrough", false, "enable the strikethrough extension")
		commonmark = flag.Bool("commonmark", false, "set the CommonMark extension flag (no parser rule reads it)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file> [file2]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nParses a Markdown file and dumps its AST. Given a second file,\n")
		fmt.Fprintf(os.Stderr, "diffs the two and dumps the change-annotated merge instead.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 && len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Error: expected one or two files\n")
		flag.Usage()
		os.Exit(1)
	}

	var ext parser.Extension
	if *tables {
		ext |= parser.Tables
	}
	if *fenced {
		ext |= parser.FencedCode
	}
	if *footnotes {
		ext |= parser.Footnotes
	}
	if *metadata {
		ext |= parser.Metadata
	}
	if *strikeout {
		ext |= parser.Strikethrough
	}
	if *commonmark {
		ext |= parser.CommonMark
	}

	runID := uuid.New()

	if err := run(args, ext, runID.String()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", runID, err)
		os.Exit(1)
	}
}

func run(files []string, ext parser.Extension, runID string) error {
	opts := parser.Options{
		Extensions: ext,
		OnWarning: func(w parser.Warning) {
			fmt.Fprintf(os.Stderr, "%s: warning: %v\n", runID, w)
		},
	}

	if len(files) == 1 {
		src, err := os.ReadFile(files[0])
		if err != nil {
			return fmt.Errorf("reading %q: %w", files[0], err)
		}
		root, _, err := mdcore.Parse(src, opts)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", files[0], err)
		}
		ast.Dump(os.Stdout, root, 0)
		return nil
	}

	oldSrc, err := os.ReadFile(files[0])
	if err != nil {
		return fmt.Errorf("reading %q: %w", files[0], err)
	}
	newSrc, err := os.ReadFile(files[1])
	if err != nil {
		return fmt.Errorf("reading %q: %w", files[1], err)
	}

	result, _, err := mdcore.Diff(oldSrc, newSrc, mdcore.Options{Parser: opts})
	if err != nil {
		return fmt.Errorf("diffing %q and %q: %w", files[0], files[1], err)
	}
	ast.Dump(os.Stdout, result, 0)
	return nil
}

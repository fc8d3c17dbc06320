package parser

import (
	"errors"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// ErrOutOfMemory is the only error Parse can return (spec.md §7): a
// hard allocation-budget failure. Malformed input is never an error —
// it is accepted and emitted as best-effort text (§7's MalformedInput
// row), and excessive nesting is silenced per §4.1.7, not errored.
var ErrOutOfMemory = errors.New("parser: out of memory")

// WarningKind enumerates the concrete advisory conditions the parser
// can report. This is a supplement over the bare "MalformedInput"
// taxonomy row of spec.md §7: original_source/document.c and diff.c
// warn about specific, nameable situations (see SPEC_FULL.md §5), and
// giving each a Kind lets a caller filter or count them instead of
// pattern-matching a generic message string.
type WarningKind int

const (
	WarnSpaceBeforeLinkTarget WarningKind = iota
	WarnBadMetadataKeyChar
	WarnUnterminatedFence
	WarnUnresolvedReference
	WarnNestingExceeded
	WarnDuplicateFootnoteID
)

func (k WarningKind) String() string {
	switch k {
	case WarnSpaceBeforeLinkTarget:
		return "space before link target"
	case WarnBadMetadataKeyChar:
		return "invalid metadata key character"
	case WarnUnterminatedFence:
		return "unterminated fenced code block"
	case WarnUnresolvedReference:
		return "unresolved reference"
	case WarnNestingExceeded:
		return "nesting depth exceeded"
	case WarnDuplicateFootnoteID:
		return "duplicate footnote id"
	default:
		return "warning"
	}
}

// Warning is one advisory diagnostic (spec.md §7). Warnings never
// abort a parse; Options.OnWarning is purely informational.
type Warning struct {
	Kind WarningKind
	Line int
	Text string
}

func (w Warning) Error() string {
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Text)
}

// WarningCollector batches Warnings for a caller that wants one
// combined diagnostic at the end of a parse (e.g. a linter-style
// driver), folding them with hashicorp/go-multierror the way that
// library is pulled in, indirectly, by spectr and pkgsite. mdcore
// itself never requires one: Options.OnWarning is enough for the
// common case of "print as you go".
type WarningCollector struct {
	err *multierror.Error
}

// Collect returns an Options.OnWarning callback that appends every
// warning into wc.
func (wc *WarningCollector) Collect() func(Warning) {
	return func(w Warning) {
		wc.err = multierror.Append(wc.err, w)
	}
}

// Err returns nil if no warnings were collected, or a single combined
// error otherwise.
func (wc *WarningCollector) Err() error {
	if wc.err == nil {
		return nil
	}
	return wc.err.ErrorOrNil()
}

// Len reports how many warnings have been collected.
func (wc *WarningCollector) Len() int {
	if wc.err == nil {
		return 0
	}
	return len(wc.err.Errors)
}

package parser

// Extension is a bitmask of optional parser features (spec.md §6.3).
// Each bit is independent; the zero value enables none of them.
type Extension uint32

const (
	Tables Extension = 1 << iota
	FencedCode
	Footnotes
	Autolink
	Strikethrough
	Superscript
	Math
	MathExplicit
	SpaceHeaders
	NoIntraEmphasis
	NoCodeIndent
	Metadata
	CommonMark
	DefinitionLists
	Tasklists
	Callouts
	ExtendedAttributes
	Highlight
	ImgExt
)

// DefaultMaxDepth is the nesting guard's default cap (spec.md §4.1.7).
const DefaultMaxDepth = 128

// Options configures a single Parse call. The zero value is valid: no
// extensions enabled, DefaultMaxDepth nesting cap, no warning callback.
// This mirrors the teacher's flat, struct-literal configuration style
// (HeaderInfo, LinkInfo, FootnoteInfo in reference/parser.go) rather
// than a builder or a config-file loader — there is nothing here that
// needs one.
type Options struct {
	Extensions Extension
	MaxDepth   int

	// OnWarning, if non-nil, receives every advisory diagnostic emitted
	// during the parse (spec.md §7). It must not be used to abort the
	// parse: the callback's return value, if any, is ignored.
	OnWarning func(Warning)

	// MatchThreshold overrides the differ's bottom-up optimization
	// constant; unused by the parser itself but threaded through here
	// so a single Options value can configure an end-to-end Parse+Diff
	// call site. Zero means "use the differ's default of 0.5" (Design
	// Notes §9: "keep configurable for testing").
	MatchThreshold float64
}

func (o Options) enabled(e Extension) bool {
	return o.Extensions&e != 0
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) warn(w Warning) {
	if o.OnWarning != nil {
		o.OnWarning(w)
	}
}

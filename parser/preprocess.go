package parser

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// preprocess implements spec.md §4.1.2: skip a leading UTF-8 BOM,
// normalize CRLF/CR line endings to LF, and expand tabs to the next
// 4-column boundary, counting one column per rune (continuation bytes
// don't count). It does not trim anything else.
func preprocess(input []byte) []byte {
	input = stripBOM(input)
	input = normalizeNewlines(input)
	return expandTabs(input)
}

// stripBOM removes a leading byte-order mark using
// unicode.BOMOverride from golang.org/x/text/encoding/unicode, with the
// package's UTF-8 decoder as the fallback. Input is therefore always
// decoded: without a BOM it goes through the UTF-8 decoder, which
// replaces invalid UTF-8 sequences with U+FFFD, and a UTF-16 BOM
// switches to UTF-16 decoding.
func stripBOM(input []byte) []byte {
	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(t, input)
	if err != nil {
		// Malformed input is accepted, never rejected (spec.md §7):
		// fall back to the untransformed bytes.
		return input
	}
	return out
}

func normalizeNewlines(input []byte) []byte {
	if !bytes.ContainsAny(input, "\r") {
		return input
	}
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\r':
			out = append(out, '\n')
			if i+1 < len(input) && input[i+1] == '\n' {
				i++
			}
		default:
			out = append(out, input[i])
		}
	}
	return out
}

const tabStop = 4

// expandTabs replaces each tab with enough spaces to reach the next
// 4-column boundary, tracking column position per-line (column resets
// at each '\n'). Column counting is width-blind — one column per rune,
// continuation bytes not counted — matching original_source/buffer.c's
// expand_tabs, which counts one column per non-continuation byte.
func expandTabs(input []byte) []byte {
	if !bytes.ContainsRune(input, '\t') {
		return input
	}
	out := make([]byte, 0, len(input)+len(input)/4)
	col := 0
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		switch r {
		case '\t':
			spaces := tabStop - (col % tabStop)
			for j := 0; j < spaces; j++ {
				out = append(out, ' ')
			}
			col += spaces
		case '\n':
			out = append(out, '\n')
			col = 0
		default:
			out = append(out, input[i:i+size]...)
			col++
		}
		i += size
	}
	return out
}


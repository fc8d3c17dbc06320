package parser

import (
	"bytes"
	"strings"

	"github.com/kristapsdz/mdcore/ast"
)

// collectMetadata implements spec.md §4.1.3's metadata pass: only
// triggers if the metadata extension is enabled AND the first line
// contains a ':'. It consumes leading
// `key: value` lines (with §4.1.8 folding) until a blank line, and
// returns the remaining lines plus the ordered metadata queue (§3.3).
func collectMetadata(lines [][]byte, enabled bool, warn func(Warning)) ([][]byte, []ast.MetaEntry) {
	if !enabled || len(lines) == 0 {
		return lines, nil
	}
	if !bytes.ContainsRune(lines[0], ':') {
		return lines, nil
	}

	var entries []ast.MetaEntry
	i := 0
	for i < len(lines) {
		line := lines[i]
		if len(bytes.TrimSpace(line)) == 0 {
			i++
			break
		}
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			break
		}
		key := string(bytes.TrimSpace(line[:colon]))
		validateMetaKeyChars(key, i+1, warn)

		value, consumed := foldMetaValue(lines, i, colon)
		entries = append(entries, ast.MetaEntry{
			Key:   normalizeMetaKey(key),
			Value: value,
		})
		i += consumed
	}

	return lines[i:], entries
}

// foldMetaValue implements spec.md §4.1.8: strip leading whitespace on
// the first line; a single-line value has its trailing-space run
// stripped; a multi-line value (any run of following lines starting
// with a space/tab, stopping at a line starting non-whitespace with a
// ':' or a blank line) keeps interior bytes verbatim.
func foldMetaValue(lines [][]byte, i, colon int) (string, int) {
	first := bytes.TrimLeft(lines[i][colon+1:], " \t")
	consumed := 1

	var cont [][]byte
	for j := i + 1; j < len(lines); j++ {
		line := lines[j]
		if len(line) == 0 {
			break
		}
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) > 0 && trimmed[0] == ':' {
			break
		}
		cont = append(cont, line)
		consumed++
	}

	if len(cont) == 0 {
		return string(bytes.TrimRight(first, " \t")), consumed
	}

	var buf bytes.Buffer
	buf.Write(first)
	for _, line := range cont {
		buf.WriteByte('\n')
		buf.Write(line)
	}
	return buf.String(), consumed
}

// normalizeMetaKey implements spec.md §3.3: fold to lowercase, collapse
// whitespace out, replace any other non-alphanumeric/-/_ with '?'.
func normalizeMetaKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r == ' ' || r == '\t':
			continue
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

func validateMetaKeyChars(key string, line int, warn func(Warning)) {
	for _, r := range key {
		valid := r == ' ' || r == '\t' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			warn(Warning{Kind: WarnBadMetadataKeyChar, Line: line, Text: key})
			return
		}
	}
}

// canonicalMetaValue resolves the first-occurrence-wins rule of §3.3:
// given the ordered queue, it returns the canonical value for key (the
// first entry with that normalized key), if any.
func canonicalMetaValue(entries []ast.MetaEntry, key string) (string, bool) {
	key = normalizeMetaKey(key)
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

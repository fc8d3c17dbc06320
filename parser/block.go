package parser

import (
	"bytes"

	"github.com/kristapsdz/mdcore/ast"
)

// parseBlocks implements spec.md §4.1.4: it walks lines at a line
// boundary and, at each position, tries the block rules in the exact
// dispatch order the spec lists, taking the first match. It returns
// the sibling block nodes produced from the whole of lines.
func parseBlocks(lines [][]byte, st *state, depth int) []*ast.Node {
	if !st.enterNesting(depth) {
		return []*ast.Node{plainTextNode(bytes.Join(lines, []byte("\n")))}
	}
	defer st.leaveNesting()

	var out []*ast.Node
	i := 0
	for i < len(lines) {
		n, consumed := parseOneBlock(lines, i, st, depth)
		if consumed == 0 {
			// Paragraph fallback always consumes at least one line;
			// this should be unreachable, but never infinite-loop.
			consumed = 1
		}
		if n != nil {
			out = append(out, n)
		}
		i += consumed
	}
	return out
}

// parseOneBlock tries each rule of §4.1.4 in order against lines[i:]
// and returns the resulting node (nil for a consumed blank line) and
// how many lines were consumed.
func parseOneBlock(lines [][]byte, i int, st *state, depth int) (*ast.Node, int) {
	line := lines[i]

	if n, c, ok := tryATXHeader(line, st); ok {
		return n, c
	}
	if n, c, ok := tryBlockHTML(lines, i); ok {
		return n, c
	}
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, 1
	}
	if c, ok := tryHRule(line); ok {
		return ast.NewNode(ast.HRULE), c
	}
	if n, c, ok := tryFencedCode(lines, i, st); ok {
		return n, c
	}
	if n, c, ok := tryTable(lines, i, st); ok {
		return n, c
	}
	if n, c, ok := tryBlockquote(lines, i, st, depth); ok {
		return n, c
	}
	if n, c, ok := tryIndentedCode(lines, i, st); ok {
		return n, c
	}
	if n, c, ok := tryList(lines, i, st, depth, false); ok {
		return n, c
	}
	if n, c, ok := tryList(lines, i, st, depth, true); ok {
		return n, c
	}
	return tryParagraph(lines, i, st, depth)
}

func plainTextNode(text []byte) *ast.Node {
	n := ast.NewNode(ast.NORMAL_TEXT)
	n.Text = text
	return n
}

// --- ATX header ---------------------------------------------------

func tryATXHeader(line []byte, st *state) (*ast.Node, int, bool) {
	s := skipUpTo3Spaces(line)
	level := 0
	for level < len(s) && s[level] == '#' && level < 6 {
		level++
	}
	if level == 0 || level > 6 {
		return nil, 0, false
	}
	rest := s[level:]
	if st.opts.enabled(SpaceHeaders) {
		if len(rest) > 0 && rest[0] != ' ' {
			return nil, 0, false
		}
	}
	rest = bytes.TrimLeft(rest, " ")
	rest = bytes.TrimRight(rest, " ")
	rest = bytes.TrimRight(rest, "#")
	rest = bytes.TrimRight(rest, " ")

	h := ast.NewNode(ast.HEADER)
	h.Level = level
	h.Children = parseSpans(rest, st, 0)
	reparent(h)
	return h, 1, true
}

// --- horizontal rule -----------------------------------------------

func tryHRule(line []byte) (int, bool) {
	s := bytes.TrimSpace(line)
	if len(s) < 3 {
		return 0, false
	}
	c := s[0]
	if c != '*' && c != '-' && c != '_' {
		return 0, false
	}
	for _, b := range s {
		if b != c {
			return 0, false
		}
	}
	return 1, true
}

// --- fenced code -----------------------------------------------------

func tryFencedCode(lines [][]byte, i int, st *state) (*ast.Node, int, bool) {
	if !st.opts.enabled(FencedCode) {
		return nil, 0, false
	}
	line := skipUpTo3Spaces(lines[i])
	if len(line) < 3 {
		return nil, 0, false
	}
	fence := line[0]
	if fence != '`' && fence != '~' {
		return nil, 0, false
	}
	width := 0
	for width < len(line) && line[width] == fence {
		width++
	}
	if width < 3 {
		return nil, 0, false
	}
	lang := bytes.TrimSpace(line[width:])
	if i := bytes.IndexAny(lang, " \t"); i >= 0 {
		lang = lang[:i]
	}

	var body bytes.Buffer
	j := i + 1
	closed := false
	for ; j < len(lines); j++ {
		l := skipUpTo3Spaces(lines[j])
		n := 0
		for n < len(l) && l[n] == fence {
			n++
		}
		if n >= width && len(bytes.TrimSpace(l[n:])) == 0 {
			closed = true
			j++
			break
		}
		body.Write(lines[j])
		body.WriteByte('\n')
	}
	if !closed {
		st.warn(Warning{Kind: WarnUnterminatedFence, Line: i + 1, Text: string(lang)})
		j = len(lines)
	}

	n := ast.NewNode(ast.BLOCKCODE)
	n.Text = body.Bytes()
	n.Lang = lang
	return n, j - i, true
}

// --- indented code ---------------------------------------------------

func tryIndentedCode(lines [][]byte, i int, st *state) (*ast.Node, int, bool) {
	if st.opts.enabled(NoCodeIndent) {
		return nil, 0, false
	}
	if !hasIndent(lines[i], 4) {
		return nil, 0, false
	}
	var body bytes.Buffer
	j := i
	for j < len(lines) {
		if len(bytes.TrimSpace(lines[j])) == 0 {
			// A run of blank lines only continues the block if more
			// indented code follows.
			k := j
			for k < len(lines) && len(bytes.TrimSpace(lines[k])) == 0 {
				k++
			}
			if k < len(lines) && hasIndent(lines[k], 4) {
				for ; j < k; j++ {
					body.WriteByte('\n')
				}
				continue
			}
			break
		}
		if !hasIndent(lines[j], 4) {
			break
		}
		body.Write(stripIndent(lines[j], 4))
		body.WriteByte('\n')
		j++
	}
	n := ast.NewNode(ast.BLOCKCODE)
	n.Text = body.Bytes()
	return n, j - i, true
}

func hasIndent(line []byte, n int) bool {
	if len(line) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if line[i] != ' ' {
			return false
		}
	}
	return true
}

// --- blockquote -------------------------------------------------------

func tryBlockquote(lines [][]byte, i int, st *state, depth int) (*ast.Node, int, bool) {
	s := skipUpTo3Spaces(lines[i])
	if len(s) == 0 || s[0] != '>' {
		return nil, 0, false
	}
	var inner [][]byte
	j := i
	for j < len(lines) {
		l := skipUpTo3Spaces(lines[j])
		if len(l) > 0 && l[0] == '>' {
			rest := l[1:]
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			inner = append(inner, rest)
			j++
			continue
		}
		if len(bytes.TrimSpace(l)) == 0 {
			break
		}
		// Lazy continuation: a non-blank, non-'>' line extends the quote.
		inner = append(inner, l)
		j++
	}
	n := ast.NewNode(ast.BLOCKQUOTE)
	n.Children = parseBlocks(inner, st, depth+1)
	reparent(n)
	return n, j - i, true
}

// --- lists --------------------------------------------------------

func tryList(lines [][]byte, i int, st *state, depth int, ordered bool) (*ast.Node, int, bool) {
	s := skipUpTo3Spaces(lines[i])
	marker, _, ok := matchListMarker(s, ordered)
	if !ok {
		return nil, 0, false
	}
	leadSpaces := len(lines[i]) - len(s)

	list := ast.NewNode(ast.LIST)
	if ordered {
		list.ListFlags = ast.ListOrdered
		list.ListStart = marker
	} else {
		list.ListFlags = ast.ListUnordered
	}

	j := i
	blockSpaced := false
	for j < len(lines) {
		s := skipUpTo3Spaces(lines[j])
		_, mLen, isItem := matchListMarker(s, ordered)
		if j != i && !isItem {
			break
		}
		origIndent := leadSpaces + mLenOrDefault(s, mLen)

		var itemLines [][]byte
		first := lines[j][min(len(lines[j]), origIndent):]
		itemLines = append(itemLines, first)
		j++
		for j < len(lines) {
			l := lines[j]
			if len(bytes.TrimSpace(l)) == 0 {
				k := j
				for k < len(lines) && len(bytes.TrimSpace(lines[k])) == 0 {
					k++
				}
				if k < len(lines) {
					ns := skipUpTo3Spaces(lines[k])
					if _, _, isNewItem := matchListMarker(ns, ordered); isNewItem && lineIndent(lines[k]) <= leadSpaces {
						break
					}
					if lineIndent(lines[k]) < origIndent {
						break
					}
				}
				blockSpaced = true
				for ; j < k; j++ {
					itemLines = append(itemLines, nil)
				}
				continue
			}
			ns := skipUpTo3Spaces(l)
			if _, _, isNewItem := matchListMarker(ns, ordered); isNewItem && lineIndent(l) <= leadSpaces {
				break
			}
			if lineIndent(l) < origIndent && !isIndented(l) {
				break
			}
			itemLines = append(itemLines, l[min(len(l), origIndent):])
			j++
		}

		item := ast.NewNode(ast.LISTITEM)
		item.Ordinal = len(list.Children) + 1
		if ordered {
			item.ItemFlags = ast.ItemOrdered
		} else {
			item.ItemFlags = ast.ItemUnordered
		}
		item.Children = parseBlocks(itemLines, st, depth+1)
		reparent(item)
		list.AppendChild(item)
	}

	if blockSpaced {
		list.ListFlags |= ast.ListBlockSpaced
		for _, it := range list.Children {
			it.ItemFlags |= ast.ItemBlockSpaced
		}
	}
	list.ItemCount = len(list.Children)
	return list, j - i, true
}

func mLenOrDefault(s []byte, mLen int) int {
	n := mLen
	for n < len(s) && s[n] == ' ' {
		n++
		break
	}
	return n
}

func lineIndent(line []byte) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func matchListMarker(s []byte, ordered bool) (marker int, length int, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	if !ordered {
		if (s[0] == '*' || s[0] == '+' || s[0] == '-') && len(s) > 1 && s[1] == ' ' {
			return 0, 2, true
		}
		return 0, 0, false
	}
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 || n+1 >= len(s) || s[n] != '.' || s[n+1] != ' ' {
		return 0, 0, false
	}
	num := 0
	for _, c := range s[:n] {
		num = num*10 + int(c-'0')
	}
	return num, n + 2, true
}

// --- tables ------------------------------------------------------

func tryTable(lines [][]byte, i int, st *state) (*ast.Node, int, bool) {
	if !st.opts.enabled(Tables) {
		return nil, 0, false
	}
	if i+1 >= len(lines) {
		return nil, 0, false
	}
	header := lines[i]
	underline := lines[i+1]
	if !bytes.ContainsRune(header, '|') || !isTableUnderline(underline) {
		return nil, 0, false
	}

	headerCells := splitTableRow(header)
	aligns := parseTableAlign(underline)
	cols := len(headerCells)
	if len(aligns) > cols {
		cols = len(aligns)
	}

	block := ast.NewNode(ast.TABLE_BLOCK)
	block.Columns = cols

	thead := ast.NewNode(ast.TABLE_HEADER)
	thead.Columns = cols
	thead.ColumnAligns = aligns
	hrow := ast.NewNode(ast.TABLE_ROW)
	for c := 0; c < cols; c++ {
		cell := ast.NewNode(ast.TABLE_CELL)
		cell.Col = c
		cell.Columns = cols
		if c < len(aligns) {
			cell.Align = aligns[c]
		}
		if c < len(headerCells) {
			cell.Children = parseSpans(bytes.TrimSpace(headerCells[c]), st, 0)
			reparent(cell)
		}
		hrow.AppendChild(cell)
	}
	thead.AppendChild(hrow)
	block.AppendChild(thead)

	tbody := ast.NewNode(ast.TABLE_BODY)
	j := i + 2
	for j < len(lines) && bytes.ContainsRune(lines[j], '|') && len(bytes.TrimSpace(lines[j])) != 0 {
		cells := splitTableRow(lines[j])
		row := ast.NewNode(ast.TABLE_ROW)
		for c := 0; c < cols; c++ {
			cell := ast.NewNode(ast.TABLE_CELL)
			cell.Col = c
			cell.Columns = cols
			if c < len(aligns) {
				cell.Align = aligns[c]
			}
			if c < len(cells) {
				cell.Children = parseSpans(bytes.TrimSpace(cells[c]), st, 0)
				reparent(cell)
			}
			row.AppendChild(cell)
		}
		tbody.AppendChild(row)
		j++
	}
	block.AppendChild(tbody)

	return block, j - i, true
}

func isTableUnderline(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	saw := false
	for _, c := range trimmed {
		switch c {
		case '-', ':', '|', ' ':
			if c == '-' {
				saw = true
			}
		default:
			return false
		}
	}
	return saw
}

func splitTableRow(line []byte) [][]byte {
	s := bytes.TrimSpace(line)
	s = bytes.TrimPrefix(s, []byte("|"))
	s = bytes.TrimSuffix(s, []byte("|"))
	return splitUnescapedPipe(s)
}

func splitUnescapedPipe(s []byte) [][]byte {
	var out [][]byte
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func parseTableAlign(line []byte) []ast.TableFlags {
	cells := splitTableRow(line)
	aligns := make([]ast.TableFlags, len(cells))
	for i, c := range cells {
		c = bytes.TrimSpace(c)
		left := len(c) > 0 && c[0] == ':'
		right := len(c) > 0 && c[len(c)-1] == ':'
		switch {
		case left && right:
			aligns[i] = ast.TableAlignCenter
		case right:
			aligns[i] = ast.TableAlignRight
		case left:
			aligns[i] = ast.TableAlignLeft
		}
	}
	return aligns
}

// --- block HTML -----------------------------------------------------

var blockTags = map[string]bool{
	"blockquote": true, "del": true, "div": true, "dl": true, "fieldset": true,
	"figure": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "iframe": true, "ins": true, "math": true,
	"noscript": true, "ol": true, "p": true, "pre": true, "script": true,
	"style": true, "table": true, "ul": true,
}

func tryBlockHTML(lines [][]byte, i int) (*ast.Node, int, bool) {
	line := skipUpTo3Spaces(lines[i])
	if len(line) == 0 || line[0] != '<' {
		return nil, 0, false
	}
	if bytes.HasPrefix(line, []byte("<!--")) {
		j := i
		for j < len(lines) {
			if bytes.Contains(lines[j], []byte("-->")) {
				j++
				break
			}
			j++
		}
		// Consume through the following blank line, if any.
		for j < len(lines) && len(bytes.TrimSpace(lines[j])) == 0 {
			j++
		}
		n := ast.NewNode(ast.BLOCKHTML)
		n.Text = bytes.Join(lines[i:j], []byte("\n"))
		return n, j - i, true
	}

	tag, selfClose := extractTagName(line)
	if tag == "" {
		return nil, 0, false
	}
	lower := bytes.ToLower([]byte(tag))
	if string(lower) == "hr" && selfClose {
		n := ast.NewNode(ast.BLOCKHTML)
		n.Text = line
		return n, 1, true
	}
	if !blockTags[string(lower)] {
		return nil, 0, false
	}

	closeTag := []byte("</" + string(lower) + ">")
	j := i
	for j < len(lines) {
		if bytes.Contains(lines[j], closeTag) {
			j++
			break
		}
		j++
	}
	// The block ends at the first line containing the closing tag, or
	// at end of input when there is none, the same way for every tag
	// (ins and del included); blank lines after it are consumed too. A
	// following blank line is not required.
	for j < len(lines) && len(bytes.TrimSpace(lines[j])) == 0 {
		j++
	}

	n := ast.NewNode(ast.BLOCKHTML)
	n.Text = bytes.Join(lines[i:min(j, len(lines))], []byte("\n"))
	return n, max(j-i, 1), true
}

func extractTagName(line []byte) (string, bool) {
	if len(line) < 2 || line[0] != '<' {
		return "", false
	}
	i := 1
	for i < len(line) && isAlnum(line[i]) {
		i++
	}
	if i == 1 {
		return "", false
	}
	selfClose := bytes.Contains(line, []byte("/>"))
	return string(line[1:i]), selfClose
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// --- paragraph / setext header ---------------------------------------

func tryParagraph(lines [][]byte, i int, st *state, depth int) (*ast.Node, int) {
	j := i
	for j < len(lines) {
		if len(bytes.TrimSpace(lines[j])) == 0 {
			break
		}
		if j > i && startsNewBlock(lines, j, st) {
			break
		}
		if _, ok := setextLevel(lines[j]); ok && j > i {
			break
		}
		j++
	}
	// Setext header promotion: a following '='/'-' line promotes.
	if j < len(lines) {
		if lvl, ok := setextLevel(lines[j]); ok && j > i {
			h := ast.NewNode(ast.HEADER)
			h.Level = lvl
			text := bytes.Join(lines[i:j], []byte("\n"))
			h.Children = parseSpans(text, st, 0)
			reparent(h)
			return h, j - i + 1
		}
	}
	text := bytes.Join(lines[i:j], []byte("\n"))
	p := ast.NewNode(ast.PARAGRAPH)
	p.Children = parseSpans(text, st, 0)
	reparent(p)
	if j == i {
		j = i + 1
	}
	return p, j - i
}

func setextLevel(line []byte) (int, bool) {
	s := bytes.TrimSpace(line)
	if len(s) == 0 {
		return 0, false
	}
	c := s[0]
	if c != '=' && c != '-' {
		return 0, false
	}
	for _, b := range s {
		if b != c {
			return 0, false
		}
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// startsNewBlock is a lightweight lookahead used by the paragraph rule
// to stop at a line that would itself begin a higher-priority block
// (ATX header, hrule, blockquote, fence) — paragraphs otherwise run
// until a blank line per spec.md §4.1.4 rule 11.
func startsNewBlock(lines [][]byte, j int, st *state) bool {
	line := skipUpTo3Spaces(lines[j])
	if len(line) == 0 {
		return false
	}
	if line[0] == '#' {
		return true
	}
	if _, ok := setextLevel(lines[j]); ok {
		return false // handled by caller, not a "new block"
	}
	if _, ok := tryHRule(lines[j]); ok {
		return true
	}
	if line[0] == '>' {
		return true
	}
	if st.opts.enabled(FencedCode) && (line[0] == '`' || line[0] == '~') {
		n := 0
		for n < len(line) && line[n] == line[0] {
			n++
		}
		if n >= 3 {
			return true
		}
	}
	return false
}

func reparent(n *ast.Node) {
	for _, c := range n.Children {
		c.Parent = n
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

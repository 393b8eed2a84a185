package content

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	prefixMarker = ":prefix:"
	returnMarker = ":return:"
	tabSize      = 4
)

// Letters that do not decompose into a base letter plus marks.
var transliterations = strings.NewReplacer(
	"ß", "ss", "Æ", "AE", "æ", "ae", "Ø", "O", "ø", "o",
	"Œ", "OE", "œ", "oe", "Đ", "D", "đ", "d", "Ł", "L", "ł", "l",
)

// symbolRef matches a |symbol| token. Tokens that follow a ".. " directive
// marker are skipped by the scanner.
var symbolRef = regexp.MustCompile(`\|([^\s|][^|\n]*?)\|`)

// Normalize turns name into a portable file name stem: the name is
// transliterated to ASCII, characters outside [-_. A-Za-z0-9] are dropped,
// spaces become '-', dots become '_' and runs of the same separator collapse.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, transliterations.Replace(name))
	if err != nil {
		ascii = name
	}

	var b strings.Builder
	var last rune
	for _, r := range ascii {
		switch {
		case r == ' ':
			r = '-'
		case r == '.':
			r = '_'
		case r == '-' || r == '_':
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		default:
			continue
		}
		if (r == '-' || r == '_') && r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

// EscapeIEC escapes underscores that reStructuredText would read as
// reference or emphasis markup.
func EscapeIEC(name string) string {
	name = strings.ReplaceAll(name, "_.", `\_.`)
	if strings.HasPrefix(name, "_") {
		name = `\_` + name[1:]
	}
	if strings.HasSuffix(name, "_") && !strings.HasSuffix(name, `\_`) {
		name = name[:len(name)-1] + `\_`
	}
	return name
}

// escapeWords escapes every space separated word of text.
func escapeWords(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = EscapeIEC(w)
	}
	return strings.Join(words, " ")
}

// splitLines splits text at any line ending. A trailing line ending does not
// produce an empty last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// expandTabs replaces tabs by spaces up to the next multiple of size.
func expandTabs(line string, size int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// dedent removes the whitespace prefix common to all non-blank lines.
// Blank lines are emptied.
func dedent(lines []string) []string {
	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin, first = indent, false
			continue
		}
		margin = commonPrefix(margin, indent)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[i] = strings.TrimPrefix(line, margin)
	}
	return out
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// sourceBlock renders a source text with tabs expanded, dedented and
// without trailing whitespace.
func sourceBlock(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = expandTabs(line, tabSize)
	}
	lines = dedent(lines)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// wrap breaks text into lines of at most width characters at whitespace.
// Words longer than width are split only when breakLong is set.
func wrap(text string, width int, breakLong bool) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}

	var lines []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, string(current))
			current = current[:0]
		}
	}
	for _, word := range words {
		w := []rune(word)
		space := 0
		if len(current) > 0 {
			space = 1
		}
		if len(current)+space+len(w) <= width {
			if space == 1 {
				current = append(current, ' ')
			}
			current = append(current, w...)
			continue
		}
		if !breakLong || len(w) <= width {
			flush()
			current = append(current, w...)
			continue
		}
		for len(w) > 0 {
			room := width - len(current) - space
			if room <= 0 {
				flush()
				space = 0
				continue
			}
			if space == 1 {
				current = append(current, ' ')
				space = 0
			}
			if room > len(w) {
				room = len(w)
			}
			current = append(current, w[:room]...)
			w = w[room:]
			if len(w) > 0 {
				flush()
			}
		}
	}
	flush()
	return lines
}

// textWidth returns the display width of s in runes.
func textWidth(s string) int {
	return len([]rune(s))
}

// cleanDoc turns a raw documentation comment into lines. The :prefix:
// line and everything from :return: on are removed. A leading summary
// line followed by a blank line is kept as is; otherwise leading '*'
// decorations of continuation lines are stripped.
func cleanDoc(text string) []string {
	if text == "" {
		return nil
	}

	if i := strings.Index(text, prefixMarker); i >= 0 {
		if le := strings.Index(text[i:], "\n"); le >= 0 {
			text = text[:i] + text[i+le:]
		} else {
			text = text[:i]
		}
	}
	if i := strings.Index(text, returnMarker); i >= 0 {
		text = text[:i]
	}

	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = expandTabs(line, tabSize)
	}
	lines = dedent(lines)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) > 1 && strings.TrimSpace(lines[0]) != "" && strings.TrimSpace(lines[1]) == "" {
		lines[0] = strings.TrimSpace(lines[0])
		return lines
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimLeft(lines[0], " \t"), "*") {
		return lines
	}

	starMode := false
	for i := 1; i < len(lines); i++ {
		line := strings.TrimLeft(lines[i], " \t")
		if !strings.HasPrefix(line, "*") {
			break
		}
		lines[i] = line[1:]
		starMode = true
	}
	if starMode {
		copy(lines[1:], dedent(lines[1:]))
	}
	return lines
}

// docPrefix returns the text following the :prefix: marker on its line.
func docPrefix(text string) string {
	i := strings.Index(text, prefixMarker)
	if i < 0 {
		return ""
	}
	rest := text[i+len(prefixMarker):]
	if le := strings.Index(rest, "\n"); le >= 0 {
		rest = rest[:le]
	}
	return strings.TrimSpace(rest)
}

// docReturn returns the text following the :return: marker.
func docReturn(text string) string {
	i := strings.Index(text, returnMarker)
	if i < 0 {
		return ""
	}
	return text[i+len(returnMarker):]
}

// symbolMatch is one |symbol| token in a text.
type symbolMatch struct {
	start, end int
	symbol     string
}

// findSymbolRefs returns all |symbol| tokens of text in order.
func findSymbolRefs(text string) []symbolMatch {
	var matches []symbolMatch
	pos := 0
	for pos < len(text) {
		loc := symbolRef.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start >= 3 && text[start-3:start] == ".. " {
			pos = start + 1
			continue
		}
		matches = append(matches, symbolMatch{start: start, end: end, symbol: text[pos+loc[2] : pos+loc[3]]})
		pos = end
	}
	return matches
}

// links collects substitution directives for resolved cross references.
type links map[string]struct{}

func (l links) add(alias, symbol, target string) {
	l[".. |"+alias+"| replace:: :ref:`"+symbol+"<"+target+">`"] = struct{}{}
}

// sorted returns the directives in stable order.
func (l links) sorted() []string {
	result := make([]string, 0, len(l))
	for d := range l {
		result = append(result, d)
	}
	sort.Strings(result)
	return result
}

// appendLinks appends the directives to text separated by a blank line.
func appendLinks(text string, l links) string {
	if len(l) == 0 {
		return text
	}
	return text + "\n\n" + strings.Join(l.sorted(), "\n")
}

// substituteSymbols rewrites |symbol| tokens. Resolved tokens become
// |<alias prefix>symbol| substitutions with a directive added to l;
// unresolved tokens are escaped so they render literally.
func substituteSymbols(text, aliasPrefix string, lookup func(string) (string, bool), l links) string {
	matches := findSymbolRefs(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.start])
		if target, ok := lookup(m.symbol); ok {
			l.add(aliasPrefix+m.symbol, m.symbol, target)
			b.WriteString("|" + aliasPrefix + m.symbol + "|")
		} else {
			b.WriteString(`\|` + m.symbol + `\|`)
		}
		last = m.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// literalSymbols rewrites resolved |symbol| tokens as inline literals.
func literalSymbols(text string, lookup func(string) (string, bool)) string {
	matches := findSymbolRefs(text)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if _, ok := lookup(m.symbol); !ok {
			continue
		}
		b.WriteString(text[last:m.start])
		b.WriteString("``" + m.symbol + "``")
		last = m.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// substituteWord replaces whole-word occurrences of symbol by |alias|.
func substituteWord(text, symbol, alias string) string {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
	if err != nil {
		return text
	}
	return re.ReplaceAllLiteralString(text, "|"+alias+"|")
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// substituteFiles replaces @(key) references by the relative path of the
// embedded external file, or by a visible placeholder for unknown keys.
func substituteFiles(text string, files map[string]string) string {
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(text[i:], "@(")
		if j < 0 {
			break
		}
		start := i + j
		if start > 0 && isWordByte(text[start-1]) {
			b.WriteString(text[i : start+2])
			i = start + 2
			continue
		}

		end := -1
		for k := start + 3; k < len(text); k++ {
			if text[k] == '\n' {
				break
			}
			if text[k] == ')' && (k+1 == len(text) || !isWordByte(text[k+1])) {
				end = k
				break
			}
		}
		if end < 0 {
			b.WriteString(text[i : start+2])
			i = start + 2
			continue
		}

		key := text[start+2 : end]
		b.WriteString(text[i:start])
		if name, ok := files[key]; ok && name != "" {
			b.WriteString("/../" + name)
		} else {
			b.WriteString("** Unknown file reference: '@(" + key + ")' **")
		}
		i = end + 1
	}
	b.WriteString(text[i:])
	return b.String()
}

package content

import "strings"

// Comment markers in priority order.
var commentMarkers = []string{"///", "//", "(*"}

// LeadingComment extracts the comment block that precedes the first
// statement of a structured text implementation. Line comments continue
// while lines start with the marker of the first comment line; a block
// comment ends at "*)". Blank lines inside the block are kept, scanning
// stops at the first other line.
func LeadingComment(source string) []string {
	var doc []string
	kind := ""

	for _, line := range splitLines(source) {
		line = strings.TrimLeft(line, " \t")

		if kind == "" {
			if line == "" {
				continue
			}
			for _, marker := range commentMarkers {
				if strings.HasPrefix(line, marker) {
					kind = marker
					break
				}
			}
			if kind == "" {
				break
			}
			line = strings.Replace(line, kind, "", 1)
			if i := strings.Index(line, "*)"); i >= 0 && kind == "(*" {
				doc = append(doc, strings.TrimSpace(line[:i]))
				break
			}
			doc = append(doc, strings.TrimSpace(line))
			continue
		}

		if kind == "(*" {
			if i := strings.Index(line, "*)"); i >= 0 {
				doc = append(doc, line[:i])
				break
			}
			doc = append(doc, line)
			continue
		}
		if line == "" {
			doc = append(doc, "")
			continue
		}
		if !strings.HasPrefix(line, kind) {
			break
		}
		doc = append(doc, strings.TrimSpace(strings.Replace(line, kind, "", 1)))
	}

	for len(doc) > 0 && doc[len(doc)-1] == "" {
		doc = doc[:len(doc)-1]
	}
	return doc
}

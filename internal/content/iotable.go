package content

import (
	"sort"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// Column titles of the parameter table.
const (
	ColumnAttributes    = "Attributes"
	ColumnScope         = "Scope"
	ColumnName          = "Name"
	ColumnType          = "Type"
	ColumnAddress       = "Address"
	ColumnInitial       = "Initial"
	ColumnValue         = "Value"
	ColumnComment       = "Comment"
	ColumnInheritedFrom = "Inherited from"
)

// Layout limits of the parameter table.
const (
	MaxTableWidth = 100
	commentWidth  = 60
	typeWidth     = 25
	initialWidth  = 15
)

const scopeReturn = "Return"

// tableScopes lists the variable scopes shown in the table.
var tableScopes = [][]string{
	{"input"}, {"constant", "inOut"}, {"inOut"}, {"output"}, {"return", "output"},
	{"constant", "global"}, {"global"}, {"retain"}, {"persistent"}, {"empty"},
}

// Column is a table column with its rendered width.
type Column struct {
	Title string
	Width int
}

// IORow is one variable of the table. Every cell holds its wrapped lines.
type IORow struct {
	Scope         []string
	Name          []string
	Type          []string
	Address       []string
	Initial       []string
	Comment       []string
	Attributes    []string
	InheritedFrom []string
}

// Lines returns the row as physical lines; shorter cells are padded with
// empty strings.
func (r IORow) Lines() [][]string {
	cells := [][]string{r.Scope, r.Name, r.Type, r.Address, r.Initial, r.Comment, r.Attributes, r.InheritedFrom}
	height := 0
	for _, c := range cells {
		if len(c) > height {
			height = len(c)
		}
	}
	lines := make([][]string, height)
	for i := range lines {
		line := make([]string, len(cells))
		for j, c := range cells {
			if i < len(c) {
				line[j] = c[i]
			}
		}
		lines[i] = line
	}
	return lines
}

// IOTable is the laid out variable table of an object.
type IOTable struct {
	Type       string
	Title      string
	Attributes []string
	// Header holds the object attribute column followed by the row columns.
	Header []Column
	Body   []IORow
	Links  []string
}

// Width returns the summed width of the columns that take part in the
// layout decision.
func (t *IOTable) Width() int {
	w := 0
	for _, c := range t.Header[1:] {
		if c.Title == ColumnAttributes {
			continue
		}
		w += c.Width
	}
	return w
}

// columnLimits caps wrapped column widths; zero means unlimited.
type columnLimits struct {
	comment, typ, initial int
}

// IOTable lays out the object's variables. A pass that exceeds
// MaxTableWidth narrows the comment column, then the type column, then the
// initial value column. After the third pass the result is accepted as is.
func (p *ObjectParticle) IOTable() *IOTable {
	limits := columnLimits{}
	var table *IOTable
	narrow := []func(){
		func() { limits.comment = commentWidth },
		func() { limits.typ = typeWidth },
		func() { limits.initial = initialWidth },
	}
	for _, n := range narrow {
		table = p.layoutTable(limits)
		if table.Width() <= MaxTableWidth {
			break
		}
		n()
	}
	return table
}

func attributeTexts(attrs map[string]*domain.Attribute) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	texts := make([]string, len(names))
	for i, name := range names {
		a := attrs[name]
		if a != nil && a.Value != nil {
			texts[i] = name + " := " + *a.Value
		} else {
			texts[i] = name
		}
	}
	return texts
}

func scopeLabel(scope []string) (string, bool) {
	if len(scope) == 0 {
		scope = []string{"empty"}
	}
	known := false
	for _, s := range tableScopes {
		if equalScope(s, scope) {
			known = true
			break
		}
	}
	if !known {
		return "", false
	}
	switch {
	case equalScope(scope, []string{"constant", "inOut"}):
		return "Inout Const", true
	case len(scope) == 1 && (scope[0] == "local" || scope[0] == "empty" || scope[0] == "global"):
		return "", true
	default:
		first := scope[0]
		return strings.ToUpper(first[:1]) + strings.ToLower(first[1:]), true
	}
}

func equalScope(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func maxWidth(current int, lines ...string) int {
	for _, l := range lines {
		if w := textWidth(l); w > current {
			current = w
		}
	}
	return current
}

func (p *ObjectParticle) layoutTable(limits columnLimits) *IOTable {
	d := p.decl
	lookup := p.model.symbols.Lookup
	l := links{}

	initialTitle := ColumnInitial
	if d.ObjectType == "Enum" {
		initialTitle = ColumnValue
	}

	pouAttributes := attributeTexts(d.Attributes)
	wPOUAttributes := maxWidth(len(ColumnAttributes), pouAttributes...)

	var wScope, wName, wType, wAddress, wInitial, wComment, wAttributes, wInherited int
	var body []IORow

	for _, v := range d.ItemList() {
		scope, ok := scopeLabel(v.Scope)
		if !ok {
			continue
		}

		var name string
		switch {
		case scope == scopeReturn:
			name = EscapeIEC(v.Name)
		case d.ObjectType == "Enum" || d.ObjectType == "GVL" || d.ObjectType == "ParamList":
			name = ".. _`" + d.Name + "." + v.Name + "`:\n\n" + EscapeIEC(v.Name)
		default:
			name = EscapeIEC(v.Name)
		}
		names := splitLines(name)
		if len(names) > 0 {
			wName = maxWidth(wName, ColumnName)
		}
		wName = maxWidth(wName, names...)

		typeText := p.typeText(v.Type, l)

		comment := ""
		if scope == scopeReturn {
			comment = docReturn(p.rawDoc(d))
		} else if v.Doc != nil {
			comment = *v.Doc
		} else if v.Comment != nil {
			comment = *v.Comment
		}
		if comment != "" {
			comment = substituteFiles(comment, p.model.externalFiles)
		}

		initial := escapeWords(string(v.Initial))
		if initial == "" {
			initial = escapeWords(string(v.Value))
			if len(initial) >= 2 && strings.HasPrefix(initial, "(") && strings.HasSuffix(initial, ")") {
				initial = initial[1 : len(initial)-1]
			}
		}

		var inherited []string
		if v.InheritedFrom != "" {
			if target, ok := lookup(v.InheritedFrom); ok {
				inherited = []string{"|io" + v.InheritedFrom + "|"}
				l.add("io"+v.InheritedFrom, v.InheritedFrom, target)
			} else {
				inherited = splitLines(EscapeIEC(v.InheritedFrom))
			}
			wInherited = maxWidth(wInherited, ColumnInheritedFrom)
		}
		wInherited = maxWidth(wInherited, inherited...)

		types := []string{typeText}
		if limits.typ > 0 && textWidth(typeText) > limits.typ {
			types = wrap(typeText, limits.typ, false)
		}
		if typeText != "" {
			wType = maxWidth(wType, ColumnType)
		}
		wType = maxWidth(wType, types...)

		var comments []string
		if comment != "" {
			comments = cleanDoc(substituteSymbols(comment, "io", lookup, l))
			if len(comments) == 1 && limits.comment > 0 && textWidth(comments[0]) > limits.comment {
				comments = wrap(comments[0], limits.comment, false)
			}
			wComment = maxWidth(wComment, ColumnComment)
			wComment = maxWidth(wComment, comments...)
		}

		initials := []string{initial}
		if initial != "" {
			if limits.initial > 0 && textWidth(initial) > limits.initial {
				initials = wrap(initial, limits.initial, true)
			}
			wInitial = maxWidth(wInitial, initialTitle)
			wInitial = maxWidth(wInitial, initials...)
		}

		var attributes []string
		if texts := attributeTexts(v.Attributes); len(texts) > 0 {
			wAttributes = maxWidth(wAttributes, ColumnAttributes)
			wAttributes = maxWidth(wAttributes, texts...)
			attributes = wrap(strings.Join(texts, ", "), wAttributes, false)
		}

		if scope != "" {
			wScope = maxWidth(wScope, ColumnScope, scope)
		}
		if v.Address != "" {
			wAddress = maxWidth(wAddress, ColumnAddress, v.Address)
		}

		body = append(body, IORow{
			Scope:         []string{scope},
			Name:          names,
			Type:          types,
			Address:       []string{v.Address},
			Initial:       initials,
			Comment:       comments,
			Attributes:    attributes,
			InheritedFrom: inherited,
		})
	}

	return &IOTable{
		Type:       d.ObjectType,
		Title:      d.Name,
		Attributes: pouAttributes,
		Header: []Column{
			{ColumnAttributes, wPOUAttributes},
			{ColumnScope, wScope},
			{ColumnName, wName},
			{ColumnType, wType},
			{ColumnAddress, wAddress},
			{initialTitle, wInitial},
			{ColumnComment, wComment},
			{ColumnAttributes, wAttributes},
			{ColumnInheritedFrom, wInherited},
		},
		Body:  body,
		Links: l.sorted(),
	}
}

// typeText renders a variable type, linking it when it resolves.
func (p *ObjectParticle) typeText(ref *domain.TypeRef, l links) string {
	if ref == nil {
		return ""
	}
	lookup := p.model.symbols.Lookup

	if ref.Verbatim != "" && ref.BaseType != nil {
		base := ref.BaseType.Class
		if target, ok := lookup(base); ok && base != "" && strings.Contains(ref.Verbatim, base) {
			l.add("io"+base, base, target)
			return substituteWord(ref.Verbatim, base, "io"+base)
		}
		return escapeWords(ref.Verbatim)
	}

	if target, ok := lookup(ref.Class); ok && ref.Class != "" {
		l.add("io"+ref.Class, ref.Class, target)
		return "|io" + ref.Class + "|"
	}
	if ref.Verbatim != "" {
		return EscapeIEC(ref.Verbatim)
	}
	return EscapeIEC(ref.Class)
}

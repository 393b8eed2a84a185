// Package symbols provides the case-insensitive registry of type and member
// names used to resolve cross references.
package symbols

import (
	"sort"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// memberSource yields the members of a declaration registered as symbols.
type memberSource struct {
	objectType    string
	members       func(d *domain.Declaration) []*domain.Declaration
	qualifiedOnly bool
}

var memberSources = []memberSource{
	{objectType: "Enum", members: func(d *domain.Declaration) []*domain.Declaration { return variables(d.Members) }},
	{objectType: "GVL", members: func(d *domain.Declaration) []*domain.Declaration { return variables(d.Variables) }},
	{objectType: "ParamList", members: func(d *domain.Declaration) []*domain.Declaration { return variables(d.Variables) }},
	{objectType: "FunctionBlock", members: func(d *domain.Declaration) []*domain.Declaration { return sorted(d.Methods) }, qualifiedOnly: true},
	{objectType: "FunctionBlock", members: func(d *domain.Declaration) []*domain.Declaration { return sorted(d.Properties) }, qualifiedOnly: true},
	{objectType: "Interface", members: func(d *domain.Declaration) []*domain.Declaration { return sorted(d.Methods) }, qualifiedOnly: true},
	{objectType: "Interface", members: func(d *domain.Declaration) []*domain.Declaration { return sorted(d.Properties) }, qualifiedOnly: true},
}

// Table maps uppercased names to canonical dotted display names.
// It is built once and only grows through Register.
type Table struct {
	symbols map[string]string
}

// New builds a table from the given declaration areas. Declarations excluded
// from the build are skipped. Enum, GVL and ParamList members are registered
// both qualified and bare; FunctionBlock and Interface methods and properties
// only qualified.
func New(areas ...map[string]*domain.Declaration) *Table {
	t := &Table{symbols: make(map[string]string)}

	for _, area := range areas {
		for _, decl := range sorted(area) {
			if decl.ExcludedFromBuild() {
				continue
			}
			parentName := decl.Name
			parentKey := strings.ToUpper(parentName)
			t.symbols[parentKey] = display(parentName)

			for _, source := range memberSources {
				if decl.ObjectType != source.objectType {
					continue
				}
				for _, member := range source.members(decl) {
					key := strings.ToUpper(member.Name)
					qualified := display(parentName + "." + member.Name)
					t.symbols[parentKey+"."+key] = qualified
					if !source.qualifiedOnly {
						t.symbols[key] = qualified
					}
				}
			}
		}
	}

	return t
}

// FromDocument builds a table from the four declaration areas of doc.
func FromDocument(doc *domain.Document) *Table {
	return New(doc.DataTypes, doc.Interfaces, doc.POUs, doc.GlobalObjects)
}

// Lookup returns the canonical display name of name, case-insensitively.
func (t *Table) Lookup(name string) (string, bool) {
	target, ok := t.symbols[strings.ToUpper(name)]
	return target, ok
}

// Has reports whether name resolves.
func (t *Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Register adds or overrides an entry. An empty target registers name itself.
func (t *Table) Register(name, target string) {
	if target == "" {
		target = name
	}
	t.symbols[strings.ToUpper(name)] = display(target)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Keys returns all lookup keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.symbols))
	for k := range t.symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns all entries sorted by key.
func (t *Table) Entries() []domain.Symbol {
	keys := t.Keys()
	entries := make([]domain.Symbol, len(keys))
	for i, k := range keys {
		entries[i] = domain.Symbol{Key: k, Target: t.symbols[k]}
	}
	return entries
}

// display renders internal ':' separators as '.'.
func display(name string) string {
	return strings.ReplaceAll(name, ":", ".")
}

func variables(vars []domain.Variable) []*domain.Declaration {
	result := make([]*domain.Declaration, 0, len(vars))
	for i := range vars {
		result = append(result, &domain.Declaration{Name: vars[i].Name})
	}
	return result
}

// sorted returns the non-nil declarations of a collection ordered by key.
func sorted(collection map[string]*domain.Declaration) []*domain.Declaration {
	keys := make([]string, 0, len(collection))
	for k, v := range collection {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	result := make([]*domain.Declaration, len(keys))
	for i, k := range keys {
		result[i] = collection[k]
	}
	return result
}

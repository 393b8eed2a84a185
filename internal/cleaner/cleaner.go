// Package cleaner removes non-public parts of a content document.
//
// Rules select declarations by attribute or access modifier for exclusion,
// rescue them with include rules, and strip attributes with filter rules
// unless a preserve rule protects them. Marked nodes are recorded in a flat
// arena and deleted deepest first after the project structure is pruned.
package cleaner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
)

// Keys of the raw document.
const (
	keyName            = "Name"
	keyAttributes      = "Attributes"
	keyAccessModifiers = "AccessModifiers"
	keyVariables       = "Variables"
	keyMembers         = "Members"
	keyValue           = "Value"
	keyStructure       = "ProjectStructure"
	keyContent         = "Content"
	keyObject          = "Object"
	keyFolder          = "Folder"
	keyDoc             = "Doc"
)

// subAreas hold nested declarations that are evaluated like top level ones.
var subAreas = []string{domain.SubMethods, domain.SubProperties, domain.SubActions, domain.SubTransitions}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithAreas replaces the declaration areas that are evaluated.
func WithAreas(areas ...string) Option {
	return func(c *Cleaner) {
		c.areas = areas
	}
}

// Cleaner evaluates a rule set against content documents.
type Cleaner struct {
	rules domain.CleanRules
	areas []string
}

// New creates a cleaner for the given rules.
func New(rules domain.CleanRules, opts ...Option) *Cleaner {
	c := &Cleaner{rules: rules, areas: domain.Areas}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the rules in effect.
func (c *Cleaner) Rules() domain.CleanRules {
	return c.rules
}

// Clean prunes doc in place and reports what was removed. The document
// must contain all declaration areas.
func (c *Cleaner) Clean(doc map[string]any) (domain.CleanReport, error) {
	r := &run{
		rules:   &c.rules,
		arena:   newArena(),
		include: make(map[nodeID]bool),
		exclude: make(map[nodeID]bool),
	}

	for _, area := range c.areas {
		declarations, ok := doc[area].(map[string]any)
		if !ok {
			return domain.CleanReport{}, fmt.Errorf("%w: missing area %s", domain.ErrContent, area)
		}
		r.scanArea(area, declarations)
	}

	r.apply(doc)
	logger.Info("clean: %d declarations excluded, %d rescued, %d attributes and %d members removed, %d structure nodes pruned",
		r.report.ExcludedParticles, r.report.Rescued, r.report.RemovedAttributes,
		r.report.RemovedMembers, r.report.PrunedNodes)
	return r.report, nil
}

// nodeID indexes the arena.
type nodeID int

type nodeKind int

const (
	kindDeclaration nodeKind = iota
	kindAttributes
	kindAttribute
)

// node is a deletable location: the entry key of container.
type node struct {
	path      string
	depth     int
	kind      nodeKind
	container map[string]any
	key       string

	// owner holds the attribute map of a single attribute node.
	owner map[string]any
}

// arena holds every location that rules may mark, indexed by dotted path.
type arena struct {
	nodes  []node
	byPath map[string]nodeID
}

func newArena() *arena {
	return &arena{byPath: make(map[string]nodeID)}
}

func (a *arena) add(n node) nodeID {
	if id, ok := a.byPath[n.path]; ok {
		return id
	}
	id := nodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	a.byPath[n.path] = id
	return id
}

func (a *arena) lookup(path string) (nodeID, bool) {
	id, ok := a.byPath[path]
	return id, ok
}

// run is the state of one Clean call.
type run struct {
	rules   *domain.CleanRules
	arena   *arena
	include map[nodeID]bool
	exclude map[nodeID]bool
	report  domain.CleanReport
}

func (r *run) scanArea(area string, declarations map[string]any) {
	for _, name := range sortedKeys(declarations) {
		decl, ok := declarations[name].(map[string]any)
		if !ok {
			logger.Debug("clean: skipping %s.%s: not an object", area, name)
			continue
		}
		path := area + "." + name
		id := r.arena.add(node{path: path, depth: 2, container: declarations, key: name})

		for _, sub := range subAreas {
			children, ok := decl[sub].(map[string]any)
			if !ok {
				continue
			}
			for _, childName := range sortedKeys(children) {
				child, ok := children[childName].(map[string]any)
				if !ok {
					continue
				}
				childPath := path + "." + sub + "." + childName
				childID := r.arena.add(node{path: childPath, depth: 4, container: children, key: childName})

				if sub == domain.SubProperties {
					r.scanAccessors(childPath, child)
				}
				r.check(childID, child)
			}
		}
		r.check(id, decl)
	}
}

func (r *run) scanAccessors(propertyPath string, property map[string]any) {
	accessors, ok := property[domain.SubAccessors].(map[string]any)
	if !ok {
		return
	}
	for _, name := range sortedKeys(accessors) {
		accessor, ok := accessors[name].(map[string]any)
		if !ok {
			continue
		}
		path := propertyPath + "." + domain.SubAccessors + "." + name
		id := r.arena.add(node{path: path, depth: 6, container: accessors, key: name})
		r.check(id, accessor)
	}
}

func (r *run) check(id nodeID, decl map[string]any) {
	if attrs, ok := decl[keyAttributes].(map[string]any); ok {
		r.checkAttributes(id, decl, attrs)
	}
	if modifiers, ok := decl[keyAccessModifiers].([]any); ok {
		r.checkKeywords(id, modifiers)
	}
	for _, key := range []string{keyVariables, keyMembers} {
		if members, ok := decl[key].([]any); ok {
			decl[key] = r.checkMembers(members)
		}
	}
}

// checkAttributes evaluates include, exclude and filter rules against the
// attributes of a declaration.
func (r *run) checkAttributes(id nodeID, decl map[string]any, attrs map[string]any) {
	for _, pass := range []struct {
		marks map[nodeID]bool
		rules []domain.AttributeRule
	}{
		{r.include, r.rules.Include.Attribute},
		{r.exclude, r.rules.Exclude.Attribute},
	} {
		for _, rule := range pass.rules {
			if rule.IsZero() {
				continue
			}
			if rule.Name == domain.Wildcard {
				r.exclude[id] = true
				break
			}
			if attr, ok := attrs[rule.Name]; ok && rule.MatchesValue(attributeValue(attr)) {
				pass.marks[id] = true
			}
		}
	}

	base := r.arena.nodes[id]
	for _, rule := range r.rules.Filter.Attribute {
		if rule.IsZero() {
			break
		}
		if rule.Name == domain.Wildcard {
			if len(r.rules.Preserve.Attribute) > 0 {
				for _, name := range sortedKeys(attrs) {
					if !r.rules.Preserved(name) {
						r.markAttribute(base, decl, attrs, name)
					}
				}
			} else {
				aid := r.arena.add(node{
					path:      base.path + "." + keyAttributes,
					depth:     base.depth + 1,
					kind:      kindAttributes,
					container: decl,
					key:       keyAttributes,
				})
				r.exclude[aid] = true
				break
			}
		}
		if attr, ok := attrs[rule.Name]; ok && rule.MatchesValue(attributeValue(attr)) {
			r.markAttribute(base, decl, attrs, rule.Name)
		}
	}
}

func (r *run) markAttribute(base node, decl, attrs map[string]any, name string) {
	id := r.arena.add(node{
		path:      base.path + "." + keyAttributes + "." + name,
		depth:     base.depth + 2,
		kind:      kindAttribute,
		container: attrs,
		key:       name,
		owner:     decl,
	})
	r.exclude[id] = true
}

// checkKeywords matches access modifiers case-insensitively.
func (r *run) checkKeywords(id nodeID, modifiers []any) {
	for _, pass := range []struct {
		marks    map[nodeID]bool
		keywords []string
	}{
		{r.include, r.rules.Include.Keyword},
		{r.exclude, r.rules.Exclude.Keyword},
	} {
		for _, m := range modifiers {
			modifier, ok := m.(string)
			if !ok {
				continue
			}
			for _, keyword := range pass.keywords {
				if strings.EqualFold(modifier, keyword) {
					pass.marks[id] = true
				}
			}
		}
	}
}

// checkMembers drops members carrying an excluded attribute and filters
// the attributes of the remaining ones.
func (r *run) checkMembers(members []any) []any {
	kept := make([]any, 0, len(members))
	for _, m := range members {
		member, ok := m.(map[string]any)
		if !ok {
			kept = append(kept, m)
			continue
		}
		attrs, _ := member[keyAttributes].(map[string]any)
		if r.excludedMember(attrs) {
			r.report.RemovedMembers++
			continue
		}
		if attrs != nil {
			r.filterMember(member, attrs)
		}
		kept = append(kept, member)
	}
	return kept
}

func (r *run) excludedMember(attrs map[string]any) bool {
	for name, attr := range attrs {
		for _, rule := range r.rules.Exclude.Attribute {
			if !rule.IsZero() && rule.Name == name && rule.MatchesValue(attributeValue(attr)) {
				return true
			}
		}
	}
	return false
}

func (r *run) filterMember(member map[string]any, attrs map[string]any) {
	for _, rule := range r.rules.Filter.Attribute {
		if rule.IsZero() {
			break
		}
		if rule.Name == domain.Wildcard {
			for _, name := range sortedKeys(attrs) {
				if !r.rules.Preserved(name) {
					delete(attrs, name)
					r.report.RemovedAttributes++
				}
			}
			if len(attrs) == 0 {
				delete(member, keyAttributes)
			}
			break
		}
		if attr, ok := attrs[rule.Name]; ok && rule.MatchesValue(attributeValue(attr)) {
			delete(attrs, rule.Name)
			r.report.RemovedAttributes++
		}
	}
}

// apply rescues included declarations, prunes the project structure and
// deletes the remaining marks deepest first.
func (r *run) apply(doc map[string]any) {
	for id := range r.include {
		if r.exclude[id] {
			delete(r.exclude, id)
			r.report.Rescued++
		}
	}

	if structure, ok := doc[keyStructure].(map[string]any); ok {
		if content, ok := structure[keyContent].([]any); ok && len(content) > 0 {
			structure[keyContent] = r.pruneStructure(content)
		}
	}

	ids := make([]nodeID, 0, len(r.exclude))
	for id := range r.exclude {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.arena.nodes[ids[i]], r.arena.nodes[ids[j]]
		if a.depth != b.depth {
			return a.depth > b.depth
		}
		return a.path < b.path
	})

	for _, id := range ids {
		n := r.arena.nodes[id]
		value, ok := n.container[n.key]
		if !ok {
			continue
		}
		delete(n.container, n.key)
		switch n.kind {
		case kindDeclaration:
			r.report.ExcludedParticles++
		case kindAttributes:
			if attrs, ok := value.(map[string]any); ok {
				r.report.RemovedAttributes += len(attrs)
			}
		case kindAttribute:
			r.report.RemovedAttributes++
			if len(n.container) == 0 && n.owner != nil {
				delete(n.owner, keyAttributes)
			}
		}
	}
}

func (r *run) excludedPath(path string) bool {
	id, ok := r.arena.lookup(path)
	return ok && r.exclude[id]
}

// pruneStructure removes excluded object references and the folders and
// content lists left empty by them.
func (r *run) pruneStructure(nodes []any) []any {
	kept := make([]any, 0, len(nodes))
	for _, n := range nodes {
		entry, ok := n.(map[string]any)
		if !ok {
			if n != nil {
				kept = append(kept, n)
			}
			continue
		}

		if content, ok := entry[keyContent]; ok {
			children, _ := content.([]any)
			children = r.pruneStructure(children)
			if len(children) == 0 {
				delete(entry, keyContent)
			} else {
				entry[keyContent] = children
			}
		}
		if object, ok := entry[keyObject].(string); ok && r.excludedPath(object) {
			delete(entry, keyContent)
			delete(entry, keyObject)
		}
		if _, hasContent := entry[keyContent]; !hasContent {
			delete(entry, keyFolder)
			delete(entry, keyDoc)
		}

		if len(entry) == 0 {
			r.report.PrunedNodes++
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// attributeValue returns the recorded value of an attribute, nil when the
// attribute has none. Non-string values compare by their JSON text.
func attributeValue(attr any) *string {
	m, ok := attr.(map[string]any)
	if !ok {
		return nil
	}
	switch v := m[keyValue].(type) {
	case nil:
		return nil
	case string:
		return &v
	case json.Number:
		s := v.String()
		return &s
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		s := string(data)
		return &s
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

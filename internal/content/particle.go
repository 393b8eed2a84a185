package content

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// Particle type tags that are not declaration object types.
const (
	TypeFolder = "Folder"
	TypeIndex  = "Index"
)

// RootKey is the key of the index particle.
const RootKey = "."

const (
	objectDirPrefix = "pou-"
	folderPrefix    = "fld-"
	dclExtension    = ".dcl"
	impExtension    = ".imp"
)

// Particle is an addressable node of the documentation tree.
type Particle interface {
	// Key is the unique dotted key; folder segments carry a "fld-" marker.
	Key() string
	// Parent is the key of the enclosing particle, empty for the index.
	Parent() string
	Depth() int

	// Path is the mapped directory of the particle's file.
	Path() string
	Name() string
	NormalizedName() string
	Type() string
	Filename() string
	Target() string
	Doc() string

	// TOC lists the document references of the immediate children
	// sorted by name.
	TOC() ([]string, error)
	Children() []*domain.StructureNode
	HasSubParticles() bool
	SubParticlePath() string
}

// base carries the state shared by all particle variants.
type base struct {
	model  *Model
	key    string
	parent string
	depth  int
	node   *domain.StructureNode
	path   string
	slug   string
}

func (p *base) Key() string    { return p.key }
func (p *base) Parent() string { return p.parent }
func (p *base) Depth() int     { return p.depth }
func (p *base) Path() string   { return p.path }

// Children returns the declared sub-nodes. Accessor entries are skipped,
// they are rendered as part of their property.
func (p *base) Children() []*domain.StructureNode {
	var children []*domain.StructureNode
	for _, child := range p.node.Content {
		if child == nil {
			continue
		}
		if child.IsObject() {
			segments := strings.Split(child.Object, ".")
			if len(segments) >= 2 && segments[len(segments)-2] == domain.SubAccessors {
				continue
			}
		}
		children = append(children, child)
	}
	return children
}

func (p *base) HasSubParticles() bool {
	return len(p.Children()) > 0
}

func (p *base) suffix() string {
	return p.model.build.SourceSuffix
}

// withLinks substitutes files and symbols of a free text and appends the
// resulting link directives.
func (p *base) withLinks(text string) string {
	text = substituteFiles(text, p.model.externalFiles)
	l := links{}
	text = substituteSymbols(text, "", p.model.symbols.Lookup, l)
	return appendLinks(text, l)
}

// tocEntry pairs a sort key with a document reference.
type tocEntry struct {
	key string
	ref string
}

func sortedRefs(entries []tocEntry) []string {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	refs := make([]string, len(entries))
	for i, e := range entries {
		refs[i] = e.ref
	}
	return refs
}

func docRef(parts ...string) string {
	return "/" + strings.Join(parts, "/")
}

// lastSegment returns the part of a dotted name after the last dot.
func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// objectName joins the name segments of a dotted object reference,
// "POUs.FB_Motor.Methods.Start" yields "FB_Motor.Start".
func objectName(ref string) string {
	segments := strings.Split(ref, ".")
	names := make([]string, 0, len(segments)/2)
	for i := 1; i < len(segments); i += 2 {
		names = append(names, segments[i])
	}
	return strings.Join(names, ".")
}

// ObjectParticle wraps a declaration referenced from the project structure.
type ObjectParticle struct {
	base
	decl      *domain.Declaration
	inherited []InheritedRef

	// rawDoc extracts the unprocessed documentation text.
	rawDoc func(*domain.Declaration) string
}

func newObjectParticle(m *Model, key, parent string, depth int, node *domain.StructureNode,
	parentPath string, decl *domain.Declaration, inherited []InheritedRef) (*ObjectParticle, error) {
	p := &ObjectParticle{
		base:      base{model: m, key: key, parent: parent, depth: depth, node: node},
		decl:      decl,
		inherited: inherited,
		rawDoc:    declarationDoc,
	}
	id, slug, err := m.pathMap.Hash(parentPath, m.slugName(p.Name()))
	if err != nil {
		return nil, fmt.Errorf("particle %s: %w", key, err)
	}
	p.path, p.slug = id, slug
	if p.HasSubParticles() {
		if _, err := m.pathMap.Register(p.childPath()); err != nil {
			return nil, fmt.Errorf("particle %s: %w", key, err)
		}
	}
	return p, nil
}

// newActionTransitionParticle creates an object particle whose
// documentation is the leading comment of its implementation.
func newActionTransitionParticle(m *Model, key, parent string, depth int, node *domain.StructureNode,
	parentPath string, decl *domain.Declaration) (*ObjectParticle, error) {
	p, err := newObjectParticle(m, key, parent, depth, node, parentPath, decl, nil)
	if err != nil {
		return nil, err
	}
	p.rawDoc = implementationDoc
	return p, nil
}

func declarationDoc(decl *domain.Declaration) string {
	text := decl.Comment
	if decl.Doc != nil {
		text = *decl.Doc
	}
	return strings.Join(splitLines(text), "\n")
}

func implementationDoc(decl *domain.Declaration) string {
	if decl.STImplementation == nil {
		return ""
	}
	return strings.Join(LeadingComment(*decl.STImplementation), "\n")
}

// Declaration returns the wrapped declaration.
func (p *ObjectParticle) Declaration() *domain.Declaration {
	return p.decl
}

// Inherited returns the inherited member references.
func (p *ObjectParticle) Inherited() []InheritedRef {
	return p.inherited
}

// HasInheritedParticles reports whether the object inherits members.
func (p *ObjectParticle) HasInheritedParticles() bool {
	return len(p.inherited) > 0
}

func (p *ObjectParticle) Name() string {
	return objectName(p.node.Object)
}

func (p *ObjectParticle) NormalizedName() string {
	return Normalize(lastSegment(p.slug))
}

func (p *ObjectParticle) Type() string {
	return p.decl.ObjectType
}

func (p *ObjectParticle) Filename() string {
	return path.Join(p.path, p.NormalizedName()+p.suffix())
}

func (p *ObjectParticle) Target() string {
	return ".. _`" + strings.ReplaceAll(p.Name(), ":", ".") + "`:"
}

// childPath is the unmapped directory holding the object's sub-particles.
func (p *ObjectParticle) childPath() string {
	return path.Join(p.model.pathMap.Path(p.path), objectDirPrefix+Normalize(lastSegment(p.node.Object)))
}

func (p *ObjectParticle) SubParticlePath() string {
	id, _ := p.model.pathMap.GetHash(p.childPath(), "")
	return id
}

func (p *ObjectParticle) TOC() ([]string, error) {
	pm := p.model.pathMap
	dir := p.childPath()

	var entries []tocEntry
	for _, child := range p.Children() {
		switch {
		case child.IsObject():
			name := lastSegment(child.Object)
			id, slug := pm.GetHash(dir, p.model.slugName(name))
			entries = append(entries, tocEntry{key: name, ref: docRef(id, Normalize(slug))})
		case child.IsFolder():
			folder := Normalize(child.Folder)
			id, _ := pm.GetHash(path.Join(dir, folder), "")
			entries = append(entries, tocEntry{key: folder, ref: docRef(id, folderPrefix+folder)})
		}
	}
	return sortedRefs(entries), nil
}

// Prefix returns the text of the :prefix: line of the documentation.
func (p *ObjectParticle) Prefix() string {
	return docPrefix(p.rawDoc(p.decl))
}

// DocLines returns the cleaned documentation without link directives.
func (p *ObjectParticle) DocLines() []string {
	return cleanDoc(p.rawDoc(p.decl))
}

func (p *ObjectParticle) Doc() string {
	return p.withLinks(strings.Join(p.DocLines(), "\n"))
}

// Signature renders the declaration line. Extended, implemented and
// returned types that resolve are replaced by |d<type>| substitutions whose
// directives follow after a blank line.
func (p *ObjectParticle) Signature() string {
	d := p.decl
	var text string
	if d.ReturnType != "" && d.ObjectType != "" {
		modifiers := ""
		if len(d.AccessModifiers) > 0 {
			upper := make([]string, len(d.AccessModifiers))
			for i, m := range d.AccessModifiers {
				upper[i] = strings.ToUpper(m)
			}
			modifiers = " " + strings.Join(upper, " ")
		}
		text = fmt.Sprintf("%s%s %s : %s", strings.ToUpper(d.ObjectType), modifiers, d.Name, d.ReturnType)
	} else {
		text = d.Verbatim
	}
	if text == "" {
		return ""
	}

	var candidates []string
	if d.Extends != nil && d.Extends.Class != "" {
		candidates = append(candidates, d.Extends.Class)
	}
	candidates = append(candidates, d.Implements...)
	if d.ReturnType != "" {
		candidates = append(candidates, d.ReturnType)
	}

	l := links{}
	for _, symbol := range candidates {
		target, ok := p.model.symbols.Lookup(symbol)
		if !ok {
			continue
		}
		text = substituteWord(text, symbol, "d"+symbol)
		l.add("d"+symbol, symbol, target)
	}
	return appendLinks(escapeWords(text), l)
}

// DclFilename is the file name of the declaration source block.
func (p *ObjectParticle) DclFilename() string {
	return p.sourceFilename(dclExtension)
}

// ImpFilename is the file name of the implementation source block.
func (p *ObjectParticle) ImpFilename() string {
	return p.sourceFilename(impExtension)
}

func (p *ObjectParticle) sourceFilename(ext string) string {
	area, rest, _ := strings.Cut(p.node.Object, ".")
	segments := strings.Split(rest, ".")
	names := make([]string, 0, len(segments))
	for i := 0; i < len(segments); i += 2 {
		names = append(names, Normalize(segments[i]))
	}
	return path.Join(area, strings.Join(names, ".")) + ext
}

// Dcl returns the declaration source, or false when there is none.
func (p *ObjectParticle) Dcl() (string, bool) {
	if p.decl.STDeclaration == nil {
		return "", false
	}
	return sourceBlock(*p.decl.STDeclaration), true
}

// Imp returns the implementation source, or false when there is none.
func (p *ObjectParticle) Imp() (string, bool) {
	if p.decl.STImplementation == nil {
		return "", false
	}
	return sourceBlock(*p.decl.STImplementation), true
}

// FolderParticle wraps a folder of the project structure.
type FolderParticle struct {
	base
}

func newFolderParticle(m *Model, key, parent string, depth int, node *domain.StructureNode, dir string) (*FolderParticle, error) {
	p := &FolderParticle{base: base{model: m, key: key, parent: parent, depth: depth, node: node}}
	id, slug, err := m.pathMap.Hash(dir, m.slugName(node.Folder))
	if err != nil {
		return nil, fmt.Errorf("particle %s: %w", key, err)
	}
	p.path, p.slug = id, slug
	return p, nil
}

func (p *FolderParticle) Name() string {
	return p.node.Folder
}

func (p *FolderParticle) NormalizedName() string {
	return Normalize(p.node.Folder)
}

func (p *FolderParticle) Type() string {
	return TypeFolder
}

func (p *FolderParticle) Filename() string {
	return path.Join(p.path, folderPrefix+p.NormalizedName()+p.suffix())
}

func (p *FolderParticle) Target() string {
	return ".. _`" + strings.ReplaceAll(strings.TrimPrefix(p.key, "."), ":", ".") + "`:"
}

func (p *FolderParticle) SubParticlePath() string {
	return p.path
}

// TOC fails with domain.ErrDuplicateSiblingName when two child folders
// share a name. Visualization objects are not listed.
func (p *FolderParticle) TOC() ([]string, error) {
	pm := p.model.pathMap
	dir := pm.Path(p.path)

	seen := make(map[string]bool)
	var entries []tocEntry
	for _, child := range p.Children() {
		switch {
		case child.IsObject():
			area, _, _ := strings.Cut(child.Object, ".")
			if area == "Visualizations" {
				continue
			}
			name := lastSegment(child.Object)
			if dir == "" {
				entries = append(entries, tocEntry{key: name, ref: docRef(Normalize(p.model.slugName(name)))})
				continue
			}
			id, slug := pm.GetHash(dir, p.model.slugName(name))
			entries = append(entries, tocEntry{key: name, ref: docRef(id, Normalize(slug))})
		case child.IsFolder():
			if seen[child.Folder] {
				return nil, fmt.Errorf("%w: folder %q in %s", domain.ErrDuplicateSiblingName, child.Folder, p.key)
			}
			seen[child.Folder] = true
			folder := Normalize(child.Folder)
			id, _ := pm.GetHash(path.Join(dir, folder), "")
			entries = append(entries, tocEntry{key: child.Folder, ref: docRef(id, folderPrefix+folder)})
		}
	}
	return sortedRefs(entries), nil
}

func (p *FolderParticle) Doc() string {
	if p.node.Doc == nil {
		return ""
	}
	lines := splitLines(*p.node.Doc)
	for i, line := range lines {
		lines[i] = expandTabs(line, tabSize)
	}
	return p.withLinks(strings.Join(lines, "\n"))
}

// IndexParticle is the synthetic root of the tree.
type IndexParticle struct {
	FolderParticle
}

func newIndexParticle(m *Model, content []*domain.StructureNode) *IndexParticle {
	node := &domain.StructureNode{Content: content}
	return &IndexParticle{FolderParticle{base: base{model: m, key: RootKey, node: node}}}
}

func (p *IndexParticle) Name() string {
	return p.model.build.MasterDoc
}

func (p *IndexParticle) NormalizedName() string {
	return Normalize(p.Name())
}

func (p *IndexParticle) Type() string {
	return TypeIndex
}

func (p *IndexParticle) Filename() string {
	return path.Join(p.path, p.model.build.MasterDoc+p.suffix())
}

// Target is empty, the index is addressed by its document name.
func (p *IndexParticle) Target() string {
	return ""
}

// Doc returns the project description.
func (p *IndexParticle) Doc() string {
	description := p.model.info.String("ProjectInformation.Description")
	lines := splitLines(description)
	for i, line := range lines {
		lines[i] = expandTabs(line, tabSize)
	}
	text := strings.Join(lines, "\n")
	if text == "" {
		return ""
	}
	return p.withLinks(text)
}

var (
	_ Particle = (*ObjectParticle)(nil)
	_ Particle = (*FolderParticle)(nil)
	_ Particle = (*IndexParticle)(nil)
)

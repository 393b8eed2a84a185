// Package content builds the documentation model of an exported library:
// the particle tree laid out by the project structure, the symbol table
// used for cross references and the path mapping of the particle files.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
	"github.com/custodia-labs/libdoc-cli/internal/pathmap"
	"github.com/custodia-labs/libdoc-cli/internal/symbols"
)

// Export timestamps are UTC without zone.
const exportTimeLayout = "2006-01-02T15:04:05"

// Object types that are not part of the documentation tree.
var unsupportedTypes = map[string]bool{
	"Accessor":          true,
	"Visualization":     true,
	"TextList":          true,
	"ImagePool":         true,
	"ModuleDeclaration": true,
	"GlobalTextList":    true,
	"GlobalImagePool":   true,
}

// Inheritance scopes.
const (
	ScopeInternal = "internal"
	ScopeExternal = "external"
)

// InheritedRef is a method or property a type exposes from a base type.
type InheritedRef struct {
	Scope      string
	ParentType string
	ParentName string
	ChildArea  string
	Name       string
}

// ExternalRefs indexes members inherited from types outside the document
// by parent type, parent name, child area and member name.
type ExternalRefs map[string]map[string]map[string]map[string]*domain.Declaration

func (r ExternalRefs) add(ref InheritedRef, decl *domain.Declaration) {
	byName, ok := r[ref.ParentType]
	if !ok {
		byName = make(map[string]map[string]map[string]*domain.Declaration)
		r[ref.ParentType] = byName
	}
	byArea, ok := byName[ref.ParentName]
	if !ok {
		byArea = make(map[string]map[string]*domain.Declaration)
		byName[ref.ParentName] = byArea
	}
	members, ok := byArea[ref.ChildArea]
	if !ok {
		members = make(map[string]*domain.Declaration)
		byArea[ref.ChildArea] = members
	}
	members[ref.Name] = decl
}

// Options configures loading.
type Options struct {
	// Condensed replaces particle paths by short identifiers.
	Condensed bool

	// SlugLength bounds slug stems in condensed mode, zero disables slugs.
	SlugLength int
}

// Model is the documentation model of one document.
// It is built once and not safe for concurrent mutation.
type Model struct {
	doc  *domain.Document
	name string

	pathMap       *pathmap.PathMap
	symbols       *symbols.Table
	info          *Info
	libraries     []domain.Library
	externalFiles map[string]string
	externalRefs  ExternalRefs
	particles     *Particles
	build         domain.BuildConfig

	created  time.Time
	modified time.Time
}

// Load reads and builds the model of the content file at filePath.
func Load(filePath string, opts Options) (*Model, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrContent, filePath, err)
	}
	return Parse(data, filepath.Base(filePath), opts)
}

// Parse builds the model of a content document. The name is recorded as
// FileHeader.contentFile.
func Parse(data []byte, name string, opts Options) (*Model, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrContent, name, err)
	}
	return New(&doc, name, opts)
}

// New builds the model of a decoded document.
func New(doc *domain.Document, name string, opts Options) (*Model, error) {
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	doc.FileHeader["contentFile"] = name

	m := &Model{
		doc:           doc,
		name:          name,
		pathMap:       pathmap.New(opts.Condensed, opts.SlugLength),
		symbols:       symbols.FromDocument(doc),
		info:          newInfo(doc.FileHeader, doc.ProjectInformation),
		libraries:     parseLibraries(doc.Libraries),
		externalFiles: embeddedFiles(doc.ExternalFiles),
		externalRefs:  make(ExternalRefs),
		particles:     newParticles(),
		build:         domain.DefaultBuildConfig(),
	}

	var err error
	if m.created, err = exportTime(doc.FileHeader["creationDateTime"]); err != nil {
		return nil, fmt.Errorf("%w: creationDateTime: %v", domain.ErrContent, err)
	}
	if entry, ok := doc.ProjectInformation["LastModificationDateTime"]; ok {
		if m.modified, err = exportTime(entry.Content); err != nil {
			return nil, fmt.Errorf("%w: LastModificationDateTime: %v", domain.ErrContent, err)
		}
	}

	m.particles.add(newIndexParticle(m, doc.ProjectStructure.Content))
	if err := m.traverse(doc.ProjectStructure.Content, RootKey, ""); err != nil {
		return nil, err
	}

	logger.Debug("content %s: %d particles, %d symbols", name, m.particles.Len(), m.symbols.Len())
	return m, nil
}

func validate(doc *domain.Document) error {
	missing := []string{}
	if doc.FileHeader == nil {
		missing = append(missing, "FileHeader")
	}
	if doc.ProjectInformation == nil {
		missing = append(missing, "ProjectInformation")
	}
	if doc.Libraries == nil {
		missing = append(missing, "Libraries")
	}
	for _, area := range domain.Areas {
		if doc.Area(area) == nil {
			missing = append(missing, area)
		}
	}
	if doc.ProjectStructure == nil {
		missing = append(missing, "ProjectStructure")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrContent, strings.Join(missing, ", "))
	}
	return nil
}

func exportTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(exportTimeLayout, s, time.UTC)
}

// resolve follows a dotted object reference into the declaration areas.
// A missing declaration yields nil.
func (m *Model) resolve(ref string) (*domain.Declaration, error) {
	segments := strings.Split(ref, ".")
	if len(segments) < 2 || len(segments)%2 != 0 {
		return nil, fmt.Errorf("%w: malformed object reference %q", domain.ErrContent, ref)
	}
	decl := m.doc.Area(segments[0])[segments[1]]
	for i := 2; decl != nil && i < len(segments); i += 2 {
		decl = decl.Sub(segments[i])[segments[i+1]]
	}
	return decl, nil
}

func (m *Model) traverse(nodes []*domain.StructureNode, key, dir string) error {
	depth := m.particles.byKey[key].Depth() + 1

	for _, node := range nodes {
		if node == nil {
			continue
		}

		var (
			particle Particle
			newKey   string
			newDir   string
			err      error
		)

		switch {
		case node.IsObject():
			decl, rerr := m.resolve(node.Object)
			if rerr != nil {
				return rerr
			}
			if decl == nil {
				logger.Debug("skipping %s: declaration not found", node.Object)
				continue
			}
			if decl.ObjectType == "" {
				return fmt.Errorf("%w: %s has no object type", domain.ErrContent, node.Object)
			}
			if unsupportedTypes[decl.ObjectType] {
				logger.Debug("skipping %s: unsupported type %s", node.Object, decl.ObjectType)
				continue
			}

			name := lastSegment(node.Object)
			newKey = joinKey(key, strings.ReplaceAll(name, ":", "."))
			newDir = path.Join(dir, objectDirPrefix+Normalize(name))

			switch decl.ObjectType {
			case "Action", "Transition":
				particle, err = newActionTransitionParticle(m, newKey, key, depth, node, dir, decl)
			default:
				particle, err = newObjectParticle(m, newKey, key, depth, node, dir, decl, m.inheritedRefs(decl))
			}

		case node.IsFolder():
			newKey = joinKey(key, folderPrefix+node.Folder)
			newDir = path.Join(dir, Normalize(node.Folder))
			particle, err = newFolderParticle(m, newKey, key, depth, node, newDir)
			if err == nil {
				symbol := strings.TrimPrefix(newKey, ".")
				m.symbols.Register(symbol, symbol)
			}

		default:
			return fmt.Errorf("%w: unexpected item in project structure under %s", domain.ErrContent, key)
		}
		if err != nil {
			return err
		}

		if _, exists := m.particles.byKey[newKey]; exists {
			if node.IsFolder() {
				return fmt.Errorf("%w: folder %q in %s", domain.ErrDuplicateSiblingName, node.Folder, key)
			}
			return fmt.Errorf("%w: duplicate particle key %s", domain.ErrContent, newKey)
		}
		m.particles.add(particle)

		if len(node.Content) > 0 {
			if err := m.traverse(node.Content, newKey, newDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// joinKey appends a segment to a particle key.
func joinKey(parent, segment string) string {
	if parent == RootKey {
		return RootKey + segment
	}
	return parent + "." + segment
}

// inheritedRefs classifies the inherited methods and properties of decl.
// A base type present in the document makes the reference internal; other
// references are recorded as external.
func (m *Model) inheritedRefs(decl *domain.Declaration) []InheritedRef {
	var refs []InheritedRef
	for _, area := range []string{domain.SubMethods, domain.SubProperties} {
		members := decl.Sub(area)
		for _, name := range sortedKeys(members) {
			member := members[name]
			if member == nil || member.InheritedFrom == "" {
				continue
			}

			parentArea := domain.AreaInterfaces
			if decl.ObjectType == "FunctionBlock" {
				parentArea = domain.AreaPOUs
			}
			ref := InheritedRef{
				Scope:      ScopeInternal,
				ParentType: decl.ObjectType,
				ParentName: member.InheritedFrom,
				ChildArea:  area,
				Name:       member.Name,
			}
			if _, ok := m.doc.Area(parentArea)[member.InheritedFrom]; !ok {
				ref.Scope = ScopeExternal
				m.externalRefs.add(ref, member)
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// slugName applies the configured slug length to a name in condensed mode.
func (m *Model) slugName(name string) string {
	if !m.pathMap.Hashing() {
		return name
	}
	return m.pathMap.Stem(lastSegment(name))
}

// SetConfig applies build settings. Export timestamps are re-rendered in
// the configured time zone and layout.
func (m *Model) SetConfig(cfg domain.BuildConfig) error {
	defaults := domain.DefaultBuildConfig()
	if cfg.SourceSuffix == "" {
		cfg.SourceSuffix = defaults.SourceSuffix
	}
	if cfg.MasterDoc == "" {
		cfg.MasterDoc = defaults.MasterDoc
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaults.Timezone
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = defaults.DateLayout
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", domain.ErrConfiguration, cfg.Timezone, err)
	}
	m.build = cfg

	if !m.created.IsZero() {
		m.doc.FileHeader["creationDateTime"] = m.created.In(loc).Format(cfg.DateLayout)
	}
	if entry, ok := m.doc.ProjectInformation["LastModificationDateTime"]; ok && !m.modified.IsZero() {
		entry.Content = m.modified.In(loc).Format(cfg.DateLayout)
		m.doc.ProjectInformation["LastModificationDateTime"] = entry
	}
	return nil
}

// Config returns the build settings in effect.
func (m *Model) Config() domain.BuildConfig {
	return m.build
}

// Name returns the content file name.
func (m *Model) Name() string {
	return m.name
}

// Document returns the underlying document.
func (m *Model) Document() *domain.Document {
	return m.doc
}

// Condensed reports whether particle paths are mapped.
func (m *Model) Condensed() bool {
	return m.pathMap.Hashing()
}

func (m *Model) Symbols() *symbols.Table {
	return m.symbols
}

func (m *Model) Info() *Info {
	return m.info
}

// Libraries returns the referenced libraries sorted by name.
func (m *Model) Libraries() []domain.Library {
	return m.libraries
}

// ExternalFiles maps embedded file keys to file names.
func (m *Model) ExternalFiles() map[string]string {
	return m.externalFiles
}

// ExternalRefs returns members inherited from types outside the document.
func (m *Model) ExternalRefs() ExternalRefs {
	return m.externalRefs
}

func (m *Model) Particles() *Particles {
	return m.particles
}

// Mapping returns the registered path mapping, nil unless condensed.
func (m *Model) Mapping() []domain.MappingEntry {
	return m.pathMap.Mapping()
}

// MappingTable returns the identifier to path table for build tooling.
func (m *Model) MappingTable() map[string]string {
	return m.pathMap.Table()
}

// Particles is the ordered, key-indexed particle collection.
type Particles struct {
	list     []Particle
	byKey    map[string]Particle
	children map[string][]string
}

func newParticles() *Particles {
	return &Particles{byKey: make(map[string]Particle), children: make(map[string][]string)}
}

func (ps *Particles) add(p Particle) {
	ps.list = append(ps.list, p)
	ps.byKey[p.Key()] = p
	if p.Key() != RootKey {
		ps.children[p.Parent()] = append(ps.children[p.Parent()], p.Key())
	}
}

// Get returns the particle with the given key.
func (ps *Particles) Get(key string) (Particle, bool) {
	p, ok := ps.byKey[key]
	return p, ok
}

// All returns the particles in document order, the index first.
func (ps *Particles) All() []Particle {
	out := make([]Particle, len(ps.list))
	copy(out, ps.list)
	return out
}

// Keys returns the keys in document order.
func (ps *Particles) Keys() []string {
	keys := make([]string, len(ps.list))
	for i, p := range ps.list {
		keys[i] = p.Key()
	}
	return keys
}

// ChildKeys returns the keys of the particles created under key.
func (ps *Particles) ChildKeys(key string) []string {
	return ps.children[key]
}

func (ps *Particles) Len() int {
	return len(ps.list)
}

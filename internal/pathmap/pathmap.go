// Package pathmap maps hierarchical particle paths to short, stable
// identifiers and unique human-readable slugs.
//
// In condensed mode every distinct path is replaced by the URL-safe base64
// SHA-1 digest of the path without padding. Each identifier owns a bucket of
// slugs; a slug is unique only within its bucket.
package pathmap

import (
	"crypto/sha1" //nolint:gosec // identifiers, not security
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// HashFunc computes the short identifier of a path.
type HashFunc func(path string) string

// Entry is the registered state of one identifier.
type Entry struct {
	Path string

	// Slugs maps an original name to the slug last issued for it.
	Slugs map[string]string

	issued map[string]bool
}

// Option configures a PathMap.
type Option func(*PathMap)

// WithHashFunc replaces the identifier function.
func WithHashFunc(fn HashFunc) Option {
	return func(m *PathMap) {
		m.hash = fn
	}
}

// PathMap is an append-only registry of path identifiers.
// It is not safe for concurrent use.
type PathMap struct {
	hashing bool
	slugLen int
	hash    HashFunc
	entries map[string]*Entry
}

// New creates a PathMap. With hashing disabled every call is an identity
// passthrough. A slugLen of zero disables slug generation.
func New(hashing bool, slugLen int, opts ...Option) *PathMap {
	m := &PathMap{
		hashing: hashing,
		slugLen: slugLen,
		hash:    Digest,
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Digest returns the URL-safe base64 SHA-1 digest of path without padding.
func Digest(path string) string {
	sum := sha1.Sum([]byte(path)) //nolint:gosec
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:]), "=")
}

// Hashing reports whether condensed mode is enabled.
func (m *PathMap) Hashing() bool {
	return m.hashing
}

// SlugLength returns the configured maximum slug stem length.
func (m *PathMap) SlugLength() int {
	return m.slugLen
}

// Stem truncates name to the configured slug length.
// Callers pass stems through it before requesting slugs.
func (m *PathMap) Stem(name string) string {
	if m.slugLen <= 0 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= m.slugLen {
		return name
	}
	return string(runes[:m.slugLen])
}

// Hash registers path and returns its identifier together with the display
// name for origName. A second path producing an already registered
// identifier fails with domain.ErrIdentifierCollision.
func (m *PathMap) Hash(path, origName string) (string, string, error) {
	name := lastSegment(origName)
	if path == "" || !m.hashing {
		return path, name, nil
	}

	id := m.hash(path)
	entry, ok := m.entries[id]
	if !ok {
		entry = &Entry{Path: path, Slugs: make(map[string]string), issued: make(map[string]bool)}
		m.entries[id] = entry
	} else if entry.Path != path {
		return "", "", fmt.Errorf("%w: %q and %q both map to %s",
			domain.ErrIdentifierCollision, entry.Path, path, id)
	}

	if m.slugLen == 0 {
		return id, name, nil
	}

	slug := uniqueSlug(entry, name)
	entry.Slugs[name] = slug
	entry.issued[slug] = true
	return id, slug, nil
}

// Register adds path without issuing a slug and returns its identifier.
func (m *PathMap) Register(path string) (string, error) {
	if path == "" || !m.hashing {
		return path, nil
	}
	id := m.hash(path)
	entry, ok := m.entries[id]
	if !ok {
		m.entries[id] = &Entry{Path: path, Slugs: make(map[string]string), issued: make(map[string]bool)}
		return id, nil
	}
	if entry.Path != path {
		return "", fmt.Errorf("%w: %q and %q both map to %s",
			domain.ErrIdentifierCollision, entry.Path, path, id)
	}
	return id, nil
}

// GetHash re-derives the identifier and slug of an already registered path
// without registering anything.
func (m *PathMap) GetHash(path, origName string) (string, string) {
	name := lastSegment(origName)
	if path == "" || !m.hashing {
		return path, name
	}

	id := m.hash(path)
	if entry, ok := m.entries[id]; ok {
		if slug, ok := entry.Slugs[name]; ok {
			return id, slug
		}
	}
	return id, name
}

// Path returns the original path of an identifier. Unknown identifiers
// resolve to the empty string.
func (m *PathMap) Path(id string) string {
	if id == "" || !m.hashing {
		return id
	}
	entry, ok := m.entries[id]
	if !ok {
		return ""
	}
	return entry.Path
}

// Mapping returns a copy of all registered entries sorted by identifier,
// or nil when hashing is disabled.
func (m *PathMap) Mapping() []domain.MappingEntry {
	if !m.hashing {
		return nil
	}

	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]domain.MappingEntry, 0, len(ids))
	for _, id := range ids {
		entry := m.entries[id]
		slugs := make(map[string]string, len(entry.Slugs))
		for k, v := range entry.Slugs {
			slugs[k] = v
		}
		result = append(result, domain.MappingEntry{ID: id, Path: entry.Path, Slugs: slugs})
	}
	return result
}

// Table returns the identifier→path table consumed by build tooling.
func (m *PathMap) Table() map[string]string {
	if !m.hashing {
		return nil
	}
	table := make(map[string]string, len(m.entries))
	for id, entry := range m.entries {
		table[id] = entry.Path
	}
	return table
}

// uniqueSlug appends an increasing numeric suffix to name until it has not
// been issued within the bucket.
func uniqueSlug(entry *Entry, name string) string {
	candidate := name
	for i := 1; entry.issued[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	return candidate
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

package content

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// Info sections.
const (
	SectionFileHeader         = "FileHeader"
	SectionProjectInformation = "ProjectInformation"
)

const infoContentWidth = 50

// Info is a read-only view of the file header and the project information
// with dotted key lookup, e.g. "ProjectInformation.Title".
type Info struct {
	header  map[string]any
	project map[string]domain.ProjectInfoEntry
}

func newInfo(header map[string]any, project map[string]domain.ProjectInfoEntry) *Info {
	return &Info{header: header, project: project}
}

// Get resolves a "Section.Name" key, or a bare name searched in the file
// header first.
func (i *Info) Get(key string) (any, bool) {
	if section, name, ok := strings.Cut(key, "."); ok {
		switch section {
		case SectionFileHeader:
			v, ok := i.header[name]
			return v, ok
		case SectionProjectInformation:
			entry, ok := i.project[name]
			return entry.Content, ok
		}
		return nil, false
	}
	if v, ok := i.header[key]; ok {
		return v, true
	}
	if entry, ok := i.project[key]; ok {
		return entry.Content, true
	}
	return nil, false
}

// Has reports whether key resolves.
func (i *Info) Has(key string) bool {
	_, ok := i.Get(key)
	return ok
}

// String returns the value of key rendered as text.
func (i *Info) String(key string) string {
	v, _ := i.Get(key)
	return stringify(v)
}

// Len returns the number of entries.
func (i *Info) Len() int {
	return len(i.header) + len(i.project)
}

// Keys returns the qualified keys of the file header followed by those of
// the project information, each sorted.
func (i *Info) Keys() []string {
	keys := make([]string, 0, i.Len())
	for _, name := range sortedKeys(i.header) {
		keys = append(keys, SectionFileHeader+"."+name)
	}
	for _, name := range sortedKeys(i.project) {
		keys = append(keys, SectionProjectInformation+"."+name)
	}
	return keys
}

// Entries returns one entry per key with its type and unwrapped content.
func (i *Info) Entries() []domain.InfoEntry {
	var entries []domain.InfoEntry
	for _, name := range sortedKeys(i.header) {
		typ := "string"
		switch name {
		case "creationDateTime":
			typ = "date"
		case "version":
			typ = "version"
		}
		entries = append(entries, domain.InfoEntry{
			Scope: SectionFileHeader, Name: name, Type: typ, Content: stringify(i.header[name]),
		})
	}
	for _, name := range sortedKeys(i.project) {
		entry := i.project[name]
		content := stringify(entry.Content)
		if name == "Description" && content != "" {
			content = "See: :ref:`Description <index_description>`"
		}
		entries = append(entries, domain.InfoEntry{
			Scope: SectionProjectInformation, Name: name, Type: entry.Type, Content: content,
		})
	}
	return entries
}

// InfoRow is one entry of the info table with wrapped content.
type InfoRow struct {
	Scope   string
	Name    string
	Type    string
	Content []string
}

// InfoTable is the laid out project information.
type InfoTable struct {
	Header []Column
	Body   []InfoRow
}

// Table lays out the entries with the content wrapped at 50 columns.
func (i *Info) Table() *InfoTable {
	wScope, wName, wType, wContent := len("Scope"), len("Name"), len("Type"), len("Content")
	var body []InfoRow
	for _, e := range i.Entries() {
		contents := wrap(e.Content, infoContentWidth, false)
		wScope = maxWidth(wScope, e.Scope)
		wName = maxWidth(wName, e.Name)
		wType = maxWidth(wType, e.Type)
		wContent = maxWidth(wContent, contents...)
		body = append(body, InfoRow{Scope: e.Scope, Name: e.Name, Type: e.Type, Content: contents})
	}
	return &InfoTable{
		Header: []Column{{"Scope", wScope}, {"Name", wName}, {"Type", wType}, {"Content", wContent}},
		Body:   body,
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// libraryRef parses a default resolution such as "Util, 3.5.17.0 (System)".
var libraryRef = regexp.MustCompile(`(?P<Name>.+),\s*(?P<Version>.+)\s*\((?P<Company>.+)\)`)

// parseLibraries builds the library list sorted by name.
func parseLibraries(raw map[string]map[string]any) []domain.Library {
	libs := make([]domain.Library, 0, len(raw))
	for _, key := range sortedKeys(raw) {
		fields := raw[key]
		lib := domain.Library{Key: key, Fields: fields}
		if name, ok := fields["Name"].(string); ok {
			lib.Name = name
		}
		if resolution, ok := fields["DefaultResolution"].(string); ok {
			if m := libraryRef.FindStringSubmatch(resolution); m != nil {
				lib.Name = strings.TrimSpace(m[libraryRef.SubexpIndex("Name")])
				lib.Version = strings.TrimSpace(m[libraryRef.SubexpIndex("Version")])
				lib.Company = strings.TrimSpace(m[libraryRef.SubexpIndex("Company")])
			}
		}
		libs = append(libs, lib)
	}
	sort.SliceStable(libs, func(i, j int) bool { return libs[i].Name < libs[j].Name })
	return libs
}

// embeddedFiles keeps the embedded external files by key.
func embeddedFiles(files map[string]domain.ExternalFile) map[string]string {
	result := make(map[string]string)
	for key, f := range files {
		if f.Embedded {
			result[key] = f.Filename
		}
	}
	return result
}

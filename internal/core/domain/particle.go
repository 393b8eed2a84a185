package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParticleInfo is a read-only view of a documentation particle
// handed to driving adapters.
type ParticleInfo struct {
	// Key is the stable dotted key, "." for the root.
	Key string `json:"key"`

	// Name is the display name.
	Name string `json:"name"`

	// Type is the object type, "Folder" or "Index".
	Type string `json:"type"`

	// Path is the mapped filesystem-relative directory.
	Path string `json:"path"`

	// Filename is the mapped file name including suffix.
	Filename string `json:"filename"`

	// Doc is the documentation text with substitutions applied.
	Doc string `json:"doc,omitempty"`

	// Declaration is the synthesized signature line, if any.
	Declaration string `json:"declaration,omitempty"`

	// TOC lists child path references.
	TOC []string `json:"toc,omitempty"`

	// Children lists the keys of child particles.
	Children []string `json:"children,omitempty"`

	// Depth is the nesting level, 0 for the root.
	Depth int `json:"depth"`

	// Target is the reference anchor line.
	Target string `json:"target,omitempty"`

	// SubParticlePath is the mapped directory of child particles, set when
	// the particle has children.
	SubParticlePath string `json:"sub_particle_path,omitempty"`

	// Prefix is the text of the :prefix: documentation line.
	Prefix string `json:"prefix,omitempty"`

	// Source holds the raw declaration and implementation blocks.
	Source *SourceInfo `json:"source,omitempty"`

	// Table is the laid out parameter table of an object.
	Table *ParameterTable `json:"table,omitempty"`

	// Kinematics is set for kinematic function blocks.
	Kinematics *KinematicsInfo `json:"kinematics,omitempty"`
}

// SourceInfo holds the source blocks of an object and the file names they
// are written to.
type SourceInfo struct {
	DclFilename    string `json:"dcl_filename"`
	Declaration    string `json:"declaration,omitempty"`
	ImpFilename    string `json:"imp_filename"`
	Implementation string `json:"implementation,omitempty"`
}

// ParameterTable is a laid out variable table. Cells hold their wrapped
// lines joined by newlines; empty columns have width zero.
type ParameterTable struct {
	Title      string            `json:"title"`
	Attributes []string          `json:"attributes,omitempty"`
	Columns    []ParameterColumn `json:"columns"`
	Rows       [][]string        `json:"rows"`
	Links      []string          `json:"links,omitempty"`
}

// Lines renders the table as plain text. Columns without
// width are left out and multi-line cells span several lines.
func (t *ParameterTable) Lines() []string {
	var cols []int
	for i, c := range t.Columns {
		if c.Width > 0 {
			cols = append(cols, i)
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(cols))
		for j, i := range cols {
			parts[j] = fmt.Sprintf("%-*s", t.Columns[i].Width, cells[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	lines := []string{format(titles)}

	for _, row := range t.Rows {
		split := make([][]string, len(t.Columns))
		height := 1
		for i := range t.Columns {
			if i < len(row) && row[i] != "" {
				split[i] = strings.Split(row[i], "\n")
			}
			height = max(height, len(split[i]))
		}
		for h := 0; h < height; h++ {
			cells := make([]string, len(t.Columns))
			for i := range cells {
				if h < len(split[i]) {
					cells[i] = split[i][h]
				}
			}
			lines = append(lines, format(cells))
		}
	}
	return lines
}

// ParameterColumn is a table column with its rendered width.
type ParameterColumn struct {
	Title string `json:"title"`
	Width int    `json:"width"`
}

// KinematicsInfo is the manifest of a kinematic function block.
type KinematicsInfo struct {
	ID     string           `json:"id"`
	Header string           `json:"header"`
	Params []KinematicParam `json:"params,omitempty"`
	Images []string         `json:"images"`
}

// KinematicParam describes an input of a kinematic function block.
type KinematicParam struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Documentation string `json:"documentation"`
}

// Symbol is a symbol table entry.
type Symbol struct {
	// Key is the uppercased lookup key.
	Key string `json:"key"`

	// Target is the canonical dotted display name.
	Target string `json:"target"`
}

// MappingEntry maps a short identifier back to its original path.
type MappingEntry struct {
	// ID is the short content-hash identifier.
	ID string `json:"id"`

	// Path is the original hierarchical path.
	Path string `json:"path"`

	// Slugs maps original names to their unique slugs in this bucket.
	Slugs map[string]string `json:"slugs,omitempty"`
}

// MappingRun is one persisted hash→path mapping table.
type MappingRun struct {
	ID         string         `json:"id"`
	Library    string         `json:"library"`
	Condensed  bool           `json:"condensed"`
	SlugLength int            `json:"slug_length"`
	CreatedAt  time.Time      `json:"created_at"`
	Entries    []MappingEntry `json:"entries,omitempty"`
}

// CleanReport summarises one clean run.
type CleanReport struct {
	// Input is the content file that was cleaned.
	Input string

	// Output is the file the cleaned content was written to.
	Output string

	// ConfigPath is the rules file in effect; empty for built-in rules.
	ConfigPath string

	// ExcludedParticles counts deleted declarations.
	ExcludedParticles int

	// Rescued counts declarations kept by include rules.
	Rescued int

	// RemovedAttributes counts deleted attribute entries.
	RemovedAttributes int

	// RemovedMembers counts deleted variables and members.
	RemovedMembers int

	// PrunedNodes counts removed project structure nodes.
	PrunedNodes int
}

package domain

// Library is a library referenced by the exported project.
type Library struct {
	// Key is the reference name in the export.
	Key     string `json:"key"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Company string `json:"company,omitempty"`

	// Fields holds the raw export fields.
	Fields map[string]any `json:"fields,omitempty"`
}

// InfoEntry is one row of the project information table.
type InfoEntry struct {
	Scope   string `json:"scope"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

package domain

const unknownDescription = "Unknown"

// MappingStorage defines where hash→path mapping tables are persisted.
type MappingStorage string

// Available mapping storages.
const (
	// MappingStorageSQLite persists mapping runs in a local SQLite database.
	MappingStorageSQLite MappingStorage = "sqlite"

	// MappingStorageMemory keeps mapping runs for the lifetime of the process.
	MappingStorageMemory MappingStorage = "memory"
)

// IsValid returns true if the storage is recognised.
func (m MappingStorage) IsValid() bool {
	switch m {
	case MappingStorageSQLite, MappingStorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m MappingStorage) String() string {
	return string(m)
}

// Description returns a human-readable description of the storage.
func (m MappingStorage) Description() string {
	switch m {
	case MappingStorageSQLite:
		return "SQLite (persisted across runs)"
	case MappingStorageMemory:
		return "Memory (discarded on exit)"
	default:
		return unknownDescription
	}
}

// Settings holds the tool configuration.
type Settings struct {
	// Condensed replaces hierarchical paths by short content-hash identifiers.
	Condensed bool

	// SlugLength limits human-readable file name stems. Zero disables slugs.
	SlugLength int

	// CleanConfig is the file name of the clean rules next to the content file.
	CleanConfig string

	// MappingStorage selects the mapping table persistence.
	MappingStorage MappingStorage

	// Build holds the options consumed by particles.
	Build BuildConfig
}

// BuildConfig holds the documentation build options particles depend on.
type BuildConfig struct {
	// SourceSuffix is the file suffix of generated sources, e.g. ".rst".
	SourceSuffix string

	// MasterDoc is the stem of the root document, e.g. "index".
	MasterDoc string

	// Timezone is the IANA zone dates are rendered in.
	Timezone string

	// DateLayout is the Go time layout dates are rendered with.
	DateLayout string
}

// Default settings values.
const (
	DefaultSlugLength   = 16
	DefaultCleanConfig  = "clean.conf"
	DefaultSourceSuffix = ".rst"
	DefaultMasterDoc    = "index"
	DefaultTimezone     = "Europe/Berlin"
	DefaultDateLayout   = "02.01.2006 15:04:05"
)

// DefaultSettings returns the default tool configuration.
func DefaultSettings() Settings {
	return Settings{
		Condensed:      true,
		SlugLength:     DefaultSlugLength,
		CleanConfig:    DefaultCleanConfig,
		MappingStorage: MappingStorageSQLite,
		Build:          DefaultBuildConfig(),
	}
}

// DefaultBuildConfig returns the default build options.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		SourceSuffix: DefaultSourceSuffix,
		MasterDoc:    DefaultMasterDoc,
		Timezone:     DefaultTimezone,
		DateLayout:   DefaultDateLayout,
	}
}

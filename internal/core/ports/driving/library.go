package driving

import (
	"context"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// LibraryService answers queries about one loaded content document.
// Every query except Open fails with domain.ErrInvalidInput before a
// document was opened.
type LibraryService interface {
	// Open loads the content file and builds its documentation model
	// using the current settings.
	Open(ctx context.Context, path string) error

	// Name returns the content file name of the open document.
	Name() string

	// Particles returns every particle in document order, the index first.
	Particles() ([]domain.ParticleInfo, error)

	// Particle returns the particle with the given key.
	Particle(key string) (domain.ParticleInfo, error)

	// LookupSymbol resolves a name case-insensitively.
	// Returns domain.ErrNotFound for unknown names.
	LookupSymbol(name string) (domain.Symbol, error)

	// Symbols returns the symbol table sorted by key.
	Symbols() ([]domain.Symbol, error)

	// Info returns the file header and project information entries.
	Info() ([]domain.InfoEntry, error)

	// Libraries returns the referenced libraries sorted by name.
	Libraries() ([]domain.Library, error)

	// Mapping returns the identifier→path entries of the open document.
	// It is empty unless condensed mode is enabled.
	Mapping() ([]domain.MappingEntry, error)

	// SaveMapping persists the current mapping as a new run.
	SaveMapping(ctx context.Context) (*domain.MappingRun, error)

	// MappingRuns lists the persisted runs of the open document.
	MappingRuns(ctx context.Context) ([]domain.MappingRun, error)
}

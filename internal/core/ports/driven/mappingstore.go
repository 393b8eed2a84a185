package driven

import (
	"context"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// MappingStore persists identifier→path mapping runs.
type MappingStore interface {
	// Save stores a run together with its entries.
	Save(ctx context.Context, run domain.MappingRun) error

	// Get retrieves a run with its entries.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.MappingRun, error)

	// Latest retrieves the most recent run of a library.
	// Returns domain.ErrNotFound if the library has no runs.
	Latest(ctx context.Context, library string) (*domain.MappingRun, error)

	// List returns the runs of a library without entries, newest first.
	// An empty library lists the runs of every library.
	List(ctx context.Context, library string) ([]domain.MappingRun, error)

	// Delete removes a run. Deleting an unknown run is not an error.
	Delete(ctx context.Context, id string) error
}

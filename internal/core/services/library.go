package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/libdoc-cli/internal/content"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// errNotOpen is returned by queries issued before Open.
var errNotOpen = fmt.Errorf("%w: no content file open", domain.ErrInvalidInput)

// LibraryService holds the documentation model of one content file.
type LibraryService struct {
	settings driving.SettingsService
	mappings driven.MappingStore
	now      func() time.Time

	mu      sync.RWMutex
	model   *content.Model
	slugLen int
}

// NewLibraryService creates a library service. A nil mapping store
// disables SaveMapping and MappingRuns.
func NewLibraryService(settings driving.SettingsService, mappings driven.MappingStore) *LibraryService {
	return &LibraryService{
		settings: settings,
		mappings: mappings,
		now:      time.Now,
	}
}

// Open loads the content file at path.
func (s *LibraryService) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	settings, err := s.settings.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger.Section("Load")
	logger.Debug("loading %s (condensed=%t, slug=%d)", path, settings.Condensed, settings.SlugLength)

	model, err := content.Load(path, content.Options{
		Condensed:  settings.Condensed,
		SlugLength: settings.SlugLength,
	})
	if err != nil {
		return err
	}
	if err := model.SetConfig(settings.Build); err != nil {
		return err
	}
	logger.Info("loaded %s: %d particles, %d symbols", model.Name(), model.Particles().Len(), model.Symbols().Len())

	s.mu.Lock()
	s.model = model
	s.slugLen = settings.SlugLength
	s.mu.Unlock()
	return nil
}

// Name returns the content file name of the open document.
func (s *LibraryService) Name() string {
	model, err := s.current()
	if err != nil {
		return ""
	}
	return model.Name()
}

// Particles returns every particle in document order.
func (s *LibraryService) Particles() ([]domain.ParticleInfo, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	keys := model.Particles().Keys()
	result := make([]domain.ParticleInfo, 0, len(keys))
	for _, key := range keys {
		info, err := model.Describe(key)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

// Particle returns the particle with the given key.
func (s *LibraryService) Particle(key string) (domain.ParticleInfo, error) {
	model, err := s.current()
	if err != nil {
		return domain.ParticleInfo{}, err
	}
	return model.Describe(key)
}

// LookupSymbol resolves a name case-insensitively.
func (s *LibraryService) LookupSymbol(name string) (domain.Symbol, error) {
	model, err := s.current()
	if err != nil {
		return domain.Symbol{}, err
	}
	target, ok := model.Symbols().Lookup(name)
	if !ok {
		return domain.Symbol{}, fmt.Errorf("%w: symbol %s", domain.ErrNotFound, name)
	}
	return domain.Symbol{Key: strings.ToUpper(name), Target: target}, nil
}

// Symbols returns the symbol table sorted by key.
func (s *LibraryService) Symbols() ([]domain.Symbol, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	return model.Symbols().Entries(), nil
}

// Info returns the file header and project information entries.
func (s *LibraryService) Info() ([]domain.InfoEntry, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	return model.Info().Entries(), nil
}

// Libraries returns the referenced libraries.
func (s *LibraryService) Libraries() ([]domain.Library, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	return model.Libraries(), nil
}

// Mapping returns the identifier→path entries of the open document.
func (s *LibraryService) Mapping() ([]domain.MappingEntry, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	return model.Mapping(), nil
}

// SaveMapping persists the current mapping as a new run.
func (s *LibraryService) SaveMapping(ctx context.Context) (*domain.MappingRun, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	if s.mappings == nil {
		return nil, fmt.Errorf("%w: no mapping store", domain.ErrConfiguration)
	}
	if !model.Condensed() {
		return nil, fmt.Errorf("%w: condensed mode is disabled, there is no mapping to save", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	slugLen := s.slugLen
	s.mu.RUnlock()

	run := domain.MappingRun{
		ID:         uuid.NewString(),
		Library:    model.Name(),
		Condensed:  true,
		SlugLength: slugLen,
		CreatedAt:  s.now().UTC(),
		Entries:    model.Mapping(),
	}
	if err := s.mappings.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save mapping: %w", err)
	}
	logger.Info("saved mapping run %s with %d entries", run.ID, len(run.Entries))
	return &run, nil
}

// MappingRuns lists the persisted runs of the open document.
func (s *LibraryService) MappingRuns(ctx context.Context) ([]domain.MappingRun, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	if s.mappings == nil {
		return nil, fmt.Errorf("%w: no mapping store", domain.ErrConfiguration)
	}
	return s.mappings.List(ctx, model.Name())
}

func (s *LibraryService) current() (*content.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil, errNotOpen
	}
	return s.model, nil
}

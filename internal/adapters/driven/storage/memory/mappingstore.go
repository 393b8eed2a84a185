package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driven"
)

// Ensure MappingStore implements the interface.
var _ driven.MappingStore = (*MappingStore)(nil)

// MappingStore is an in-memory implementation of driven.MappingStore.
// Runs are discarded when the process exits.
type MappingStore struct {
	mu   sync.RWMutex
	runs map[string]domain.MappingRun
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		runs: make(map[string]domain.MappingRun),
	}
}

// Save stores or replaces a run.
func (s *MappingStore) Save(_ context.Context, run domain.MappingRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Entries = copyEntries(run.Entries)
	s.runs[run.ID] = run
	return nil
}

// Get retrieves a run by ID.
func (s *MappingStore) Get(_ context.Context, id string) (*domain.MappingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run.Entries = copyEntries(run.Entries)
	return &run, nil
}

// Latest retrieves the newest run of a library.
func (s *MappingStore) Latest(ctx context.Context, library string) (*domain.MappingRun, error) {
	runs, err := s.List(ctx, library)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, runs[0].ID)
}

// List returns the runs of a library without entries, newest first.
func (s *MappingStore) List(_ context.Context, library string) ([]domain.MappingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.MappingRun, 0, len(s.runs))
	for _, run := range s.runs {
		if library != "" && run.Library != library {
			continue
		}
		run.Entries = nil
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a run.
func (s *MappingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func copyEntries(entries []domain.MappingEntry) []domain.MappingEntry {
	if entries == nil {
		return nil
	}
	out := make([]domain.MappingEntry, len(entries))
	for i, e := range entries {
		slugs := make(map[string]string, len(e.Slugs))
		for k, v := range e.Slugs {
			slugs[k] = v
		}
		out[i] = domain.MappingEntry{ID: e.ID, Path: e.Path, Slugs: slugs}
	}
	return out
}

package tui

import (
	"context"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// MockLibraryService implements driving.LibraryService for TUI tests.
type MockLibraryService struct {
	ParticleList []domain.ParticleInfo
	Err          error
}

func (m *MockLibraryService) Open(_ context.Context, _ string) error { return nil }

func (m *MockLibraryService) Name() string { return "Motion.library.json" }

func (m *MockLibraryService) Particles() ([]domain.ParticleInfo, error) {
	return m.ParticleList, m.Err
}

func (m *MockLibraryService) Particle(key string) (domain.ParticleInfo, error) {
	for _, p := range m.ParticleList {
		if p.Key == key {
			return p, nil
		}
	}
	return domain.ParticleInfo{}, domain.ErrNotFound
}

func (m *MockLibraryService) LookupSymbol(name string) (domain.Symbol, error) {
	if name == "FB_MOTOR" {
		return domain.Symbol{Key: name, Target: "FB_Motor"}, nil
	}
	return domain.Symbol{}, domain.ErrNotFound
}

func (m *MockLibraryService) Symbols() ([]domain.Symbol, error) { return nil, nil }

func (m *MockLibraryService) Info() ([]domain.InfoEntry, error) { return nil, nil }

func (m *MockLibraryService) Libraries() ([]domain.Library, error) { return nil, nil }

func (m *MockLibraryService) Mapping() ([]domain.MappingEntry, error) { return nil, nil }

func (m *MockLibraryService) SaveMapping(_ context.Context) (*domain.MappingRun, error) {
	return nil, nil
}

func (m *MockLibraryService) MappingRuns(_ context.Context) ([]domain.MappingRun, error) {
	return nil, nil
}

func testParticles() []domain.ParticleInfo {
	return []domain.ParticleInfo{
		{Key: ".", Name: "Motion", Type: "Index", Children: []string{".fld-Drives"}},
		{Key: ".fld-Drives", Name: "Drives", Type: "Folder", Depth: 1, Children: []string{".fld-Drives.FB_Motor"}},
		{
			Key:         ".fld-Drives.FB_Motor",
			Name:        "FB_Motor",
			Type:        "FunctionBlock",
			Path:        "Drives",
			Filename:    "FB_Motor.rst",
			Declaration: "FUNCTION_BLOCK FB_Motor",
			Doc:         "Drives a motor.",
			Depth:       2,
		},
	}
}

package mcp

import (
	"context"
	"testing"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

var _ driving.LibraryService = (*mockLibraryService)(nil)

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	particles []domain.ParticleInfo
	symbols   []domain.Symbol
	mapping   []domain.MappingEntry
	err       error
}

func (m *mockLibraryService) Open(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLibraryService) Name() string {
	return "Motion.library.json"
}

func (m *mockLibraryService) Particles() ([]domain.ParticleInfo, error) {
	return m.particles, m.err
}

func (m *mockLibraryService) Particle(key string) (domain.ParticleInfo, error) {
	if m.err != nil {
		return domain.ParticleInfo{}, m.err
	}
	for _, p := range m.particles {
		if p.Key == key {
			return p, nil
		}
	}
	return domain.ParticleInfo{}, domain.ErrNotFound
}

func (m *mockLibraryService) LookupSymbol(name string) (domain.Symbol, error) {
	if m.err != nil {
		return domain.Symbol{}, m.err
	}
	for _, s := range m.symbols {
		if s.Key == name {
			return s, nil
		}
	}
	return domain.Symbol{}, domain.ErrNotFound
}

func (m *mockLibraryService) Symbols() ([]domain.Symbol, error) {
	return m.symbols, m.err
}

func (m *mockLibraryService) Info() ([]domain.InfoEntry, error) {
	return nil, m.err
}

func (m *mockLibraryService) Libraries() ([]domain.Library, error) {
	return nil, m.err
}

func (m *mockLibraryService) Mapping() ([]domain.MappingEntry, error) {
	return m.mapping, m.err
}

func (m *mockLibraryService) SaveMapping(_ context.Context) (*domain.MappingRun, error) {
	return nil, m.err
}

func (m *mockLibraryService) MappingRuns(_ context.Context) ([]domain.MappingRun, error) {
	return nil, m.err
}

func testParticles() []domain.ParticleInfo {
	return []domain.ParticleInfo{
		{Key: ".", Name: "Motion", Type: "Index", Filename: "index.rst"},
		{Key: ".fld-Drives", Name: "Drives", Type: "Folder", Path: "Drives", Filename: "Drives.rst", Depth: 1},
		{
			Key:         ".fld-Drives.FB_Motor",
			Name:        "FB_Motor",
			Type:        "FunctionBlock",
			Path:        "Drives",
			Filename:    "FB_Motor.rst",
			Doc:         "Drives a motor.",
			Declaration: "FUNCTION_BLOCK FB_Motor",
			Depth:       2,
			Table: &domain.ParameterTable{
				Title:   "FB_Motor",
				Columns: []domain.ParameterColumn{{Title: "Scope", Width: 5}, {Title: "Name", Width: 7}},
				Rows:    [][]string{{"Input", "bEnable"}},
			},
			Source: &domain.SourceInfo{DclFilename: "POUs/FB_Motor.dcl", Declaration: "FUNCTION_BLOCK FB_Motor"},
		},
		{Key: ".fld-Drives.FB_Motor.Start", Name: "Start", Type: "Method", Filename: "Start.rst", Depth: 3},
	}
}

func newTestServer(t *testing.T, lib *mockLibraryService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Library: lib})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}

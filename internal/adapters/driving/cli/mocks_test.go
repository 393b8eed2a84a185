package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	setKey   string
	setValue string
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, m.err
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	if m.err != nil {
		return m.err
	}
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Validate(_ *domain.Settings) error { return nil }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

// mockLibraryService implements driving.LibraryService.
type mockLibraryService struct {
	opened    string
	particles []domain.ParticleInfo
	symbols   []domain.Symbol
	mapping   []domain.MappingEntry
	runs      []domain.MappingRun
	info      []domain.InfoEntry
	libraries []domain.Library
	openErr   error
}

func (m *mockLibraryService) Open(_ context.Context, path string) error {
	m.opened = path
	return m.openErr
}

func (m *mockLibraryService) Name() string { return "Motion.library.json" }

func (m *mockLibraryService) Particles() ([]domain.ParticleInfo, error) { return m.particles, nil }

func (m *mockLibraryService) Particle(key string) (domain.ParticleInfo, error) {
	for _, p := range m.particles {
		if p.Key == key {
			return p, nil
		}
	}
	return domain.ParticleInfo{}, domain.ErrNotFound
}

func (m *mockLibraryService) LookupSymbol(name string) (domain.Symbol, error) {
	for _, s := range m.symbols {
		if s.Key == name {
			return s, nil
		}
	}
	return domain.Symbol{}, domain.ErrNotFound
}

func (m *mockLibraryService) Symbols() ([]domain.Symbol, error) { return m.symbols, nil }

func (m *mockLibraryService) Info() ([]domain.InfoEntry, error) { return m.info, nil }

func (m *mockLibraryService) Libraries() ([]domain.Library, error) { return m.libraries, nil }

func (m *mockLibraryService) Mapping() ([]domain.MappingEntry, error) { return m.mapping, nil }

func (m *mockLibraryService) SaveMapping(_ context.Context) (*domain.MappingRun, error) {
	run := domain.MappingRun{ID: "run-1", Library: m.Name(), Entries: m.mapping}
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *mockLibraryService) MappingRuns(_ context.Context) ([]domain.MappingRun, error) {
	return m.runs, nil
}

// mockCleanService implements driving.CleanService.
type mockCleanService struct {
	req    driving.CleanRequest
	report domain.CleanReport
	err    error
}

func (m *mockCleanService) Clean(_ context.Context, req driving.CleanRequest) (domain.CleanReport, error) {
	m.req = req
	return m.report, m.err
}

func (m *mockCleanService) Watch(
	_ context.Context, req driving.CleanRequest, fn func(domain.CleanReport, error),
) error {
	m.req = req
	fn(m.report, m.err)
	return nil
}

type testServices struct {
	settings *mockSettingsService
	library  *mockLibraryService
	clean    *mockCleanService
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		settings: &mockSettingsService{settings: domain.DefaultSettings()},
		library: &mockLibraryService{
			particles: []domain.ParticleInfo{
				{Key: ".", Name: "Motion", Type: "Index", Filename: "index.rst", Children: []string{".fld-Drives"}},
				{
					Key: ".fld-Drives", Name: "Drives", Type: "Folder", Path: "Drives", Filename: "Drives.rst",
					Depth: 1, Children: []string{".fld-Drives.FB_Motor"},
				},
				{
					Key: ".fld-Drives.FB_Motor", Name: "FB_Motor", Type: "FunctionBlock",
					Path: "Drives", Filename: "FB_Motor.rst", Depth: 2,
					Declaration: "FUNCTION_BLOCK FB_Motor", Doc: "Drives a motor.",
					Table: &domain.ParameterTable{
						Title: "FB_Motor",
						Columns: []domain.ParameterColumn{
							{Title: "Scope", Width: 5}, {Title: "Name", Width: 7}, {Title: "Type", Width: 4},
							{Title: "Address"}, {Title: "Initial"}, {Title: "Comment", Width: 12},
							{Title: "Attributes"}, {Title: "Inherited from"},
						},
						Rows: [][]string{{"Input", "bEnable", "BOOL", "", "", "Enable the\ndrive", "", ""}},
					},
					Source: &domain.SourceInfo{
						DclFilename: "POUs/FB_Motor.dcl", Declaration: "FUNCTION_BLOCK FB_Motor",
						ImpFilename: "POUs/FB_Motor.imp",
					},
					Kinematics: &domain.KinematicsInfo{ID: "0A1B2C3D", Images: []string{"FB_Motor.svg"}},
				},
			},
			symbols: []domain.Symbol{
				{Key: "FB_MOTOR", Target: "FB_Motor"},
				{Key: "FB_MOTOR.START", Target: "FB_Motor.Start"},
			},
			mapping: []domain.MappingEntry{
				{ID: "Xq3", Path: "Drives.FB_Motor", Slugs: map[string]string{"FB_Motor": "FB_Motor"}},
			},
			info: []domain.InfoEntry{
				{Scope: "FileHeader", Name: "version", Type: "string", Content: "1.2"},
				{Scope: "ProjectInformation", Name: "Title", Type: "string", Content: "Motion"},
			},
			libraries: []domain.Library{{Key: "Standard", Name: "Standard", Version: "3.5", Company: "System"}},
		},
		clean: &mockCleanService{report: domain.CleanReport{
			Input:             "/work/Motion.json",
			Output:            "/work/Motion.clean.json",
			ExcludedParticles: 3,
			PrunedNodes:       2,
		}},
	}

	origSettings, origLibrary, origClean := settingsService, libraryService, cleanService
	SetServices(ts.settings, ts.library, ts.clean)

	return ts, func() {
		SetServices(origSettings, origLibrary, origClean)
	}
}

// execute runs the root command with args and returns its output.
// Package-level flag variables are reset afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	cleanOutput, cleanDir, cleanWatch = "", "", false
	particlesType, particlesJSON = "", false
	particleJSON = false
	symbolsJSON = false
	mappingJSON, mappingTable = false, false
	verbose = false
}

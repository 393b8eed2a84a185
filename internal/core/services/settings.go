package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCondensed      = "generate.condensed"
	keySlugLength     = "generate.slug"
	keySourceSuffix   = "build.source_suffix"
	keyMasterDoc      = "build.master_doc"
	keyTimezone       = "build.timezone"
	keyDateLayout     = "build.date_layout"
	keyCleanConfig    = "clean.config"
	keyMappingStorage = "storage.mapping"
)

// SettingsService manages tool settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Condensed:      s.getBool(keyCondensed, defaults.Condensed),
		SlugLength:     s.getSlugLength(defaults.SlugLength),
		CleanConfig:    s.getString(keyCleanConfig, defaults.CleanConfig),
		MappingStorage: s.getMappingStorage(defaults.MappingStorage),
		Build: domain.BuildConfig{
			SourceSuffix: s.getString(keySourceSuffix, defaults.Build.SourceSuffix),
			MasterDoc:    s.getString(keyMasterDoc, defaults.Build.MasterDoc),
			Timezone:     s.getString(keyTimezone, defaults.Build.Timezone),
			DateLayout:   s.getString(keyDateLayout, defaults.Build.DateLayout),
		},
	}

	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyCondensed, settings.Condensed},
		{keySlugLength, settings.SlugLength},
		{keyCleanConfig, settings.CleanConfig},
		{keyMappingStorage, settings.MappingStorage.String()},
		{keySourceSuffix, settings.Build.SourceSuffix},
		{keyMasterDoc, settings.Build.MasterDoc},
		{keyTimezone, settings.Build.Timezone},
		{keyDateLayout, settings.Build.DateLayout},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its textual value.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyCondensed:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		settings.Condensed = b
	case keySlugLength:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
		settings.SlugLength = n
	case keyCleanConfig:
		settings.CleanConfig = value
	case keyMappingStorage:
		settings.MappingStorage = domain.MappingStorage(value)
	case keySourceSuffix:
		settings.Build.SourceSuffix = value
	case keyMasterDoc:
		settings.Build.MasterDoc = value
	case keyTimezone:
		settings.Build.Timezone = value
	case keyDateLayout:
		settings.Build.DateLayout = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Validate checks the settings for consistency.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	if settings.SlugLength < 0 {
		return fmt.Errorf("%w: slug length must not be negative", domain.ErrConfiguration)
	}
	if !settings.MappingStorage.IsValid() {
		return fmt.Errorf("%w: invalid mapping storage: %s", domain.ErrConfiguration, settings.MappingStorage)
	}
	if settings.CleanConfig == "" {
		return fmt.Errorf("%w: clean config file name is empty", domain.ErrConfiguration)
	}
	if settings.Build.MasterDoc == "" {
		return fmt.Errorf("%w: master doc is empty", domain.ErrConfiguration)
	}
	if _, err := time.LoadLocation(settings.Build.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", domain.ErrConfiguration, settings.Build.Timezone, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getSlugLength keeps an explicit zero, which disables slugs.
func (s *SettingsService) getSlugLength(defaultVal int) int {
	if _, exists := s.configStore.Get(keySlugLength); !exists {
		return defaultVal
	}
	if n := s.configStore.GetInt(keySlugLength); n >= 0 {
		return n
	}
	return defaultVal
}

func (s *SettingsService) getMappingStorage(defaultVal domain.MappingStorage) domain.MappingStorage {
	val := s.configStore.GetString(keyMappingStorage)
	if val == "" {
		return defaultVal
	}
	storage := domain.MappingStorage(val)
	if !storage.IsValid() {
		return defaultVal
	}
	return storage
}

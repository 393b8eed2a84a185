package driving

import "github.com/custodia-labs/libdoc-cli/internal/core/domain"

// SettingsService manages tool settings.
type SettingsService interface {
	// Get retrieves current settings, defaults filled in.
	Get() (*domain.Settings, error)

	// Save persists settings.
	Save(settings *domain.Settings) error

	// Set updates a single setting by its dotted key.
	Set(key, value string) error

	// Validate checks the settings for consistency.
	Validate(settings *domain.Settings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}

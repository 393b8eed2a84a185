// Command libdoc builds documentation models from CODESYS library
// content exports and cleans content files.
package main

import (
	"fmt"
	"os"

	// Dates are rendered in configured IANA zones on any host.
	_ "time/tzdata"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/libdoc-cli/internal/core/services"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// An empty directory selects ~/.libdoc.
	configStore, err := file.NewConfigStore(os.Getenv("LIBDOC_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "libdoc: %v\n", err)
		return err
	}

	settingsService := services.NewSettingsService(configStore)
	mappings, closeStore := openMappingStore(settingsService)
	defer closeStore()

	cli.SetVersion(version)
	cli.SetServices(
		settingsService,
		services.NewLibraryService(settingsService, mappings),
		services.NewCleanService(settingsService),
	)
	return cli.Execute()
}

// openMappingStore selects the mapping store from settings. A SQLite
// database that cannot be opened falls back to memory.
func openMappingStore(settings *services.SettingsService) (driven.MappingStore, func()) {
	noop := func() {}

	s, err := settings.Get()
	if err != nil || s.MappingStorage != domain.MappingStorageSQLite {
		return memory.NewMappingStore(), noop
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("mapping database unavailable, runs are kept in memory: %v", err)
		return memory.NewMappingStore(), noop
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing mapping database: %v", err)
		}
	}
}

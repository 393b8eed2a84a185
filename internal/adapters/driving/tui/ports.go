// Package tui provides an interactive terminal browser for the particles
// of a content file.
package tui

import (
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Library answers particle and symbol queries. It must be opened
	// before the app starts.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}

// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewParticles is the particle list.
	ViewParticles ViewType = iota
	// ViewDetail shows one particle.
	ViewDetail
	// ViewSymbols is the symbol lookup.
	ViewSymbols
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewParticles:
		return "particles"
	case ViewDetail:
		return "detail"
	case ViewSymbols:
		return "symbols"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ParticlesLoaded carries the particle list of the open library.
type ParticlesLoaded struct {
	Particles []domain.ParticleInfo
	Err       error
}

// ParticleSelected is sent when a particle is opened.
type ParticleSelected struct {
	Key string
}

// ParticleLoaded carries one particle for the detail view.
type ParticleLoaded struct {
	Particle domain.ParticleInfo
	Err      error
}

// SymbolResolved carries the result of a symbol lookup.
type SymbolResolved struct {
	Query  string
	Symbol domain.Symbol
	Err    error
}

// ErrorOccurred reports an error to the active view.
type ErrorOccurred struct {
	Err error
}

// Quit requests the program to exit.
type Quit struct{}

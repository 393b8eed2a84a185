// Package symbols provides the symbol lookup view for the TUI.
package symbols

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

// View resolves names typed by the user against the symbol table.
type View struct {
	styles  *styles.Styles
	library driving.LibraryService
	field   *input.Field

	query  string
	symbol *domain.Symbol
	err    error
}

// NewView creates a new symbol lookup view.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		library: library,
		field:   input.NewField(s, "Symbol", "e.g. FB_Motor.Start"),
	}
}

// Init focuses the input.
func (v *View) Init() tea.Cmd {
	return v.field.Focus()
}

// Reset clears the input and the last result.
func (v *View) Reset() {
	v.field.Reset()
	v.query = ""
	v.symbol = nil
	v.err = nil
}

func (v *View) lookup(name string) tea.Cmd {
	library := v.library
	return func() tea.Msg {
		sym, err := library.LookupSymbol(name)
		return messages.SymbolResolved{Query: name, Symbol: sym, Err: err}
	}
}

// Update handles messages for the symbol view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SymbolResolved:
		v.query = msg.Query
		v.err = msg.Err
		v.symbol = nil
		if msg.Err == nil {
			sym := msg.Symbol
			v.symbol = &sym
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			v.field.Blur()
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewParticles}
			}
		case tea.KeyEnter:
			name := strings.TrimSpace(v.field.Value())
			if name == "" || v.library == nil {
				return v, nil
			}
			return v, v.lookup(name)
		}
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

// View renders the symbol view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Symbol lookup"))
	b.WriteString("\n\n")
	b.WriteString(v.field.View())
	b.WriteString("\n\n")

	switch {
	case errors.Is(v.err, domain.ErrNotFound):
		b.WriteString(v.styles.Warning.Render("No symbol named " + v.query))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.symbol != nil:
		b.WriteString(v.styles.Muted.Render(v.symbol.Key + " → "))
		b.WriteString(v.styles.Success.Render(v.symbol.Target))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] resolve  [esc] back"))
	return b.String()
}

// SetWidth sets the input width.
func (v *View) SetWidth(width int) {
	v.field.SetWidth(width)
}

// Symbol returns the last resolved symbol, or nil.
func (v *View) Symbol() *domain.Symbol {
	return v.symbol
}

// Err returns the last lookup error.
func (v *View) Err() error {
	return v.err
}

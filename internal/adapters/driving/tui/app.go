package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/views/symbols"
)

// App is the particle browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	list        *list.ParticleList
	filter      *input.Field
	filtering   bool
	statusBar   *status.Bar
	detailView  *detail.View
	symbolsView *symbols.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetLibrary(ports.Library.Name())

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		list:        list.NewParticleList(s),
		filter:      input.NewField(s, "Filter", "key or name"),
		statusBar:   bar,
		detailView:  detail.NewView(s, ports.Library),
		symbolsView: symbols.NewView(s, ports.Library),
		currentView: messages.ViewParticles,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("libdoc - "+a.ports.Library.Name()),
		a.loadParticles(),
	)
}

func (a *App) loadParticles() tea.Cmd {
	library := a.ports.Library
	return func() tea.Msg {
		particles, err := library.Particles()
		return messages.ParticlesLoaded{Particles: particles, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case messages.ParticlesLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.list.SetParticles(msg.Particles)
		a.statusBar.SetCount(len(msg.Particles))
		a.statusBar.SetState(status.StateReady)
		return a, nil

	case messages.ParticleSelected:
		a.currentView = messages.ViewDetail
		a.statusBar.SetState(status.StateDetail)
		return a, a.detailView.Load(msg.Key)

	case messages.ParticleLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.SymbolResolved:
		a.symbolsView, cmd = a.symbolsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewParticles:
			a.statusBar.SetState(status.StateReady)
		case messages.ViewSymbols:
			a.symbolsView.Reset()
			return a, a.symbolsView.Init()
		case messages.ViewDetail, messages.ViewHelp:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.ViewSymbols:
		a.symbolsView, cmd = a.symbolsView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if key.Matches(msg, a.keys.Back, a.keys.Help) {
			a.currentView = messages.ViewParticles
		}
		return a, nil

	case messages.ViewParticles:
	}

	if a.filtering {
		return a.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		a.list.MoveUp(1)
	case key.Matches(msg, a.keys.Down):
		a.list.MoveDown(1)
	case key.Matches(msg, a.keys.PageUp):
		a.list.MoveUp(a.list.PageSize())
	case key.Matches(msg, a.keys.PageDown):
		a.list.MoveDown(a.list.PageSize())
	case key.Matches(msg, a.keys.Select):
		if p := a.list.SelectedParticle(); p != nil {
			selected := p.Key
			return a, func() tea.Msg { return messages.ParticleSelected{Key: selected} }
		}
	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		a.filter.SetValue(a.list.Filter())
		return a, a.filter.Focus()
	case key.Matches(msg, a.keys.Symbols):
		return a, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSymbols} }
	case key.Matches(msg, a.keys.Help):
		a.currentView = messages.ViewHelp
	case key.Matches(msg, a.keys.Back):
		a.list.SetFilter("")
	}
	return a, nil
}

// handleFilterKey edits the filter; the list follows every keystroke.
func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // only keys that end filtering
	switch msg.Type {
	case tea.KeyEnter:
		a.filtering = false
		a.filter.Blur()
		return a, nil
	case tea.KeyEsc:
		a.filtering = false
		a.filter.Blur()
		a.filter.Reset()
		a.list.SetFilter("")
		return a, nil
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.list.SetFilter(a.filter.Value())
	return a, cmd
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewSymbols:
		body = a.symbolsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewParticles:
		body = a.viewParticles()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(a.height-1).Render(body),
		a.statusBar.View(),
	)
}

func (a *App) viewParticles() string {
	if a.filtering || a.list.Filter() != "" {
		return a.filter.View() + "\n" + a.list.View()
	}
	return a.list.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.statusBar.SetWidth(width)
	listHeight := height - 1
	if a.filtering || a.list.Filter() != "" {
		listHeight -= 3
	}
	a.list.SetDimensions(width, listHeight)
	a.filter.SetWidth(width)
	a.detailView.SetDimensions(width, height-1)
	a.symbolsView.SetWidth(width)
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Filtering reports whether the filter input has focus.
func (a *App) Filtering() bool {
	return a.filtering
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Package detail provides the particle detail view for the TUI.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

// reservedLines is the space taken by the title, separator and footer.
const reservedLines = 5

// View shows one particle in a scrollable viewport.
type View struct {
	styles  *styles.Styles
	library driving.LibraryService

	viewport viewport.Model
	particle *domain.ParticleInfo
	err      error
	width    int
	height   int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		library:  library,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   20 + reservedLines,
	}
}

// Load returns a command that fetches the particle with the given key.
func (v *View) Load(key string) tea.Cmd {
	library := v.library
	return func() tea.Msg {
		if library == nil {
			return messages.ParticleLoaded{Err: fmt.Errorf("library not available")}
		}
		p, err := library.Particle(key)
		return messages.ParticleLoaded{Particle: p, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ParticleLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			v.particle = nil
			return v, nil
		}
		v.err = nil
		v.particle = &msg.Particle
		v.viewport.SetContent(v.render())
		v.viewport.GotoTop()
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewParticles}
			}
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// render builds the viewport content of the current particle.
func (v *View) render() string {
	p := v.particle
	body := lipgloss.NewStyle().Width(v.contentWidth())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", v.styles.Muted.Render("Key: "), p.Key)
	file := p.Filename
	if p.Path != "" {
		file = p.Path + "/" + p.Filename
	}
	fmt.Fprintf(&b, "%s %s\n", v.styles.Muted.Render("File:"), file)

	if p.Declaration != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Declaration.Render(body.Render(p.Declaration)))
		b.WriteString("\n")
	}
	if p.Doc != "" {
		b.WriteString("\n")
		b.WriteString(body.Render(p.Doc))
		b.WriteString("\n")
	}
	if p.Table != nil && len(p.Table.Rows) > 0 {
		v.section(&b, "Parameters")
		for _, line := range p.Table.Lines() {
			b.WriteString("  " + line + "\n")
		}
	}
	if p.Source != nil && p.Source.Declaration != "" {
		v.section(&b, "Declaration ("+p.Source.DclFilename+")")
		b.WriteString(v.styles.Declaration.Render(p.Source.Declaration))
		b.WriteString("\n")
	}
	if p.Source != nil && p.Source.Implementation != "" {
		v.section(&b, "Implementation ("+p.Source.ImpFilename+")")
		b.WriteString(v.styles.Declaration.Render(p.Source.Implementation))
		b.WriteString("\n")
	}
	if p.Kinematics != nil {
		v.section(&b, "Kinematics "+p.Kinematics.ID)
		for _, image := range p.Kinematics.Images {
			b.WriteString("  " + image + "\n")
		}
	}
	if len(p.Children) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Children"))
		b.WriteString("\n")
		for _, key := range p.Children {
			b.WriteString("  " + key + "\n")
		}
	}
	if len(p.TOC) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Contents"))
		b.WriteString("\n")
		for _, ref := range p.TOC {
			b.WriteString("  " + ref + "\n")
		}
	}
	return b.String()
}

func (v *View) section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n")
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	title := "Particle"
	if v.particle != nil {
		title = fmt.Sprintf("%s (%s)", v.particle.Name, v.particle.Type)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.particle == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		b.WriteString(v.viewport.View())
		if v.viewport.TotalLineCount() > v.viewport.Height {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
		}
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 1)
	if v.particle != nil {
		v.viewport.SetContent(v.render())
	}
}

func (v *View) contentWidth() int {
	return max(v.width-4, 20)
}

// Particle returns the displayed particle, or nil.
func (v *View) Particle() *domain.ParticleInfo {
	return v.particle
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

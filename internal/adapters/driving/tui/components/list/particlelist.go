// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// ParticleList displays particles as an indented, filterable list.
type ParticleList struct {
	all      []domain.ParticleInfo
	visible  []int
	filter   string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewParticleList creates a new particle list component.
func NewParticleList(s *styles.Styles) *ParticleList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ParticleList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetParticles replaces the list content and clears the selection.
func (l *ParticleList) SetParticles(particles []domain.ParticleInfo) {
	l.all = particles
	l.selected = 0
	l.apply()
}

// SetFilter keeps only particles whose key or name contains filter,
// ignoring case.
func (l *ParticleList) SetFilter(filter string) {
	l.filter = filter
	l.selected = 0
	l.apply()
}

// Filter returns the active filter.
func (l *ParticleList) Filter() string {
	return l.filter
}

func (l *ParticleList) apply() {
	l.visible = l.visible[:0]
	needle := strings.ToLower(l.filter)
	for i := range l.all {
		p := &l.all[i]
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Key), needle) ||
			strings.Contains(strings.ToLower(p.Name), needle) {
			l.visible = append(l.visible, i)
		}
	}
}

// View renders the visible window of the list.
func (l *ParticleList) View() string {
	if len(l.visible) == 0 {
		return l.styles.Muted.Render("No particles")
	}

	lines := make([]string, 0, l.height)
	header := fmt.Sprintf("Particles (%d)", len(l.visible))
	if l.filter != "" {
		header = fmt.Sprintf("Particles (%d of %d)", len(l.visible), len(l.all))
	}
	lines = append(lines, l.styles.Subtitle.Render(header), "")

	visibleCount := l.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.visible) {
		end = len(l.visible)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &l.all[l.visible[i]]))
	}
	return strings.Join(lines, "\n")
}

func (l *ParticleList) renderRow(index int, p *domain.ParticleInfo) string {
	indent := strings.Repeat("  ", p.Depth)
	label := indent + p.Name
	maxLen := l.width - 24
	if maxLen < 10 {
		maxLen = 10
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %-*s %s", maxLen, label, p.Type))
	}

	name := l.styles.Normal
	if p.Type == "Folder" {
		name = l.styles.Folder
	}
	return name.Render(fmt.Sprintf("  %-*s ", maxLen, label)) + l.styles.Muted.Render(p.Type)
}

// Selected returns the index of the selected row.
func (l *ParticleList) Selected() int {
	return l.selected
}

// SelectedParticle returns the particle under the cursor, or nil.
func (l *ParticleList) SelectedParticle() *domain.ParticleInfo {
	if l.selected < 0 || l.selected >= len(l.visible) {
		return nil
	}
	return &l.all[l.visible[l.selected]]
}

// MoveUp moves the selection up by n rows.
func (l *ParticleList) MoveUp(n int) {
	l.selected -= n
	if l.selected < 0 {
		l.selected = 0
	}
}

// MoveDown moves the selection down by n rows.
func (l *ParticleList) MoveDown(n int) {
	l.selected += n
	if l.selected > len(l.visible)-1 {
		l.selected = len(l.visible) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// PageSize returns the number of rows shown at once.
func (l *ParticleList) PageSize() int {
	if l.height-2 < 1 {
		return 1
	}
	return l.height - 2
}

// SetDimensions sets the component dimensions.
func (l *ParticleList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of visible particles.
func (l *ParticleList) Count() int {
	return len(l.visible)
}

// Total returns the number of particles before filtering.
func (l *ParticleList) Total() int {
	return len(l.all)
}

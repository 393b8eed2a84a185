package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

func sampleParticles() []domain.ParticleInfo {
	return []domain.ParticleInfo{
		{Key: ".", Name: "Motion", Type: "Index"},
		{Key: ".fld-Drives", Name: "Drives", Type: "Folder", Depth: 1},
		{Key: ".fld-Drives.FB_Motor", Name: "FB_Motor", Type: "FunctionBlock", Depth: 2},
		{Key: ".fld-Drives.FB_Motor.Start", Name: "Start", Type: "Method", Depth: 3},
	}
}

func TestNewParticleList(t *testing.T) {
	l := NewParticleList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedParticle())
	assert.Contains(t, l.View(), "No particles")
}

func TestParticleList_Navigation(t *testing.T) {
	l := NewParticleList(nil)
	l.SetParticles(sampleParticles())

	assert.Equal(t, 4, l.Count())
	assert.Equal(t, ".", l.SelectedParticle().Key)

	l.MoveDown(2)
	assert.Equal(t, "FB_Motor", l.SelectedParticle().Name)

	l.MoveDown(10)
	assert.Equal(t, 3, l.Selected())

	l.MoveUp(10)
	assert.Equal(t, 0, l.Selected())
}

func TestParticleList_Filter(t *testing.T) {
	l := NewParticleList(nil)
	l.SetParticles(sampleParticles())
	l.MoveDown(3)

	l.SetFilter("motor")

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 4, l.Total())
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, "FB_Motor", l.SelectedParticle().Name)
	assert.Contains(t, l.View(), "Particles (2 of 4)")

	l.SetFilter("")
	assert.Equal(t, 4, l.Count())
}

func TestParticleList_FilterNoMatch(t *testing.T) {
	l := NewParticleList(nil)
	l.SetParticles(sampleParticles())
	l.SetFilter("nothing")

	assert.Nil(t, l.SelectedParticle())
	l.MoveDown(1)
	assert.Equal(t, 0, l.Selected())
}

func TestParticleList_ViewScrollsToSelection(t *testing.T) {
	l := NewParticleList(nil)
	l.SetParticles(sampleParticles())
	l.SetDimensions(80, 4)

	l.MoveDown(3)
	view := l.View()

	assert.Contains(t, view, "Start")
	assert.NotContains(t, view, "Motion")
	assert.Equal(t, 2, l.PageSize())
}

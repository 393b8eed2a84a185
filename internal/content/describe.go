package content

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// Describe returns the read-only view of the particle with the given key.
func (m *Model) Describe(key string) (domain.ParticleInfo, error) {
	p, ok := m.particles.Get(key)
	if !ok {
		return domain.ParticleInfo{}, fmt.Errorf("%w: particle %s", domain.ErrNotFound, key)
	}

	toc, err := p.TOC()
	if err != nil {
		return domain.ParticleInfo{}, err
	}

	info := domain.ParticleInfo{
		Key:      p.Key(),
		Name:     p.Name(),
		Type:     p.Type(),
		Path:     p.Path(),
		Filename: p.Filename(),
		Doc:      p.Doc(),
		TOC:      toc,
		Children: m.particles.ChildKeys(p.Key()),
		Depth:    p.Depth(),
		Target:   p.Target(),
	}
	if p.HasSubParticles() {
		info.SubParticlePath = p.SubParticlePath()
	}

	obj, ok := p.(*ObjectParticle)
	if !ok {
		return info, nil
	}
	info.Declaration = obj.Signature()
	info.Prefix = obj.Prefix()
	info.Source = describeSource(obj)
	info.Table = describeTable(obj.IOTable())
	if obj.IsKinematic() {
		info.Kinematics = &domain.KinematicsInfo{
			ID:     obj.KinematicsID(),
			Header: obj.KinematicHeader(),
			Params: obj.KinematicParams(),
			Images: obj.KinematicImages(),
		}
	}
	return info, nil
}

func describeSource(obj *ObjectParticle) *domain.SourceInfo {
	dcl, hasDcl := obj.Dcl()
	imp, hasImp := obj.Imp()
	if !hasDcl && !hasImp {
		return nil
	}
	return &domain.SourceInfo{
		DclFilename:    obj.DclFilename(),
		Declaration:    dcl,
		ImpFilename:    obj.ImpFilename(),
		Implementation: imp,
	}
}

// describeTable flattens an IOTable, or returns nil when it has no rows and
// no object attributes.
func describeTable(t *IOTable) *domain.ParameterTable {
	if len(t.Body) == 0 && len(t.Attributes) == 0 {
		return nil
	}

	// The leading header column belongs to the object attributes.
	columns := make([]domain.ParameterColumn, 0, len(t.Header)-1)
	for _, c := range t.Header[1:] {
		columns = append(columns, domain.ParameterColumn{Title: c.Title, Width: c.Width})
	}

	rows := make([][]string, 0, len(t.Body))
	for _, r := range t.Body {
		cells := [][]string{r.Scope, r.Name, r.Type, r.Address, r.Initial, r.Comment, r.Attributes, r.InheritedFrom}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = strings.Join(c, "\n")
		}
		rows = append(rows, row)
	}

	return &domain.ParameterTable{
		Title:      t.Title,
		Attributes: t.Attributes,
		Columns:    columns,
		Rows:       rows,
		Links:      t.Links,
	}
}

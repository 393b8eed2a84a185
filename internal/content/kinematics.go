package content

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// IsKinematic reports whether the object is a function block carrying the
// kinematics attribute.
func (p *ObjectParticle) IsKinematic() bool {
	if p.decl.ObjectType != "FunctionBlock" {
		return false
	}
	_, ok := p.decl.Attributes[domain.KinematicsAttribute]
	return ok
}

// KinematicsID is the CRC-32 of the object name in upper case hex.
func (p *ObjectParticle) KinematicsID() string {
	return fmt.Sprintf("%08X", crc32.ChecksumIEEE([]byte(p.Name())))
}

// KinematicHeader returns the documentation with resolved symbols rendered
// as inline literals.
func (p *ObjectParticle) KinematicHeader() string {
	doc := substituteFiles(strings.Join(p.DocLines(), "\n"), p.model.externalFiles)
	return literalSymbols(doc, p.model.symbols.Lookup)
}

func (p *ObjectParticle) inputs() []domain.Variable {
	var inputs []domain.Variable
	for _, v := range p.decl.Variables {
		if len(v.Scope) == 1 && v.Scope[0] == "input" {
			inputs = append(inputs, v)
		}
	}
	return inputs
}

// KinematicParams lists the inputs with their documentation.
func (p *ObjectParticle) KinematicParams() []domain.KinematicParam {
	var params []domain.KinematicParam
	for _, v := range p.inputs() {
		comment := ""
		if v.Doc != nil {
			comment = *v.Doc
		} else if v.Comment != nil {
			comment = *v.Comment
		}

		doc := ""
		if comment != "" {
			comment = substituteFiles(comment, p.model.externalFiles)
			doc = strings.Join(cleanDoc(literalSymbols(comment, p.model.symbols.Lookup)), "\n")
		}

		typ := ""
		if v.Type != nil {
			typ = v.Type.Class
		}
		params = append(params, domain.KinematicParam{Name: v.Name, Type: typ, Documentation: doc})
	}
	return params
}

// KinematicImages lists the image files of the block: one overview image
// followed by one image per input.
func (p *ObjectParticle) KinematicImages() []string {
	images := []string{Normalize(p.Name()) + ".svg"}
	id := p.KinematicsID()
	for _, v := range p.inputs() {
		images = append(images, fmt.Sprintf("%s-%s.svg", Normalize(v.Name), id))
	}
	return images
}

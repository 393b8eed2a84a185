package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Declaration areas of a content document.
const (
	AreaDataTypes     = "DataTypes"
	AreaInterfaces    = "Interfaces"
	AreaGlobalObjects = "GlobalObjects"
	AreaPOUs          = "POUs"
)

// Sub-collections of a declaration that hold nested declarations.
const (
	SubMethods     = "Methods"
	SubProperties  = "Properties"
	SubActions     = "Actions"
	SubTransitions = "Transitions"
	SubAccessors   = "Accessors"
)

// Areas lists the declaration areas in the order they are scanned.
var Areas = []string{AreaDataTypes, AreaInterfaces, AreaGlobalObjects, AreaPOUs}

// Document is the JSON export of a library.
// It is loaded once and treated as read-only by the content model.
type Document struct {
	// FileHeader holds export metadata (creationDateTime, version, ...).
	FileHeader map[string]any `json:"FileHeader"`

	// ProjectInformation holds typed project properties.
	ProjectInformation map[string]ProjectInfoEntry `json:"ProjectInformation"`

	// Libraries holds referenced libraries keyed by reference name.
	Libraries map[string]map[string]any `json:"Libraries"`

	DataTypes     map[string]*Declaration `json:"DataTypes"`
	Interfaces    map[string]*Declaration `json:"Interfaces"`
	GlobalObjects map[string]*Declaration `json:"GlobalObjects"`
	POUs          map[string]*Declaration `json:"POUs"`

	// ProjectStructure is the declared folder/object tree.
	ProjectStructure *StructureNode `json:"ProjectStructure"`

	// ExternalFiles holds files attached to the library.
	ExternalFiles map[string]ExternalFile `json:"ExternalFiles,omitempty"`
}

// Area returns the declaration area with the given name, or nil.
func (d *Document) Area(name string) map[string]*Declaration {
	switch name {
	case AreaDataTypes:
		return d.DataTypes
	case AreaInterfaces:
		return d.Interfaces
	case AreaGlobalObjects:
		return d.GlobalObjects
	case AreaPOUs:
		return d.POUs
	default:
		return nil
	}
}

// ProjectInfoEntry is a typed project property.
type ProjectInfoEntry struct {
	Type    string `json:"Type"`
	Content any    `json:"Content"`
}

// ExternalFile is a file attached to the library.
type ExternalFile struct {
	Embedded bool   `json:"Embedded"`
	Filename string `json:"Filename"`
}

// StructureNode is one entry in the declared project structure.
// It references either a declaration (Object) or a folder (Folder).
type StructureNode struct {
	// Object is a dotted path into a declaration area,
	// e.g. "POUs.FB_Motor.Methods.Start".
	Object string `json:"Object,omitempty"`

	// Folder is the folder label.
	Folder string `json:"Folder,omitempty"`

	// Content lists nested nodes.
	Content []*StructureNode `json:"Content,omitempty"`

	// Doc is free text attached to a folder.
	Doc *string `json:"Doc,omitempty"`
}

// IsObject reports whether the node references a declaration.
func (n *StructureNode) IsObject() bool {
	return n.Object != ""
}

// IsFolder reports whether the node is a folder.
func (n *StructureNode) IsFolder() bool {
	return n.Object == "" && n.Folder != ""
}

// Declaration is the type or member payload referenced by an object node.
type Declaration struct {
	ObjectType      string                `json:"ObjectType,omitempty"`
	Name            string                `json:"Name"`
	ReturnType      string                `json:"ReturnType,omitempty"`
	Extends         *TypeRef              `json:"Extends,omitempty"`
	Implements      []string              `json:"Implements,omitempty"`
	AccessModifiers []string              `json:"AccessModifiers,omitempty"`
	Attributes      map[string]*Attribute `json:"Attributes,omitempty"`
	InheritedFrom   string                `json:"InheritedFrom,omitempty"`
	Verbatim        string                `json:"Verbatim,omitempty"`

	ObjectProperties []ObjectProperty `json:"ObjectProperties,omitempty"`

	Variables []Variable `json:"Variables,omitempty"`
	Members   []Variable `json:"Members,omitempty"`

	Methods     map[string]*Declaration `json:"Methods,omitempty"`
	Properties  map[string]*Declaration `json:"Properties,omitempty"`
	Actions     map[string]*Declaration `json:"Actions,omitempty"`
	Transitions map[string]*Declaration `json:"Transitions,omitempty"`
	Accessors   map[string]*Declaration `json:"Accessors,omitempty"`

	Doc     *string `json:"Doc,omitempty"`
	Comment string  `json:"Comment,omitempty"`

	STDeclaration    *string `json:"STDeclaration,omitempty"`
	STImplementation *string `json:"STImplementation,omitempty"`
}

// Sub returns the nested declaration collection with the given name, or nil.
func (d *Declaration) Sub(name string) map[string]*Declaration {
	switch name {
	case SubMethods:
		return d.Methods
	case SubProperties:
		return d.Properties
	case SubActions:
		return d.Actions
	case SubTransitions:
		return d.Transitions
	case SubAccessors:
		return d.Accessors
	default:
		return nil
	}
}

// ItemList returns Variables, falling back to Members.
func (d *Declaration) ItemList() []Variable {
	if d.Variables != nil {
		return d.Variables
	}
	return d.Members
}

// ExcludedFromBuild reports whether the declaration is not part of the build:
// it has no ObjectType or carries ExcludeFromBuildLocal=true.
func (d *Declaration) ExcludedFromBuild() bool {
	if d.ObjectType == "" {
		return true
	}
	for _, prop := range d.ObjectProperties {
		if prop.Name != "ExcludeFromBuildLocal" {
			continue
		}
		switch v := prop.Value.(type) {
		case string:
			if v == "true" {
				return true
			}
		case bool:
			if v {
				return true
			}
		}
	}
	return false
}

// TypeRef references a type, optionally with its verbatim spelling.
type TypeRef struct {
	Class    string   `json:"Class,omitempty"`
	Verbatim string   `json:"Verbatim,omitempty"`
	BaseType *TypeRef `json:"BaseType,omitempty"`
}

// Attribute is a pragma attribute. A nil Value means the attribute has no value.
type Attribute struct {
	Value *string `json:"Value,omitempty"`
}

// UnmarshalJSON accepts string, number and boolean values.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value *Scalar `json:"Value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Value = nil
	if raw.Value != nil {
		v := string(*raw.Value)
		a.Value = &v
	}
	return nil
}

// Scalar is a JSON string, number or boolean kept as text.
// Non-string values keep their JSON spelling, null decodes to "".
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("%w: expected a scalar, got %s", ErrContent, data)
	default:
		*s = Scalar(data)
	}
	return nil
}

// ObjectProperty is a build property of a declaration.
type ObjectProperty struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// Variable is a declared variable or enum/struct member.
type Variable struct {
	Name          string                `json:"Name"`
	Scope         []string              `json:"Scope,omitempty"`
	Type          *TypeRef              `json:"Type,omitempty"`
	Initial       Scalar                `json:"Initial,omitempty"`
	Value         Scalar                `json:"Value,omitempty"`
	Address       string                `json:"Address,omitempty"`
	InheritedFrom string                `json:"InheritedFrom,omitempty"`
	Doc           *string               `json:"Doc,omitempty"`
	Comment       *string               `json:"Comment,omitempty"`
	Attributes    map[string]*Attribute `json:"Attributes,omitempty"`
}

package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Area(t *testing.T) {
	doc := &Document{
		DataTypes:     map[string]*Declaration{"E_Color": {Name: "E_Color"}},
		Interfaces:    map[string]*Declaration{},
		GlobalObjects: map[string]*Declaration{},
		POUs:          map[string]*Declaration{"MAIN": {Name: "MAIN"}},
	}

	assert.Contains(t, doc.Area(AreaDataTypes), "E_Color")
	assert.Contains(t, doc.Area(AreaPOUs), "MAIN")
	assert.Nil(t, doc.Area("Visualizations"))
}

func TestDeclaration_Sub(t *testing.T) {
	decl := &Declaration{
		Methods:    map[string]*Declaration{"Start": {Name: "Start"}},
		Properties: map[string]*Declaration{"Speed": {Name: "Speed"}},
	}

	assert.Contains(t, decl.Sub(SubMethods), "Start")
	assert.Contains(t, decl.Sub(SubProperties), "Speed")
	assert.Nil(t, decl.Sub(SubActions))
	assert.Nil(t, decl.Sub("Unknown"))
}

func TestDeclaration_ItemList(t *testing.T) {
	withVars := &Declaration{Variables: []Variable{{Name: "a"}}}
	withMembers := &Declaration{Members: []Variable{{Name: "Red"}}}

	assert.Equal(t, "a", withVars.ItemList()[0].Name)
	assert.Equal(t, "Red", withMembers.ItemList()[0].Name)
}

func TestDeclaration_ExcludedFromBuild(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want bool
	}{
		{name: "no object type", decl: Declaration{Name: "X"}, want: true},
		{name: "plain", decl: Declaration{Name: "X", ObjectType: "Program"}, want: false},
		{
			name: "excluded string",
			decl: Declaration{Name: "X", ObjectType: "Program", ObjectProperties: []ObjectProperty{
				{Name: "ExcludeFromBuildLocal", Value: "true"},
			}},
			want: true,
		},
		{
			name: "excluded bool",
			decl: Declaration{Name: "X", ObjectType: "Program", ObjectProperties: []ObjectProperty{
				{Name: "ExcludeFromBuildLocal", Value: true},
			}},
			want: true,
		},
		{
			name: "not excluded",
			decl: Declaration{Name: "X", ObjectType: "Program", ObjectProperties: []ObjectProperty{
				{Name: "ExcludeFromBuildLocal", Value: "false"},
			}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decl.ExcludedFromBuild())
		})
	}
}

func TestStructureNode_Kinds(t *testing.T) {
	var nodes []*StructureNode
	require.NoError(t, json.Unmarshal([]byte(`[
		{"Object": "POUs.MAIN"},
		{"Folder": "Utils", "Content": [], "Doc": "Helpers"}
	]`), &nodes))

	assert.True(t, nodes[0].IsObject())
	assert.False(t, nodes[0].IsFolder())
	assert.True(t, nodes[1].IsFolder())
	require.NotNil(t, nodes[1].Doc)
	assert.Equal(t, "Helpers", *nodes[1].Doc)
}

func TestScalar_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Scalar
	}{
		{`"0"`, "0"},
		{`8`, "8"},
		{`-1.5`, "-1.5"},
		{`true`, "true"},
		{`null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s Scalar
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
		})
	}

	var s Scalar
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"a": 1}`), &s), ErrContent)
}

func TestAttribute_UnmarshalJSON(t *testing.T) {
	var attrs map[string]*Attribute
	require.NoError(t, json.Unmarshal([]byte(`{"flag": {"Value": true}, "level": {"Value": 3}, "hide": {}}`), &attrs))

	require.NotNil(t, attrs["flag"].Value)
	assert.Equal(t, "true", *attrs["flag"].Value)
	require.NotNil(t, attrs["level"].Value)
	assert.Equal(t, "3", *attrs["level"].Value)
	assert.Nil(t, attrs["hide"].Value)
}

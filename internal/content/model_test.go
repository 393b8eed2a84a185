package content

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
	"github.com/custodia-labs/libdoc-cli/internal/pathmap"
)

const fixture = `{
	"FileHeader": {"creationDateTime": "2024-03-01T10:00:00", "version": "1.0"},
	"ProjectInformation": {
		"Title": {"Type": "string", "Content": "Motion"},
		"Description": {"Type": "string", "Content": "Library for |FB_Motor|."},
		"LastModificationDateTime": {"Type": "date", "Content": "2024-03-02T12:30:00"}
	},
	"Libraries": {
		"Util": {"DefaultResolution": "Util, * (System)"},
		"Standard": {"DefaultResolution": "Standard, 3.5.17.0 (System)"}
	},
	"DataTypes": {
		"E_State": {"ObjectType": "Enum", "Name": "E_State",
			"Members": [{"Name": "Idle", "Value": "0"}, {"Name": "Run", "Value": "(1)"}]}
	},
	"Interfaces": {
		"I_Drive": {"ObjectType": "Interface", "Name": "I_Drive",
			"Methods": {"Move": {"ObjectType": "Method", "Name": "Move"}}}
	},
	"GlobalObjects": {
		"Globals": {"ObjectType": "GVL", "Name": "Globals",
			"Variables": [{"Name": "Flag", "Scope": ["global"], "Type": {"Class": "BOOL"}}]}
	},
	"POUs": {
		"FB_Motor": {
			"ObjectType": "FunctionBlock", "Name": "FB_Motor",
			"Verbatim": "FUNCTION_BLOCK FB_Motor IMPLEMENTS I_Drive",
			"Implements": ["I_Drive"],
			"Doc": "Drives a motor.\n\nSee |E_State| and |Nope|.\n:return: nothing",
			"Variables": [
				{"Name": "bEnable", "Scope": ["input"], "Type": {"Class": "BOOL"}, "Doc": "Enable @(logo)"},
				{"Name": "eState", "Scope": ["output"], "Type": {"Class": "E_State"}, "Initial": "E_State.Idle"},
				{"Name": "nTemp", "Scope": ["temp"], "Type": {"Class": "INT"}}
			],
			"Methods": {
				"Start": {"ObjectType": "Method", "Name": "Start", "ReturnType": "BOOL", "AccessModifiers": ["public"]},
				"Move": {"ObjectType": "Method", "Name": "Move", "InheritedFrom": "FB_Base"}
			},
			"Actions": {
				"Reset": {"ObjectType": "Action", "Name": "Reset",
					"STImplementation": "// Resets the drive\n// to idle\neState := E_State.Idle;"}
			}
		},
		"MAIN": {"ObjectType": "Program", "Name": "MAIN"},
		"Visu": {"ObjectType": "Visualization", "Name": "Visu"}
	},
	"ProjectStructure": {"Content": [
		{"Folder": "Drives", "Doc": "Drive blocks of |Globals|", "Content": [
			{"Object": "POUs.FB_Motor", "Content": [
				{"Object": "POUs.FB_Motor.Methods.Start"},
				{"Object": "POUs.FB_Motor.Actions.Reset"}
			]},
			{"Object": "POUs.Missing"},
			{"Object": "POUs.Visu"}
		]},
		{"Object": "DataTypes.E_State"},
		{"Object": "GlobalObjects.Globals"},
		{"Object": "Interfaces.I_Drive"}
	]},
	"ExternalFiles": {
		"logo": {"Embedded": true, "Filename": "logo.png"},
		"linked": {"Embedded": false, "Filename": "linked.png"}
	}
}`

func loadFixture(t *testing.T, opts Options) *Model {
	t.Helper()
	m, err := Parse([]byte(fixture), "motion.json", opts)
	require.NoError(t, err)
	return m
}

func objectParticle(t *testing.T, m *Model, key string) *ObjectParticle {
	t.Helper()
	p, ok := m.Particles().Get(key)
	require.True(t, ok, key)
	obj, ok := p.(*ObjectParticle)
	require.True(t, ok, key)
	return obj
}

func TestModel_Traversal(t *testing.T) {
	m := loadFixture(t, Options{})

	assert.Equal(t, []string{
		".",
		".fld-Drives",
		".fld-Drives.FB_Motor",
		".fld-Drives.FB_Motor.Start",
		".fld-Drives.FB_Motor.Reset",
		".E_State",
		".Globals",
		".I_Drive",
	}, m.Particles().Keys())

	root, _ := m.Particles().Get(RootKey)
	assert.Equal(t, TypeIndex, root.Type())
	assert.Equal(t, 0, root.Depth())

	start, _ := m.Particles().Get(".fld-Drives.FB_Motor.Start")
	assert.Equal(t, 3, start.Depth())
	assert.Equal(t, ".fld-Drives.FB_Motor", start.Parent())
	assert.Equal(t, []string{".fld-Drives.FB_Motor.Start", ".fld-Drives.FB_Motor.Reset"},
		m.Particles().ChildKeys(".fld-Drives.FB_Motor"))
}

func TestModel_ParticleVariants(t *testing.T) {
	m := loadFixture(t, Options{})

	folder, _ := m.Particles().Get(".fld-Drives")
	assert.IsType(t, &FolderParticle{}, folder)
	assert.Equal(t, "Folder", folder.Type())
	assert.Equal(t, ".. _`fld-Drives`:", folder.Target())

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	assert.Equal(t, "FunctionBlock", motor.Type())
	assert.Equal(t, "FB_Motor", motor.Name())
	assert.Equal(t, ".. _`FB_Motor`:", motor.Target())
	assert.True(t, motor.HasSubParticles())

	start := objectParticle(t, m, ".fld-Drives.FB_Motor.Start")
	assert.Equal(t, "FB_Motor.Start", start.Name())
	assert.False(t, start.HasSubParticles())

	reset := objectParticle(t, m, ".fld-Drives.FB_Motor.Reset")
	assert.Equal(t, "Action", reset.Type())
	assert.Equal(t, "Resets the drive\nto idle", reset.Doc())
}

func TestModel_SkipsMissingAndUnsupported(t *testing.T) {
	m := loadFixture(t, Options{})

	for _, key := range m.Particles().Keys() {
		assert.NotContains(t, key, "Missing")
		assert.NotContains(t, key, "Visu")
	}
	assert.Equal(t, 8, m.Particles().Len())
}

func TestModel_Paths(t *testing.T) {
	m := loadFixture(t, Options{})

	tests := []struct {
		key      string
		filename string
	}{
		{".", "index.rst"},
		{".fld-Drives", "Drives/fld-Drives.rst"},
		{".fld-Drives.FB_Motor", "Drives/FB_Motor.rst"},
		{".fld-Drives.FB_Motor.Start", "Drives/pou-FB_Motor/Start.rst"},
		{".E_State", "E_State.rst"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, ok := m.Particles().Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.filename, p.Filename())
		})
	}

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	assert.Equal(t, "Drives/pou-FB_Motor", motor.SubParticlePath())
	assert.Equal(t, "POUs/FB_Motor.dcl", motor.DclFilename())
	start := objectParticle(t, m, ".fld-Drives.FB_Motor.Start")
	assert.Equal(t, "POUs/FB_Motor.Start.imp", start.ImpFilename())
}

func TestModel_TOC(t *testing.T) {
	m := loadFixture(t, Options{})

	root, _ := m.Particles().Get(RootKey)
	toc, err := root.TOC()
	require.NoError(t, err)
	assert.Equal(t, []string{"/Drives/fld-Drives", "/E_State", "/Globals", "/I_Drive"}, toc)

	folder, _ := m.Particles().Get(".fld-Drives")
	toc, err = folder.TOC()
	require.NoError(t, err)
	assert.Equal(t, []string{"/Drives/FB_Motor", "/Drives/Missing", "/Drives/Visu"}, toc)

	motor, _ := m.Particles().Get(".fld-Drives.FB_Motor")
	toc, err = motor.TOC()
	require.NoError(t, err)
	assert.Equal(t, []string{"/Drives/pou-FB_Motor/Reset", "/Drives/pou-FB_Motor/Start"}, toc)
}

func TestModel_Condensed(t *testing.T) {
	m := loadFixture(t, Options{Condensed: true, SlugLength: 4})

	drives := pathmap.Digest("Drives")
	motorDir := pathmap.Digest("Drives/pou-FB_Motor")

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	assert.Equal(t, drives, motor.Path())
	assert.Equal(t, drives+"/FB_M.rst", motor.Filename())
	assert.Equal(t, motorDir, motor.SubParticlePath())

	start := objectParticle(t, m, ".fld-Drives.FB_Motor.Start")
	assert.Equal(t, motorDir+"/Star.rst", start.Filename())

	folder, _ := m.Particles().Get(".fld-Drives")
	assert.Equal(t, drives+"/fld-Drives.rst", folder.Filename())
	toc, err := folder.TOC()
	require.NoError(t, err)
	assert.Contains(t, toc, "/"+drives+"/FB_M")

	motorTOC, err := motor.TOC()
	require.NoError(t, err)
	assert.Equal(t, []string{"/" + motorDir + "/Rese", "/" + motorDir + "/Star"}, motorTOC)

	// root level objects are not mapped
	state, _ := m.Particles().Get(".E_State")
	assert.Equal(t, "E_St.rst", state.Filename())

	table := m.MappingTable()
	assert.Equal(t, "Drives", table[drives])
	assert.Equal(t, "Drives/pou-FB_Motor", table[motorDir])
	assert.Len(t, m.Mapping(), 2)
	assert.True(t, m.Condensed())
}

func TestModel_SubParticlePathIsMapped(t *testing.T) {
	doc := `{
		"FileHeader": {}, "ProjectInformation": {}, "Libraries": {},
		"DataTypes": {}, "Interfaces": {}, "GlobalObjects": {},
		"POUs": {
			"FB_Lone": {"ObjectType": "FunctionBlock", "Name": "FB_Lone"},
			"FB_Leaf": {"ObjectType": "FunctionBlock", "Name": "FB_Leaf"}
		},
		"ProjectStructure": {"Content": [
			{"Folder": "Drives", "Content": [
				{"Object": "POUs.FB_Lone", "Content": [{"Object": "POUs.FB_Lone.Methods.Gone"}]},
				{"Object": "POUs.FB_Leaf"}
			]}
		]}
	}`
	m, err := Parse([]byte(doc), "lone.json", Options{Condensed: true, SlugLength: 16})
	require.NoError(t, err)

	lone := objectParticle(t, m, ".fld-Drives.FB_Lone")
	require.True(t, lone.HasSubParticles())
	assert.Equal(t, "Drives/pou-FB_Lone", m.MappingTable()[lone.SubParticlePath()])

	leaf := objectParticle(t, m, ".fld-Drives.FB_Leaf")
	assert.False(t, leaf.HasSubParticles())
	assert.NotContains(t, m.MappingTable(), leaf.SubParticlePath())
}

func TestModel_LogsSkippedObjects(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	loadFixture(t, Options{})

	assert.Contains(t, buf.String(), "[DEBUG] skipping POUs.Missing: declaration not found")
	assert.Contains(t, buf.String(), "[DEBUG] skipping POUs.Visu: unsupported type Visualization")
}

func TestModel_NonCondensedHasNoMapping(t *testing.T) {
	m := loadFixture(t, Options{})

	assert.Nil(t, m.Mapping())
	assert.Nil(t, m.MappingTable())
}

func TestModel_Doc(t *testing.T) {
	m := loadFixture(t, Options{})

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	assert.Equal(t,
		"Drives a motor.\n\nSee |E_State| and \\|Nope\\|.\n\n.. |E_State| replace:: :ref:`E_State<E_State>`",
		motor.Doc())

	root, _ := m.Particles().Get(RootKey)
	assert.Equal(t, "Library for |FB_Motor|.\n\n.. |FB_Motor| replace:: :ref:`FB_Motor<FB_Motor>`", root.Doc())

	folder, _ := m.Particles().Get(".fld-Drives")
	assert.Equal(t, "Drive blocks of |Globals|\n\n.. |Globals| replace:: :ref:`Globals<Globals>`", folder.Doc())
}

func TestModel_Signature(t *testing.T) {
	m := loadFixture(t, Options{})

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	assert.Equal(t,
		"FUNCTION_BLOCK FB_Motor IMPLEMENTS |dI_Drive|\n\n.. |dI_Drive| replace:: :ref:`I_Drive<I_Drive>`",
		motor.Signature())

	start := objectParticle(t, m, ".fld-Drives.FB_Motor.Start")
	assert.Equal(t, "METHOD PUBLIC Start : BOOL", start.Signature())
}

func TestModel_InheritedReferences(t *testing.T) {
	m := loadFixture(t, Options{})

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	require.True(t, motor.HasInheritedParticles())
	assert.Equal(t, []InheritedRef{{
		Scope:      ScopeExternal,
		ParentType: "FunctionBlock",
		ParentName: "FB_Base",
		ChildArea:  "Methods",
		Name:       "Move",
	}}, motor.Inherited())

	member := m.ExternalRefs()["FunctionBlock"]["FB_Base"]["Methods"]["Move"]
	require.NotNil(t, member)
	assert.Equal(t, "Move", member.Name)
}

func TestModel_InternalInheritance(t *testing.T) {
	doc := strings.Replace(fixture, `"MAIN": {"ObjectType": "Program", "Name": "MAIN"}`,
		`"FB_Base": {"ObjectType": "FunctionBlock", "Name": "FB_Base"}`, 1)
	m, err := Parse([]byte(doc), "motion.json", Options{})
	require.NoError(t, err)

	motor := objectParticle(t, m, ".fld-Drives.FB_Motor")
	require.Len(t, motor.Inherited(), 1)
	assert.Equal(t, ScopeInternal, motor.Inherited()[0].Scope)
	assert.Empty(t, m.ExternalRefs())
}

func TestModel_SymbolsIncludeFolders(t *testing.T) {
	m := loadFixture(t, Options{})

	target, ok := m.Symbols().Lookup("FLD-DRIVES")
	assert.True(t, ok)
	assert.Equal(t, "fld-Drives", target)
	assert.True(t, m.Symbols().Has("FB_Motor.Start"))
	assert.False(t, m.Symbols().Has("Start"))
}

func TestModel_Info(t *testing.T) {
	m := loadFixture(t, Options{})
	info := m.Info()

	title, ok := info.Get("ProjectInformation.Title")
	assert.True(t, ok)
	assert.Equal(t, "Motion", title)
	assert.Equal(t, "1.0", info.String("version"))
	assert.Equal(t, "motion.json", info.String("FileHeader.contentFile"))
	assert.False(t, info.Has("Unknown.Title"))
	assert.False(t, info.Has("Nothing"))

	assert.Equal(t, []string{
		"FileHeader.contentFile",
		"FileHeader.creationDateTime",
		"FileHeader.version",
		"ProjectInformation.Description",
		"ProjectInformation.LastModificationDateTime",
		"ProjectInformation.Title",
	}, info.Keys())

	table := info.Table()
	require.Len(t, table.Body, 6)
	assert.Equal(t, "date", table.Body[1].Type)
	assert.Equal(t, []string{"See: :ref:`Description <index_description>`"}, table.Body[3].Content)
	for _, row := range table.Body {
		for _, line := range row.Content {
			assert.LessOrEqual(t, len(line), 50)
		}
	}
}

func TestModel_SetConfig(t *testing.T) {
	m := loadFixture(t, Options{})

	err := m.SetConfig(domain.BuildConfig{
		SourceSuffix: ".txt",
		MasterDoc:    "start",
		Timezone:     "UTC",
		DateLayout:   "2006-01-02 15:04",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01 10:00", m.Info().String("creationDateTime"))
	assert.Equal(t, "2024-03-02 12:30", m.Info().String("LastModificationDateTime"))

	root, _ := m.Particles().Get(RootKey)
	assert.Equal(t, "start.txt", root.Filename())
	state, _ := m.Particles().Get(".E_State")
	assert.Equal(t, "E_State.txt", state.Filename())

	// applying twice renders from the original timestamps
	require.NoError(t, m.SetConfig(domain.BuildConfig{Timezone: "UTC", DateLayout: "2006"}))
	assert.Equal(t, "2024", m.Info().String("creationDateTime"))
}

func TestModel_SetConfigInvalidTimezone(t *testing.T) {
	m := loadFixture(t, Options{})

	err := m.SetConfig(domain.BuildConfig{Timezone: "Nowhere/City"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestModel_Libraries(t *testing.T) {
	m := loadFixture(t, Options{})

	libs := m.Libraries()
	require.Len(t, libs, 2)
	assert.Equal(t, "Standard", libs[0].Name)
	assert.Equal(t, "3.5.17.0", libs[0].Version)
	assert.Equal(t, "System", libs[0].Company)
	assert.Equal(t, "Util", libs[1].Name)
	assert.Equal(t, "*", libs[1].Version)
}

func TestModel_ExternalFiles(t *testing.T) {
	m := loadFixture(t, Options{})

	assert.Equal(t, map[string]string{"logo": "logo.png"}, m.ExternalFiles())
}

func TestModel_Describe(t *testing.T) {
	m := loadFixture(t, Options{})

	info, err := m.Describe(".fld-Drives.FB_Motor")
	require.NoError(t, err)
	assert.Equal(t, "FB_Motor", info.Name)
	assert.Equal(t, "FunctionBlock", info.Type)
	assert.Equal(t, 2, info.Depth)
	assert.Len(t, info.TOC, 2)
	assert.Len(t, info.Children, 2)
	assert.NotEmpty(t, info.Declaration)
	assert.Equal(t, ".. _`FB_Motor`:", info.Target)
	assert.Equal(t, "Drives/pou-FB_Motor", info.SubParticlePath)
	assert.Nil(t, info.Source)
	assert.Nil(t, info.Kinematics)

	require.NotNil(t, info.Table)
	assert.Equal(t, "FB_Motor", info.Table.Title)
	require.Len(t, info.Table.Columns, 8)
	assert.Equal(t, ColumnScope, info.Table.Columns[0].Title)
	require.Len(t, info.Table.Rows, 2)
	assert.Contains(t, info.Table.Rows[0][1], "bEnable")
	assert.Len(t, info.Table.Rows[0], len(info.Table.Columns))

	start, err := m.Describe(".fld-Drives.FB_Motor.Start")
	require.NoError(t, err)
	assert.Empty(t, start.SubParticlePath)
	assert.Nil(t, start.Table)

	_, err = m.Describe(".nothing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "motion.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	m, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "motion.json", m.Name())

	_, err = Load(filepath.Join(dir, "missing.json"), Options{})
	assert.ErrorIs(t, err, domain.ErrContent)
}

func TestParse_Errors(t *testing.T) {
	base := `"FileHeader": {}, "ProjectInformation": {}, "Libraries": {},
		"DataTypes": {"X": {"Name": "X"}}, "Interfaces": {}, "GlobalObjects": {},`

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"invalid json", `{`, domain.ErrContent},
		{"missing areas", `{"FileHeader": {}, "ProjectStructure": {}}`, domain.ErrContent},
		{
			"unexpected node",
			`{` + base + `"POUs": {}, "ProjectStructure": {"Content": [{"Doc": "x"}]}}`,
			domain.ErrContent,
		},
		{
			"missing object type",
			`{` + base + `"POUs": {}, "ProjectStructure": {"Content": [{"Object": "DataTypes.X"}]}}`,
			domain.ErrContent,
		},
		{
			"malformed reference",
			`{` + base + `"POUs": {}, "ProjectStructure": {"Content": [{"Object": "DataTypes.X.Methods"}]}}`,
			domain.ErrContent,
		},
		{
			"duplicate sibling folders",
			`{` + base + `"POUs": {}, "ProjectStructure": {"Content": [{"Folder": "A"}, {"Folder": "A"}]}}`,
			domain.ErrDuplicateSiblingName,
		},
		{
			"bad timestamp",
			`{"FileHeader": {"creationDateTime": "yesterday"}, "ProjectInformation": {}, "Libraries": {},
			"DataTypes": {}, "Interfaces": {}, "GlobalObjects": {}, "POUs": {}, "ProjectStructure": {}}`,
			domain.ErrContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "bad.json", Options{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

package services

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driven/storage/memory"
)

const contentFixture = `{
	"FileHeader": {"creationDateTime": "2024-03-01T10:00:00", "version": "1.0"},
	"ProjectInformation": {
		"Title": {"Type": "string", "Content": "Motion"},
		"Version": {"Type": "version", "Content": "1.2.0.0"}
	},
	"Libraries": {
		"Standard": {"DefaultResolution": "Standard, 3.5.17.0 (System)"}
	},
	"DataTypes": {
		"E_State": {"ObjectType": "Enum", "Name": "E_State",
			"Members": [{"Name": "Idle", "Value": "0"}, {"Name": "Run", "Value": "1"}]}
	},
	"Interfaces": {},
	"GlobalObjects": {},
	"POUs": {
		"FB_Motor": {
			"ObjectType": "FunctionBlock", "Name": "FB_Motor",
			"Doc": "Drives a motor in state |E_State|.",
			"Methods": {
				"Start": {"ObjectType": "Method", "Name": "Start", "AccessModifiers": ["public"]},
				"Tune": {"ObjectType": "Method", "Name": "Tune", "AccessModifiers": ["internal"]}
			}
		},
		"MAIN": {"ObjectType": "Program", "Name": "MAIN", "AccessModifiers": ["INTERNAL"],
			"Attributes": {"hide": {}}}
	},
	"ProjectStructure": {"Content": [
		{"Folder": "Drives", "Content": [
			{"Object": "POUs.FB_Motor", "Content": [
				{"Object": "POUs.FB_Motor.Methods.Start"},
				{"Object": "POUs.FB_Motor.Methods.Tune"}
			]}
		]},
		{"Folder": "Utils", "Content": [{"Object": "POUs.MAIN"}]},
		{"Object": "DataTypes.E_State"}
	]}
}`

// writeContent writes the fixture as name into a new temporary directory.
func writeContent(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contentFixture), 0o600))
	return path
}

// newSettings returns a settings service over a memory store rendering
// dates in UTC.
func newSettings(t *testing.T, values map[string]any) *SettingsService {
	t.Helper()
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("build.timezone", "UTC"))
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	return NewSettingsService(store)
}

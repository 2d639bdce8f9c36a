package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCommand(t *testing.T) {
	path := testScenePath(t)

	tests := []struct {
		name           string
		args           []string
		json           bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "struct list",
			args:           []string{path},
			wantContain:    []string{"Link", "ID", "Material", "Object"},
			wantNotContain: []string{"loc[3]"},
		},
		{
			name:        "one struct",
			args:        []string{path, "Object"},
			wantContain: []string{"Object (64 bytes)", "id.name[24]", "*parent", "**mat", "loc[3]", "float"},
		},
		{
			name:        "one struct as JSON",
			args:        []string{path, "Material"},
			json:        true,
			wantContain: []string{`"name": "Material"`, `"len": 42`, `"path": "r"`},
		},
		{
			name:    "unknown struct",
			args:    []string{path, "Camera"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json

			output, err := captureOutput(t, func() error {
				return runSchema(tt.args)
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestSchemaCommand_ExportAndRelink(t *testing.T) {
	path := testScenePath(t)
	export := filepath.Join(t.TempDir(), "scene.sdna")

	resetFlags()
	schemaExport = export
	output, err := captureOutput(t, func() error { return runSchema([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Exported 4 structs")

	raw, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Equal(t, "SDNA", string(raw[:4]))

	// the exported blob relinks the file it came from without differences
	resetFlags()
	schemaPath = export
	output, err = captureOutput(t, func() error { return runLink([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, output, "4 struct(s) linked cleanly, 0 with differences")
}

func TestSchemaCommand_BadOrder(t *testing.T) {
	resetFlags()
	schemaExport = filepath.Join(t.TempDir(), "x.sdna")
	schemaOrder = "middle"

	_, err := captureOutput(t, func() error { return runSchema([]string{testScenePath(t)}) })
	require.Error(t, err)
}

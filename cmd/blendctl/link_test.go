package main

import (
	"encoding/binary"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/pkg/blend"
)

// evolvedSchema widens Material.r, replaces g with b and adds Camera.
func evolvedSchema(t *testing.T) string {
	t.Helper()
	blob := dna.NewBuilder(8, binary.LittleEndian).
		Struct("Link", dna.M("Link", "*next"), dna.M("Link", "*prev")).
		Struct("ID", dna.M("void", "*next"), dna.M("char", "name[24]"), dna.M("short", "flag")).
		Struct("Material", dna.M("ID", "id"), dna.M("double", "r"), dna.M("float", "b")).
		Struct("Object", dna.M("ID", "id"), dna.M("Object", "*parent"), dna.M("Material", "**mat"),
			dna.M("short", "totcol"), dna.M("float", "loc[3]")).
		Struct("Camera", dna.M("ID", "id"), dna.M("float", "lens")).
		MustBytes()
	return writeTemp(t, "evolved.sdna", blob)
}

func TestLinkCommand(t *testing.T) {
	path := testScenePath(t)
	schema := evolvedSchema(t)

	tests := []struct {
		name           string
		all            bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "differences only",
			wantContain: []string{
				"Material:", "missing: b", "cast: r", "removed: g",
				"Camera: not in file",
				"3 struct(s) linked cleanly, 2 with differences",
			},
			wantNotContain: []string{"Object: ok"},
		},
		{
			name:        "all structs",
			all:         true,
			wantContain: []string{"Object: ok", "Link: ok", "Material:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			schemaPath = schema
			linkAll = tt.all

			output, err := captureOutput(t, func() error {
				return runLink([]string{path})
			})
			require.NoError(t, err)
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestLinkCommand_JSON(t *testing.T) {
	resetFlags()
	schemaPath = evolvedSchema(t)
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runLink([]string{testScenePath(t)})
	})
	require.NoError(t, err)

	var reports []blend.StructReport
	require.NoError(t, json.Unmarshal([]byte(output), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "Material", reports[0].Name)
	assert.Equal(t, []string{"r"}, reports[0].Cast)
	assert.Equal(t, "Camera", reports[1].Name)
	assert.False(t, reports[1].Linked)
}

func TestLinkCommand_MissingSchema(t *testing.T) {
	resetFlags()
	schemaPath = "/nonexistent/schema.sdna"

	_, err := captureOutput(t, func() error {
		return runLink([]string{testScenePath(t)})
	})
	require.Error(t, err)
}

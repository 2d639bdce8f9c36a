package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCommand(t *testing.T) {
	path := testScenePath(t)

	tests := []struct {
		name           string
		json           bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "text",
			wantContain: []string{
				"Identifier: BLENDER", "Version: 279", "Pointer size: 8", "Byte order: little",
				"Blocks: 4", "objects: 2", "materials: 1", "Relinked: 3", "Pointer arrays: 1",
			},
			wantNotContain: []string{"Dangling", "Session:"},
		},
		{
			name:        "json",
			json:        true,
			wantContain: []string{`"identifier": "BLENDER"`, `"ptr_size": 8`, `"objects": 2`, `"relinked": 3`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json

			output, err := captureOutput(t, func() error {
				return runInfo([]string{path})
			})
			require.NoError(t, err)
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestInfoCommand_Errors(t *testing.T) {
	resetFlags()

	junk := writeTemp(t, "junk.blend", []byte("hello world, not a blend file"))
	_, err := captureOutput(t, func() error { return runInfo([]string{junk}) })
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = captureOutput(t, func() error { return runInfo([]string{junk + ".missing"}) })
	require.Error(t, err)
	assert.Equal(t, 4, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(assert.AnError))
}

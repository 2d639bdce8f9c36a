package main

import (
	"runtime"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assertContains(t, output, []string{"blendctl ", "commit: ", runtime.Version(), "BLENDER"})

	jsonOut = true
	defer resetFlags()
	output, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, runtime.Version(), info.Go)
	assert.Contains(t, info.Identifiers, "BLENDER")
	assert.NotEmpty(t, info.Version)
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	cmd := newVersionCmd()
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}

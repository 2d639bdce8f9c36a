package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blendkit/pkg/blend"
	"github.com/joshuapare/blendkit/pkg/types"
)

func TestConvertCommand(t *testing.T) {
	in := testScenePath(t)

	tests := []struct {
		name  string
		ptr   int
		order string
		mode  string
	}{
		{name: "32-bit big endian", ptr: 4, order: "big", mode: "plain"},
		{name: "gzip", ptr: 8, order: "little", mode: "gzip"},
		{name: "zstd 32-bit", ptr: 4, order: "little", mode: "zstd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			convertPtr, convertOrder, convertMode = tt.ptr, tt.order, tt.mode
			out := filepath.Join(t.TempDir(), "out.blend")

			output, err := captureOutput(t, func() error {
				return runConvert([]string{in, out})
			})
			require.NoError(t, err)
			assert.Contains(t, output, "3 block(s) relinked, 1 blob(s), 0 dropped")

			// the output carries the requested layout and still relinks
			f, err := blend.Parse(out, &blend.Options{Sink: types.Discard})
			require.NoError(t, err)
			assert.Equal(t, tt.ptr, f.Header.PtrSize)
			assert.Equal(t, tt.order, orderName(f.Header.Order))
			require.Len(t, f.List("objects"), 2)
			assert.Equal(t, "OBCube", f.Name(f.List("objects")[0]))
			assert.Equal(t, "MACafé", f.Name(f.List("materials")[0]))
		})
	}
}

func TestConvertCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	convertMode = "zstd"

	output, err := captureOutput(t, func() error {
		return runConvert([]string{testScenePath(t), filepath.Join(t.TempDir(), "out.blend.zst")})
	})
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"mode": "zstd"`, `"ptr_size": 8`})
}

func TestConvertCommand_BadFlags(t *testing.T) {
	in := testScenePath(t)
	out := filepath.Join(t.TempDir(), "out.blend")

	tests := []struct {
		name  string
		ptr   int
		order string
		mode  string
	}{
		{name: "pointer width", ptr: 2, order: "little", mode: "plain"},
		{name: "byte order", ptr: 8, order: "middle", mode: "plain"},
		{name: "mode", ptr: 8, order: "little", mode: "lzma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			convertPtr, convertOrder, convertMode = tt.ptr, tt.order, tt.mode
			_, err := captureOutput(t, func() error {
				return runConvert([]string{in, out})
			})
			require.Error(t, err)
		})
	}
}

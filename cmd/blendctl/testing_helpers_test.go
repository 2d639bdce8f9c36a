package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/testutil"
)

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	profilePath, schemaPath = "", ""
	chunksCode = ""
	schemaExport, schemaOrder, schemaMemory = "", "", false
	linkAll = false
	blocksList = ""
	convertPtr, convertOrder, convertMode = 8, "little", "plain"
}

func sceneSchema(b *dna.Builder) *dna.Builder {
	return b.
		Struct("Link", dna.M("Link", "*next"), dna.M("Link", "*prev")).
		Struct("ID", dna.M("void", "*next"), dna.M("char", "name[24]"), dna.M("short", "flag")).
		Struct("Material", dna.M("ID", "id"), dna.M("float", "r"), dna.M("float", "g")).
		Struct("Object",
			dna.M("ID", "id"), dna.M("Object", "*parent"), dna.M("Material", "**mat"),
			dna.M("short", "totcol"), dna.M("float", "loc[3]"))
}

// testScenePath writes a small scene (two objects and a material reached
// through a pointer array) and returns its path.
func testScenePath(t *testing.T) string {
	t.Helper()
	le := binary.LittleEndian
	fx := testutil.NewFixture(8, le)
	sceneSchema(fx.Schema)
	fx.Block("OB", "Object", 0x1000, 1,
		testutil.NewPayload(64, 8, le).Str(8, "OBCube").Ptr(34, 0x1100).Ptr(42, 0x3000).U16(50, 1).F32(52, 1).B)
	fx.Block("OB", "Object", 0x1100, 1, testutil.NewPayload(64, 8, le).Str(8, "OBEmpty").B)
	fx.Block("DATA", "Link", 0x3000, 1, testutil.NewPayload(4, 4, le).U32(0, 0x2000).B)
	fx.Block("MA", "Material", 0x2000, 1, testutil.NewPayload(42, 8, le).Str(8, "MACaf\xe9").F32(34, 0.5).B)
	return fx.WriteFile(t, "scene.blend")
}

// writeTemp writes data under a fresh temporary directory.
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}

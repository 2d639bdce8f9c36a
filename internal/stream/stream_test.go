package stream

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payload = []byte("BLENDER-v279 chunk bytes follow here")

func TestDetect(t *testing.T) {
	magic := []byte("BLENDER")
	gz, err := Encode(payload, CompressGzip)
	require.NoError(t, err)
	zs, err := Encode(payload, CompressZstd)
	require.NoError(t, err)

	assert.Equal(t, CompressNone, Detect(payload[:PrefixLen], magic))
	assert.Equal(t, CompressGzip, Detect(gz[:PrefixLen], magic))
	assert.Equal(t, CompressZstd, Detect(zs[:PrefixLen], magic))
	assert.Equal(t, CompressUnknown, Detect([]byte("PK\x03\x04"), magic))
	assert.Equal(t, CompressUnknown, Detect(nil, magic))
}

func TestMemory_ReadSeek(t *testing.T) {
	m := NewMemory(payload)
	require.True(t, m.IsOpen())
	assert.Equal(t, int64(len(payload)), m.Size())

	head := make([]byte, 12)
	n, err := io.ReadFull(m, head)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, "BLENDER-v279", string(head))
	assert.Equal(t, int64(12), m.Position())

	pos, err := m.Seek(-4, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	_, err = m.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, ErrSeek)
	assert.Equal(t, int64(8), m.Position(), "failed seek keeps the position")

	_, err = m.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.True(t, m.EOF())
	_, err = m.Read(head)
	assert.ErrorIs(t, err, io.EOF)

	_, err = m.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrMode)

	require.NoError(t, m.Close())
	_, err = m.Read(head)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestMemory_WriteGap(t *testing.T) {
	m := NewMemoryWriter()
	_, err := m.Write([]byte("ab"))
	require.NoError(t, err)
	_, err = m.Seek(4, io.SeekStart)
	require.NoError(t, err)
	_, err = m.Write([]byte("cd"))
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 'c', 'd'}, m.Bytes())
}

func roundTrip(t *testing.T, c Compression) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.blend")

	w, err := Open(path, ModeWrite, c)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), w.Size())
	require.NoError(t, w.Close())

	got, err := DetectFile(path, []byte("BLENDER"))
	require.NoError(t, err)
	assert.Equal(t, c, got)

	r, err := Open(path, ModeRead, c)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.True(t, r.EOF())
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressNone, CompressGzip, CompressZstd} {
		t.Run(c.String(), func(t *testing.T) { roundTrip(t, c) })
	}
}

func TestFile_OpenTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	var f File
	require.NoError(t, f.Open(path, ModeRead))
	assert.ErrorIs(t, f.Open(path, ModeRead), ErrAlreadyOpen)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path, ModeRead, CompressNone)
	require.NoError(t, err)
	assert.True(t, s.EOF())
	assert.Zero(t, s.Size())
	require.NoError(t, s.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), ModeRead, CompressGzip)
	require.Error(t, err)
	_, err = New(CompressUnknown)
	assert.ErrorIs(t, err, ErrCompression)
}

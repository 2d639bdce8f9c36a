package format

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterLayout(t *testing.T) {
	var out bytes.Buffer
	w, err := NewWriter(&out, Header{Identifier: "BLENDER", PtrSize: 4, Order: binary.LittleEndian, Version: "279"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	payload := []byte{1, 2, 3, 4}
	if err := w.WriteChunk(Chunk{Code: CodeData, Old: 0x40, Count: 1}, payload); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	if err := w.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	b := out.Bytes()
	wantLen := HeaderSize + ChunkHeaderSize32 + len(payload) + ChunkHeaderSize32
	if len(b) != wantLen || w.Written() != int64(wantLen) {
		t.Fatalf("written %d bytes, want %d", len(b), wantLen)
	}
	c, err := DecodeChunk(b[HeaderSize:], 4, binary.LittleEndian, 8)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if c.Len != 4 || c.Old != 0x40 {
		t.Fatalf("unexpected chunk: %+v", c)
	}
	end, _ := DecodeChunk(b[HeaderSize+ChunkHeaderSize32+4:], 4, binary.LittleEndian, 8)
	if end.Code != CodeEnd || end.Len != 0 {
		t.Fatalf("unexpected end chunk: %+v", end)
	}
}

func TestWriterRejectsPointerSize(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, Header{Identifier: "BLENDER", PtrSize: 2}); err == nil {
		t.Fatalf("expected pointer size error")
	}
}

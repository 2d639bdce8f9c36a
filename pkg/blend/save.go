package blend

import (
	"bytes"
	"encoding/binary"

	"github.com/joshuapare/blendkit/internal/buf"
	"github.com/joshuapare/blendkit/internal/chunk"
	"github.com/joshuapare/blendkit/internal/format"
	"github.com/joshuapare/blendkit/internal/relink"
	"github.com/joshuapare/blendkit/internal/stream"
	"github.com/joshuapare/blendkit/pkg/types"
)

// Save writes the file in the memory layout: every relinked block, with
// relinked addresses standing in for old addresses, followed by the memory
// schema. ModeAuto writes an uncompressed file.
//
// Example:
//
//	f, _ := blend.Parse("big-endian-32.blend", nil)
//	err := f.Save("native.blend.gz", blend.ModeGzip)
func (f *File) Save(path string, mode Mode) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	s, err := stream.Open(path, stream.ModeWrite, mode.compression())
	if err != nil {
		return types.Errorf(types.StatusFailed, "save "+path, err)
	}
	if _, err := s.Write(data); err != nil {
		s.Close()
		return types.Errorf(types.StatusFailed, "save "+path, err)
	}
	if err := s.Close(); err != nil {
		return types.Errorf(types.StatusFailed, "save "+path, err)
	}
	return nil
}

// Encode renders the file as Save would, uncompressed.
func (f *File) Encode() ([]byte, error) {
	h := format.Header{
		Identifier: f.profile.Identifiers[0],
		PtrSize:    f.mem.PtrSize,
		Order:      f.mem.Order,
		Version:    f.Header.Version,
	}
	if f.profile.Version != "" {
		h.Version = f.profile.Version
	}

	var out bytes.Buffer
	w, err := format.NewWriter(&out, h)
	if err != nil {
		return nil, types.Errorf(types.StatusFailed, "encode", err)
	}
	blob, ok := f.mem.StructIndex(f.profile.BlobType)
	if !ok {
		blob = 0
	}
	slot := f.profile.PointerArraySlot
	if slot == relink.SlotFilePointer {
		slot = h.PtrSize
	}

	for _, b := range f.Blocks() {
		if !b.Relinked() {
			continue
		}
		c := format.Chunk{Code: b.Code, Old: b.Addr, SDNA: uint32(b.Struct), Count: b.Count}
		if b.Old == 0 {
			c.Old = 0
		}
		payload := b.Data
		if b.Modified {
			payload = packSlots(b.Data, h.PtrSize, slot, h.Order)
		}
		if b.Modified || b.Struct == chunk.NoStruct {
			c.SDNA = uint32(blob)
		}
		if err := w.WriteChunk(c, payload); err != nil {
			return nil, types.Errorf(types.StatusFailed, "encode", err)
		}
	}
	if err := w.WriteChunk(format.Chunk{Code: format.CodeDNA}, f.mem.Encode(h.Order)); err != nil {
		return nil, types.Errorf(types.StatusFailed, "encode", err)
	}
	if err := w.End(); err != nil {
		return nil, types.Errorf(types.StatusFailed, "encode", err)
	}
	return out.Bytes(), nil
}

// packSlots narrows or widens a translated pointer array back into the
// stored slot width.
func packSlots(data []byte, ptr, slot int, order binary.ByteOrder) []byte {
	if ptr == slot {
		return data
	}
	n := len(data) / ptr
	out := make([]byte, n*slot)
	for i := 0; i < n; i++ {
		buf.PutUint(out[i*slot:], slot, buf.Uint(data[i*ptr:], ptr, order), order)
	}
	return out
}

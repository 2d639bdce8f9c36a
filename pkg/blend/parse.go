package blend

import (
	"io"

	"github.com/google/uuid"

	"github.com/joshuapare/blendkit/internal/chunk"
	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/relink"
	"github.com/joshuapare/blendkit/internal/stream"
	"github.com/joshuapare/blendkit/pkg/types"
)

// Parse reads the file at path, detecting compression.
//
// Example:
//
//	f, err := blend.Parse("scene.blend", nil)
//	if types.StatusOf(err) == types.StatusInvalidHeader {
//	    // not a .blend file
//	}
func Parse(path string, opts *Options) (*File, error) {
	return ParseMode(path, ModeAuto, opts)
}

// ParseMode reads the file at path with an explicit compression mode.
func ParseMode(path string, mode Mode, opts *Options) (*File, error) {
	o := opts.withDefaults()
	c := mode.compression()
	if mode == ModeAuto {
		detected, err := stream.DetectFile(path, []byte(o.Profile.Identifiers[0]))
		if err != nil {
			return nil, types.Errorf(types.StatusFailed, "open "+path, err)
		}
		if detected != stream.CompressUnknown {
			c = detected
		}
	}
	s, err := stream.Open(path, stream.ModeRead, c)
	if err != nil {
		return nil, types.Errorf(types.StatusFailed, "open "+path, err)
	}
	defer s.Close()
	return parse(s, o)
}

// ParseBytes reads a file already held in memory.
func ParseBytes(data []byte, mode Mode, opts *Options) (*File, error) {
	o := opts.withDefaults()
	c := mode.compression()
	if mode == ModeAuto {
		if detected := stream.Detect(data, []byte(o.Profile.Identifiers[0])); detected != stream.CompressUnknown {
			c = detected
		}
	}
	raw, err := stream.Decode(data, c)
	if err != nil {
		return nil, types.Errorf(types.StatusFailed, "decode "+c.String(), err)
	}
	return parse(stream.NewMemory(raw), o)
}

func parse(r io.Reader, o Options) (*File, error) {
	id := uuid.New()
	o.Sink = types.WithSession(o.Sink, id.String())

	list, err := chunk.Scan(r, chunk.ScanOptions{
		Identifiers:     o.Profile.Identifiers,
		ReaderPtr:       o.MemoryPtrSize,
		MaxChunkSize:    o.MaxChunkSize,
		TrustDuplicates: o.TrustDuplicates,
		Sink:            o.Sink,
	})
	if err != nil {
		return nil, err
	}
	if list.Schema == nil {
		return nil, linkFailed(o.Sink, "file has no schema chunk", nil)
	}

	h := list.Header
	file, err := dna.Read(list.Schema, dna.ReadOptions{Order: h.Order, PtrSize: h.PtrSize, Sink: o.Sink})
	if err != nil {
		return nil, linkFailed(o.Sink, "read file schema", err)
	}
	// Without a memory schema the file's own blob is laid out for the
	// memory pointer width and byte order.
	memBlob, blobOrder, blobPtr := o.MemorySchema, o.MemoryOrder, o.MemoryPtrSize
	if memBlob == nil {
		memBlob, blobOrder, blobPtr = list.Schema, h.Order, h.PtrSize
	}
	mem, err := dna.Read(memBlob, dna.ReadOptions{
		Order:       o.MemoryOrder,
		BlobOrder:   blobOrder,
		PtrSize:     o.MemoryPtrSize,
		BlobPtrSize: blobPtr,
		Sink:        o.Sink,
	})
	if err != nil {
		return nil, linkFailed(o.Sink, "read memory schema", err)
	}
	if err := dna.Link(mem, file); err != nil {
		return nil, linkFailed(o.Sink, "link schemas", err)
	}

	f := &File{
		ID:      id,
		Header:  h,
		Lists:   make(map[string][]*Block),
		list:    list,
		file:    file,
		mem:     mem,
		profile: *o.Profile,
	}
	f.Stats, err = relink.Relink(mem, file, list, relink.Options{
		BlobType:         o.Profile.BlobType,
		SkipTypes:        o.Profile.SkipTypes,
		PointerArraySlot: o.Profile.PointerArraySlot,
		OnBlock:          f.route,
		Sink:             o.Sink,
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func linkFailed(sink types.Sink, msg string, cause error) error {
	text := msg
	if cause != nil {
		text += ": " + cause.Error()
	}
	sink.Report(types.Diagnostic{Severity: types.SevError, Stage: types.StageSchema, Message: text})
	return types.Errorf(types.StatusLinkFailed, msg, cause)
}

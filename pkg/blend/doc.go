/*
Package blend reads and writes DNA-tagged chunked files such as Blender's
.blend files, migrating every block from the struct layout the file was
written with into the layout the caller expects.

# Quick Start

Parse a file into its own schema, relinked for a little-endian 64-bit reader:

	f, err := blend.Parse("scene.blend", nil)
	if err != nil {
	    log.Fatalf("parse: %v (status %s)", err, types.StatusOf(err))
	}
	for _, b := range f.List("objects") {
	    fmt.Println(f.Name(b))
	}

# Reading Into Another Layout

Pass the schema blob of the program doing the reading. Structs and fields
are matched by name; fields the file lacks stay zero, numeric fields are
converted, and pointers are rewritten to the relinked blocks:

	f, err := blend.Parse("old.blend", &blend.Options{
	    MemorySchema:  currentDNA,
	    MemoryPtrSize: 8,
	})

# Compression

Parse detects gzip and zstd wrapping from the first bytes of the file.
ParseMode and Save take an explicit Mode:

	f, err := blend.ParseMode("scene.blend.zst", blend.ModeZstd, nil)
	err = f.Save("scene.blend", blend.ModePlain)

# Diagnostics

Non-fatal findings (misaligned structs, dropped blocks, dangling pointers)
go to Options.Sink, which defaults to structured log records on standard
error. Fatal errors carry a types.Status retrievable with types.StatusOf.
*/
package blend

package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/pkg/blend"
)

var (
	schemaExport string
	schemaOrder  string
	schemaMemory bool
)

func init() {
	cmd := newSchemaCmd()
	cmd.Flags().StringVar(&schemaExport, "export", "", "Write the schema blob to this path")
	cmd.Flags().StringVar(&schemaOrder, "order", "", "Byte order of the exported blob: little or big (default: the schema's)")
	cmd.Flags().BoolVar(&schemaMemory, "memory", false, "Show the memory schema instead of the file's")
	rootCmd.AddCommand(cmd)
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <file> [struct]",
		Short: "Dump or export the embedded schema",
		Long: `The schema command lists the structs of a file's schema, or the
flattened fields of one struct. With --export it writes the schema blob,
which can later be passed to --schema to relink other files into it.

Example:
  blendctl schema scene.blend
  blendctl schema scene.blend Object
  blendctl schema scene.blend --export scene.sdna --order big`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(args)
		},
	}
	return cmd
}

// StructInfo is one struct of the schema command's listing.
type StructInfo struct {
	Index  int         `json:"index"`
	Name   string      `json:"name"`
	Len    int         `json:"len"`
	Linked bool        `json:"linked"`
	Fields []FieldInfo `json:"fields,omitempty"`
}

// FieldInfo is one flattened field.
type FieldInfo struct {
	Path   string `json:"path"`
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Len    int    `json:"len"`
	Linked bool   `json:"linked"`
}

func runSchema(args []string) error {
	f, _, err := openFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}
	schema := f.FileSchema()
	if schemaMemory {
		schema = f.MemorySchema()
	}

	if schemaExport != "" {
		order := schema.Order
		if schemaOrder != "" {
			if order, err = parseOrder(schemaOrder); err != nil {
				return err
			}
		}
		if err := os.WriteFile(schemaExport, schema.Encode(order), 0o644); err != nil {
			return fmt.Errorf("failed to export schema: %w", err)
		}
		printInfo("Exported %d structs to %s\n", len(schema.Structs), schemaExport)
		return nil
	}

	if len(args) == 2 {
		s, ok := schema.StructByName(args[1])
		if !ok {
			return fmt.Errorf("struct %q not found", args[1])
		}
		info := describeStruct(schema, s, true)
		if jsonOut {
			return printJSON(info)
		}
		printInfo("%s (%d bytes)\n", info.Name, info.Len)
		for _, fd := range info.Fields {
			mark := " "
			if !fd.Linked {
				mark = "!"
			}
			printInfo("  %s %4d %4d  %-10s %s\n", mark, fd.Offset, fd.Len, fd.Type, fd.Path)
		}
		return nil
	}

	out := make([]StructInfo, 0, len(schema.Structs))
	for i := range schema.Structs {
		out = append(out, describeStruct(schema, &schema.Structs[i], verbose))
	}
	if jsonOut {
		return printJSON(out)
	}
	for _, s := range out {
		printInfo("%4d  %-24s %6d\n", s.Index, s.Name, s.Len)
	}
	return nil
}

func describeStruct(schema *blend.Schema, s *blend.Struct, fields bool) StructInfo {
	info := StructInfo{
		Index:  s.Index,
		Name:   schema.StructName(s),
		Len:    s.Len,
		Linked: s.Linked(),
	}
	if !fields {
		return info
	}
	for i := range s.Fields {
		fd := &s.Fields[i]
		info.Fields = append(info.Fields, FieldInfo{
			Path:   schema.FieldPath(s, fd),
			Type:   schema.Types[fd.Type].Name,
			Offset: fd.Offset,
			Len:    fd.Len,
			Linked: fd.Link != dna.NoLink,
		})
	}
	return info
}

func parseOrder(s string) (binary.ByteOrder, error) {
	switch s {
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q (want little or big)", s)
}

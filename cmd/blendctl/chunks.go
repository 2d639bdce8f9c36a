package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
)

var (
	chunksCode string
)

func init() {
	cmd := newChunksCmd()
	cmd.Flags().StringVar(&chunksCode, "code", "", "Only list chunks with this code (e.g. OB)")
	rootCmd.AddCommand(cmd)
}

func newChunksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunks <file>",
		Short: "List the chunks of a file",
		Long: `The chunks command lists every chunk in file order with its offset,
code, length, old address, struct type and repeat count. Relinked blocks
also show their new address.

Example:
  blendctl chunks scene.blend
  blendctl chunks scene.blend --code OB --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunks(args)
		},
	}
	return cmd
}

// ChunkInfo is one row of the chunks command.
type ChunkInfo struct {
	Offset int64  `json:"offset"`
	Code   string `json:"code"`
	Len    uint32 `json:"len"`
	Old    uint64 `json:"old"`
	Struct string `json:"struct"`
	Count  uint32 `json:"count"`
	Addr   uint64 `json:"addr,omitempty"`
	Name   string `json:"name,omitempty"`
}

func runChunks(args []string) error {
	f, _, err := openFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	rows := chunkRows(f, chunksCode)
	if jsonOut {
		return printJSON(rows)
	}

	printVerbose("%d chunk(s)\n", len(rows))
	for _, r := range rows {
		line := fmt.Sprintf("%#08x  %-4s %8d  old=%#x  %s x%d",
			r.Offset, r.Code, r.Len, r.Old, r.Struct, r.Count)
		if r.Addr != 0 {
			line += fmt.Sprintf("  -> %#x", r.Addr)
		}
		if r.Name != "" {
			line += "  " + r.Name
		}
		printInfo("%s\n", line)
	}
	return nil
}

func chunkRows(f *blend.File, code string) []ChunkInfo {
	schema := f.FileSchema()
	var rows []ChunkInfo
	for _, b := range f.Blocks() {
		c := b.Code.String()
		if code != "" && c != code {
			continue
		}
		r := ChunkInfo{
			Offset: b.Offset,
			Code:   c,
			Len:    b.Len,
			Old:    b.Old,
			Count:  b.Count,
			Addr:   b.Addr,
			Name:   f.Name(b),
		}
		if int(b.SDNA) < len(schema.Structs) {
			r.Struct = schema.StructName(&schema.Structs[b.SDNA])
		} else {
			r.Struct = fmt.Sprintf("#%d", b.SDNA)
		}
		rows = append(rows, r)
	}
	return rows
}

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	blocksList string
)

func init() {
	cmd := newBlocksCmd()
	cmd.Flags().StringVar(&blocksList, "list", "", "Only show this list (e.g. objects)")
	rootCmd.AddCommand(cmd)
}

func newBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks <file>",
		Short: "List relinked blocks by list",
		Long: `The blocks command relinks a file and prints the resulting blocks
grouped by list name (objects, meshes, materials, ...), with their ID
names where the struct has one.

Example:
  blendctl blocks scene.blend
  blendctl blocks scene.blend --list objects --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocks(args)
		},
	}
	return cmd
}

// BlockInfo is one relinked block.
type BlockInfo struct {
	Struct string `json:"struct,omitempty"`
	Name   string `json:"name,omitempty"`
	Addr   uint64 `json:"addr"`
	Size   int    `json:"size"`
	Count  uint32 `json:"count"`
}

func runBlocks(args []string) error {
	f, _, err := openFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	lists := make(map[string][]BlockInfo)
	for name, blocks := range f.Lists {
		if blocksList != "" && name != blocksList {
			continue
		}
		for _, b := range blocks {
			info := BlockInfo{Name: f.Name(b), Addr: b.Addr, Size: len(b.Data), Count: b.Count}
			if s := f.Struct(b); s != nil {
				info.Struct = f.MemorySchema().StructName(s)
			}
			lists[name] = append(lists[name], info)
		}
	}

	if jsonOut {
		return printJSON(lists)
	}

	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printInfo("%s (%d):\n", name, len(lists[name]))
		for _, b := range lists[name] {
			label := b.Name
			if label == "" {
				label = b.Struct
			}
			printInfo("  %#010x  %6d  %s\n", b.Addr, b.Size, label)
		}
	}
	return nil
}

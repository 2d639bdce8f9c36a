package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
	"github.com/joshuapare/blendkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Validate a file header and report basic metadata",
		Long: `The info command parses a file and displays its header, the size of
its schema, block counts per list and the relink statistics.

Example:
  blendctl info scene.blend
  blendctl info scene.blend --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// FileInfo is the info command's JSON shape.
type FileInfo struct {
	File        string         `json:"file"`
	Size        int64          `json:"size"`
	Session     string         `json:"session"`
	Identifier  string         `json:"identifier"`
	Version     string         `json:"version"`
	PtrSize     int            `json:"ptr_size"`
	Order       string         `json:"order"`
	Blocks      int            `json:"blocks"`
	Structs     int            `json:"structs"`
	Types       int            `json:"types"`
	Lists       map[string]int `json:"lists"`
	Stats       blend.Stats    `json:"stats"`
	Diagnostics types.Summary  `json:"diagnostics"`
}

func runInfo(args []string) error {
	path := args[0]

	f, c, err := openFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	info := FileInfo{
		File:        path,
		Session:     f.ID.String(),
		Identifier:  f.Header.Identifier,
		Version:     f.Header.Version,
		PtrSize:     f.Header.PtrSize,
		Order:       orderName(f.Header.Order),
		Blocks:      len(f.Blocks()),
		Structs:     len(f.FileSchema().Structs),
		Types:       len(f.FileSchema().Types),
		Lists:       make(map[string]int, len(f.Lists)),
		Stats:       f.Stats,
		Diagnostics: c.Result().Summary,
	}
	if stat, err := os.Stat(path); err == nil {
		info.Size = stat.Size()
	}
	for name, blocks := range f.Lists {
		info.Lists[name] = len(blocks)
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nFile Information:\n")
	printInfo("  File: %s\n", path)
	printInfo("  Size: %s\n", formatSize(info.Size))
	printInfo("  Identifier: %s\n", info.Identifier)
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Pointer size: %d\n", info.PtrSize)
	printInfo("  Byte order: %s\n", info.Order)
	printVerbose("  Session: %s\n", info.Session)

	printInfo("\nSchema:\n")
	printInfo("  Structs: %d\n", info.Structs)
	printInfo("  Types: %d\n", info.Types)

	printInfo("\nBlocks: %d\n", info.Blocks)
	names := make([]string, 0, len(info.Lists))
	for name := range info.Lists {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printInfo("  %s: %d\n", name, info.Lists[name])
	}

	printInfo("\nRelink:\n")
	printInfo("  Relinked: %d\n", info.Stats.Relinked)
	printInfo("  Blobs: %d\n", info.Stats.Blobs)
	printInfo("  Pointer arrays: %d\n", info.Stats.PtrArrays)
	if info.Stats.Dropped+info.Stats.Skipped > 0 {
		printInfo("  Dropped: %d, skipped: %d\n", info.Stats.Dropped, info.Stats.Skipped)
	}
	if info.Stats.Dangling > 0 {
		printInfo("  Dangling pointers: %d\n", info.Stats.Dangling)
	}

	s := info.Diagnostics
	printInfo("\nDiagnostics: %d error(s), %d warning(s), %d info\n", s.Errors, s.Warnings, s.Info)
	return nil
}

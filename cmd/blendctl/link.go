package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
)

var (
	linkAll bool
)

func init() {
	cmd := newLinkCmd()
	cmd.Flags().BoolVar(&linkAll, "all", false, "Also list structs that linked cleanly")
	rootCmd.AddCommand(cmd)
}

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <file>",
		Short: "Report how the file schema links against the memory schema",
		Long: `The link command compares the file's schema with the memory schema
(--schema, or the file's own) and lists, per struct, the fields that will
be left zero, converted between numeric kinds, or ignored.

Example:
  blendctl link old.blend --schema current.sdna
  blendctl link old.blend --schema current.sdna --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(args)
		},
	}
	return cmd
}

func runLink(args []string) error {
	f, _, err := openFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	var out []blend.StructReport
	clean := 0
	for _, r := range f.LinkReport() {
		if r.Clean() {
			clean++
			if !linkAll {
				continue
			}
		}
		out = append(out, r)
	}

	if jsonOut {
		if out == nil {
			out = []blend.StructReport{}
		}
		return printJSON(out)
	}

	for _, r := range out {
		switch {
		case !r.Linked:
			printInfo("%s: not in file\n", r.Name)
		case r.Clean():
			printInfo("%s: ok\n", r.Name)
		default:
			printInfo("%s:\n", r.Name)
		}
		if r.Misaligned {
			printInfo("  misaligned\n")
		}
		if r.Skipped {
			printInfo("  skipped\n")
		}
		if r.Linked && len(r.Missing) > 0 {
			printInfo("  missing: %s\n", strings.Join(r.Missing, ", "))
		}
		if len(r.Cast) > 0 {
			printInfo("  cast: %s\n", strings.Join(r.Cast, ", "))
		}
		if len(r.Removed) > 0 {
			printInfo("  removed: %s\n", strings.Join(r.Removed, ", "))
		}
	}
	printInfo("\n%d struct(s) linked cleanly, %d with differences\n", clean, len(f.LinkReport())-clean)
	return nil
}

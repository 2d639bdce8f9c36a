package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
)

var (
	convertPtr   int
	convertOrder string
	convertMode  string
)

func init() {
	cmd := newConvertCmd()
	cmd.Flags().IntVar(&convertPtr, "ptr", 8, "Pointer width of the output: 4 or 8")
	cmd.Flags().StringVar(&convertOrder, "order", "little", "Byte order of the output: little or big")
	cmd.Flags().StringVar(&convertMode, "mode", "plain", "Output compression: plain, gzip or zstd")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a file into another layout",
		Long: `The convert command relinks a file into the requested pointer width
and byte order (and, with --schema, into another schema) and writes the
result with its schema embedded.

Example:
  blendctl convert old32be.blend native.blend
  blendctl convert scene.blend scene.blend.zst --mode zstd
  blendctl convert old.blend upgraded.blend --schema current.sdna`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args)
		},
	}
	return cmd
}

func runConvert(args []string) error {
	in, out := args[0], args[1]

	if convertPtr != 4 && convertPtr != 8 {
		return fmt.Errorf("pointer width must be 4 or 8, got %d", convertPtr)
	}
	order, err := parseOrder(convertOrder)
	if err != nil {
		return err
	}
	mode, ok := blend.ParseModeName(convertMode)
	if !ok {
		return fmt.Errorf("unknown mode %q (want plain, gzip or zstd)", convertMode)
	}

	opts, c, err := parseOptions(convertPtr, order)
	if err != nil {
		return err
	}
	printVerbose("Reading %s\n", in)
	f, err := blend.Parse(in, opts)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}
	if err := f.Save(out, mode); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"input":       in,
			"output":      out,
			"ptr_size":    convertPtr,
			"order":       orderName(order),
			"mode":        mode.String(),
			"stats":       f.Stats,
			"diagnostics": c.Result().Summary,
		})
	}
	printInfo("Wrote %s (%d-byte pointers, %s endian, %s)\n", out, convertPtr, orderName(order), mode)
	printInfo("  %d block(s) relinked, %d blob(s), %d dropped\n", f.Stats.Relinked, f.Stats.Blobs, f.Stats.Dropped)
	return nil
}

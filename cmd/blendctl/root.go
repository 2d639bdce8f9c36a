package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
	"github.com/joshuapare/blendkit/pkg/types"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	profilePath string
	schemaPath  string
)

var rootCmd = &cobra.Command{
	Use:   "blendctl",
	Short: "Inspect and convert DNA chunked files",
	Long: `blendctl reads files made of a 12-byte header, a sequence of typed
chunks and an embedded schema (the .blend layout). It can list chunks,
dump and export the schema, report how the file links against another
schema, and rewrite a file into a different pointer width, byte order or
compression.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&profilePath, "profile", "", "Profile YAML (default: user config profile if present)")
	rootCmd.PersistentFlags().
		StringVar(&schemaPath, "schema", "", "Schema blob to relink into (default: the file's own)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a parse status to a process exit code so scripts can tell
// a bad header from a schema mismatch.
func exitCode(err error) int {
	var te *types.Error
	if !errors.As(err, &te) {
		return 1
	}
	switch te.Status {
	case types.StatusInvalidHeader:
		return 2
	case types.StatusLinkFailed:
		return 3
	default:
		return 4
	}
}

// loadProfile resolves --profile, falling back to the user config file and
// then to the built-in defaults.
func loadProfile() (*blend.Profile, error) {
	path := profilePath
	if path == "" {
		if def := blend.ProfilePath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path == "" {
		p := blend.DefaultProfile()
		return &p, nil
	}
	printVerbose("Using profile: %s\n", path)
	p, err := blend.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// parseOptions assembles parse options from the global flags. Diagnostics
// are always collected; with --verbose they are also logged to stderr.
func parseOptions(ptr int, order binary.ByteOrder) (*blend.Options, *types.Collector, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, nil, err
	}
	opts := &blend.Options{
		MemoryPtrSize: ptr,
		MemoryOrder:   order,
		Profile:       profile,
	}
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read schema: %w", err)
		}
		opts.MemorySchema = raw
	}
	c := types.NewCollector("")
	opts.Sink = c
	if verbose && !quiet {
		opts.Sink = types.Tee(c, types.DefaultSink())
	}
	return opts, c, nil
}

// openFile parses path into the default memory layout.
func openFile(path string) (*blend.File, *types.Collector, error) {
	printVerbose("Opening file: %s\n", path)
	opts, c, err := parseOptions(0, nil)
	if err != nil {
		return nil, nil, err
	}
	f, err := blend.Parse(path, opts)
	if err != nil {
		return nil, c, err
	}
	return f, c, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func orderName(o binary.ByteOrder) string {
	if o == binary.BigEndian {
		return "big"
	}
	return "little"
}

func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}

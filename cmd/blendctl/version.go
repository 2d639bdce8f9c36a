package main

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blendkit/pkg/blend"
)

// Set by the release build through -ldflags -X; otherwise filled from the
// module build info when available.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `The version command prints the build of blendctl and the file
identifiers it accepts by default.

Example:
  blendctl version
  blendctl version --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}
}

// BuildInfo is the version command's JSON shape.
type BuildInfo struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	Date        string   `json:"date"`
	Go          string   `json:"go"`
	Modified    bool     `json:"modified,omitempty"`
	Identifiers []string `json:"identifiers"`
}

func buildInfo() BuildInfo {
	info := BuildInfo{
		Version:     version,
		Commit:      commit,
		Date:        date,
		Go:          runtime.Version(),
		Identifiers: blend.DefaultProfile().Identifiers,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func runVersion() error {
	info := buildInfo()
	if jsonOut {
		return printJSON(info)
	}
	rev := info.Commit
	if info.Modified {
		rev += " (modified)"
	}
	printInfo("blendctl %s\n", info.Version)
	printInfo("  commit: %s\n", rev)
	printInfo("  built: %s with %s\n", info.Date, info.Go)
	printInfo("  identifiers: %v\n", info.Identifiers)
	return nil
}

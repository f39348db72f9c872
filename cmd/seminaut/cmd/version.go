package cmd

import "fmt"

// Version is set at build time via -ldflags, matching the teacher's own
// version.go pattern (junjiewwang-perf-analysis/cmd/cli/cmd/version.go).
// seminaut exposes it only through the `--version` flag (spec.md §6); it
// has no subcommands, so there is no separate "version" command to add.
var Version = "dev"

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("seminaut version %s\n", Version))
}

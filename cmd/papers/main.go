// Package main provides the papers CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "papers",
	Short: "Catalog identifiers across a paper corpus",
	Long: `papers scans folders of downloaded papers, extracts DOI, URL, PMID,
and PMCID identifiers from bibliographic and full-text files, and
maintains deduplicated identifier registries in git-friendly JSON.

Runs are resumable: a parse registry records every file seen, and
--skip-parsed picks up where the previous run left off. All commands
output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

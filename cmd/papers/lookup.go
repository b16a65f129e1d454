package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mberjans/c-spirit-paper-collection/internal/config"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
	"github.com/mberjans/c-spirit-paper-collection/internal/storage"
)

var lookupDBPath string

func init() {
	lookupCmd.Flags().StringVar(&lookupDBPath, "db", "", "Lookup database path (default <output-dir>/papers.db)")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <identifier>",
	Short: "Look up an identifier in the lookup database",
	Long: `Look up a DOI, URL, PMID, or PMCID in the lookup database and report
every corpus path that references it, with the cached metadata record
when one exists.

Run 'papers index' first to build the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

// LookupResult is the response for the lookup command.
type LookupResult struct {
	Identifier string                  `json:"identifier"`
	Found      bool                    `json:"found"`
	Hits       []storage.Hit           `json:"hits"`
	Record     *registry.SidecarRecord `json:"record,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	godotenv.Load()
	ident := args[0]

	dbPath := lookupDBPath
	if dbPath == "" {
		dir := config.GetOutputDir()
		if dir == "" {
			dir = "."
		}
		dbPath = filepath.Join(dir, "papers.db")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	hits, err := db.Lookup(ident)
	if err != nil {
		exitWithError(ExitError, "looking up %s: %v", ident, err)
	}

	var rec *registry.SidecarRecord
	for _, h := range hits {
		rec, err = db.Record(h.Kind, ident)
		if err != nil {
			exitWithError(ExitError, "loading record for %s: %v", ident, err)
		}
		if rec != nil {
			break
		}
	}

	if humanOutput {
		if len(hits) == 0 {
			outputHuman("%s: not found\n", ident)
			return nil
		}
		outputHuman("%s (%s)\n", ident, hits[0].Kind)
		if rec != nil && rec.Title != "" {
			outputHuman("  %s\n", rec.Title)
		}
		for _, h := range hits {
			outputHuman("  %s\n", h.Path)
		}
	} else {
		outputJSON(LookupResult{
			Identifier: ident,
			Found:      len(hits) > 0,
			Hits:       hits,
			Record:     rec,
		})
	}
	return nil
}

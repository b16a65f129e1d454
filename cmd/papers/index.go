package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mberjans/c-spirit-paper-collection/internal/collect"
	"github.com/mberjans/c-spirit-paper-collection/internal/config"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
	"github.com/mberjans/c-spirit-paper-collection/internal/storage"
)

var (
	indexInputDir string
	indexDBPath   string
)

func init() {
	indexCmd.Flags().StringVar(&indexInputDir, "input-dir", "", "Directory holding the identifier dictionaries")
	indexCmd.Flags().StringVar(&indexDBPath, "db", "", "Lookup database path (default <input-dir>/papers.db)")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the identifier lookup database",
	Long: `Build or rebuild the SQLite lookup database from the persisted
identifier dictionaries and sidecar records.

Run 'papers collect' first to produce the dictionaries. Each identifier
kind is replaced wholesale, so the database always reflects the current
JSON files.`,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status      string         `json:"status"`
	Database    string         `json:"database"`
	Identifiers map[string]int `json:"identifiers"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	dir := indexInputDir
	if dir == "" {
		dir = config.GetOutputDir()
	}
	if dir == "" {
		dir = "."
	}
	dbPath := indexDBPath
	if dbPath == "" {
		dbPath = filepath.Join(dir, "papers.db")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	kinds := []struct {
		kind string
		file string
	}{
		{"url", "url_dict.json"},
		{"doi", "doi_dict.json"},
		{"pmid", "pubmed_id_dict.json"},
		{"pmcid", "pmc_id_dict.json"},
	}

	counts := make(map[string]int)
	for _, k := range kinds {
		dict, err := loadDict(filepath.Join(dir, k.file))
		if err != nil {
			exitWithError(ExitDataError, "loading %s: %v", k.file, err)
		}
		if err := db.ReplaceKind(k.kind, dict); err != nil {
			exitWithError(ExitError, "indexing %s identifiers: %v", k.kind, err)
		}
		counts[k.kind] = dict.Len()

		if k.kind != "url" && k.kind != "doi" {
			continue
		}
		sc, err := loadSidecar(collect.RecordsPath(filepath.Join(dir, k.file)))
		if err != nil {
			exitWithError(ExitDataError, "loading %s records: %v", k.kind, err)
		}
		if err := db.ReplaceRecords(k.kind, sc); err != nil {
			exitWithError(ExitError, "indexing %s records: %v", k.kind, err)
		}
	}

	if humanOutput {
		outputHuman("Indexed into %s:\n", dbPath)
		for _, k := range kinds {
			outputHuman("  %s: %d identifiers\n", k.kind, counts[k.kind])
		}
	} else {
		outputJSON(IndexResult{
			Status:      "complete",
			Database:    dbPath,
			Identifiers: counts,
		})
	}
	return nil
}

// loadDict reads a persisted identifier dictionary. A missing file
// yields an empty dictionary.
func loadDict(path string) (*registry.Dict, error) {
	dict := registry.NewDict()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dict, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, dict); err != nil {
		return nil, err
	}
	return dict, nil
}

// loadSidecar reads a persisted sidecar records file. A missing file
// yields an empty sidecar.
func loadSidecar(path string) (*registry.Sidecar, error) {
	sc := registry.NewSidecar()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sc, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Package collect orchestrates one cataloging run: candidate building,
// cap enforcement, parser dispatch, registry updates, and persistence.
package collect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mberjans/c-spirit-paper-collection/internal/merge"
)

// Outputs names the files a run should persist. An empty path means
// the output is not requested. Sidecar files derive from the dictionary
// paths (<base>.records.json).
type Outputs struct {
	SummaryCSV    string
	SummaryJSON   string
	ParseRegistry string
	URLDict       string
	DOIDict       string
	PMIDDict      string
	PMCIDDict     string
}

// RecordsPath derives the sidecar path for a dictionary file:
// url_dict.json → url_dict.records.json.
func RecordsPath(dictPath string) string {
	dir := filepath.Dir(dictPath)
	base := filepath.Base(dictPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+".records.json")
}

// WrittenPaths lists every file path a Persist with these outputs
// touches, sidecar records included, in a fixed order.
func WrittenPaths(out Outputs) []string {
	var paths []string
	add := func(p string) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	add(out.SummaryCSV)
	add(out.SummaryJSON)
	add(out.ParseRegistry)
	add(out.URLDict)
	if out.URLDict != "" {
		add(RecordsPath(out.URLDict))
	}
	add(out.DOIDict)
	if out.DOIDict != "" {
		add(RecordsPath(out.DOIDict))
	}
	add(out.PMIDDict)
	add(out.PMCIDDict)
	return paths
}

// Config is the immutable resolved configuration of one run. Built
// once, validated before any parsing starts, read-only thereafter.
type Config struct {
	// Cap is the maximum number of parser dispatches this run, across
	// all folders. Zero disables parsing entirely.
	Cap int

	// SkipParsed excludes files whose preloaded registry entry is
	// already marked parsed, before the cap is applied.
	SkipParsed bool

	// Mode selects append or overwrite persistence.
	Mode merge.Mode

	// OnlyWithPDFs drops folders without a PDF from the summaries.
	OnlyWithPDFs bool

	Outputs Outputs
}

// Validate rejects configurations that must abort the run before any
// parsing starts.
func (c Config) Validate() error {
	if c.Cap < 0 {
		return fmt.Errorf("cap must be >= 0, got %d", c.Cap)
	}
	if _, err := merge.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	return nil
}

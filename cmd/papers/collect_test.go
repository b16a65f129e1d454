package main

import (
	"os"
	"path/filepath"
	"testing"
)

func resetCollectFlags() {
	collectOutputCSV = ""
	collectOutputJSON = ""
	collectOutputDocRegistry = ""
	collectOutputURLDict = ""
	collectOutputDOIDict = ""
	collectOutputPMIDDict = ""
	collectOutputPMCIDDict = ""
	collectOutputDir = ""
	collectNoDefaults = false
}

func TestResolveOutputs_Defaults(t *testing.T) {
	resetCollectFlags()
	defer resetCollectFlags()

	origEnv := os.Getenv("PAPERS_OUTPUT_DIR")
	defer os.Setenv("PAPERS_OUTPUT_DIR", origEnv)
	os.Setenv("PAPERS_OUTPUT_DIR", "")

	collectOutputDir = "/out"
	out := resolveOutputs()

	if out.DOIDict != filepath.Join("/out", "doi_dict.json") {
		t.Errorf("DOIDict = %q", out.DOIDict)
	}
	if out.ParseRegistry != filepath.Join("/out", "doc_registry.json") {
		t.Errorf("ParseRegistry = %q", out.ParseRegistry)
	}
	if out.SummaryCSV != filepath.Join("/out", "papers_summary.csv") {
		t.Errorf("SummaryCSV = %q", out.SummaryCSV)
	}
	if out.PMCIDDict != filepath.Join("/out", "pmc_id_dict.json") {
		t.Errorf("PMCIDDict = %q", out.PMCIDDict)
	}
}

func TestResolveOutputs_ExplicitWins(t *testing.T) {
	resetCollectFlags()
	defer resetCollectFlags()

	collectOutputDir = "/out"
	collectOutputDOIDict = "/elsewhere/dois.json"
	out := resolveOutputs()

	if out.DOIDict != "/elsewhere/dois.json" {
		t.Errorf("DOIDict = %q, explicit flag should win", out.DOIDict)
	}
	if out.URLDict != filepath.Join("/out", "url_dict.json") {
		t.Errorf("URLDict = %q, other outputs keep defaults", out.URLDict)
	}
}

func TestResolveOutputs_NoDefaults(t *testing.T) {
	resetCollectFlags()
	defer resetCollectFlags()

	collectNoDefaults = true
	collectOutputDOIDict = "/elsewhere/dois.json"
	out := resolveOutputs()

	if out.DOIDict != "/elsewhere/dois.json" {
		t.Errorf("DOIDict = %q", out.DOIDict)
	}
	if out.URLDict != "" || out.SummaryCSV != "" || out.ParseRegistry != "" {
		t.Errorf("unrequested outputs should stay empty: %+v", out)
	}
}

func TestCollectWriteModeDefaultsToAppend(t *testing.T) {
	flag := collectCmd.Flags().Lookup("output-write-mode")
	if flag == nil {
		t.Fatal("flag output-write-mode not registered")
	}
	// Append by default so repeated runs accumulate into the
	// dictionaries instead of replacing them.
	if flag.DefValue != "append" {
		t.Errorf("default write mode = %q, want append", flag.DefValue)
	}
}

func TestLoadDict_MissingAndRoundTrip(t *testing.T) {
	dir := t.TempDir()

	dict, err := loadDict(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("loadDict missing: %v", err)
	}
	if dict.Len() != 0 {
		t.Errorf("missing file should yield empty dict, got %d keys", dict.Len())
	}

	path := filepath.Join(dir, "doi_dict.json")
	content := `{"10.1234/abcd": ["/corpus/a.bib", "/corpus/b.ris"]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	dict, err = loadDict(path)
	if err != nil {
		t.Fatalf("loadDict: %v", err)
	}
	paths := dict.Paths("10.1234/abcd")
	if len(paths) != 2 || paths[0] != "/corpus/a.bib" {
		t.Errorf("paths = %v", paths)
	}
}

func TestLoadSidecar_MissingAndRoundTrip(t *testing.T) {
	dir := t.TempDir()

	sc, err := loadSidecar(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("loadSidecar missing: %v", err)
	}
	if sc.Len() != 0 {
		t.Errorf("missing file should yield empty sidecar, got %d records", sc.Len())
	}

	path := filepath.Join(dir, "doi_dict.records.json")
	content := `{"10.1234/abcd": {"title": "A Paper", "year": 2020, "sources": ["/corpus/a.bib"]}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err = loadSidecar(path)
	if err != nil {
		t.Fatalf("loadSidecar: %v", err)
	}
	rec := sc.Get("10.1234/abcd")
	if rec == nil || rec.Title != "A Paper" || rec.Year != 2020 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Sources) != 1 || rec.Sources[0] != "/corpus/a.bib" {
		t.Errorf("sources = %v", rec.Sources)
	}
}

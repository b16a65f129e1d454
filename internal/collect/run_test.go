package collect

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/merge"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
	"github.com/mberjans/c-spirit-paper-collection/internal/walker"
)

func defaultConfig() Config {
	return Config{Cap: 100, Mode: merge.ModeOverwrite}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func listFolders(t *testing.T, root string) []walker.Folder {
	t.Helper()
	folders, err := walker.ListFolders(root, walker.Options{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	return folders
}

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Cap = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative cap must be rejected")
	}

	cfg = defaultConfig()
	cfg.Mode = "merge"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown write mode must be rejected")
	}
}

func TestRun_CapEnforcement(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	mustWrite(t, filepath.Join(dir, "a.txt"), "10.1000/a")
	mustWrite(t, filepath.Join(dir, "b.txt"), "10.1000/b")
	mustWrite(t, filepath.Join(dir, "c.txt"), "10.1000/c")

	cfg := defaultConfig()
	cfg.Cap = 2
	r, err := NewRunner(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if res.Dispatched != 2 {
		t.Errorf("Dispatched = %d, want exactly cap", res.Dispatched)
	}
	if res.SkippedByLimit != 1 {
		t.Errorf("SkippedByLimit = %d, want 1", res.SkippedByLimit)
	}
	// candidates run in listing order: a and b parsed, c capped out
	if !r.Regs.DOIs.Has("10.1000/a") || !r.Regs.DOIs.Has("10.1000/b") {
		t.Error("first two candidates should have been parsed")
	}
	if r.Regs.DOIs.Has("10.1000/c") {
		t.Error("capped-out candidate must contribute nothing")
	}
}

func TestRun_CapCountsFailures(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	mustWrite(t, filepath.Join(dir, "1_bad.json"), "{broken")
	mustWrite(t, filepath.Join(dir, "2_good.txt"), "10.1000/x")

	cfg := defaultConfig()
	cfg.Cap = 1
	r, err := NewRunner(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	// The failed dispatch consumed the whole budget.
	if res.Dispatched != 1 || res.Failed != 1 {
		t.Errorf("Dispatched = %d, Failed = %d", res.Dispatched, res.Failed)
	}
	if r.Regs.DOIs.Has("10.1000/x") {
		t.Error("second candidate should not have been dispatched")
	}
}

func TestRun_SkipParsed(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	file := filepath.Join(dir, "seen.txt")
	mustWrite(t, file, "10.1000/seen")

	resolved := registry.ResolvePath(file)
	pre := registry.NewParseRegistry()
	pre.Record(resolved, registry.ResolvePath(dir), document.KindTextMD, true, "", map[string]any{"marker": true})
	before := *pre.Entries[resolved]

	cfg := defaultConfig()
	cfg.SkipParsed = true
	r, err := NewRunner(cfg, pre)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if res.Dispatched != 0 || res.SkippedParsed != 1 {
		t.Errorf("Dispatched = %d, SkippedParsed = %d", res.Dispatched, res.SkippedParsed)
	}
	after := *pre.Entries[resolved]
	if !reflect.DeepEqual(before.Info, after.Info) || before.Parsed != after.Parsed {
		t.Errorf("skipped entry must be unchanged: %+v vs %+v", before, after)
	}
	if r.Regs.DOIs.Has("10.1000/seen") {
		t.Error("skipped file must contribute nothing to registries")
	}
}

func TestRun_SkipParsedDoesNotConsumeCap(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	seen := filepath.Join(dir, "a_seen.txt")
	fresh := filepath.Join(dir, "b_fresh.txt")
	mustWrite(t, seen, "10.1000/seen")
	mustWrite(t, fresh, "10.1000/fresh")

	pre := registry.NewParseRegistry()
	pre.Record(registry.ResolvePath(seen), registry.ResolvePath(dir), document.KindTextMD, true, "", nil)

	cfg := defaultConfig()
	cfg.Cap = 1
	cfg.SkipParsed = true
	r, err := NewRunner(cfg, pre)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if res.Dispatched != 1 {
		t.Errorf("Dispatched = %d, the skipped file must not use cap budget", res.Dispatched)
	}
	if !r.Regs.DOIs.Has("10.1000/fresh") {
		t.Error("the fresh file should have been parsed within the cap")
	}
}

func TestRun_MalformedFileDoesNotAbort(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	empty := filepath.Join(dir, "a_empty.bib")
	mustWrite(t, empty, "")
	mustWrite(t, filepath.Join(dir, "b_ok.txt"), "10.1000/ok")

	r, err := NewRunner(defaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if res.Failed != 1 || res.Parsed != 1 {
		t.Errorf("Failed = %d, Parsed = %d", res.Failed, res.Parsed)
	}
	entry := r.Parse.Entries[registry.ResolvePath(empty)]
	if entry == nil || entry.Parsed || entry.Error == "" {
		t.Errorf("empty file must record parsed=false with an error: %+v", entry)
	}
	if r.Regs.DOIs.Len() != 1 {
		t.Errorf("only the good file may contribute: %v", r.Regs.DOIs.Keys())
	}
}

func TestRun_UnknownKindSilentlySkipped(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	mustWrite(t, filepath.Join(dir, "data.xlsx"), "binary")

	r, err := NewRunner(defaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if res.SkippedUnknown != 1 || res.Dispatched != 0 {
		t.Errorf("SkippedUnknown = %d, Dispatched = %d", res.SkippedUnknown, res.Dispatched)
	}
	if len(r.Parse.Entries) != 0 {
		t.Error("unknown kinds must not get registry entries")
	}
}

func TestRun_FilenameDOIScanIgnoresParentDirs(t *testing.T) {
	root := t.TempDir()
	// Folder named like a DOI prefix: the full path of its files
	// matches the DOI pattern, the basenames do not.
	mustWrite(t, filepath.Join(root, "10.1234", "notes.txt"), "no identifiers here")

	r, err := NewRunner(defaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))

	if len(res.Summaries) != 1 {
		t.Fatalf("Summaries = %v", res.Summaries)
	}
	if got := res.Summaries[0].DOI; got != "" {
		t.Errorf("folder DOI = %q, path segments must not be read as a DOI", got)
	}
}

func TestRun_EndToEndBibFolder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "PaperA")
	bib := filepath.Join(dir, "sample.bib")
	mustWrite(t, bib, `@article{doe2021,
  doi={10.1234/abcd},
  title={Sample},
  author={Doe, J. and Roe, R.},
  year={2021},
  journal={Nature},
}
`)

	outDir := t.TempDir()
	cfg := defaultConfig()
	cfg.Cap = 1
	cfg.Outputs = Outputs{
		DOIDict:       filepath.Join(outDir, "doi_dict.json"),
		ParseRegistry: filepath.Join(outDir, "doc_registry.json"),
	}

	r, err := NewRunner(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Run(listFolders(t, root))
	if err := r.Persist(res); err != nil {
		t.Fatal(err)
	}

	resolved := registry.ResolvePath(bib)

	data, err := os.ReadFile(cfg.Outputs.DOIDict)
	if err != nil {
		t.Fatal(err)
	}
	var dict map[string][]string
	if err := json.Unmarshal(data, &dict); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dict, map[string][]string{"10.1234/abcd": {resolved}}) {
		t.Errorf("doi dict = %v", dict)
	}

	data, err = os.ReadFile(RecordsPath(cfg.Outputs.DOIDict))
	if err != nil {
		t.Fatal(err)
	}
	var records map[string]registry.SidecarRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	rec := records["10.1234/abcd"]
	if rec.Title != "Sample" || rec.Year != 2021 || rec.Venue != "Nature" {
		t.Errorf("sidecar record = %+v", rec)
	}
	if !reflect.DeepEqual(rec.Authors, []string{"Doe, J.", "Roe, R."}) {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if !reflect.DeepEqual(rec.Sources, []string{resolved}) {
		t.Errorf("Sources = %v", rec.Sources)
	}

	// folder summary aggregated the same metadata
	if len(res.Summaries) != 1 {
		t.Fatalf("Summaries = %v", res.Summaries)
	}
	s := res.Summaries[0]
	if s.DOI != "10.1234/abcd" || s.Title != "Sample" || s.Year != "2021" {
		t.Errorf("summary = %+v", s)
	}
	if s.Authors != "Doe, J.; Roe, R." {
		t.Errorf("summary authors = %q", s.Authors)
	}

	// folder record carries the derived resolver URL
	frec, ok := res.Records[s.FolderPath]
	if !ok {
		t.Fatalf("no folder record for %q: %v", s.FolderPath, res.Records)
	}
	if frec.HasPDF {
		t.Error("HasPDF = true for a folder without PDFs")
	}
	wantURL := "https://doi.org/10.1234/abcd"
	found := false
	for _, u := range frec.URLs {
		if u == wantURL {
			found = true
		}
	}
	if !found {
		t.Errorf("folder record URLs = %v, want %q included", frec.URLs, wantURL)
	}
}

func TestRecordsPath(t *testing.T) {
	if got := RecordsPath("/out/doi_dict.json"); got != "/out/doi_dict.records.json" {
		t.Errorf("RecordsPath() = %q", got)
	}
}

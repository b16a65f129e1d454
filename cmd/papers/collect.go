package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mberjans/c-spirit-paper-collection/internal/collect"
	"github.com/mberjans/c-spirit-paper-collection/internal/config"
	"github.com/mberjans/c-spirit-paper-collection/internal/merge"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
	"github.com/mberjans/c-spirit-paper-collection/internal/walker"
)

var (
	collectDirs           []string
	collectMaxDepth       int
	collectIncludeHidden  bool
	collectFollowSymlinks bool
	collectOnlyWithPDFs   bool
	collectPaperMax       int
	collectSkipParsed     bool
	collectWriteMode      string
	collectStdoutFormat   string
	collectOutputDir      string
	collectNoDefaults     bool

	collectOutputCSV         string
	collectOutputJSON        string
	collectOutputDocRegistry string
	collectOutputURLDict     string
	collectOutputDOIDict     string
	collectOutputPMIDDict    string
	collectOutputPMCIDDict   string
)

func init() {
	f := collectCmd.Flags()
	f.StringArrayVar(&collectDirs, "dir", nil, "Input directory to scan (repeatable)")
	f.IntVar(&collectMaxDepth, "max-depth", 1, "Folder depth below each root to treat as paper folders")
	f.BoolVar(&collectIncludeHidden, "include-hidden", false, "Include dot-directories")
	f.BoolVar(&collectFollowSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	f.BoolVar(&collectOnlyWithPDFs, "only-with-pdfs", false, "Drop folders without a PDF from the summaries")
	f.IntVar(&collectPaperMax, "paper-max", 1, "Maximum number of files to parse this run (0 disables parsing)")
	f.BoolVar(&collectSkipParsed, "skip-parsed", false, "Skip files already marked parsed in the document registry")
	f.StringVar(&collectWriteMode, "output-write-mode", "append", "How to write JSON outputs: append merges with existing files, overwrite replaces them")
	f.StringVar(&collectStdoutFormat, "stdout-format", "none", "Emit folder summaries to stdout (none|csv|json)")
	f.StringVar(&collectOutputDir, "output-dir", "", "Directory for the default output files")
	f.BoolVar(&collectNoDefaults, "no-default-outputs", false, "Write only the outputs named explicitly")

	f.StringVar(&collectOutputCSV, "output-csv", "", "Folder summary CSV path")
	f.StringVar(&collectOutputJSON, "output-json", "", "Folder summary JSON path")
	f.StringVar(&collectOutputDocRegistry, "output-doc-registry", "", "Document parse registry path")
	f.StringVar(&collectOutputURLDict, "output-url-dict", "", "URL dictionary path")
	f.StringVar(&collectOutputDOIDict, "output-doi-dict", "", "DOI dictionary path")
	f.StringVar(&collectOutputPMIDDict, "output-pubmed-id-dict", "", "PubMed ID dictionary path")
	f.StringVar(&collectOutputPMCIDDict, "output-pmc-id-dict", "", "PMC ID dictionary path")

	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Scan paper folders and update the identifier registries",
	Long: `Scan paper folders beneath the input roots, parse bibliographic and
full-text files up to the --paper-max cap, and update the identifier
dictionaries, sidecar records, document registry, and folder summaries.

Usage:
  papers collect --dir ~/papers/inbox
  papers collect --dir ~/papers --paper-max 100 --skip-parsed --output-write-mode append

Input roots default to scan_roots in the global config. Output files
default to the standard set under --output-dir (or PAPERS_OUTPUT_DIR);
use --no-default-outputs to write only explicitly named files.`,
	RunE: runCollect,
}

// CollectResult is the response for the collect command.
type CollectResult struct {
	Roots          []string `json:"roots"`
	Folders        int      `json:"folders"`
	Dispatched     int      `json:"dispatched"`
	Parsed         int      `json:"parsed"`
	Failed         int      `json:"failed"`
	SkippedParsed  int      `json:"skipped_parsed"`
	SkippedByLimit int      `json:"skipped_by_limit"`
	SkippedUnknown int      `json:"skipped_unknown"`
	OutputsWritten []string `json:"outputs_written"`
}

func runCollect(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	roots := collectDirs
	if len(roots) == 0 {
		roots = config.GetScanRoots()
	}
	if len(roots) == 0 {
		exitWithError(ExitConfigError, "no input directories: pass --dir or set scan_roots in %s", config.GlobalConfigPath())
	}

	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if !cmd.Flags().Changed("paper-max") && global.PaperMax > 0 {
		collectPaperMax = global.PaperMax
	}
	if !cmd.Flags().Changed("skip-parsed") && global.SkipParsed {
		collectSkipParsed = true
	}
	if !cmd.Flags().Changed("output-write-mode") && global.WriteMode != "" {
		collectWriteMode = global.WriteMode
	}

	mode, err := merge.ParseMode(collectWriteMode)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if collectStdoutFormat != "none" && collectStdoutFormat != "csv" && collectStdoutFormat != "json" {
		exitWithError(ExitConfigError, "invalid --stdout-format %q, want none, csv, or json", collectStdoutFormat)
	}

	outputs := resolveOutputs()

	cfg := collect.Config{
		Cap:          collectPaperMax,
		SkipParsed:   collectSkipParsed,
		Mode:         mode,
		OnlyWithPDFs: collectOnlyWithPDFs,
		Outputs:      outputs,
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	var preloaded *registry.ParseRegistry
	if outputs.ParseRegistry != "" {
		preloaded, err = registry.LoadParseRegistry(outputs.ParseRegistry)
		if err != nil {
			exitWithError(ExitDataError, "loading document registry: %v", err)
		}
	}

	runner, err := collect.NewRunner(cfg, preloaded)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	opts := walker.Options{
		MaxDepth:       collectMaxDepth,
		IncludeHidden:  collectIncludeHidden,
		FollowSymlinks: collectFollowSymlinks,
	}
	var folders []walker.Folder
	for _, root := range roots {
		fs, err := walker.ListFolders(root, opts)
		if err != nil {
			warn("scanning %s: %v", root, err)
			continue
		}
		folders = append(folders, fs...)
	}

	res := runner.Run(folders)

	persistErr := runner.Persist(res)
	if persistErr != nil {
		warn("writing outputs: %v", persistErr)
	}
	written := collect.WrittenPaths(outputs)
	if outputs.SummaryCSV != "" {
		if err := walker.WriteCSVFile(outputs.SummaryCSV, res.Summaries, mode == merge.ModeAppend); err != nil {
			warn("writing %s: %v", outputs.SummaryCSV, err)
			persistErr = err
		}
	}

	switch collectStdoutFormat {
	case "csv":
		walker.WriteCSV(os.Stdout, res.Summaries)
	case "json":
		outputJSON(res.Summaries)
	}

	if humanOutput {
		outputHuman("Scanned %d folders under %d roots\n", res.Folders, len(roots))
		outputHuman("  Parsed: %d  Failed: %d\n", res.Parsed, res.Failed)
		outputHuman("  Skipped: %d already parsed, %d over limit, %d unknown kind\n",
			res.SkippedParsed, res.SkippedByLimit, res.SkippedUnknown)
		for _, path := range written {
			outputHuman("  Wrote %s\n", path)
		}
	} else if collectStdoutFormat == "none" {
		outputJSON(CollectResult{
			Roots:          roots,
			Folders:        res.Folders,
			Dispatched:     res.Dispatched,
			Parsed:         res.Parsed,
			Failed:         res.Failed,
			SkippedParsed:  res.SkippedParsed,
			SkippedByLimit: res.SkippedByLimit,
			SkippedUnknown: res.SkippedUnknown,
			OutputsWritten: written,
		})
	}

	if persistErr != nil {
		os.Exit(ExitError)
	}
	return nil
}

// resolveOutputs combines the default output set with explicit flags.
// Explicit paths always win; --no-default-outputs drops everything not
// named explicitly.
func resolveOutputs() collect.Outputs {
	out := collect.Outputs{
		SummaryCSV:    collectOutputCSV,
		SummaryJSON:   collectOutputJSON,
		ParseRegistry: collectOutputDocRegistry,
		URLDict:       collectOutputURLDict,
		DOIDict:       collectOutputDOIDict,
		PMIDDict:      collectOutputPMIDDict,
		PMCIDDict:     collectOutputPMCIDDict,
	}
	if collectNoDefaults {
		return out
	}

	dir := collectOutputDir
	if dir == "" {
		dir = config.GetOutputDir()
	}
	if dir == "" {
		dir = "."
	}

	def := func(target *string, name string) {
		if *target == "" {
			*target = filepath.Join(dir, name)
		}
	}
	def(&out.SummaryCSV, "papers_summary.csv")
	def(&out.SummaryJSON, "papers_summary.json")
	def(&out.ParseRegistry, "doc_registry.json")
	def(&out.URLDict, "url_dict.json")
	def(&out.DOIDict, "doi_dict.json")
	def(&out.PMIDDict, "pubmed_id_dict.json")
	def(&out.PMCIDDict, "pmc_id_dict.json")
	return out
}

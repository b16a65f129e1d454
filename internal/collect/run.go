package collect

import (
	"errors"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/identifier"
	"github.com/mberjans/c-spirit-paper-collection/internal/merge"
	"github.com/mberjans/c-spirit-paper-collection/internal/parser"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
	"github.com/mberjans/c-spirit-paper-collection/internal/walker"
)

// Runner executes one run over a folder listing. It owns all mutable
// state: the parse registry (possibly preloaded from a previous run)
// and the identifier registries.
type Runner struct {
	cfg       Config
	remaining int

	Parse *registry.ParseRegistry
	Regs  *registry.Registries
}

// Result reports what one run did.
type Result struct {
	Folders        int                     `json:"folders"`
	Dispatched     int                     `json:"dispatched"`
	Parsed         int                     `json:"parsed"`
	Failed         int                     `json:"failed"`
	SkippedParsed  int                     `json:"skipped_parsed"`
	SkippedByLimit int                     `json:"skipped_by_limit"`
	SkippedUnknown int                     `json:"skipped_unknown"`
	Summaries      []walker.FolderSummary  `json:"-"`
	Records        map[string]FolderRecord `json:"-"`
}

// FolderRecord tracks the URLs discovered under one folder and whether
// a downloaded PDF is already present. The folder's DOI contributes its
// https://doi.org resolver URL.
type FolderRecord struct {
	Folder     string   `json:"folder"`
	Root       string   `json:"root"`
	URLs       []string `json:"urls"`
	HasPDF     bool     `json:"has_pdf"`
	ExamplePDF string   `json:"example_pdf"`
}

// NewRunner builds a runner for cfg. The preloaded registry becomes the
// starting state for skip-parsed filtering; pass nil to start fresh.
func NewRunner(cfg Config, preloaded *registry.ParseRegistry) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if preloaded == nil {
		preloaded = registry.NewParseRegistry()
	}
	return &Runner{
		cfg:       cfg,
		remaining: cfg.Cap,
		Parse:     preloaded,
		Regs:      registry.NewRegistries(),
	}, nil
}

// Run processes the folder listing in order. The cap counts dispatched
// parser calls, success or failure alike; skip-parsed files never
// consume cap budget. Per-document failures are recorded and the run
// continues.
func (r *Runner) Run(folders []walker.Folder) *Result {
	res := &Result{Records: make(map[string]FolderRecord)}

	for _, folder := range folders {
		if r.remaining <= 0 {
			break
		}
		res.Folders++

		summary := walker.Summarize(folder)
		urls := r.scanFolder(folder, &summary, res)

		if r.cfg.OnlyWithPDFs && summary.NumPDFs < 1 {
			continue
		}
		res.Summaries = append(res.Summaries, summary)

		if summary.DOI != "" {
			urls = append(urls, identifier.DOIToURL(summary.DOI))
		}
		res.Records[summary.FolderPath] = FolderRecord{
			Folder:     summary.FolderName,
			Root:       summary.RootInputDir,
			URLs:       urls,
			HasPDF:     summary.NumPDFs > 0,
			ExamplePDF: summary.ExamplePDF,
		}
	}

	sort.Slice(res.Summaries, func(i, j int) bool {
		a, b := res.Summaries[i], res.Summaries[j]
		if a.RootInputDir != b.RootInputDir {
			return a.RootInputDir < b.RootInputDir
		}
		return strings.ToLower(a.FolderName) < strings.ToLower(b.FolderName)
	})

	return res
}

// scanFolder handles every file of one folder in listing order,
// aggregates the folder-level best-effort metadata into summary, and
// returns the URLs discovered in the folder's documents.
func (r *Runner) scanFolder(folder walker.Folder, summary *walker.FolderSummary, res *Result) []string {
	folderPath := registry.ResolvePath(folder.Path)
	var bestAuthors []string
	var urls []string
	seenURL := make(map[string]bool)

	for _, file := range folder.Files {
		// DOI in the filename is a quick win for the folder metadata.
		// Only the basename is scanned, parent directories must not
		// leak into the match.
		if summary.DOI == "" {
			summary.DOI = identifier.FindDOI(filepath.Base(file))
		}

		kind := document.Classify(file)
		if kind == document.KindUnknown {
			res.SkippedUnknown++
			continue
		}

		path := registry.ResolvePath(file)

		if r.cfg.SkipParsed && r.Parse.IsParsed(path) {
			// Entry stays untouched; the file never reaches the cap.
			res.SkippedParsed++
			continue
		}

		if r.remaining <= 0 {
			r.Parse.Record(path, folderPath, kind, false, "skipped_by_limit", nil)
			res.SkippedByLimit++
			continue
		}

		r.remaining--
		res.Dispatched++

		facts, err := parser.Parse(path, kind)
		if err != nil {
			r.Parse.Record(path, folderPath, kind, false, err.Error(), nil)
			res.Failed++
			continue
		}

		r.Parse.Record(path, folderPath, kind, true, "", facts.Info())
		r.Regs.Fold(path, facts)
		res.Parsed++

		for _, u := range facts.URLs {
			if !seenURL[u] {
				seenURL[u] = true
				urls = append(urls, u)
			}
		}

		if summary.DOI == "" {
			summary.DOI = facts.DOI
		}
		if summary.Title == "" {
			summary.Title = facts.Title
		}
		if len(bestAuthors) == 0 {
			bestAuthors = facts.Authors
		}
		if summary.Year == "" && facts.Year != 0 {
			summary.Year = strconv.Itoa(facts.Year)
		}
		if summary.Venue == "" {
			summary.Venue = facts.Venue
		}
	}

	summary.Authors = strings.Join(bestAuthors, "; ")
	return urls
}

// Persist writes every requested JSON output through the merge engine.
// Each file is independent; one failed write does not stop the others.
// The summary CSV is not handled here, callers write it directly.
func (r *Runner) Persist(res *Result) error {
	var errs []error
	out := r.cfg.Outputs

	if out.ParseRegistry != "" {
		errs = append(errs, merge.WriteParseRegistry(out.ParseRegistry, r.Parse, r.cfg.Mode))
	}
	if out.URLDict != "" {
		errs = append(errs, merge.WriteDict(out.URLDict, r.Regs.URLs, r.cfg.Mode))
		errs = append(errs, merge.WriteSidecar(RecordsPath(out.URLDict), r.Regs.URLRecords, r.cfg.Mode))
	}
	if out.DOIDict != "" {
		errs = append(errs, merge.WriteDict(out.DOIDict, r.Regs.DOIs, r.cfg.Mode))
		errs = append(errs, merge.WriteSidecar(RecordsPath(out.DOIDict), r.Regs.DOIRecords, r.cfg.Mode))
	}
	if out.PMIDDict != "" {
		errs = append(errs, merge.WriteDict(out.PMIDDict, r.Regs.PMIDs, r.cfg.Mode))
	}
	if out.PMCIDDict != "" {
		errs = append(errs, merge.WriteDict(out.PMCIDDict, r.Regs.PMCIDs, r.cfg.Mode))
	}
	if out.SummaryJSON != "" {
		errs = append(errs, merge.WriteSummaryList(out.SummaryJSON, res.Summaries, r.cfg.Mode))
	}

	return errors.Join(errs...)
}

package walker

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
)

// FolderSummary is the aggregate view of one paper folder, emitted to
// the CSV/JSON summary outputs. Metadata fields are the best-effort
// folder-level values aggregated by the run controller.
type FolderSummary struct {
	RootInputDir string `json:"root_input_dir"`
	FolderName   string `json:"folder_name"`
	FolderPath   string `json:"folder_path"`
	IsSymlink    bool   `json:"is_symlink"`

	NumFilesTotal int `json:"num_files_total"`
	NumDirsTotal  int `json:"num_dirs_total"`
	NumPDFs       int `json:"num_pdfs"`
	NumBibTeX     int `json:"num_bibtex"`
	NumRIS        int `json:"num_ris"`
	NumNBIB       int `json:"num_nbib"`
	NumJSON       int `json:"num_json"`
	NumTxtMd      int `json:"num_txt_md"`

	TotalSizeBytes       int64  `json:"total_size_bytes"`
	FolderCtimeISO       string `json:"folder_ctime_iso"`
	FolderMtimeISO       string `json:"folder_mtime_iso"`
	EarliestFileMtimeISO string `json:"earliest_file_mtime_iso"`
	LatestFileMtimeISO   string `json:"latest_file_mtime_iso"`
	ExamplePDF           string `json:"example_pdf"`

	DOI     string `json:"doi"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    string `json:"year"`
	Venue   string `json:"venue"`
}

// Summarize computes the aggregate counts, sizes, and timestamps for
// one folder listing. Metadata fields are left empty for the caller to
// fill from parse results.
func Summarize(f Folder) FolderSummary {
	s := FolderSummary{
		RootInputDir: f.Root,
		FolderName:   filepath.Base(f.Path),
		FolderPath:   registry.ResolvePath(f.Path),
		IsSymlink:    f.IsSymlink,
		NumDirsTotal: f.NumDirs,
	}

	var earliest, latest time.Time
	for _, file := range f.Files {
		s.NumFilesTotal++

		if stat, err := os.Stat(file); err == nil {
			s.TotalSizeBytes += stat.Size()
			mtime := stat.ModTime()
			if earliest.IsZero() || mtime.Before(earliest) {
				earliest = mtime
			}
			if latest.IsZero() || mtime.After(latest) {
				latest = mtime
			}
		}

		switch document.Classify(file) {
		case document.KindPDF:
			s.NumPDFs++
			if s.ExamplePDF == "" {
				s.ExamplePDF = file
			}
		case document.KindBib:
			s.NumBibTeX++
		case document.KindRIS:
			s.NumRIS++
		case document.KindNBIB:
			s.NumNBIB++
		case document.KindJSON:
			s.NumJSON++
		case document.KindTextMD:
			s.NumTxtMd++
		}
	}

	if stat, err := os.Stat(f.Path); err == nil {
		s.FolderMtimeISO = registry.FormatISO(stat.ModTime())
		if ct, ok := changeTime(stat); ok {
			s.FolderCtimeISO = registry.FormatISO(ct)
		}
	}
	if !earliest.IsZero() {
		s.EarliestFileMtimeISO = registry.FormatISO(earliest)
	}
	if !latest.IsZero() {
		s.LatestFileMtimeISO = registry.FormatISO(latest)
	}

	return s
}

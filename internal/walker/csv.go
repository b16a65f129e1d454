package walker

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// csvHeader fixes the summary column order.
var csvHeader = []string{
	"root_input_dir", "folder_name", "folder_path", "is_symlink",
	"num_files_total", "num_dirs_total", "num_pdfs", "num_bibtex",
	"num_ris", "num_nbib", "num_json", "num_txt_md", "total_size_bytes",
	"folder_ctime_iso", "folder_mtime_iso", "earliest_file_mtime_iso",
	"latest_file_mtime_iso",
	"example_pdf", "doi", "title", "authors", "year", "venue",
}

// WriteCSV writes the summaries as CSV with a header row.
func WriteCSV(w io.Writer, summaries []FolderSummary) error {
	return writeCSV(w, summaries, true)
}

// WriteCSVFile writes the summaries to path. In append mode rows are
// added to an existing file and the header is written only when the
// file is new or empty.
func WriteCSVFile(path string, summaries []FolderSummary, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	header := true
	if appendMode {
		if stat, err := f.Stat(); err == nil && stat.Size() > 0 {
			header = false
		}
	}
	return writeCSV(f, summaries, header)
}

func writeCSV(w io.Writer, summaries []FolderSummary, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
	}
	for _, s := range summaries {
		row := []string{
			s.RootInputDir, s.FolderName, s.FolderPath, strconv.FormatBool(s.IsSymlink),
			strconv.Itoa(s.NumFilesTotal), strconv.Itoa(s.NumDirsTotal),
			strconv.Itoa(s.NumPDFs), strconv.Itoa(s.NumBibTeX),
			strconv.Itoa(s.NumRIS), strconv.Itoa(s.NumNBIB),
			strconv.Itoa(s.NumJSON), strconv.Itoa(s.NumTxtMd),
			strconv.FormatInt(s.TotalSizeBytes, 10),
			s.FolderCtimeISO, s.FolderMtimeISO,
			s.EarliestFileMtimeISO, s.LatestFileMtimeISO,
			s.ExamplePDF, s.DOI, s.Title, s.Authors, s.Year, s.Venue,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package document defines the document kinds the collector understands
// and the facts extracted from a single document.
package document

import (
	"path/filepath"
	"strings"
)

// Kind identifies the format family of a document.
type Kind string

const (
	KindBib     Kind = "bib"
	KindRIS     Kind = "ris"
	KindNBIB    Kind = "nbib"
	KindJSON    Kind = "json"
	KindTextMD  Kind = "txt_md"
	KindDocx    Kind = "docx"
	KindPDF     Kind = "pdf"
	KindUnknown Kind = "unknown"
)

// Classify maps a file path to its document kind by extension only,
// case-insensitive. Unknown extensions classify as KindUnknown; callers
// skip those silently.
func Classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bib":
		return KindBib
	case ".ris":
		return KindRIS
	case ".nbib":
		return KindNBIB
	case ".json":
		return KindJSON
	case ".txt", ".md":
		return KindTextMD
	case ".docx":
		return KindDocx
	case ".pdf":
		return KindPDF
	default:
		return KindUnknown
	}
}

// Facts is the normalized result of parsing one document. The scalar
// fields come from structured metadata when the format has any; the
// slices are deduplicated identifier sets covering both structured
// fields and free text. A Facts value is folded into the registries
// once and then discarded.
type Facts struct {
	Kind    Kind
	DOI     string
	Title   string
	Authors []string
	Year    int
	Venue   string

	// FieldURLs are URLs that came from structured url fields; always a
	// subset of URLs.
	FieldURLs []string

	URLs   []string
	DOIs   []string
	PMIDs  []string
	PMCIDs []string
}

// Info summarizes what the parse found, for the parse registry entry.
func (f Facts) Info() map[string]any {
	return map[string]any{
		"found_doi":      f.DOI != "",
		"found_title":    f.Title != "",
		"found_authors":  len(f.Authors) > 0,
		"found_year":     f.Year != 0,
		"found_venue":    f.Venue != "",
		"urls_found":     len(f.FieldURLs),
		"urls_in_text":   len(f.URLs),
		"dois_in_text":   len(f.DOIs),
		"pmids_in_text":  len(f.PMIDs),
		"pmcids_in_text": len(f.PMCIDs),
	}
}

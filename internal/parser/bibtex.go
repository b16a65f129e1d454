package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/identifier"
)

// Field regexes for BibTeX-like content. Values are taken up to the
// first closing brace or quote on the same line; deeply nested braces
// are not resolved. Known limitation, pinned by tests.
var (
	bibDOIRegex    = regexp.MustCompile(`(?i)\bdoi\s*=\s*["{]([^"}]+)["}]`)
	bibTitleRegex  = regexp.MustCompile(`(?i)\btitle\s*=\s*["{]([^` + "\n\r" + `}]+)["}]`)
	bibAuthorRegex = regexp.MustCompile(`(?i)\bauthor\s*=\s*["{]([^` + "\n\r" + `}]+)["}]`)
	bibYearRegex   = regexp.MustCompile(`(?i)\byear\s*=\s*["{]?([0-9]{4})`)
	bibVenueRegex  = regexp.MustCompile(`(?i)\b(journal|booktitle)\s*=\s*["{]([^` + "\n\r" + `}]+)["}]`)
	bibURLRegex    = regexp.MustCompile(`(?i)\burl\s*=\s*["{]([^"}]+)["}]`)
)

// ParseBibTeX extracts metadata from a BibTeX-like file using
// line-level field heuristics rather than a full grammar.
func ParseBibTeX(path string) (document.Facts, error) {
	f := document.Facts{Kind: document.KindBib}

	data, err := readFile(path)
	if err != nil {
		return f, err
	}
	text := string(data)

	if m := bibDOIRegex.FindStringSubmatch(text); m != nil {
		f.DOI = strings.TrimSpace(m[1])
	} else {
		f.DOI = identifier.FindDOI(text)
	}

	if m := bibTitleRegex.FindStringSubmatch(text); m != nil {
		f.Title = strings.TrimSpace(m[1])
	}

	if m := bibAuthorRegex.FindStringSubmatch(text); m != nil {
		f.Authors = SplitAuthors(m[1])
	}

	if m := bibYearRegex.FindStringSubmatch(text); m != nil {
		f.Year, _ = strconv.Atoi(m[1])
	}

	if m := bibVenueRegex.FindStringSubmatch(text); m != nil {
		f.Venue = strings.TrimSpace(m[2])
	}

	for _, m := range bibURLRegex.FindAllStringSubmatch(text, -1) {
		if u := strings.TrimSpace(m[1]); u != "" {
			f.FieldURLs = append(f.FieldURLs, u)
		}
	}

	foldText(&f, text)
	return f, nil
}

// SplitAuthors splits a raw author string on the common separators
// ("and", ";") into an ordered list, preserving each name verbatim.
func SplitAuthors(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.Contains(raw, " and ") {
		parts = strings.Split(raw, " and ")
	} else if strings.Contains(raw, ";") {
		parts = strings.Split(raw, ";")
	} else {
		parts = []string{raw}
	}

	var authors []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

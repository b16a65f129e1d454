// Package identifier provides stateless extraction of bibliographic
// identifiers (DOI, URL, PMID, PMCID) from raw text.
package identifier

import (
	"regexp"
	"strings"
)

// DOI pattern: 10.XXXX/... where XXXX is 4-9 digits.
// Trailing punctuation is intentionally not trimmed from DOI matches;
// some registered DOIs end in punctuation characters.
var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)

// urlPattern matches an http(s) run up to the first whitespace or
// closing paren.
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s)]+`)

var (
	pmidPattern      = regexp.MustCompile(`(?i)\bPMID\s*:?\s*(\d{4,9})\b`)
	pmcidPattern     = regexp.MustCompile(`(?i)\bPMCID?\s*:?\s*(PMC\d+)\b`)
	pubmedURLPattern = regexp.MustCompile(`(?i)pubmed\.ncbi\.nlm\.nih\.gov/(\d{4,9})`)
	pmcURLPattern    = regexp.MustCompile(`(?i)ncbi\.nlm\.nih\.gov/pmc/articles/(PMC\d+)`)
	doiURLPattern    = regexp.MustCompile(`(?i)doi\.org/([^\s?#]+)`)
	doiPrefixPattern = regexp.MustCompile(`(?i)^doi:\s*`)
)

// Found holds the identifiers discovered in one text blob. Each slice is
// deduplicated preserving first-seen order.
type Found struct {
	URLs   []string
	DOIs   []string
	PMIDs  []string
	PMCIDs []string
}

// Extract scans text for URLs, DOIs, PMIDs, and PMCIDs. PubMed, PMC, and
// doi.org URLs additionally contribute the identifier embedded in their
// path.
func Extract(text string) Found {
	var f Found
	seenURL := make(map[string]bool)
	seenDOI := make(map[string]bool)
	seenPMID := make(map[string]bool)
	seenPMC := make(map[string]bool)

	for _, raw := range urlPattern.FindAllString(text, -1) {
		u := strings.TrimRight(strings.TrimSpace(raw), ").,;]")
		if u != "" && !seenURL[u] {
			seenURL[u] = true
			f.URLs = append(f.URLs, u)
		}
		if m := pubmedURLPattern.FindStringSubmatch(u); m != nil && !seenPMID[m[1]] {
			seenPMID[m[1]] = true
			f.PMIDs = append(f.PMIDs, m[1])
		}
		if m := pmcURLPattern.FindStringSubmatch(u); m != nil && !seenPMC[m[1]] {
			seenPMC[m[1]] = true
			f.PMCIDs = append(f.PMCIDs, m[1])
		}
		if m := doiURLPattern.FindStringSubmatch(u); m != nil {
			if d := m[1]; d != "" && !seenDOI[d] {
				seenDOI[d] = true
				f.DOIs = append(f.DOIs, d)
			}
		}
	}

	for _, d := range doiPattern.FindAllString(text, -1) {
		if !seenDOI[d] {
			seenDOI[d] = true
			f.DOIs = append(f.DOIs, d)
		}
	}

	for _, m := range pmidPattern.FindAllStringSubmatch(text, -1) {
		if !seenPMID[m[1]] {
			seenPMID[m[1]] = true
			f.PMIDs = append(f.PMIDs, m[1])
		}
	}

	for _, m := range pmcidPattern.FindAllStringSubmatch(text, -1) {
		if !seenPMC[m[1]] {
			seenPMC[m[1]] = true
			f.PMCIDs = append(f.PMCIDs, m[1])
		}
	}

	return f
}

// FindDOI returns the first DOI found in text, or "" if none.
func FindDOI(text string) string {
	return doiPattern.FindString(text)
}

// FindURLs returns the deduplicated URLs found in text.
func FindURLs(text string) []string {
	return Extract(text).URLs
}

// DOIToURL converts a bare DOI to its https://doi.org resolver URL,
// stripping any leading "doi:" label.
func DOIToURL(doi string) string {
	clean := strings.TrimSpace(doiPrefixPattern.ReplaceAllString(doi, ""))
	return "https://doi.org/" + clean
}

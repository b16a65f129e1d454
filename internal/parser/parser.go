// Package parser implements best-effort metadata extraction for each
// supported document kind. Parsers fail only on read or decode errors;
// finding few or no fields is the expected common case.
package parser

import (
	"fmt"
	"os"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/identifier"
)

// Parse dispatches to the parser for the given kind and returns the
// normalized facts for the document at path.
func Parse(path string, kind document.Kind) (document.Facts, error) {
	switch kind {
	case document.KindBib:
		return ParseBibTeX(path)
	case document.KindRIS, document.KindNBIB:
		return ParseRIS(path, kind)
	case document.KindJSON:
		return ParseJSON(path)
	case document.KindTextMD:
		return ParseText(path)
	case document.KindDocx:
		return ParseDocx(path)
	case document.KindPDF:
		return ParsePDF(path)
	default:
		return document.Facts{}, fmt.Errorf("no parser for kind %q", kind)
	}
}

// readFile reads the whole document. A zero-byte file is treated as a
// read failure; every format needs at least some content to be
// meaningful and truncated syncs commonly leave empty files behind.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	return data, nil
}

// foldText runs the identifier extractor over text and merges the
// results, together with any structured values already present, into
// the fact sets. Deduplication happens here so a document contributes
// each identifier exactly once regardless of how many places it
// appears in.
func foldText(f *document.Facts, text string) {
	found := identifier.Extract(text)
	f.URLs = mergeUnique(f.URLs, found.URLs)
	f.DOIs = mergeUnique(f.DOIs, found.DOIs)
	f.PMIDs = mergeUnique(f.PMIDs, found.PMIDs)
	f.PMCIDs = mergeUnique(f.PMCIDs, found.PMCIDs)
	if f.DOI != "" {
		f.DOIs = mergeUnique(f.DOIs, []string{f.DOI})
	}
	if len(f.FieldURLs) > 0 {
		f.URLs = mergeUnique(f.URLs, f.FieldURLs)
	}
}

// mergeUnique appends the values of add not already in dst, preserving
// order.
func mergeUnique(dst, add []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range add {
		if v != "" && !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

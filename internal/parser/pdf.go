package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
)

// maxScanPages bounds the structured text extraction; identifiers of
// interest are nearly always on the first pages.
const maxScanPages = 10

// uriRegex matches literal /URI( ... ) link entries in the raw bytes.
var uriRegex = regexp.MustCompile(`/URI\s*\(([^)]+)\)`)

// ParsePDF scans a PDF for identifiers. The raw bytes are searched for
// text-like regions and literal link-URI entries; when the file parses
// as a well-formed PDF, decoded page text is scanned as well. No object
// graph parsing is attempted, and image-only pages simply contribute
// nothing.
func ParsePDF(path string) (document.Facts, error) {
	f := document.Facts{Kind: document.KindPDF}

	raw, err := readFile(path)
	if err != nil {
		return f, err
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		return f, fmt.Errorf("%s: not a PDF", path)
	}

	var b strings.Builder
	b.Write(raw)
	for _, m := range uriRegex.FindAllSubmatch(raw, -1) {
		b.WriteString("\n")
		b.Write(m[1])
	}
	if text := pageText(path); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}

	foldText(&f, b.String())
	return f, nil
}

// pageText extracts decoded text from the first pages, best effort. The
// reader panics on some malformed files, so failures of any shape fall
// back to the raw-byte scan.
func pageText(path string) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	file, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	maxPages := maxScanPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}

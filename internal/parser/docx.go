package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
)

// docxMainPart is the main document part inside the zip container.
// Headers, footers, and embedded objects are not read.
const docxMainPart = "word/document.xml"

var markupRegex = regexp.MustCompile(`<[^>]+>`)

// ParseDocx treats a word-processor document as a zip container: the
// main document part is decompressed, the markup stripped, and the
// remaining plain text scanned for identifiers.
func ParseDocx(path string) (document.Facts, error) {
	f := document.Facts{Kind: document.KindDocx}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return f, fmt.Errorf("%s: opening container: %w", path, err)
	}
	defer zr.Close()

	var markup []byte
	for _, file := range zr.File {
		if file.Name != docxMainPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return f, fmt.Errorf("%s: opening %s: %w", path, docxMainPart, err)
		}
		markup, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return f, fmt.Errorf("%s: reading %s: %w", path, docxMainPart, err)
		}
		break
	}
	if markup == nil {
		return f, fmt.Errorf("%s: no %s in container", path, docxMainPart)
	}

	text := markupRegex.ReplaceAllString(string(markup), " ")
	foldText(&f, text)
	return f, nil
}

package parser

import "github.com/mberjans/c-spirit-paper-collection/internal/document"

// ParseText handles plain text and Markdown. These carry no structured
// fields; the identifier extractor runs over the full text.
func ParseText(path string) (document.Facts, error) {
	f := document.Facts{Kind: document.KindTextMD}

	data, err := readFile(path)
	if err != nil {
		return f, err
	}

	foldText(&f, string(data))
	return f, nil
}

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
)

var risYearRegex = regexp.MustCompile(`(19|20)\d{2}`)

// ParseRIS extracts metadata from RIS or NBIB tagged records. Lines
// follow the "TAG  - value" convention; unknown tags are ignored.
func ParseRIS(path string, kind document.Kind) (document.Facts, error) {
	f := document.Facts{Kind: kind}

	data, err := readFile(path)
	if err != nil {
		return f, err
	}
	text := string(data)

	for _, line := range strings.Split(text, "\n") {
		tag, value, ok := strings.Cut(line, " - ")
		if !ok {
			continue
		}
		tag = strings.ToUpper(strings.TrimSpace(tag))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch tag {
		case "DO", "DOI":
			if f.DOI == "" {
				f.DOI = value
			}
		case "TI", "T1":
			if f.Title == "" {
				f.Title = value
			}
		case "AU", "A1", "A2":
			f.Authors = append(f.Authors, value)
		case "PY", "Y1", "DA":
			if f.Year == 0 {
				if m := risYearRegex.FindString(value); m != "" {
					f.Year, _ = strconv.Atoi(m)
				}
			}
		case "JO", "JF", "T2", "BT", "J2":
			if f.Venue == "" {
				f.Venue = value
			}
		case "UR", "L1", "L2", "LK":
			f.FieldURLs = append(f.FieldURLs, value)
		}
	}

	foldText(&f, text)
	return f, nil
}

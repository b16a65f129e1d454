package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
	"github.com/mberjans/c-spirit-paper-collection/internal/identifier"
)

var leadingYearRegex = regexp.MustCompile(`(19|20)\d{2}`)

// ParseJSON extracts metadata from a JSON document holding either a
// single object or a list of objects. No fixed schema is assumed; keys
// are matched case-insensitively against common aliases.
func ParseJSON(path string) (document.Facts, error) {
	f := document.Facts{Kind: document.KindJSON}

	data, err := readFile(path)
	if err != nil {
		return f, err
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return f, fmt.Errorf("%s: decoding JSON: %w", path, err)
	}

	switch v := root.(type) {
	case map[string]any:
		applyJSONObject(&f, v)
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				applyJSONObject(&f, obj)
			}
		}
	}

	text := string(data)
	if f.DOI == "" {
		f.DOI = identifier.FindDOI(text)
	}

	foldText(&f, text)
	return f, nil
}

// applyJSONObject fills still-missing fields from one object, so the
// first object in a list that knows a field wins.
func applyJSONObject(f *document.Facts, obj map[string]any) {
	if f.DOI == "" {
		f.DOI = lookupString(obj, "doi")
	}
	if f.Title == "" {
		f.Title = lookupString(obj, "title", "paper_title")
	}
	if len(f.Authors) == 0 {
		f.Authors = lookupAuthors(obj)
	}
	if f.Year == 0 {
		if y := lookupString(obj, "year", "publicationYear"); y != "" {
			if m := leadingYearRegex.FindString(y); m != "" {
				f.Year, _ = strconv.Atoi(m)
			}
		}
	}
	if f.Venue == "" {
		f.Venue = lookupString(obj, "journal", "venue", "journalName")
	}

	for _, key := range []string{"url", "pdf_url", "link"} {
		switch v := lookupValue(obj, key).(type) {
		case string:
			f.FieldURLs = append(f.FieldURLs, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					f.FieldURLs = append(f.FieldURLs, s)
				}
			}
		}
	}

	// links may be a list of {url|href: ...} objects
	if links, ok := lookupValue(obj, "links").([]any); ok {
		for _, item := range links {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if u, ok := lookupValue(obj, "url").(string); ok {
				f.FieldURLs = append(f.FieldURLs, u)
			} else if u, ok := lookupValue(obj, "href").(string); ok {
				f.FieldURLs = append(f.FieldURLs, u)
			}
		}
	}
}

// lookupValue returns the value for the first key matching
// case-insensitively, or nil.
func lookupValue(obj map[string]any, keys ...string) any {
	for _, want := range keys {
		for k, v := range obj {
			if strings.EqualFold(k, want) {
				return v
			}
		}
	}
	return nil
}

// lookupString stringifies scalar or list values the way loose
// bibliographic exports encode them: numbers become digits, lists join
// with "; ".
func lookupString(obj map[string]any, keys ...string) string {
	switch v := lookupValue(obj, keys...).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// lookupAuthors reads the authors/author key as an ordered list.
func lookupAuthors(obj map[string]any) []string {
	switch v := lookupValue(obj, "authors", "author").(type) {
	case []any:
		var authors []string
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				authors = append(authors, s)
			}
		}
		return authors
	case string:
		return SplitAuthors(v)
	default:
		return nil
	}
}

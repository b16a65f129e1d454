package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseBibTeX_FullEntry(t *testing.T) {
	path := writeFixture(t, "sample.bib", `@article{doe2021,
  doi = {10.1234/abcd},
  title = {Sample},
  author = {Doe, J. and Roe, R.},
  year = {2021},
  journal = {Nature},
  url = {https://example.org/sample},
}
`)

	f, err := ParseBibTeX(path)
	if err != nil {
		t.Fatalf("ParseBibTeX() error: %v", err)
	}

	if f.DOI != "10.1234/abcd" {
		t.Errorf("DOI = %q, want 10.1234/abcd", f.DOI)
	}
	if f.Title != "Sample" {
		t.Errorf("Title = %q, want Sample", f.Title)
	}
	if !reflect.DeepEqual(f.Authors, []string{"Doe, J.", "Roe, R."}) {
		t.Errorf("Authors = %v, want [Doe, J. Roe, R.]", f.Authors)
	}
	if f.Year != 2021 {
		t.Errorf("Year = %d, want 2021", f.Year)
	}
	if f.Venue != "Nature" {
		t.Errorf("Venue = %q, want Nature", f.Venue)
	}
	if len(f.FieldURLs) != 1 || f.FieldURLs[0] != "https://example.org/sample" {
		t.Errorf("FieldURLs = %v", f.FieldURLs)
	}
}

func TestParseBibTeX_DOIOncePerDocument(t *testing.T) {
	// Same DOI in structured field and free text contributes one entry.
	path := writeFixture(t, "dup.bib", `@article{x,
  doi = {10.1234/abcd},
  note = {see also https://doi.org/10.1234/abcd and 10.1234/abcd},
}
`)

	f, err := ParseBibTeX(path)
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, d := range f.DOIs {
		if d == "10.1234/abcd" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("DOI appears %d times in DOIs set, want 1 (got %v)", count, f.DOIs)
	}
}

func TestParseBibTeX_DOIFallbackFromText(t *testing.T) {
	path := writeFixture(t, "nofield.bib", `@misc{y,
  note = {preprint at 10.5555/999888},
}
`)

	f, err := ParseBibTeX(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.DOI != "10.5555/999888" {
		t.Errorf("DOI = %q, want fallback from free text", f.DOI)
	}
}

func TestParseBibTeX_NestedBracesNotResolved(t *testing.T) {
	// Deep brace nesting is not resolved: the title stops at the first
	// closing brace. Pinned limitation.
	path := writeFixture(t, "nested.bib", `@article{z,
  title = {The {RNA} world},
}
`)

	f, err := ParseBibTeX(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Title != "The {RNA" {
		t.Errorf("Title = %q, want truncation at first closing brace", f.Title)
	}
}

func TestParseBibTeX_EmptyFile(t *testing.T) {
	path := writeFixture(t, "empty.bib", "")
	if _, err := ParseBibTeX(path); err == nil {
		t.Error("ParseBibTeX() on empty file should return an error")
	}
}

func TestSplitAuthors(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"Doe, J. and Roe, R.", []string{"Doe, J.", "Roe, R."}},
		{"Doe, J.; Roe, R.", []string{"Doe, J.", "Roe, R."}},
		{"Single Author", []string{"Single Author"}},
		{"", nil},
	}
	for _, c := range cases {
		if got := SplitAuthors(c.raw); !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitAuthors(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

package registry

import (
	"encoding/json"
	"sort"
)

// SidecarRecord carries the lightweight metadata attached to a DOI or
// URL identifier. Sources mirrors the parent dictionary's path set for
// the identifier.
type SidecarRecord struct {
	DOI     string   `json:"doi,omitempty"`
	Title   string   `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Year    int      `json:"year,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Sources []string `json:"sources"`
}

// Sidecar maps identifiers to their metadata records. Field updates are
// first-known-value-wins: a known field is never overwritten, an
// unknown one may be filled by any later source.
type Sidecar struct {
	recs    map[string]*SidecarRecord
	sources map[string]map[string]bool
}

// NewSidecar returns an empty sidecar map.
func NewSidecar() *Sidecar {
	return &Sidecar{
		recs:    make(map[string]*SidecarRecord),
		sources: make(map[string]map[string]bool),
	}
}

// Update records src as a source for id and fills any still-missing
// metadata fields from the arguments.
func (s *Sidecar) Update(id, src, doi, title string, authors []string, year int, venue string) {
	if id == "" {
		return
	}
	rec, ok := s.recs[id]
	if !ok {
		rec = &SidecarRecord{}
		s.recs[id] = rec
		s.sources[id] = make(map[string]bool)
	}

	if doi != "" && rec.DOI == "" {
		rec.DOI = doi
	}
	if title != "" && rec.Title == "" {
		rec.Title = title
	}
	if len(authors) > 0 && len(rec.Authors) == 0 {
		rec.Authors = authors
	}
	if year != 0 && rec.Year == 0 {
		rec.Year = year
	}
	if venue != "" && rec.Venue == "" {
		rec.Venue = venue
	}
	if src != "" {
		s.sources[id][src] = true
	}
}

// Get returns the record for id with Sources materialized, or nil.
func (s *Sidecar) Get(id string) *SidecarRecord {
	rec, ok := s.recs[id]
	if !ok {
		return nil
	}
	out := *rec
	out.Sources = sortedKeys(s.sources[id])
	return &out
}

// Keys returns all identifiers, sorted.
func (s *Sidecar) Keys() []string {
	keys := make([]string, 0, len(s.recs))
	for k := range s.recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of records.
func (s *Sidecar) Len() int {
	return len(s.recs)
}

// MergeOld folds a previously persisted sidecar into this one. Old
// field values win over current ones (first-known-value-wins across
// runs); sources union.
func (s *Sidecar) MergeOld(old *Sidecar) {
	for id, oldRec := range old.recs {
		cur, ok := s.recs[id]
		if !ok {
			copied := *oldRec
			s.recs[id] = &copied
			s.sources[id] = make(map[string]bool)
		} else {
			if oldRec.DOI != "" {
				cur.DOI = oldRec.DOI
			}
			if oldRec.Title != "" {
				cur.Title = oldRec.Title
			}
			if len(oldRec.Authors) > 0 {
				cur.Authors = oldRec.Authors
			}
			if oldRec.Year != 0 {
				cur.Year = oldRec.Year
			}
			if oldRec.Venue != "" {
				cur.Venue = oldRec.Venue
			}
		}
		for src := range old.sources[id] {
			s.sources[id][src] = true
		}
	}
}

// MarshalJSON writes the persisted shape: identifier → record with a
// sorted sources list.
func (s *Sidecar) MarshalJSON() ([]byte, error) {
	out := make(map[string]*SidecarRecord, len(s.recs))
	for id := range s.recs {
		out[id] = s.Get(id)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the persisted shape back. Null entries are
// dropped; the rest of the file still loads.
func (s *Sidecar) UnmarshalJSON(data []byte) error {
	var raw map[string]*SidecarRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.recs = make(map[string]*SidecarRecord, len(raw))
	s.sources = make(map[string]map[string]bool, len(raw))
	for id, rec := range raw {
		if rec == nil {
			continue
		}
		srcs := rec.Sources
		rec.Sources = nil
		s.recs[id] = rec
		s.sources[id] = make(map[string]bool, len(srcs))
		for _, src := range srcs {
			s.sources[id][src] = true
		}
	}
	return nil
}

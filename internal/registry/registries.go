package registry

import "github.com/mberjans/c-spirit-paper-collection/internal/document"

// Registries bundles the four identifier dictionaries and the two
// sidecar maps owned by one run. No ambient globals; independent runs
// in one process never share state.
type Registries struct {
	URLs   *Dict
	DOIs   *Dict
	PMIDs  *Dict
	PMCIDs *Dict

	DOIRecords *Sidecar
	URLRecords *Sidecar
}

// NewRegistries returns an empty set of registries.
func NewRegistries() *Registries {
	return &Registries{
		URLs:       NewDict(),
		DOIs:       NewDict(),
		PMIDs:      NewDict(),
		PMCIDs:     NewDict(),
		DOIRecords: NewSidecar(),
		URLRecords: NewSidecar(),
	}
}

// Fold records all identifiers of one parsed document. The fact sets
// are already deduplicated, so path lands in each registry exactly once
// per identifier. The document's primary DOI and its structured-field
// URLs carry the extracted metadata into the sidecars; all other
// identifiers get bare source tracking.
func (r *Registries) Fold(path string, f document.Facts) {
	fieldURL := make(map[string]bool, len(f.FieldURLs))
	for _, u := range f.FieldURLs {
		fieldURL[u] = true
	}

	for _, u := range f.URLs {
		r.URLs.Add(u, path)
		if fieldURL[u] {
			r.URLRecords.Update(u, path, f.DOI, f.Title, f.Authors, f.Year, f.Venue)
		} else {
			r.URLRecords.Update(u, path, "", "", nil, 0, "")
		}
	}

	for _, d := range f.DOIs {
		r.DOIs.Add(d, path)
		if d == f.DOI {
			r.DOIRecords.Update(d, path, d, f.Title, f.Authors, f.Year, f.Venue)
		} else {
			r.DOIRecords.Update(d, path, "", "", nil, 0, "")
		}
	}

	for _, p := range f.PMIDs {
		r.PMIDs.Add(p, path)
	}
	for _, p := range f.PMCIDs {
		r.PMCIDs.Add(p, path)
	}
}

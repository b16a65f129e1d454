package registry

import (
	"encoding/json"
	"sort"
)

// Dict maps an identifier to the set of absolute file paths that
// reference it. Persisted as an object of sorted path lists; order in
// the lists is insignificant. A key never exists with an empty set.
type Dict struct {
	paths map[string]map[string]bool
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{paths: make(map[string]map[string]bool)}
}

// Add records that path references id. Empty identifiers are ignored.
func (d *Dict) Add(id, path string) {
	if id == "" || path == "" {
		return
	}
	set, ok := d.paths[id]
	if !ok {
		set = make(map[string]bool)
		d.paths[id] = set
	}
	set[path] = true
}

// Has reports whether id is present.
func (d *Dict) Has(id string) bool {
	return len(d.paths[id]) > 0
}

// Paths returns the sorted path set for id.
func (d *Dict) Paths(id string) []string {
	return sortedKeys(d.paths[id])
}

// Keys returns all identifiers, sorted.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.paths))
	for k := range d.paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of identifiers.
func (d *Dict) Len() int {
	return len(d.paths)
}

// Union folds every entry of other into d (path-set union per key).
func (d *Dict) Union(other *Dict) {
	for id, set := range other.paths {
		for path := range set {
			d.Add(id, path)
		}
	}
}

// MarshalJSON writes the persisted shape: identifier → sorted path list.
func (d *Dict) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(d.paths))
	for id, set := range d.paths {
		out[id] = sortedKeys(set)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the persisted shape back into set form.
func (d *Dict) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.paths = make(map[string]map[string]bool, len(raw))
	for id, paths := range raw {
		for _, p := range paths {
			d.Add(id, p)
		}
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

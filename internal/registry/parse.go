// Package registry holds the mutable state of a cataloging run: the
// per-path parse registry, the identifier dictionaries, and the sidecar
// metadata records. All registries key on absolute, symlink-resolved
// paths so the same physical file never double-counts under aliases.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mberjans/c-spirit-paper-collection/internal/document"
)

// ParseEntry is the durable per-path parse status record.
type ParseEntry struct {
	FolderPath string         `json:"folder_path"`
	Kind       document.Kind  `json:"kind"`
	Parsed     bool           `json:"parsed"`
	Error      string         `json:"error"`
	SizeBytes  int64          `json:"size_bytes"`
	MtimeISO   string         `json:"mtime_iso"`
	Info       map[string]any `json:"info"`
}

// ParseRegistry tracks parse status per absolute path. Reprocessing a
// path overwrites its entry in place; there is no merging within a run.
type ParseRegistry struct {
	Entries map[string]*ParseEntry
}

// NewParseRegistry returns an empty registry.
func NewParseRegistry() *ParseRegistry {
	return &ParseRegistry{Entries: make(map[string]*ParseEntry)}
}

// LoadParseRegistry reads a persisted registry. A missing file yields
// an empty registry, not an error.
func LoadParseRegistry(path string) (*ParseRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewParseRegistry(), nil
		}
		return nil, fmt.Errorf("reading parse registry: %w", err)
	}

	var entries map[string]*ParseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing parse registry: %w", err)
	}
	if entries == nil {
		entries = make(map[string]*ParseEntry)
	}
	// Null entries carry no status; drop them.
	for path, entry := range entries {
		if entry == nil {
			delete(entries, path)
		}
	}
	return &ParseRegistry{Entries: entries}, nil
}

// Record registers the outcome of handling path. Success implies a nil
// error message; failure leaves info empty. File size and mtime are
// captured best effort.
func (r *ParseRegistry) Record(path, folder string, kind document.Kind, parsed bool, errMsg string, info map[string]any) {
	entry := &ParseEntry{
		FolderPath: folder,
		Kind:       kind,
		Parsed:     parsed,
		Error:      errMsg,
		Info:       info,
	}
	if entry.Info == nil {
		entry.Info = map[string]any{}
	}
	if stat, err := os.Stat(path); err == nil {
		entry.SizeBytes = stat.Size()
		entry.MtimeISO = stat.ModTime().Format("2006-01-02T15:04:05")
	}
	r.Entries[path] = entry
}

// IsParsed reports whether path has an entry marked parsed.
func (r *ParseRegistry) IsParsed(path string) bool {
	entry, ok := r.Entries[path]
	return ok && entry != nil && entry.Parsed
}

// MarshalJSON writes the registry in its persisted shape: an object
// keyed by absolute path.
func (r *ParseRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Entries)
}

// ResolvePath returns the absolute, symlink-resolved form of path. If
// symlink resolution fails (broken link, missing parent) the absolute
// path is used as-is.
func ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// FormatISO renders a timestamp the way registry entries store mtimes.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

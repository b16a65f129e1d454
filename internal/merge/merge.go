// Package merge reconciles in-memory run state with previously
// persisted JSON files. Each output file is written whole, once, and
// independently; there are no transactional guarantees across files.
package merge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
)

// Mode selects the persistence strategy for JSON outputs.
type Mode string

const (
	// ModeAppend merges key-wise with what is already on disk.
	ModeAppend Mode = "append"
	// ModeOverwrite replaces the file contents entirely.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode validates a write mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAppend, ModeOverwrite:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown write mode %q (valid: append, overwrite)", s)
	}
}

// WriteDict persists an identifier dictionary. Append merges key-wise
// via path-set union; untouched keys are preserved.
func WriteDict(path string, d *registry.Dict, mode Mode) error {
	if mode == ModeAppend {
		if data, err := os.ReadFile(path); err == nil {
			existing := registry.NewDict()
			// A malformed existing file is ignored and overwritten.
			if json.Unmarshal(data, existing) == nil {
				merged := registry.NewDict()
				merged.Union(existing)
				merged.Union(d)
				return writeJSON(path, merged)
			}
		}
	}
	return writeJSON(path, d)
}

// WriteSidecar persists a sidecar map. Append merges key-wise with
// first-known-value-wins per field (the persisted value wins) and
// sources as the union of both sides.
func WriteSidecar(path string, s *registry.Sidecar, mode Mode) error {
	if mode == ModeAppend {
		if data, err := os.ReadFile(path); err == nil {
			old := registry.NewSidecar()
			if json.Unmarshal(data, old) == nil {
				s.MergeOld(old)
			}
		}
	}
	return writeJSON(path, s)
}

// WriteParseRegistry persists the parse registry. Append merges
// key-wise with last-write-wins per key; keys untouched this run are
// preserved.
func WriteParseRegistry(path string, r *registry.ParseRegistry, mode Mode) error {
	if mode == ModeAppend {
		if data, err := os.ReadFile(path); err == nil {
			var existing map[string]*registry.ParseEntry
			if json.Unmarshal(data, &existing) == nil && existing != nil {
				for key, entry := range existing {
					if entry == nil {
						delete(existing, key)
					}
				}
				for key, entry := range r.Entries {
					existing[key] = entry
				}
				return writeJSON(path, existing)
			}
		}
	}
	return writeJSON(path, r)
}

// WriteSummaryList persists a list-shaped output (folder summaries).
// Append extends the existing list positionally; entries are not
// deduplicated across runs, so rescanning an unchanged folder appends
// a duplicate row.
func WriteSummaryList(path string, summaries any, mode Mode) error {
	current, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("encoding summaries: %w", err)
	}

	if mode == ModeAppend {
		if data, err := os.ReadFile(path); err == nil {
			var existing []json.RawMessage
			if json.Unmarshal(data, &existing) == nil {
				var cur []json.RawMessage
				if err := json.Unmarshal(current, &cur); err != nil {
					return fmt.Errorf("encoding summaries: %w", err)
				}
				return writeJSON(path, append(existing, cur...))
			}
		}
	}

	var out any
	if err := json.Unmarshal(current, &out); err != nil {
		return fmt.Errorf("encoding summaries: %w", err)
	}
	return writeJSON(path, out)
}

// writeJSON writes v to path as indented JSON in one shot.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Package storage maintains a SQLite lookup cache built from the
// persisted identifier dictionaries, for fast identifier→paths queries
// without rescanning the JSON files.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mberjans/c-spirit-paper-collection/internal/registry"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Hit is one lookup match.
type Hit struct {
	Kind  string `json:"kind"`
	Ident string `json:"identifier"`
	Path  string `json:"path"`
}

// Open opens or creates the cache database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS identifiers (
			kind TEXT NOT NULL,
			ident TEXT NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (kind, ident, path)
		);
		CREATE INDEX IF NOT EXISTS idx_identifiers_ident ON identifiers(ident);

		CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			ident TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			authors_json TEXT,
			pub_year INTEGER,
			venue TEXT,
			PRIMARY KEY (kind, ident)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceKind reloads the identifiers of one kind from a dictionary,
// replacing whatever the cache held for that kind.
func (d *DB) ReplaceKind(kind string, dict *registry.Dict) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM identifiers WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("clearing %s identifiers: %w", kind, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO identifiers (kind, ident, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ident := range dict.Keys() {
		for _, path := range dict.Paths(ident) {
			if _, err := stmt.Exec(kind, ident, path); err != nil {
				return fmt.Errorf("inserting %s %s: %w", kind, ident, err)
			}
		}
	}

	return tx.Commit()
}

// ReplaceRecords reloads the sidecar records of one kind.
func (d *DB) ReplaceRecords(kind string, sc *registry.Sidecar) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("clearing %s records: %w", kind, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (kind, ident, doi, title, authors_json, pub_year, venue)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ident := range sc.Keys() {
		rec := sc.Get(ident)
		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			return fmt.Errorf("encoding authors for %s: %w", ident, err)
		}
		if _, err := stmt.Exec(kind, ident, rec.DOI, rec.Title, string(authorsJSON), rec.Year, rec.Venue); err != nil {
			return fmt.Errorf("inserting record %s: %w", ident, err)
		}
	}

	return tx.Commit()
}

// Lookup returns every (kind, path) pair referencing the identifier.
func (d *DB) Lookup(ident string) ([]Hit, error) {
	rows, err := d.db.Query(
		`SELECT kind, ident, path FROM identifiers WHERE ident = ? ORDER BY kind, path`, ident)
	if err != nil {
		return nil, fmt.Errorf("querying identifier: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Kind, &h.Ident, &h.Path); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Record returns the sidecar record cached for an identifier, or nil.
func (d *DB) Record(kind, ident string) (*registry.SidecarRecord, error) {
	row := d.db.QueryRow(
		`SELECT doi, title, authors_json, pub_year, venue FROM records WHERE kind = ? AND ident = ?`,
		kind, ident)

	var rec registry.SidecarRecord
	var authorsJSON string
	err := row.Scan(&rec.DOI, &rec.Title, &authorsJSON, &rec.Year, &rec.Venue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	if authorsJSON != "" {
		if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors: %w", err)
		}
	}
	return &rec, nil
}

// Package store is a sqlite cache of catalog records: artist tags,
// listener counts and similar-artist lists. It never holds a listener's
// own history.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite allows a single writer; sources fill the cache from several
	// goroutines.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const createQuery = `
CREATE TABLE IF NOT EXISTS Artist (
  name TEXT PRIMARY KEY COLLATE NOCASE,
  listeners INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS Tag (
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS ArtistTag (
  artist TEXT COLLATE NOCASE,
  tag TEXT,
  count INTEGER,
  position INTEGER,
  FOREIGN KEY (artist) REFERENCES Artist(name),
  FOREIGN KEY (tag) REFERENCES Tag(name),
  PRIMARY KEY (artist, tag)
);

CREATE TABLE IF NOT EXISTS SimilarArtist (
  artist TEXT COLLATE NOCASE,
  similar TEXT,
  match REAL,
  position INTEGER,
  FOREIGN KEY (artist) REFERENCES Artist(name),
  PRIMARY KEY (artist, similar)
);
`

func createTables(db *sql.DB) error {
	if _, err := db.Exec(createQuery); err != nil {
		return fmt.Errorf("executing create: %w", err)
	}
	return nil
}

// ensureSchema adds columns introduced after the first release.
func ensureSchema(db *sql.DB) error {
	if err := addColumnIfNotExists(db, "Artist", "details_last_updated", "DATETIME"); err != nil {
		return err
	}
	if err := addColumnIfNotExists(db, "Artist", "similar_last_updated", "DATETIME"); err != nil {
		return err
	}
	return nil
}

func addColumnIfNotExists(db *sql.DB, table, column, typeDef string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if !exists {
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typeDef)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, column, err)
		}
	}
	return nil
}

func columnExists(db *sql.DB, tableName string, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dfltValue interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}
	return false, rows.Err()
}

// ensureArtist creates the artist row if it does not exist yet.
func ensureArtist(tx *sql.Tx, name string) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO Artist (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("inserting artist %q: %w", name, err)
	}
	return nil
}

package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const storeSchemaVersion = 1

const storeSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	position    INTEGER PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	model_type  TEXT NOT NULL,
	version     TEXT NOT NULL,
	access_type TEXT NOT NULL,
	price_wei   INTEGER NOT NULL,
	tags        TEXT NOT NULL,
	size_bytes  INTEGER NOT NULL,
	rating      REAL NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	source   TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
`

// SnapshotInfo describes the last saved catalog
type SnapshotInfo struct {
	Source  string
	SavedAt time.Time
	Count   int
}

// Store caches the last loaded catalog in a local SQLite database so the list can
// start without its source
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the cache database at path. Use ":memory:" for a
// throwaway store.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := migrateStore(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check schema version: %w", err)
	}

	return &Store{db: db}, nil
}

func migrateStore(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", storeSchemaVersion)
		return err
	}
	if err != nil {
		return err
	}
	if version != storeSchemaVersion {
		// The cache holds nothing that cannot be reloaded from the source
		if _, err := db.Exec("DELETE FROM entries; DELETE FROM snapshot;"); err != nil {
			return err
		}
		_, err = db.Exec("UPDATE schema_version SET version = ?", storeSchemaVersion)
		return err
	}
	return nil
}

// Save replaces the cached snapshot with entries, keeping their order
func (s *Store) Save(source string, entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (position, id, name, description, model_type, version,
			access_type, price_wei, tags, size_bytes, rating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		tags, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for %s: %w", e.ID, err)
		}
		if _, err := stmt.Exec(i, e.ID, e.Name, e.Description, string(e.ModelType), e.Version,
			string(e.AccessType), int64(e.PriceWei), string(tags), int64(e.SizeBytes), e.Rating,
			unixNanos(e.UpdatedAt)); err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO snapshot (id, source, saved_at) VALUES (1, ?, ?)`,
		source, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// unixNanos maps the zero time to 0; UnixNano is undefined for it
func unixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// Load returns the cached entries in their saved order
func (s *Store) Load() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, model_type, version, access_type, price_wei,
			tags, size_bytes, rating, updated_at
		FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			modelType string
			access    string
			price     int64
			tags      string
			size      int64
			updated   int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &modelType, &e.Version, &access,
			&price, &tags, &size, &e.Rating, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for %s: %w", e.ID, err)
		}
		e.ModelType = ModelType(modelType)
		e.AccessType = AccessType(access)
		e.PriceWei = uint64(price)
		e.SizeBytes = uint64(size)
		e.UpdatedAt = fromUnixNanos(updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

// Info describes the cached snapshot. ok is false when nothing was saved yet.
func (s *Store) Info() (info SnapshotInfo, ok bool, err error) {
	var savedAt int64
	err = s.db.QueryRow("SELECT source, saved_at FROM snapshot WHERE id = 1").Scan(&info.Source, &savedAt)
	if err == sql.ErrNoRows {
		return SnapshotInfo{}, false, nil
	}
	if err != nil {
		return SnapshotInfo{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	info.SavedAt = time.Unix(0, savedAt)

	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&info.Count); err != nil {
		return SnapshotInfo{}, false, fmt.Errorf("failed to count entries: %w", err)
	}
	return info, true, nil
}

// Close releases the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

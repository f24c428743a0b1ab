// Package snapshot persists listings into a sqlite database so walks can
// be replayed and compared later.
package snapshot

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/treewalk/internal/filelock"
	"github.com/harrison/treewalk/internal/walker"
)

//go:embed schema.sql
var schemaSQL string

// ErrSnapshotNotFound reports a lookup for a snapshot id that does not
// exist in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one saved listing.
type Snapshot struct {
	ID         string
	Name       string
	Root       string
	Options    walker.Options
	EntryCount int
	CreatedAt  time.Time
}

// Store manages the sqlite database holding saved listings.
type Store struct {
	db     *sql.DB
	dbPath string
	lock   *filelock.FileLock
}

// NewStore opens (and initializes, if needed) the snapshot database at
// dbPath. The special path ":memory:" opens an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout must come first so the remaining pragmas wait on
	// locks held by a concurrent treewalk process.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if dbPath != ":memory:" {
		store.lock = filelock.New(dbPath + ".lock")
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on
// "database is locked" errors, which can occur while two processes
// initialize the same database file.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists one listing and returns the stored snapshot. Paths keep
// their listing order. For file-backed stores the write happens under an
// exclusive flock so concurrent CLI invocations serialize.
func (s *Store) Save(name, root string, opts walker.Options, paths []string) (Snapshot, error) {
	snap := Snapshot{
		ID:         uuid.New().String(),
		Name:       name,
		Root:       root,
		Options:    opts,
		EntryCount: len(paths),
		CreatedAt:  time.Now().UTC(),
	}

	save := func() error {
		optionsJSON, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			`INSERT INTO snapshots (id, name, root, options, entry_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, snap.Name, snap.Root, string(optionsJSON), snap.EntryCount, snap.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO snapshot_entries (snapshot_id, position, path) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare entry insert: %w", err)
		}
		defer stmt.Close()

		for i, path := range paths {
			if _, err := stmt.Exec(snap.ID, i, path); err != nil {
				return fmt.Errorf("insert entry %d: %w", i, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit snapshot: %w", err)
		}
		return nil
	}

	var err error
	if s.lock != nil {
		err = s.lock.WithLock(save)
	} else {
		err = save()
	}
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (s *Store) List() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, name, root, options, entry_count, created_at FROM snapshots ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Get returns one snapshot and its paths in listing order. The id may be
// an unambiguous prefix of the full snapshot id.
func (s *Store) Get(id string) (Snapshot, []string, error) {
	row := s.db.QueryRow(
		`SELECT id, name, root, options, entry_count, created_at FROM snapshots WHERE id LIKE ? ORDER BY id LIMIT 1`,
		id+"%",
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return Snapshot{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT path FROM snapshot_entries WHERE snapshot_id = ? ORDER BY position`,
		snap.ID,
	)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return Snapshot{}, nil, fmt.Errorf("scan entry: %w", err)
		}
		paths = append(paths, path)
	}
	return snap, paths, rows.Err()
}

// Delete removes a snapshot and its entries.
func (s *Store) Delete(id string) error {
	snap, _, err := s.Get(id)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, snap.ID)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

// Diff compares two snapshots of the same root and returns the paths
// present only in the second (added) and only in the first (removed),
// each in their snapshot's listing order.
func (s *Store) Diff(beforeID, afterID string) (added, removed []string, err error) {
	before, beforePaths, err := s.Get(beforeID)
	if err != nil {
		return nil, nil, err
	}
	after, afterPaths, err := s.Get(afterID)
	if err != nil {
		return nil, nil, err
	}
	if before.Root != after.Root {
		return nil, nil, fmt.Errorf("snapshots cover different roots: %s vs %s", before.Root, after.Root)
	}

	beforeSet := make(map[string]bool, len(beforePaths))
	for _, p := range beforePaths {
		beforeSet[p] = true
	}
	afterSet := make(map[string]bool, len(afterPaths))
	for _, p := range afterPaths {
		afterSet[p] = true
	}

	for _, p := range afterPaths {
		if !beforeSet[p] {
			added = append(added, p)
		}
	}
	for _, p := range beforePaths {
		if !afterSet[p] {
			removed = append(removed, p)
		}
	}
	return added, removed, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var optionsJSON string
	err := row.Scan(&snap.ID, &snap.Name, &snap.Root, &optionsJSON, &snap.EntryCount, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &snap.Options); err != nil {
		return Snapshot{}, fmt.Errorf("decode options: %w", err)
	}
	return snap, nil
}

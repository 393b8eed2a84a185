package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driven"
)

// DatabaseName is the database file inside the data directory.
const DatabaseName = "mappings.db"

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Ensure Store implements the interface.
var _ driven.MappingStore = (*Store)(nil)

// Store is a SQLite-based driven.MappingStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.libdoc/data/mappings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".libdoc", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every up migration newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or replaces a run together with its entries.
func (s *Store) Save(ctx context.Context, run domain.MappingRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Replacing the run cascades to its entries.
	if _, err := tx.ExecContext(ctx, "DELETE FROM mapping_runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mapping_runs (id, library, condensed, slug_length, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Library, run.Condensed, run.SlugLength, run.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO mapping_entries (run_id, hash, path, slugs) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare entries: %w", err)
	}
	defer stmt.Close()

	for _, entry := range run.Entries {
		slugs := entry.Slugs
		if slugs == nil {
			slugs = map[string]string{}
		}
		data, err := json.Marshal(slugs)
		if err != nil {
			return fmt.Errorf("encode slugs of %s: %w", entry.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, entry.ID, entry.Path, string(data)); err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a run with its entries.
func (s *Store) Get(ctx context.Context, id string) (*domain.MappingRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, library, condensed, slug_length, created_at
		FROM mapping_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.entries(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Entries = entries
	return run, nil
}

// Latest retrieves the most recent run of a library.
func (s *Store) Latest(ctx context.Context, library string) (*domain.MappingRun, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM mapping_runs WHERE library = ?
		ORDER BY created_at DESC, id ASC LIMIT 1
	`, library).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return s.Get(ctx, id)
}

// List returns runs without entries, newest first.
func (s *Store) List(ctx context.Context, library string) ([]domain.MappingRun, error) {
	query := "SELECT id, library, condensed, slug_length, created_at FROM mapping_runs"
	var args []any
	if library != "" {
		query += " WHERE library = ?"
		args = append(args, library)
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.MappingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Delete removes a run and its entries.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM mapping_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (s *Store) entries(ctx context.Context, runID string) ([]domain.MappingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, path, slugs FROM mapping_entries
		WHERE run_id = ? ORDER BY hash
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.MappingEntry
	for rows.Next() {
		var entry domain.MappingEntry
		var slugs string
		if err := rows.Scan(&entry.ID, &entry.Path, &slugs); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(slugs), &entry.Slugs); err != nil {
			return nil, fmt.Errorf("decode slugs of %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.MappingRun, error) {
	var run domain.MappingRun
	var created string
	if err := row.Scan(&run.ID, &run.Library, &run.Condensed, &run.SlugLength, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}

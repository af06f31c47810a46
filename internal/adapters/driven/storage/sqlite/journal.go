package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/biowatch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/biowatch/internal/core/domain"
	"github.com/custodia-labs/biowatch/internal/core/ports/driven"
	"github.com/custodia-labs/biowatch/internal/core/ports/driving"
	"github.com/custodia-labs/biowatch/internal/logger"
)

// MemoryPath opens a journal that lives only in process memory.
const MemoryPath = ":memory:"

// Ensure Journal implements the interfaces.
var (
	_ driven.EventHandler   = (*Journal)(nil)
	_ driving.ChangeJournal = (*Journal)(nil)
)

// Journal records change events in a SQLite database.
type Journal struct {
	db   *sql.DB
	path string
}

// NewJournal opens or creates the journal at path and runs pending migrations.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: journal path is required", domain.ErrConfiguration)
	}

	var (
		db  *sql.DB
		err error
	)
	if path == MemoryPath {
		db, err = sql.Open("sqlite", MemoryPath)
		if err == nil {
			// Every connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		db, err = sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal location as configured.
func (j *Journal) Path() string {
	return j.path
}

// HandleEvent appends ev to the journal.
func (j *Journal) HandleEvent(ctx context.Context, ev domain.ChangeEvent) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO change_events (kind, identifier, category, source, content, observed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.Kind.String(), ev.Identifier, string(ev.Category), ev.Source, ev.Content, ev.ObservedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("recording %s %s: %w", ev.Kind, ev.Identifier, err)
	}
	return nil
}

// Recent returns up to limit events, newest first. Query failures are logged
// and yield no events.
func (j *Journal) Recent(ctx context.Context, limit int) []domain.ChangeEvent {
	events, err := j.Query(ctx, domain.JournalQuery{Limit: limit})
	if err != nil {
		logger.Warn("Reading change journal: %v", err)
		return nil
	}
	return events
}

// Query returns the events matching q, newest first.
func (j *Journal) Query(ctx context.Context, q domain.JournalQuery) ([]domain.ChangeEvent, error) {
	var (
		where []string
		args  []any
	)
	if len(q.Kinds) > 0 {
		marks := make([]string, len(q.Kinds))
		for i, k := range q.Kinds {
			marks[i] = "?"
			args = append(args, k.String())
		}
		where = append(where, "kind IN ("+strings.Join(marks, ", ")+")")
	}
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}
	if q.Identifier != "" {
		where = append(where, "identifier = ?")
		args = append(args, q.Identifier)
	}
	if !q.Since.IsZero() {
		where = append(where, "observed_at >= ?")
		args = append(args, q.Since.UnixNano())
	}

	query := "SELECT kind, identifier, category, source, content, observed_at FROM change_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying change journal: %w", err)
	}
	defer rows.Close()

	var events []domain.ChangeEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Count returns the number of recorded events.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM change_events").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting change events: %w", err)
	}
	return n, nil
}

// Prune deletes events observed before cutoff and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, "DELETE FROM change_events WHERE observed_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning change journal: %w", err)
	}
	return res.RowsAffected()
}

func scanEvent(rows *sql.Rows) (domain.ChangeEvent, error) {
	var (
		ev       domain.ChangeEvent
		kind     string
		category string
		observed int64
	)
	if err := rows.Scan(&kind, &ev.Identifier, &category, &ev.Source, &ev.Content, &observed); err != nil {
		return ev, fmt.Errorf("scanning change event: %w", err)
	}

	k, err := domain.ParseChangeKind(kind)
	if err != nil {
		return ev, err
	}
	ev.Kind = k
	ev.Category = domain.Category(category)
	ev.ObservedAt = time.Unix(0, observed)
	return ev, nil
}

// migrate runs all pending migrations.
func (j *Journal) migrate(fsys embed.FS) error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := j.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_change_journal.up.sql" -> 1
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
		if _, err := j.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := j.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Package baseline persists accepted findings in sqlite so later runs only
// report new ones.
package baseline

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	// fixed width so stored timestamps sort lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry is one finding as stored in a baseline run. Path should be relative
// to the project root so baselines survive checkouts in other directories.
type Entry struct {
	Path     string
	Function string
	Argument string
	Code     string
	Line     int
	Column   int
}

// Fingerprint identifies an entry independently of its line and column, so
// edits elsewhere in a file do not invalidate the baseline.
func (e Entry) Fingerprint() string {
	return strings.Join([]string{e.Code, filepath.ToSlash(e.Path), e.Function, e.Argument}, "\x1f")
}

type Run struct {
	ID          string
	CreatedAt   time.Time
	ToolVersion string
	Entries     []Entry
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("baseline path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("baseline path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create baseline directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite baseline %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite baseline %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun records entries as a new run and returns its id. The newest run is
// the active baseline; older runs are kept up to keep.
func (s *Store) SaveRun(entries []Entry, toolVersion string, keep int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	created := time.Now().UTC().Format(timeLayout)

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO runs (id, created_at_utc, tool_version, finding_count) VALUES (?, ?, ?, ?)`,
			id, created, toolVersion, len(entries),
		); err != nil {
			_ = tx.Rollback()
			return err
		}

		stmt, err := tx.Prepare(`
INSERT INTO findings (run_id, fingerprint, path, function_name, argument, code, line, col)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		for _, e := range entries {
			if _, err := stmt.Exec(id, e.Fingerprint(), filepath.ToSlash(e.Path), e.Function, e.Argument, e.Code, e.Line, e.Column); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return err
			}
		}
		_ = stmt.Close()

		if keep > 0 {
			if _, err := tx.Exec(`
DELETE FROM runs WHERE id NOT IN (
  SELECT id FROM runs ORDER BY created_at_utc DESC, rowid DESC LIMIT ?
)`, keep); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestRun returns the active baseline run, or nil when none was saved.
func (s *Store) LatestRun() (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		run        Run
		createdRaw string
	)
	err := s.withRetry("load latest run", func() error {
		return s.db.QueryRow(
			`SELECT id, created_at_utc, tool_version FROM runs ORDER BY created_at_utc DESC, rowid DESC LIMIT 1`,
		).Scan(&run.ID, &createdRaw, &run.ToolVersion)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	created, err := time.Parse(timeLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp %q: %w", createdRaw, err)
	}
	run.CreatedAt = created.UTC()

	var rows *sql.Rows
	err = s.withRetry("load run findings", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT path, function_name, argument, code, line, col
FROM findings WHERE run_id = ? ORDER BY rowid ASC`, run.ID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Function, &e.Argument, &e.Code, &e.Line, &e.Column); err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		run.Entries = append(run.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}
	return &run, nil
}

// RunCount returns how many runs are stored.
func (s *Store) RunCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.withRetry("count runs", func() error {
		return s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	})
	return n, err
}

// Load returns the active baseline as a Set. An empty store yields an empty set.
func (s *Store) Load() (*Set, error) {
	run, err := s.LatestRun()
	if err != nil {
		return nil, err
	}
	if run == nil {
		return NewSet(nil), nil
	}
	return NewSet(run.Entries), nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ticktodo/internal/todo"
)

type sqliteBackend struct {
	db   *sql.DB
	path string
}

func openSQLite(path string) (*sqliteBackend, error) {
	// modernc.org/sqlite uses driver name "sqlite" and prefers a file: DSN.
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &sqliteBackend{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return s, nil
}

func (s *sqliteBackend) Path() string {
	return s.path
}

func (s *sqliteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteBackend) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureItemColumns()
}

func (s *sqliteBackend) ensureItemColumns() error {
	required := map[string]string{
		"position": "ALTER TABLE items ADD COLUMN position INTEGER NOT NULL DEFAULT 0;",
		"due":      "ALTER TABLE items ADD COLUMN due TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(items);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteBackend) Load() (*todo.List, error) {
	rows, err := s.db.Query(`SELECT id, title, completed, due, created_at FROM items ORDER BY completed, position, rowid;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	l := todo.New()
	for rows.Next() {
		var it todo.Item
		var completed int
		var dueStr sql.NullString
		var createdStr string

		if err := rows.Scan(&it.ID, &it.Title, &completed, &dueStr, &createdStr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		it.Completed = completed == 1
		if dueStr.Valid {
			parsed, err := time.Parse(time.RFC3339, dueStr.String)
			if err != nil {
				return nil, fmt.Errorf("%w: item %s due %q: %v", ErrInvalidData, it.ID, dueStr.String, err)
			}
			local := parsed.Local()
			it.Due = &local
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			it.CreatedAt = created
		}
		if it.Completed {
			l.Completed = append(l.Completed, it)
		} else {
			l.Pending = append(l.Pending, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return normalize(l), nil
}

// Save replaces every stored row with the contents of l in one transaction.
func (s *sqliteBackend) Save(l *todo.List) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO items (id, title, completed, position, due, created_at) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(items []todo.Item, completed int) error {
		for pos, it := range items {
			dueStr := sql.NullString{}
			if it.HasDue() {
				dueStr = sql.NullString{String: it.Due.Format(time.RFC3339), Valid: true}
			}
			created := it.CreatedAt
			if created.IsZero() {
				created = time.Now()
			}
			if _, err := stmt.Exec(it.ID, it.Title, completed, pos, dueStr, created.UTC().Format(time.RFC3339)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(l.Pending, 0); err != nil {
		return err
	}
	if err := insert(l.Completed, 1); err != nil {
		return err
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Package snapshots stores named copies of record collections in SQLite so
// exports can be diffed against later versions.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
	"github.com/carefinder/listingkit/pkg/records"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL UNIQUE,
	source       TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	record_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_records (
	snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	data        TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, position)
);`

// Info describes a stored snapshot.
type Info struct {
	Name        string    `json:"name" yaml:"name"`
	Source      string    `json:"source" yaml:"source"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	RecordCount int       `json:"record_count" yaml:"record_count"`
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the store at path. A leading "~/" expands to the
// home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores rs under name, replacing any snapshot with the same name.
func (s *Store) Save(ctx context.Context, name, source string, rs []records.Record) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidationError("name", name, "snapshot name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("begin", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name); err != nil {
		return errors.WrapIO("replace", name, err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, source, created_at, record_count) VALUES (?, ?, ?, ?)`,
		name, source, s.now().UTC().Format(time.RFC3339Nano), len(rs))
	if err != nil {
		return errors.WrapIO("insert", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.WrapIO("insert", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_records (snapshot_id, position, data) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.WrapIO("insert", name, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rs {
		data, err := json.Marshal(r)
		if err != nil {
			return errors.WrapParse("json", name, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, string(data)); err != nil {
			return errors.WrapIO("insert", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapIO("commit", name, err)
	}
	logging.FromContext(ctx).Info().
		Str("snapshot", name).
		Int("records", len(rs)).
		Msg("Saved snapshot")
	return nil
}

// Load returns the records of a snapshot in their saved order.
func (s *Store) Load(ctx context.Context, name string) ([]records.Record, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("snapshot", name)
	}
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM snapshot_records WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	defer func() { _ = rows.Close() }()

	out := []records.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.WrapIO("read", name, err)
		}
		var r records.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, errors.WrapParse("json", name, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	return out, nil
}

// List returns all snapshots, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source, created_at, record_count FROM snapshots ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, errors.WrapIO("read", "snapshots", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Info{}
	for rows.Next() {
		var (
			info    Info
			created string
		)
		if err := rows.Scan(&info.Name, &info.Source, &created, &info.RecordCount); err != nil {
			return nil, errors.WrapIO("read", "snapshots", err)
		}
		info.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, errors.WrapParse("time", info.Name, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return errors.WrapIO("delete", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("snapshot", name)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("snapshots", "cannot resolve home directory", err)
	}
	return filepath.Join(home, path[2:]), nil
}

package template

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS templates_name ON templates (name);
`

// SQLite is a Repository backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at source, a file path or a
// SQLite URI such as "file::memory:?cache=shared", and ensures the
// templates table exists.
func OpenSQLite(ctx context.Context, source string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, ErrStore.Wrap(err).With(slog.String("source", source))
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, ErrStore.Wrap(err).With(slog.String("source", source))
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, ErrStore.Wrap(err).With(slog.String("source", source))
	}

	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, body, created_at FROM templates WHERE id = ?`,
		id.String())

	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound.With(idAttr(id))
	}

	return t, err
}

func (s *SQLite) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, body, created_at FROM templates`)
	if err != nil {
		return nil, ErrStore.Wrap(err)
	}
	defer rows.Close()

	var list []*Template

	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}

		list = append(list, t)
	}

	if err := rows.Err(); err != nil {
		return nil, ErrStore.Wrap(err)
	}

	// SQLite collates by bytes, which matches Go string order, but ties
	// still need the same order as the other repositories.
	sortByName(list)

	return list, nil
}

func (s *SQLite) Add(ctx context.Context, t *Template) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, body, created_at) VALUES (?, ?, ?, ?)`,
		t.ID.String(), t.Name, t.Body, t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return ErrWrite.Wrap(err).With(idAttr(t.ID))
	}

	return nil
}

func (s *SQLite) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return s.exec(ctx, id, `UPDATE templates SET body = ? WHERE id = ?`, body, id.String())
}

func (s *SQLite) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return s.exec(ctx, id, `UPDATE templates SET name = ? WHERE id = ?`, name, id.String())
}

func (s *SQLite) Delete(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, id, `DELETE FROM templates WHERE id = ?`, id.String())
}

func (s *SQLite) exec(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return ErrWrite.Wrap(err).With(idAttr(id))
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*Template, error) {
	var id, name, body, created string

	if err := row.Scan(&id, &name, &body, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, ErrStore.Wrap(err)
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCorrupt.Wrap(err).With(slog.String("id", id))
	}

	at, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, ErrCorrupt.Wrap(err).With(slog.String("id", id))
	}

	return &Template{ID: uid, Name: name, Body: body, CreatedAt: at}, nil
}

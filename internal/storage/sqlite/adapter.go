// Package sqlite provides a SQLite-backed implementation of the gallery
// repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/storage"
)

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Adapter implements storage.Repository for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ storage.Repository = (*Adapter)(nil)

// NewAdapter opens the database at path and migrates the schema.
func NewAdapter(path string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	a := &Adapter{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return a, nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Save(ctx context.Context, r storage.Render, png []byte) (string, error) {
	if r.ID == "" {
		r.ID = storage.NewID(r.Mood)
	}
	layout, err := json.Marshal(r.Elements)
	if err != nil {
		return "", fmt.Errorf("failed to encode elements: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO renders (id, mood, seed, elapsed, width, height, count, preset, motion, created_at, elements, png)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Mood, int64(r.Seed), r.Elapsed, r.Viewport.Width, r.Viewport.Height,
		r.Count, r.Preset, r.Motion, r.Timestamp.UTC().Format(timeLayout), string(layout), png,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save render: %w", err)
	}
	return r.ID, nil
}

const renderColumns = `id, mood, seed, elapsed, width, height, count, preset, motion, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRender(row scanner, extra ...any) (storage.Render, error) {
	var (
		r       storage.Render
		seed    int64
		created string
	)
	dest := []any{
		&r.ID, &r.Mood, &seed, &r.Elapsed, &r.Viewport.Width, &r.Viewport.Height,
		&r.Count, &r.Preset, &r.Motion, &created,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return storage.Render{}, err
	}
	r.Seed = uint32(seed)
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return storage.Render{}, fmt.Errorf("render %s: bad timestamp: %w", r.ID, err)
	}
	r.Timestamp = ts
	return r, nil
}

func (a *Adapter) List(ctx context.Context) ([]storage.Render, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT `+renderColumns+` FROM renders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	defer rows.Close()

	renders := []storage.Render{}
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan render: %w", err)
		}
		renders = append(renders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate renders: %w", err)
	}
	return renders, nil
}

func (a *Adapter) Load(ctx context.Context, id string) (storage.Render, error) {
	var layout string
	row := a.db.QueryRowContext(ctx,
		`SELECT `+renderColumns+`, elements FROM renders WHERE id = ?`, id)
	r, err := scanRender(row, &layout)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Render{}, storage.ErrNotFound
		}
		return storage.Render{}, fmt.Errorf("failed to load render: %w", err)
	}
	var elements []scene.Element
	if err := json.Unmarshal([]byte(layout), &elements); err != nil {
		return storage.Render{}, fmt.Errorf("failed to decode elements: %w", err)
	}
	r.Elements = elements
	return r, nil
}

func (a *Adapter) Image(ctx context.Context, id string) ([]byte, error) {
	var png []byte
	err := a.db.QueryRowContext(ctx, `SELECT png FROM renders WHERE id = ?`, id).Scan(&png)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return png, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS renders (
		id TEXT PRIMARY KEY,
		mood TEXT NOT NULL,
		seed INTEGER NOT NULL,
		elapsed REAL NOT NULL DEFAULT 0,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		count INTEGER NOT NULL,
		preset TEXT NOT NULL DEFAULT '',
		motion TEXT NOT NULL,
		created_at TEXT NOT NULL,
		elements TEXT NOT NULL DEFAULT '[]',
		png BLOB
	);
	CREATE INDEX IF NOT EXISTS renders_created_at ON renders (created_at);
	`
	_, err := a.db.Exec(query)
	return err
}

// Package archive stores a finished edition in a standalone SQLite file:
// the run summary, the validated layers with their distributions and the
// final rarity table, so an edition can be inspected without re-parsing
// its CSV and TOML outputs.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/strata/internal/edition"
	"github.com/papapumpkin/strata/internal/layer"
)

// ErrEmpty indicates an archive file holds no edition metadata.
var ErrEmpty = errors.New("archive: no edition metadata")

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
    edition      TEXT NOT NULL,
    run_id       TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL,
    seed         INTEGER NOT NULL,
    pattern      TEXT NOT NULL DEFAULT '',
    requested    INTEGER NOT NULL,
    attempts     INTEGER NOT NULL,
    accepted     INTEGER NOT NULL,
    distinct_n   INTEGER NOT NULL,
    removed      INTEGER NOT NULL,
    combinations TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS layers (
    position  INTEGER PRIMARY KEY,
    layer_id  INTEGER NOT NULL,
    name      TEXT NOT NULL,
    directory TEXT NOT NULL,
    required  BOOLEAN NOT NULL,
    linked_to TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS traits (
    layer       TEXT NOT NULL,
    position    INTEGER NOT NULL,
    label       TEXT NOT NULL,
    weight      REAL NOT NULL,
    probability REAL NOT NULL,
    PRIMARY KEY (layer, position)
);

CREATE TABLE IF NOT EXISTS artifacts (
    idx   INTEGER NOT NULL,
    layer TEXT NOT NULL,
    trait TEXT NOT NULL,
    PRIMARY KEY (idx, layer)
);
`

// Archive is an edition written to SQLite.
type Archive struct {
	Summary edition.Summary
	Table   *edition.RarityTable
	DBPath  string
}

// Write creates a fresh archive at path. An existing file is replaced.
func Write(ctx context.Context, path string, s edition.Summary, layers []layer.Layer, table *edition.RarityTable) (*Archive, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("archive: remove previous %s: %w", path, err)
	}
	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on error paths

	created := s.FinishedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO metadata (edition, run_id, created_at, seed, pattern, requested, attempts, accepted, distinct_n, removed, combinations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Edition, s.RunID, created, s.Seed, s.Pattern, s.Requested, s.Attempts, s.Accepted, s.Distinct, s.Removed, s.Combinations); err != nil {
		return nil, fmt.Errorf("archive: insert metadata: %w", err)
	}

	for pos, l := range layers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO layers (position, layer_id, name, directory, required, linked_to) VALUES (?, ?, ?, ?, ?, ?)`,
			pos, l.ID, l.Name, l.Directory, l.Required, l.LinkedTo); err != nil {
			return nil, fmt.Errorf("archive: insert layer %s: %w", l.Name, err)
		}
		for i, label := range l.Traits {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO traits (layer, position, label, weight, probability) VALUES (?, ?, ?, ?, ?)`,
				l.Name, i, label, l.Weights[i], l.Probabilities[i]); err != nil {
				return nil, fmt.Errorf("archive: insert trait %s/%s: %w", l.Name, label, err)
			}
		}
	}

	for i, row := range table.Rows {
		for c, cell := range row {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO artifacts (idx, layer, trait) VALUES (?, ?, ?)`,
				i, table.Columns[c], cell); err != nil {
				return nil, fmt.Errorf("archive: insert artifact %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("archive: commit: %w", err)
	}

	return &Archive{Summary: s, Table: table, DBPath: path}, nil
}

func open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create schema: %w", err)
	}
	return db, nil
}

// Read opens an existing archive and returns its summary and rarity table.
func Read(ctx context.Context, path string) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer db.Close()

	a := &Archive{DBPath: path}
	s := &a.Summary
	err = db.QueryRowContext(ctx,
		`SELECT edition, run_id, created_at, seed, pattern, requested, attempts, accepted, distinct_n, removed, combinations
		 FROM metadata LIMIT 1`).
		Scan(&s.Edition, &s.RunID, &s.FinishedAt, &s.Seed, &s.Pattern, &s.Requested, &s.Attempts,
			&s.Accepted, &s.Distinct, &s.Removed, &s.Combinations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: read metadata from %s: %w", path, err)
	}

	columns, err := queryStrings(ctx, db, `SELECT name FROM layers ORDER BY position`)
	if err != nil {
		return nil, err
	}
	s.Layers = columns
	a.Table = edition.NewTable(columns)

	col := make(map[string]int, len(columns))
	for i, c := range columns {
		col[c] = i
	}

	rows, err := db.QueryContext(ctx, `SELECT idx, layer, trait FROM artifacts ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("archive: read artifacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx         int
			name, trait string
		)
		if err := rows.Scan(&idx, &name, &trait); err != nil {
			return nil, fmt.Errorf("archive: scan artifact: %w", err)
		}
		for len(a.Table.Rows) <= idx {
			a.Table.Rows = append(a.Table.Rows, make([]string, len(columns)))
		}
		if c, ok := col[name]; ok {
			a.Table.Rows[idx][c] = trait
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: read artifacts: %w", err)
	}
	return a, nil
}

// TraitCounts returns, per layer, how many artifacts carry each trait.
func TraitCounts(ctx context.Context, path string) (map[string]map[string]int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT layer, trait, COUNT(*) FROM artifacts GROUP BY layer, trait`)
	if err != nil {
		return nil, fmt.Errorf("archive: count traits: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]int)
	for rows.Next() {
		var (
			name, trait string
			n           int
		)
		if err := rows.Scan(&name, &trait, &n); err != nil {
			return nil, fmt.Errorf("archive: scan count: %w", err)
		}
		if out[name] == nil {
			out[name] = make(map[string]int)
		}
		out[name][trait] = n
	}
	return out, rows.Err()
}

func queryStrings(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("archive: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("archive: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

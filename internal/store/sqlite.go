package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/openhouse-labs/propscore/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS comparisons (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	properties TEXT NOT NULL,
	criteria   TEXT NOT NULL,
	results    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS properties (
	id         TEXT PRIMARY KEY,
	attrs      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_comparisons_name ON comparisons(name);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveComparison(ctx context.Context, name string, properties []model.PropertyAttributes, criteria model.ComparisonCriteria, results []model.ComparisonResult) (*model.PropertyComparison, error) {
	pc := model.PropertyComparison{
		ID:         uuid.New().String(),
		Name:       name,
		Properties: properties,
		Criteria:   criteria,
		Results:    results,
		CreatedAt:  time.Now().UTC(),
	}
	pc.UpdatedAt = pc.CreatedAt

	propsJSON, err := json.Marshal(pc.Properties)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal properties")
	}
	criteriaJSON, err := json.Marshal(pc.Criteria)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal criteria")
	}
	resultsJSON, err := json.Marshal(pc.Results)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal results")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, name, properties, criteria, results, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pc.ID, pc.Name, string(propsJSON), string(criteriaJSON), string(resultsJSON), pc.CreatedAt, pc.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert comparison")
	}
	return &pc, nil
}

func (s *SQLiteStore) GetComparison(ctx context.Context, id string) (*model.PropertyComparison, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, properties, criteria, results, created_at, updated_at FROM comparisons WHERE id = ?`,
		id,
	)
	return scanComparison(row)
}

func (s *SQLiteStore) ListComparisons(ctx context.Context, filter ComparisonFilter) ([]model.PropertyComparison, error) {
	query := `SELECT id, name, properties, criteria, results, created_at, updated_at FROM comparisons WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Name+"%")
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list comparisons")
	}
	defer rows.Close()

	var out []model.PropertyComparison
	for rows.Next() {
		pc, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list comparisons iterate")
}

func (s *SQLiteStore) DeleteComparison(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete comparison %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) UpsertProperty(ctx context.Context, p model.PropertyAttributes) error {
	if p.ID == "" {
		return eris.New("sqlite: property id is required")
	}
	attrsJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal property")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO properties (id, attrs, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET attrs = excluded.attrs, updated_at = excluded.updated_at`,
		p.ID, string(attrsJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert property %s", p.ID)
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (*model.PropertyAttributes, error) {
	row := s.db.QueryRowContext(ctx, `SELECT attrs FROM properties WHERE id = ?`, id)

	var attrsJSON string
	err := row.Scan(&attrsJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "property %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get property")
	}

	var p model.PropertyAttributes
	if err := json.Unmarshal([]byte(attrsJSON), &p); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal property")
	}
	return &p, nil
}

func (s *SQLiteStore) ListProperties(ctx context.Context, limit, offset int) ([]model.PropertyAttributes, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT attrs FROM properties ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list properties")
	}
	defer rows.Close()

	var out []model.PropertyAttributes
	for rows.Next() {
		var attrsJSON string
		if err := rows.Scan(&attrsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan property")
		}
		var p model.PropertyAttributes
		if err := json.Unmarshal([]byte(attrsJSON), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal property")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list properties iterate")
}

func (s *SQLiteStore) ImportProperties(ctx context.Context, props []model.PropertyAttributes) (int, error) {
	if len(props) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: import begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	var n int
	for _, p := range props {
		if p.ID == "" {
			return 0, eris.New("sqlite: import: property id is required")
		}
		attrsJSON, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: import: marshal property %s", p.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO properties (id, attrs, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET attrs = excluded.attrs, updated_at = excluded.updated_at`,
			p.ID, string(attrsJSON), now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import: upsert property %s", p.ID)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: import commit")
	}
	return n, nil
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "comparison %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanComparison(row scannable) (*model.PropertyComparison, error) {
	var pc model.PropertyComparison
	var propsJSON, criteriaJSON, resultsJSON string

	err := row.Scan(&pc.ID, &pc.Name, &propsJSON, &criteriaJSON, &resultsJSON, &pc.CreatedAt, &pc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "comparison")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan comparison")
	}

	if err := json.Unmarshal([]byte(propsJSON), &pc.Properties); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal properties")
	}
	if err := json.Unmarshal([]byte(criteriaJSON), &pc.Criteria); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal criteria")
	}
	if err := json.Unmarshal([]byte(resultsJSON), &pc.Results); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal results")
	}
	return &pc, nil
}

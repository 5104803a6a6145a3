package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/model"
)

// Pool is the subset of pgxpool.Pool the store depends on. pgxmock's
// PgxPoolIface satisfies it, which is what the tests swap in.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_comparison": `INSERT INTO comparisons (id, name, properties, criteria, results, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_comparison":    `SELECT id, name, properties, criteria, results, created_at, updated_at FROM comparisons WHERE id = $1`,
	"delete_comparison": `DELETE FROM comparisons WHERE id = $1`,
	"upsert_property":   `INSERT INTO properties (id, attrs, updated_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET attrs = $2, updated_at = $3`,
	"get_property":      `SELECT attrs FROM properties WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS comparisons (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	properties JSONB NOT NULL,
	criteria   JSONB NOT NULL,
	results    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS properties (
	id         TEXT PRIMARY KEY,
	attrs      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_comparisons_name ON comparisons(name);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_properties_type ON properties((attrs->>'propertyType'));
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) SaveComparison(ctx context.Context, name string, properties []model.PropertyAttributes, criteria model.ComparisonCriteria, results []model.ComparisonResult) (*model.PropertyComparison, error) {
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
		return nil, eris.Wrap(err, "postgres: marshal properties")
	}
	criteriaJSON, err := json.Marshal(pc.Criteria)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal criteria")
	}
	resultsJSON, err := json.Marshal(pc.Results)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal results")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO comparisons (id, name, properties, criteria, results, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pc.ID, pc.Name, propsJSON, criteriaJSON, resultsJSON, pc.CreatedAt, pc.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert comparison")
	}
	return &pc, nil
}

func (s *PostgresStore) GetComparison(ctx context.Context, id string) (*model.PropertyComparison, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, properties, criteria, results, created_at, updated_at FROM comparisons WHERE id = $1`,
		id,
	)
	pc, err := scanComparisonPG(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "comparison %s", id)
	}
	return pc, err
}

func (s *PostgresStore) ListComparisons(ctx context.Context, filter ComparisonFilter) ([]model.PropertyComparison, error) {
	query := `SELECT id, name, properties, criteria, results, created_at, updated_at FROM comparisons WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Name != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Name+"%")
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list comparisons")
	}
	defer rows.Close()

	var out []model.PropertyComparison
	for rows.Next() {
		pc, err := scanComparisonPG(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list comparisons iterate")
}

func (s *PostgresStore) DeleteComparison(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete comparison %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "comparison %s", id)
	}
	return nil
}

func (s *PostgresStore) UpsertProperty(ctx context.Context, p model.PropertyAttributes) error {
	if p.ID == "" {
		return eris.New("postgres: property id is required")
	}
	attrsJSON, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal property")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO properties (id, attrs, updated_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET attrs = $2, updated_at = $3`,
		p.ID, attrsJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert property %s", p.ID)
}

func (s *PostgresStore) GetProperty(ctx context.Context, id string) (*model.PropertyAttributes, error) {
	var attrsJSON []byte
	err := s.pool.QueryRow(ctx, `SELECT attrs FROM properties WHERE id = $1`, id).Scan(&attrsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "property %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get property")
	}

	var p model.PropertyAttributes
	if err := json.Unmarshal(attrsJSON, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal property")
	}
	return &p, nil
}

func (s *PostgresStore) ListProperties(ctx context.Context, limit, offset int) ([]model.PropertyAttributes, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT attrs FROM properties ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list properties")
	}
	defer rows.Close()

	var out []model.PropertyAttributes
	for rows.Next() {
		var attrsJSON []byte
		if err := rows.Scan(&attrsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan property")
		}
		var p model.PropertyAttributes
		if err := json.Unmarshal(attrsJSON, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal property")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list properties iterate")
}

// ImportProperties bulk-upserts the catalog via a temp table: COPY the rows
// in, then INSERT ... ON CONFLICT from the temp table into properties.
func (s *PostgresStore) ImportProperties(ctx context.Context, props []model.PropertyAttributes) (int, error) {
	if len(props) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(props))
	for _, p := range props {
		if p.ID == "" {
			return 0, eris.New("postgres: import: property id is required")
		}
		attrsJSON, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: import: marshal property %s", p.ID)
		}
		rows = append(rows, []any{p.ID, attrsJSON, now})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`CREATE TEMP TABLE _tmp_properties (LIKE properties INCLUDING DEFAULTS) ON COMMIT DROP`,
	); err != nil {
		return 0, eris.Wrap(err, "postgres: import: create temp table")
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"_tmp_properties"},
		[]string{"id", "attrs", "updated_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return 0, eris.Wrap(err, "postgres: import: COPY into temp table")
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO properties (id, attrs, updated_at)
		 SELECT id, attrs, updated_at FROM _tmp_properties
		 ON CONFLICT (id) DO UPDATE SET attrs = EXCLUDED.attrs, updated_at = EXCLUDED.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import: INSERT ON CONFLICT")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: import commit")
	}
	return int(tag.RowsAffected()), nil
}

func scanComparisonPG(row pgx.Row) (*model.PropertyComparison, error) {
	var pc model.PropertyComparison
	var propsJSON, criteriaJSON, resultsJSON []byte

	err := row.Scan(&pc.ID, &pc.Name, &propsJSON, &criteriaJSON, &resultsJSON, &pc.CreatedAt, &pc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan comparison")
	}

	if err := json.Unmarshal(propsJSON, &pc.Properties); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal properties")
	}
	if err := json.Unmarshal(criteriaJSON, &pc.Criteria); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal criteria")
	}
	if err := json.Unmarshal(resultsJSON, &pc.Results); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal results")
	}
	return &pc, nil
}

// Package store persists named comparisons and the property catalog.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/model"
)

// ErrNotFound is returned when a comparison or property does not exist.
var ErrNotFound = eris.New("store: not found")

// ComparisonFilter specifies criteria for listing saved comparisons.
type ComparisonFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for saved comparisons and
// the property catalog.
type Store interface {
	// Saved comparisons
	SaveComparison(ctx context.Context, name string, properties []model.PropertyAttributes, criteria model.ComparisonCriteria, results []model.ComparisonResult) (*model.PropertyComparison, error)
	GetComparison(ctx context.Context, id string) (*model.PropertyComparison, error)
	ListComparisons(ctx context.Context, filter ComparisonFilter) ([]model.PropertyComparison, error)
	DeleteComparison(ctx context.Context, id string) error

	// Property catalog
	UpsertProperty(ctx context.Context, p model.PropertyAttributes) error
	GetProperty(ctx context.Context, id string) (*model.PropertyAttributes, error)
	ListProperties(ctx context.Context, limit, offset int) ([]model.PropertyAttributes, error)
	ImportProperties(ctx context.Context, props []model.PropertyAttributes) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "propscore.db"
		}
		return NewSQLite(path)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver requires database_url")
		}
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

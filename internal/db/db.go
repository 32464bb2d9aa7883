// Package db stores the plant index in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/plantcalc/internal/data"
)

// DB wraps a pgx connection pool for plant index operations.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// NewFromPool wraps an existing pool.
func NewFromPool(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Ping checks the connection. Used by /readyz.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// LoadPlants implements data.PlantSource.
func (d *DB) LoadPlants(ctx context.Context) ([]data.Plant, error) {
	rows, err := d.pool.Query(ctx, `SELECT name, base, COALESCE(cd, 0) FROM plants`)
	if err != nil {
		return nil, fmt.Errorf("querying plants: %w", err)
	}
	plants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (data.Plant, error) {
		var p data.Plant
		err := row.Scan(&p.Name, &p.Base, &p.CD)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning plants: %w", err)
	}

	data.SortPlantNames(plants)
	slog.Info("loaded plants", "source", "postgres", "count", len(plants))
	return plants, nil
}

// UpsertPlants inserts or updates plants in one batch.
func (d *DB) UpsertPlants(ctx context.Context, plants []data.Plant) error {
	batch := &pgx.Batch{}
	for _, p := range plants {
		var cd *float64
		if p.HasCD() {
			cd = &p.CD
		}
		batch.Queue(
			`INSERT INTO plants (name, base, cd, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (name) DO UPDATE SET base = EXCLUDED.base, cd = EXCLUDED.cd, updated_at = now()`,
			p.Name, p.Base, cd,
		)
	}

	if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting %d plants: %w", len(plants), err)
	}
	return nil
}

// DeletePlant removes a plant by name. Returns false if it did not exist.
func (d *DB) DeletePlant(ctx context.Context, name string) (bool, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM plants WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("deleting plant %q: %w", name, err)
	}
	return tag.RowsAffected() > 0, nil
}

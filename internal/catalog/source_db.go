package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"

	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// SQLSource reads the products table of a Postgres or SQLite database.
// Stored order is ascending id.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// OpenSQLSource opens dsn with one of the registered drivers. The caller
// closes the source once the catalog is loaded.
func OpenSQLSource(driver, dsn string) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, driver, err)
	}
	return NewSQLSource(db), nil
}

func (s *SQLSource) Close() error { return s.db.Close() }

func (s *SQLSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLSource) Load(ctx context.Context) ([]Product, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping: %w", ErrSourceUnavailable, err)
	}

	var out []Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, category, price
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %w", ErrMalformedSource, err)
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

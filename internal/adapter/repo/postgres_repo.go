package repo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/storefront/internal/domain"
)

type PostgresRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{Pool: pool}
}

func (r *PostgresRepo) UpsertProduct(ctx context.Context, id string, raw []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO products(id, payload) VALUES($1, $2)
        ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`, id, raw)
	if err != nil {
		return errors.Wrapf(err, "upsert product %s", id)
	}
	return nil
}

// LoadProducts обходит товары в порядке первой вставки.
func (r *PostgresRepo) LoadProducts(ctx context.Context, fn func(id string, raw []byte) error) error {
	rows, err := r.Pool.Query(ctx, `SELECT id, payload FROM products ORDER BY seq`)
	if err != nil {
		return errors.Wrap(err, "query products")
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return errors.Wrap(err, "scan product")
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PostgresRepo) SaveOrder(ctx context.Context, id string, raw []byte) error {
	if _, err := r.Pool.Exec(ctx, `INSERT INTO orders(id, payload) VALUES($1, $2)`, id, raw); err != nil {
		return errors.Wrapf(err, "save order %s", id)
	}
	return nil
}

var (
	_ domain.ProductRepository = (*PostgresRepo)(nil)
	_ domain.OrderRepository   = (*PostgresRepo)(nil)
)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS products (
  seq bigserial,
  id text PRIMARY KEY,
  payload jsonb NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
  id text PRIMARY KEY,
  payload jsonb NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now()
);`)
	return errors.Wrap(err, "ensure schema")
}

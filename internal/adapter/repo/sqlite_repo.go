package repo

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/example/storefront/internal/domain"
)

// SQLiteDriver — имя драйвера modernc.org/sqlite (без cgo).
const SQLiteDriver = "sqlite"

// SQLiteRepo — хранилище для локального запуска и тестов.
type SQLiteRepo struct {
	DB *sql.DB
}

// OpenSQLite открывает базу по пути (":memory:" для тестов) и создаёт схему.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	db, err := sql.Open(SQLiteDriver, path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// один писатель; для :memory: ещё и одна общая база
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	r := &SQLiteRepo{DB: db}
	if err := r.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepo) ensureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	return errors.Wrap(err, "ensure sqlite schema")
}

func (r *SQLiteRepo) UpsertProduct(ctx context.Context, id string, raw []byte) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO products(id, payload) VALUES(?, ?)
        ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`, id, string(raw))
	if err != nil {
		return errors.Wrapf(err, "upsert product %s", id)
	}
	return nil
}

func (r *SQLiteRepo) LoadProducts(ctx context.Context, fn func(id string, raw []byte) error) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, payload FROM products ORDER BY rowid`)
	if err != nil {
		return errors.Wrap(err, "query products")
	}
	defer rows.Close()
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return errors.Wrap(err, "scan product")
		}
		if err := fn(id, []byte(payload)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *SQLiteRepo) SaveOrder(ctx context.Context, id string, raw []byte) error {
	if _, err := r.DB.ExecContext(ctx, `INSERT INTO orders(id, payload) VALUES(?, ?)`, id, string(raw)); err != nil {
		return errors.Wrapf(err, "save order %s", id)
	}
	return nil
}

// OrderPayload возвращает сохранённое тело заказа.
func (r *SQLiteRepo) OrderPayload(ctx context.Context, id string) ([]byte, error) {
	var payload string
	err := r.DB.QueryRowContext(ctx, `SELECT payload FROM orders WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load order %s", id)
	}
	return []byte(payload), nil
}

func (r *SQLiteRepo) Close() error {
	return r.DB.Close()
}

var (
	_ domain.ProductRepository = (*SQLiteRepo)(nil)
	_ domain.OrderRepository   = (*SQLiteRepo)(nil)
)

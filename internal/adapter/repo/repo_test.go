package repo

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/domain"
)

type store interface {
	domain.ProductRepository
	domain.OrderRepository
}

func loadAll(t *testing.T, r domain.ProductRepository) (ids []string, payloads []string) {
	t.Helper()
	err := r.LoadProducts(context.Background(), func(id string, raw []byte) error {
		ids = append(ids, id)
		payloads = append(payloads, string(raw))
		return nil
	})
	require.NoError(t, err)
	return ids, payloads
}

func exerciseProducts(t *testing.T, r store) {
	ctx := context.Background()
	require.NoError(t, r.UpsertProduct(ctx, "b", []byte(`{"id":"b","price":1}`)))
	require.NoError(t, r.UpsertProduct(ctx, "a", []byte(`{"id":"a","price":null}`)))
	require.NoError(t, r.UpsertProduct(ctx, "b", []byte(`{"id":"b","price":2}`)))

	ids, payloads := loadAll(t, r)
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.JSONEq(t, `{"id":"b","price":2}`, payloads[0])

	stop := assert.AnError
	n := 0
	err := r.LoadProducts(ctx, func(string, []byte) error { n++; return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestSQLiteProducts(t *testing.T) {
	r, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	exerciseProducts(t, r)
}

func TestSQLiteOrders(t *testing.T) {
	ctx := context.Background()
	r, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.SaveOrder(ctx, "o1", []byte(`{"total":850}`)))
	assert.Error(t, r.SaveOrder(ctx, "o1", []byte(`{}`)), "order ids are unique")

	raw, err := r.OrderPayload(ctx, "o1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":850}`, string(raw))

	_, err = r.OrderPayload(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE products, orders`)
	require.NoError(t, err)

	r := NewPostgresRepo(pool)
	exerciseProducts(t, r)
	require.NoError(t, r.SaveOrder(ctx, "o1", []byte(`{"total":1}`)))
}

package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second, zap.NewNop())
}

func TestListProducts(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/product/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 2, "items": [
			{"id": "1", "title": "Framework", "category": "софт-скил", "image": "/a.svg", "description": "d", "price": 2500},
			{"id": "2", "title": "Priceless", "category": "другое", "image": "/b.svg", "description": "", "price": null}
		]}`))
	})

	list, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.True(t, list.Items[0].Price.Amount().Same(domain.NewMoney(2500)))
	assert.Equal(t, domain.StyleSoft, list.Items[0].Category.Style())
	assert.False(t, list.Items[1].Price.Purchasable())
	assert.Equal(t, 2, list.Total)
}

func TestListProductsErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"db down"}`))
		})
		_, err := c.ListProducts(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
	t.Run("garbage", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})
		_, err := c.ListProducts(context.Background())
		assert.ErrorContains(t, err, "decode products")
	})
	t.Run("unreachable", func(t *testing.T) {
		c := New("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
		_, err := c.ListProducts(context.Background())
		assert.ErrorContains(t, err, "get products")
	})
}

func TestPlaceOrder(t *testing.T) {
	var got map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"abc","total":850}`))
	})

	res, err := c.PlaceOrder(context.Background(), domain.OrderRequest{
		Payment: domain.PaymentCard,
		Email:   "a@b.co",
		Phone:   "123",
		Address: "Main St",
		Total:   domain.NewMoney(850),
		Items:   []string{"p1", "p2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.ID)
	assert.True(t, res.Total.Same(domain.NewMoney(850)))

	assert.Equal(t, map[string]any{
		"payment": "card",
		"email":   "a@b.co",
		"phone":   "123",
		"address": "Main St",
		"total":   float64(850),
		"items":   []any{"p1", "p2"},
	}, got)
}

func TestPlaceOrderRejected(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusConflict} {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"out of stock"}`))
		})
		_, err := c.PlaceOrder(context.Background(), domain.OrderRequest{})
		var rejected *domain.OrderRejectedError
		require.ErrorAs(t, err, &rejected, "status %d", status)
		assert.Equal(t, "out of stock", rejected.Message)
		assert.Equal(t, status, rejected.Status)
	}
}

func TestPlaceOrderTransportErrors(t *testing.T) {
	t.Run("bad gateway html", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		})
		_, err := c.PlaceOrder(context.Background(), domain.OrderRequest{})
		require.Error(t, err)
		var rejected *domain.OrderRejectedError
		assert.NotErrorAs(t, err, &rejected)
		assert.Contains(t, err.Error(), "502")
	})
	t.Run("no id", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"total": 1}`))
		})
		_, err := c.PlaceOrder(context.Background(), domain.OrderRequest{})
		assert.ErrorContains(t, err, "no id")
	})
	t.Run("cancelled", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.PlaceOrder(ctx, domain.OrderRequest{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

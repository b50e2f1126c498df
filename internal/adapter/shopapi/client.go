// Package shopapi is the HTTP client for the storefront backend.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
)

// maxErrorBody caps how much of a non-JSON error body ends up in a message.
const maxErrorBody = 512

// Client talks to GET /product/ and POST /order.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ListProducts fetches the catalog.
func (c *Client) ListProducts(ctx context.Context) (domain.ProductList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/product/", nil)
	if err != nil {
		return domain.ProductList{}, errors.Wrap(err, "create product request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ProductList{}, errors.Wrap(err, "get products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProductList{}, errors.Errorf("get products: status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	var list domain.ProductList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return domain.ProductList{}, errors.Wrap(err, "decode products")
	}
	if list.Items == nil {
		list.Items = []domain.Product{}
	}
	c.log.Debug("products loaded", zap.Int("items", len(list.Items)))
	return list, nil
}

// PlaceOrder posts the order. A well-formed {"error": ...} response becomes
// *domain.OrderRejectedError; anything else that fails is a transport error.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "marshal order")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order", bytes.NewReader(body))
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "create order request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "post order")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "read order response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e domain.ErrorBody
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return domain.OrderResult{}, &domain.OrderRejectedError{Status: resp.StatusCode, Message: e.Error}
		}
		return domain.OrderResult{}, errors.Errorf("post order: status %d: %s", resp.StatusCode, truncate(string(raw)))
	}

	// some backends answer 200 with an error payload
	var probe struct {
		domain.OrderResult
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "decode order response")
	}
	if probe.Error != "" {
		return domain.OrderResult{}, &domain.OrderRejectedError{Status: resp.StatusCode, Message: probe.Error}
	}
	if probe.ID == "" {
		return domain.OrderResult{}, errors.New("order response has no id")
	}
	return probe.OrderResult, nil
}

func readError(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e domain.ErrorBody
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return truncate(string(raw))
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

var (
	_ domain.ProductSource = (*Client)(nil)
	_ domain.OrderPlacer   = (*Client)(nil)
)

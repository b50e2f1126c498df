package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/adapter/natsstan"
	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/logging"
)

// Читает из stdin товар или список {"items": [...]} и публикует каждый товар
// отдельным сообщением в ленту.
func main() {
	logger, err := logging.New(getenv("LOG_LEVEL", "info"), false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clusterID := getenv("STAN_CLUSTER_ID", "storefront-cluster")
	clientID := getenv("STAN_PUB_ID", "storefront-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4222")
	subject := getenv("STAN_SUBJECT", "products")

	messages, err := readProducts(os.Stdin)
	if err != nil {
		logger.Fatal("read products from stdin", zap.Error(err))
	}

	pub, err := natsstan.Dial(clusterID, clientID, natsURL, subject)
	if err != nil {
		logger.Fatal("connect", zap.Error(err))
	}
	defer func() { _ = pub.Close() }()

	for _, m := range messages {
		if err := pub.Publish(m); err != nil {
			logger.Fatal("publish", zap.Error(err))
		}
	}
	logger.Info("published", zap.Int("products", len(messages)), zap.String("subject", subject))
}

// readProducts принимает один товар или список и возвращает товары в
// каноническом виде.
func readProducts(r io.Reader) ([][]byte, error) {
	var payload struct {
		ID    string           `json:"id"`
		Items []domain.Product `json:"items"`
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	items := payload.Items
	if payload.ID != "" {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, errors.Wrap(err, "decode product")
		}
		items = []domain.Product{p}
	}
	out := make([][]byte, 0, len(items))
	for i, p := range items {
		if p.ID == "" {
			return nil, errors.Wrapf(domain.ErrValidation, "item %d has no id", i)
		}
		b, err := json.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(err, "marshal")
		}
		out = append(out, b)
	}
	return out, nil
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShopDefaults(t *testing.T) {
	for _, k := range []string{"SHOP_API_URL", "SHOP_LOG_LEVEL", "SHOP_STRICT", "SHOP_HTTP_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadShop()
	require.NoError(t, err)
	assert.Equal(t, Shop{APIURL: "http://localhost:8080", LogLevel: "warn", HTTPTimeout: 10 * time.Second}, cfg)
}

func TestLoadShopOverrides(t *testing.T) {
	t.Setenv("SHOP_API_URL", "https://larek.example")
	t.Setenv("SHOP_STRICT", "1")
	t.Setenv("SHOP_HTTP_TIMEOUT", "250ms")
	cfg, err := LoadShop()
	require.NoError(t, err)
	assert.Equal(t, "https://larek.example", cfg.APIURL)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTPTimeout)

	t.Setenv("SHOP_STRICT", "sometimes")
	_, err = LoadShop()
	assert.ErrorContains(t, err, "SHOP_STRICT")
}

func TestLoadServer(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STAN_ENABLED", "true")
	t.Setenv("STAN_CLIENT_ID", "svc-1")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.True(t, cfg.Stan.Enabled)
	assert.Equal(t, "svc-1", cfg.Stan.ClientID)
	assert.Equal(t, "products", cfg.Stan.Subject)

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = LoadServer()
	assert.ErrorContains(t, err, "mongo")
}

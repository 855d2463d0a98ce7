package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("APP_DATABASE_DRIVER", "sqlite")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "satshop-api", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "eur", cfg.Stripe.DefaultCurrency)
	assert.Equal(t, "https://pay.chargily.net/api/v2", cfg.Chargily.BaseURL)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
service_name = "shop"

[server]
port = 9000

[database]
driver = "mysql"
dsn = "user:pass@tcp(localhost:3306)/shop"

[stripe]
default_currency = "usd"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("APP_STRIPE_WEBHOOK_SECRET", "whsec_test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.ServiceName)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "usd", cfg.Stripe.DefaultCurrency)
	assert.Equal(t, "whsec_test", cfg.Stripe.WebhookSecret)
}

func TestValidate(t *testing.T) {
	cfg := Config{ServiceName: "shop", Server: ServerConfig{Port: 8080}, Database: DatabaseConfig{Driver: "mysql"}}
	assert.Error(t, cfg.Validate(), "mysql without dsn")

	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())

	cfg.Environment = "prod"
	assert.Error(t, cfg.Validate(), "prod requires a jwt secret")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: dashboard-test
  timeout: 3
database:
  url: mongodb://db:27017
  user-collection: customers
session:
  timeout-minutes: 20
security:
  session-secret: yaml-secret
  allowed-origins:
    - https://bank.example
server:
  trusted-proxies:
    - 10.0.0.0/8
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_FileValuesAndDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "dashboard-test", cfg.App.Name)
	assert.Equal(t, 3, cfg.App.Timeout)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.Url)
	assert.Equal(t, "customers", cfg.Database.UserCollection)
	assert.Equal(t, 20, cfg.Session.TimeoutMinutes)
	assert.Equal(t, []string{"https://bank.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 3*time.Second, cfg.App.RequestTimeout())

	// defaults
	assert.Equal(t, "customer_data", cfg.Database.DbName)
	assert.Equal(t, "transactions", cfg.Database.TransactionCollection)
	assert.Equal(t, "sessions", cfg.Database.SessionCollection)
	assert.Equal(t, "user-sesh.sid", cfg.Session.CookieName)
	assert.Equal(t, "session:", cfg.Session.CacheKeyPrefix)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_CONN_URI", "mongodb://legacy:27017")
	t.Setenv("MONGODB_URL", "")
	t.Setenv("DB_NAME", "other_db")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "8081")

	cfg, err := LoadFrom(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://legacy:27017", cfg.Database.Url)
	assert.Equal(t, "other_db", cfg.Database.DbName)
	assert.Equal(t, "redis://cache:6379", cfg.Redis.Url)
	assert.Equal(t, 4, cfg.Redis.Db)
	assert.Equal(t, "env-secret", cfg.Security.SessionSecret)
	assert.Equal(t, "8081", cfg.Server.Port)
}

func TestLoadFrom_MongoURLWinsOverLegacyName(t *testing.T) {
	t.Setenv("MONGODB_CONN_URI", "mongodb://legacy:27017")
	t.Setenv("MONGODB_URL", "mongodb://primary:27017")

	cfg, err := LoadFrom(writeConfig(t, testYAML))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://primary:27017", cfg.Database.Url)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestShippedConfig(t *testing.T) {
	cfg, err := LoadFrom("cfg.yml")
	require.NoError(t, err)

	// plain HTTP by default; a Secure cookie would never be sent back
	assert.False(t, cfg.Session.SecureCookie)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout())
}

func TestRequestTimeoutDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, Application{}.RequestTimeout())
	assert.Equal(t, 2*time.Second, Application{Timeout: 2}.RequestTimeout())
}

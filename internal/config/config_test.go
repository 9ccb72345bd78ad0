package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("CART_RATE_LIMIT_RPS", "")

	cfg := FromEnv()
	assert.Equal(t, ":3800", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.InDelta(t, 10.0, cfg.CartRateLimit.RPS, 0.0001)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CART_RATE_LIMIT_BURST", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.CartRateLimit.Burst)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_API_URL=http://api.test/api\n"), 0o600))
	t.Setenv("STOREFRONT_API_URL", "")
	os.Unsetenv("STOREFRONT_API_URL")

	cfg := Load(path)
	assert.Equal(t, "http://api.test/api", cfg.APIURL)
}

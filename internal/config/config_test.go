package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("WMS_API_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 8*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("WMS_API_URL", "https://wms.example.com")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://wms.example.com", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTTL)
	assert.True(t, cfg.SecureCookie)
	assert.Len(t, cfg.SessionSecret, 32)
}

func TestLoad_RejectsBadAPIURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WMS_API_URL", "127.0.0.1:8000")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOGIN_RATE_LIMIT=3\n"), 0o600))
	t.Setenv("WMS_API_URL", "")
	os.Unsetenv("LOGIN_RATE_LIMIT")
	t.Cleanup(func() { os.Unsetenv("LOGIN_RATE_LIMIT") })

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.LoginRateLimit)
}

func TestLoadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[capabilities]
"product:update" = ["admin"]
`), 0o600))

	policy, err := LoadPolicy(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, policy.Capabilities["product:update"])
}

func TestLoadPolicy_UnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte("roles = [\"admin\"]\n"), 0o600))

	_, err := LoadPolicy(path)

	assert.Error(t, err)
}

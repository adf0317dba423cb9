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
	t.Setenv("DATA_GO_KR_SERVICE_KEY", "")
	t.Setenv("DATAGOKR_API_KEY", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://apis.data.go.kr/B552657", cfg.DataGoKr.BaseURL)
	assert.Equal(t, 8*time.Second, cfg.DataGoKr.Timeout)
	assert.False(t, cfg.DataGoKr.Configured())
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "서울특별시", cfg.Region.DefaultProvince)
	assert.Equal(t, "종로구", cfg.Region.DefaultDistrict)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_ServiceKeyDecoded(t *testing.T) {
	t.Setenv("DATA_GO_KR_SERVICE_KEY", "abc%2Bdef%2F%3D%3D")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "abc+def/==", cfg.DataGoKr.ServiceKey)
	assert.True(t, cfg.DataGoKr.Configured())
}

func TestLoad_LegacyKeyAlias(t *testing.T) {
	t.Setenv("DATA_GO_KR_SERVICE_KEY", "")
	t.Setenv("DATAGOKR_API_KEY", "legacy-key")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.DataGoKr.ServiceKey)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("DATA_GO_KR_SERVICE_KEY", "")
	t.Setenv("DATAGOKR_API_KEY", "")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DATA_GO_KR_SERVICE_KEY=file-key\nCACHE_BACKEND=redis\nSERVER_PORT=9090\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := LoadFrom(envFile)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.DataGoKr.ServiceKey)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}

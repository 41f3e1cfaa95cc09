package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5, cfg.Weather.Entries)
	assert.Equal(t, "https://api.openweathermap.org", cfg.Weather.BaseURL)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
models_dir: /srv/models
log_level: debug
weather:
  api_key: secret
  timeout: 3s
cache:
  redis_addr: localhost:6379
  ttl: 1m
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "/srv/models", cfg.ModelsDir)
	assert.Equal(t, "secret", cfg.Weather.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 5, cfg.Weather.Entries)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agro.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\n"), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("OWM_API_KEY", "from-env")
	t.Setenv("AGRO_CACHE_TTL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-env", cfg.Weather.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tcs := map[string]func(t *testing.T) string{
		"missing file": func(t *testing.T) string {
			return filepath.Join(dir, "nope.yaml")
		},
		"bad yaml": func(t *testing.T) string {
			path := filepath.Join(dir, "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o644))
			return path
		},
		"bad env duration": func(t *testing.T) string {
			t.Setenv("AGRO_CACHE_TTL", "soon")
			return ""
		},
		"invalid upload limit": func(t *testing.T) string {
			t.Setenv("AGRO_MAX_UPLOAD_BYTES", "-1")
			return ""
		},
	}

	for name, setup := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := Load(setup(t))
			assert.Error(t, err)
		})
	}
}

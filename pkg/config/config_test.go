package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NERVsystems/routemcp/pkg/directions"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOSRM, cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, directions.OSRMBaseURL, cfg.OSRM.BaseURL)
	assert.Equal(t, directions.NominatimBaseURL, cfg.Nominatim.BaseURL)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, directions.DefaultLimits(), cfg.Limits())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routemcp.yaml")
	data := []byte(`
provider: Google
http_timeout: 5s
google:
  api_key: from-file
  rps: 2
osrm:
  base_url: http://localhost:5000
cache:
  size: 10
  ttl: 1m
log:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("ROUTEMCP_GOOGLE_API_KEY", "from-env")
	t.Setenv("ROUTEMCP_METRICS_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "from-env", cfg.Google.APIKey)
	assert.Equal(t, 2.0, cfg.Google.RPS)
	assert.Equal(t, directions.GoogleBaseURL, cfg.Google.BaseURL)
	assert.Equal(t, "http://localhost:5000", cfg.OSRM.BaseURL)
	assert.Equal(t, 10, cfg.Cache.Size)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadGoogleWithoutKey(t *testing.T) {
	t.Setenv("ROUTEMCP_PROVIDER", "google")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.api_key is required")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Provider = "bing"
	cfg.HTTPTimeout = 0
	cfg.OSRM.RPS = 0
	cfg.Nominatim.Burst = 0
	cfg.Cache.TTL = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		`provider must be "google" or "osrm", got "bing"`,
		"http_timeout must be positive",
		"osrm.rps must be positive",
		"nominatim.burst must be at least 1",
		"cache.ttl must be positive",
		"log.level must be",
		"log.format must be text or json",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateCacheDisabled(t *testing.T) {
	cfg := Default()
	cfg.Cache.Size = 0
	cfg.Cache.TTL = 0
	assert.NoError(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

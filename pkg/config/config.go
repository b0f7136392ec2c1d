// Package config loads routemcp settings from an optional .env file, an
// optional YAML file and ROUTEMCP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/NERVsystems/routemcp/pkg/directions"
)

// EnvPrefix is prepended to every environment override:
// ROUTEMCP_GOOGLE_API_KEY → google.api_key.
const EnvPrefix = "ROUTEMCP"

// Provider names accepted by the provider key.
const (
	ProviderGoogle = directions.ServiceGoogle
	ProviderOSRM   = directions.ServiceOSRM
)

// Config holds all application configuration.
type Config struct {
	Provider    string        `mapstructure:"provider"`
	UserAgent   string        `mapstructure:"user_agent"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	Google    GoogleConfig  `mapstructure:"google"`
	OSRM      ServiceConfig `mapstructure:"osrm"`
	Nominatim ServiceConfig `mapstructure:"nominatim"`
	Cache     CacheConfig   `mapstructure:"cache"`
	Log       LogConfig     `mapstructure:"log"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

// ServiceConfig locates an upstream service and bounds our request rate.
type ServiceConfig struct {
	BaseURL string  `mapstructure:"base_url"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// Limit returns the rate limit for the service.
func (s ServiceConfig) Limit() directions.Limit {
	return directions.Limit{RPS: s.RPS, Burst: s.Burst}
}

type GoogleConfig struct {
	ServiceConfig `mapstructure:",squash"`
	APIKey        string `mapstructure:"api_key"`
}

type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	limits := directions.DefaultLimits()
	return &Config{
		Provider:    ProviderOSRM,
		UserAgent:   directions.DefaultUserAgent,
		HTTPTimeout: 30 * time.Second,
		Google: GoogleConfig{
			ServiceConfig: ServiceConfig{
				BaseURL: directions.GoogleBaseURL,
				RPS:     limits[directions.ServiceGoogle].RPS,
				Burst:   limits[directions.ServiceGoogle].Burst,
			},
		},
		OSRM: ServiceConfig{
			BaseURL: directions.OSRMBaseURL,
			RPS:     limits[directions.ServiceOSRM].RPS,
			Burst:   limits[directions.ServiceOSRM].Burst,
		},
		Nominatim: ServiceConfig{
			BaseURL: directions.NominatimBaseURL,
			RPS:     limits[directions.ServiceNominatim].RPS,
			Burst:   limits[directions.ServiceNominatim].Burst,
		},
		Cache: CacheConfig{Size: 256, TTL: 15 * time.Minute},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("provider", d.Provider)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("http_timeout", d.HTTPTimeout)

	v.SetDefault("google.api_key", "")
	v.SetDefault("google.base_url", d.Google.BaseURL)
	v.SetDefault("google.rps", d.Google.RPS)
	v.SetDefault("google.burst", d.Google.Burst)

	v.SetDefault("osrm.base_url", d.OSRM.BaseURL)
	v.SetDefault("osrm.rps", d.OSRM.RPS)
	v.SetDefault("osrm.burst", d.OSRM.Burst)

	v.SetDefault("nominatim.base_url", d.Nominatim.BaseURL)
	v.SetDefault("nominatim.rps", d.Nominatim.RPS)
	v.SetDefault("nominatim.burst", d.Nominatim.Burst)

	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from path, or from routemcp.yaml in . or
// ./configs when path is empty, then applies environment variables. A
// .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("routemcp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	switch c.Provider {
	case ProviderGoogle:
		if c.Google.APIKey == "" {
			errs = append(errs, "google.api_key is required when provider is google")
		}
	case ProviderOSRM:
	default:
		errs = append(errs, fmt.Sprintf("provider must be %q or %q, got %q", ProviderGoogle, ProviderOSRM, c.Provider))
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, "http_timeout must be positive")
	}

	services := []struct {
		name string
		cfg  ServiceConfig
	}{
		{"google", c.Google.ServiceConfig},
		{"osrm", c.OSRM},
		{"nominatim", c.Nominatim},
	}
	for _, s := range services {
		if s.cfg.RPS <= 0 {
			errs = append(errs, fmt.Sprintf("%s.rps must be positive", s.name))
		}
		if s.cfg.Burst < 1 {
			errs = append(errs, fmt.Sprintf("%s.burst must be at least 1", s.name))
		}
	}

	if c.Cache.Size < 0 {
		errs = append(errs, "cache.size must not be negative")
	}
	if c.Cache.Size > 0 && c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive when the cache is enabled")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Limits returns the per-service rate limits for the directions client.
func (c *Config) Limits() map[string]directions.Limit {
	return map[string]directions.Limit{
		directions.ServiceGoogle:    c.Google.Limit(),
		directions.ServiceOSRM:      c.OSRM.Limit(),
		directions.ServiceNominatim: c.Nominatim.Limit(),
	}
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", level)
	}
	return l, nil
}

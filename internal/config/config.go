package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	GeocodeProviderHere   = "here"
	GeocodeProviderGoogle = "google"
)

// AppConfig is built once at startup and handed to every component.
type AppConfig struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	GeocodeProvider   string `env:"GEOCODE_PROVIDER" envDefault:"here"`
	HereAPIKey        string `env:"HERE_API_KEY"`
	GeocodeURL        string `env:"GEOCODE_HERE_API_URL"`
	ReverseGeocodeURL string `env:"GEOCODE_HERE_REVERSE_API_URL"`
	GoogleAPIKey      string `env:"GOOGLE_GEOCODER_API_KEY"`

	// Mappls client credentials for the places API token exchange.
	ClientID        string `env:"CLIENT_ID"`
	ClientSecret    string `env:"CLIENT_SECRET"`
	TokenURL        string `env:"TOKEN_URL"`
	NearbyPlacesURL string `env:"NEARBY_PLACES_URL"`

	StillMapAPIKey string `env:"API_KEY"`
	StillMapURL    string `env:"STILL_MAP_URL"`

	OpenWeatherAPIKey string `env:"API_KEY_OW"`
	AirPollutionURL   string `env:"AIR_POLLUTION_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:8080" envSeparator:","`

	// Addresses aggregated on a schedule so interactive requests hit stored records.
	WarmAddresses []string      `env:"WARM_ADDRESSES" envSeparator:";"`
	WarmKeywords  []string      `env:"WARM_KEYWORDS" envSeparator:","`
	WarmInterval  time.Duration `env:"WARM_INTERVAL" envDefault:"1h"`
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", slog.Any("reason", err))
	}
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
// Provider credentials are not required here; calls without them fail per request.
func (c *AppConfig) Validate() error {
	var errs *multierror.Error

	if c.Port == "" {
		errs = multierror.Append(errs, fmt.Errorf("PORT must not be empty"))
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			errs = multierror.Append(errs, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres))
		}
	case StoreDriverMemory:
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory))
	}
	switch c.GeocodeProvider {
	case GeocodeProviderHere, GeocodeProviderGoogle:
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid GEOCODE_PROVIDER %q: want %s or %s", c.GeocodeProvider, GeocodeProviderHere, GeocodeProviderGoogle))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.HTTPTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("HTTP_TIMEOUT must not be negative"))
	}
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			errs = multierror.Append(errs, fmt.Errorf("CORS_ORIGINS must list explicit origins; credentials are allowed"))
		}
	}
	if len(c.WarmAddresses) > 0 && c.WarmInterval < time.Minute {
		errs = multierror.Append(errs, fmt.Errorf("WARM_INTERVAL must be at least 1m when WARM_ADDRESSES is set"))
	}

	return errs.ErrorOrNil()
}

// ParseLogLevel maps LOG_LEVEL onto a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"

	"github.com/loyalteez/saas-demo-backend/pkg/env"
)

type Config struct {
	App       AppConfig
	Loyalteez LoyalteezConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// Load reads the process environment. A missing brand id is not an error
// here; it is reported per request so the server can still boot.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.Loyalteez.BrandID) == "" {
		cfg.Loyalteez.BrandID = strings.TrimSpace(env.Get(EnvLegacyBrandID, ""))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.App.Port) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.Loyalteez.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvLoyalteezTimeout))
	}
	if err := validateAbsoluteURL(c.Loyalteez.APIURL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvLoyalteezAPIURL, err))
	}
	if strings.TrimSpace(c.Loyalteez.Domain) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvLoyalteezDomain))
	}
	if err := validateAbsoluteURL(c.Loyalteez.SourceURL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvLoyalteezSourceURL, err))
	}
	if c.RateLimit.EventsIPLimit < 0 || c.RateLimit.EventsIdentifierLimit < 0 {
		errs = multierr.Append(errs, errors.New("rate limits must not be negative"))
	}
	return errs
}

func validateAbsoluteURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url host is required")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"LOYALTEEZ_APP_ENV" default:"dev"`
	Port         string `envconfig:"LOYALTEEZ_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LOYALTEEZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOYALTEEZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LoyalteezConfig describes the rewards endpoint and the fixed brand context
// attached to every tracked event.
type LoyalteezConfig struct {
	BrandID   string        `envconfig:"LOYALTEEZ_BRAND_ID"`
	APIURL    string        `envconfig:"LOYALTEEZ_API_URL" default:"https://api.loyalteez.app/loyalteez-api/manual-event"`
	Domain    string        `envconfig:"LOYALTEEZ_DOMAIN" default:"saas-demo.loyalteez.app"`
	SourceURL string        `envconfig:"LOYALTEEZ_SOURCE_URL" default:"https://saas-demo.loyalteez.app/api/manual-event"`
	Timeout   time.Duration `envconfig:"LOYALTEEZ_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOYALTEEZ_REDIS_URL"`
	Address      string        `envconfig:"LOYALTEEZ_REDIS_ADDR"`
	Password     string        `envconfig:"LOYALTEEZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOYALTEEZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOYALTEEZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOYALTEEZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOYALTEEZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOYALTEEZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOYALTEEZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type RateLimitConfig struct {
	EventsWindow          time.Duration `envconfig:"LOYALTEEZ_RATE_LIMIT_EVENTS_WINDOW" default:"1m"`
	EventsIPLimit         int           `envconfig:"LOYALTEEZ_RATE_LIMIT_EVENTS_IP_LIMIT" default:"30"`
	EventsIdentifierLimit int           `envconfig:"LOYALTEEZ_RATE_LIMIT_EVENTS_IDENTIFIER_LIMIT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LOYALTEEZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://saas-demo.loyalteez.app"`
}

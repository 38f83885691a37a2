package loyalteez

import (
	"net/http"
	"strings"
	"time"

	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/metrics"
)

const (
	DefaultEndpoint = "https://api.loyalteez.app/loyalteez-api/manual-event"
	DefaultTimeout  = 30 * time.Second
)

type options struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *logger.Logger
	metrics    *metrics.RewardMetrics
	now        func() time.Time
}

func defaultOptions() options {
	return options{
		httpClient: &http.Client{},
		endpoint:   DefaultEndpoint,
		timeout:    DefaultTimeout,
		logger:     logger.Nop(),
		now:        time.Now,
	}
}

// Option configures optional gateway and client behavior.
type Option func(*options)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithEndpoint overrides the rewards endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			o.endpoint = trimmed
		}
	}
}

// WithTimeout bounds each call. Zero or negative disables the bound, leaving
// only the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger for gateway and client events.
func WithLogger(logg *logger.Logger) Option {
	return func(o *options) {
		if logg != nil {
			o.logger = logg
		}
	}
}

// WithMetrics records call outcomes on m. Nil disables metrics.
func WithMetrics(m *metrics.RewardMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock replaces the time source used for payload timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(base options, opts []Option) options {
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	return base
}

package got

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/lagden/got"

	// DefaultMaxRedirects is the per-request redirect hop budget
	// applied when none is specified.
	DefaultMaxRedirects = 5

	// DefaultMethod is applied to descriptors with no method.
	DefaultMethod = http.MethodPost
)

// internalConfig holds all client configuration.
type internalConfig struct {
	BaseURL        string
	ServiceName    string
	Timeout        time.Duration
	MaxRedirects   int
	DefaultHeaders http.Header
	Debug          bool
	Logger         zerolog.Logger

	Transport     http.RoundTripper
	HTTPClient    *http.Client
	MockTransport *MockTransport

	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider

	metrics *metrics
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*internalConfig)

// newConfig applies options over package defaults. Layering is
// deterministic: package defaults, then client options in order, then
// per-call descriptor values at execution time.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		MaxRedirects:   DefaultMaxRedirects,
		DefaultHeaders: make(http.Header),
		Logger:         debugLogger,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	if m, err := newMetrics(cfg.MeterProvider.Meter(scope)); err == nil {
		cfg.metrics = m
	}
	cfg.tracer = cfg.TracerProvider.Tracer(scope)

	return cfg
}

// baseAttributes returns the attributes attached to every metric.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("service.name", cfg.ServiceName))
	}
	return attrs
}

// WithBaseURL sets the base URL prepended to builder paths.
func WithBaseURL(baseURL string) Option {
	return func(cfg *internalConfig) {
		cfg.BaseURL = baseURL
	}
}

// WithServiceName sets the service name attached to metrics and spans.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTimeout sets the per-attempt timeout on the underlying HTTP
// client. Zero means no timeout. Timeouts spanning a whole logical
// request belong on the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *internalConfig) {
		cfg.Timeout = timeout
	}
}

// WithMaxRedirects sets the default redirect hop budget for POST
// requests. Individual requests can override it.
func WithMaxRedirects(max int) Option {
	return func(cfg *internalConfig) {
		if max > 0 {
			cfg.MaxRedirects = max
		}
	}
}

// WithDefaultHeader adds a header applied to every request. Per-call
// headers with the same key take precedence.
func WithDefaultHeader(key, value string) Option {
	return func(cfg *internalConfig) {
		cfg.DefaultHeaders.Set(key, value)
	}
}

// WithDefaultHeaders adds multiple headers applied to every request.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(cfg *internalConfig) {
		for k, v := range headers {
			cfg.DefaultHeaders.Set(k, v)
		}
	}
}

// WithDebug enables request/response debug logging via zerolog.
func WithDebug(debug bool) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = debug
	}
}

// WithLogger sets the zerolog logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = logger
	}
}

// WithTransport sets the underlying RoundTripper. Defaults to
// http.DefaultTransport.
func WithTransport(transport http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		cfg.Transport = transport
	}
}

// WithHTTPClient supplies a fully configured *http.Client. Its
// transport, timeout, and cookie jar are reused for both the
// auto-follow and the redirect-manual send paths.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *internalConfig) {
		cfg.HTTPClient = client
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider. Defaults to
// the global provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = provider
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Defaults
// to the global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = provider
	}
}

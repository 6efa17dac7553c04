package app

import (
	"net/http"

	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/manhhung3004/Gentsshop/config"
	"github.com/manhhung3004/Gentsshop/credentials"
	"github.com/manhhung3004/Gentsshop/logger"
)

// Options contains optional dependencies for creating an App instance.
type Options struct {
	ConfigLoader   func() (*config.Config, error)
	Logger         logger.Logger
	Backend        credentials.Backend
	Transport      http.RoundTripper
	MeterProvider  metric.MeterProvider
	TracerProvider oteltrace.TracerProvider
}

// Option mutates Options.
type Option func(*Options)

// WithConfigLoader replaces config.Load.
func WithConfigLoader(fn func() (*config.Config, error)) Option {
	return func(o *Options) { o.ConfigLoader = fn }
}

// WithLogger replaces the logger built from the log section.
func WithLogger(log logger.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithBackend replaces the credential backend selected by configuration.
// The App does not close a backend passed this way.
func WithBackend(b credentials.Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithTransport sets the HTTP transport, for tests and proxies.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.Transport = rt }
}

// WithMeterProvider sets the provider for client metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) { o.MeterProvider = mp }
}

// WithTracerProvider sets the provider for client spans.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *Options) { o.TracerProvider = tp }
}

// Package app wires configuration, logging, the credential store, the HTTP
// client pipeline and the API modules into one ready-to-use client.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/config"
	"github.com/manhhung3004/Gentsshop/credentials"
	"github.com/manhhung3004/Gentsshop/httpclient"
	"github.com/manhhung3004/Gentsshop/logger"
	"github.com/manhhung3004/Gentsshop/resilience"
	"github.com/manhhung3004/Gentsshop/session"
)

// App holds the configured client and everything it depends on.
type App struct {
	API     *api.API
	Session *session.Manager

	cfg          *config.Config
	logger       logger.Logger
	store        *credentials.Store
	backend      credentials.Backend
	ownsBackend  bool
	retryOptions []resilience.Option
}

// New loads configuration and builds the App.
func New(ctx context.Context, opts ...Option) (*App, error) {
	o := &Options{ConfigLoader: config.Load}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := o.ConfigLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, o)
}

// NewWithConfig builds the App from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config, o *Options) (*App, error) {
	if o == nil {
		o = &Options{}
	}

	log := o.Logger
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}

	backend, owns := o.Backend, false
	if backend == nil {
		b, err := credentials.Open(ctx, cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to open credential backend: %w", err)
		}
		backend, owns = b, true
	}
	store := credentials.NewStore(backend, log)

	b := httpclient.NewBuilder(log).
		WithBaseURL(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout).
		WithRequestTransform(httpclient.BearerTransform(store)).
		WithResponseTransform(httpclient.UnauthorizedTransform(store, log))
	for k, v := range cfg.API.Headers {
		b = b.WithDefaultHeader(k, v)
	}
	if o.Transport != nil {
		b = b.WithTransport(o.Transport)
	}
	if o.MeterProvider != nil {
		b = b.WithMeterProvider(o.MeterProvider)
	}
	if o.TracerProvider != nil {
		b = b.WithTracerProvider(o.TracerProvider)
	}
	client := b.Build()

	retry := []resilience.Option{
		resilience.WithMaxAttempts(cfg.Retry.MaxAttempts),
		resilience.WithInitialDelay(cfg.Retry.InitialDelay),
		resilience.WithRetryIf(httpclient.Retryable),
		resilience.LogRetries(log, "api"),
	}
	modules := api.New(client)

	a := &App{
		API:          modules,
		Session:      session.NewManager(modules.Auth, store, log, session.WithRetry(retry...)),
		cfg:          cfg,
		logger:       log,
		store:        store,
		backend:      backend,
		ownsBackend:  owns,
		retryOptions: retry,
	}

	log.Debug().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("base_url", cfg.API.BaseURL).
		Str("credential_backend", cfg.Credentials.Backend).
		Dur("timeout", cfg.API.Timeout).
		Msg("Client configured")

	return a, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() logger.Logger { return a.logger }

// Store returns the credential store.
func (a *App) Store() *credentials.Store { return a.store }

// RetryOptions returns the configured retry policy for idempotent calls.
// Network failures and 5xx answers are retried; retries are logged.
func (a *App) RetryOptions() []resilience.Option {
	return append([]resilience.Option(nil), a.retryOptions...)
}

// Close releases the credential backend when the App opened it.
func (a *App) Close() error {
	if !a.ownsBackend {
		return nil
	}
	if err := credentials.Close(a.backend); err != nil {
		return fmt.Errorf("failed to close credential backend: %w", err)
	}
	return nil
}

// Retry runs an idempotent call with the App's retry policy.
func Retry[T any](ctx context.Context, a *App, op func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := resilience.Retry(ctx, op, a.retryOptions...)
	a.logger.Debug().Dur("elapsed", time.Since(start)).Bool("ok", err == nil).Msg("Retried call finished")
	return v, err
}

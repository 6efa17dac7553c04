// Package httpclient sends requests to the commerce backend through a
// transform pipeline and normalizes every failure into *Error.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/manhhung3004/Gentsshop/httpclient/internal/tracking"
	"github.com/manhhung3004/Gentsshop/logger"
	"github.com/manhhung3004/Gentsshop/trace"
)

// DefaultTimeout bounds each request attempt.
const DefaultTimeout = 10 * time.Second

// Client sends one request and returns the raw response payload. Every
// error it returns is an *Error.
type Client interface {
	Send(ctx context.Context, d *Descriptor) (json.RawMessage, error)
}

// client implements the Client interface
type client struct {
	httpClient         *http.Client
	logger             logger.Logger
	baseURL            string
	timeout            time.Duration
	defaultHeaders     http.Header
	requestTransforms  []RequestTransform
	responseTransforms []ResponseTransform
	tracker            *tracking.Tracker
}

// Builder provides a fluent interface for configuring the client
type Builder struct {
	logger             logger.Logger
	baseURL            string
	timeout            time.Duration
	httpClient         *http.Client
	transport          http.RoundTripper
	defaultHeaders     http.Header
	requestTransforms  []RequestTransform
	responseTransforms []ResponseTransform
	meterProvider      metric.MeterProvider
	tracerProvider     oteltrace.TracerProvider
}

// NewBuilder creates a new client builder. The request ID transform is
// registered first; a nil logger discards output.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		logger:            log,
		timeout:           DefaultTimeout,
		defaultHeaders:    make(http.Header),
		requestTransforms: []RequestTransform{RequestIDTransform()},
	}
}

// WithBaseURL sets the backend root all descriptor paths are resolved against.
func (b *Builder) WithBaseURL(base string) *Builder {
	b.baseURL = base
	return b
}

// WithTimeout sets the per-attempt timeout. Values <= 0 keep the default.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	if timeout > 0 {
		b.timeout = timeout
	}
	return b
}

// WithHTTPClient uses hc for transport. Its own Timeout still applies.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithTransport sets the round tripper of the internally built http.Client.
func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders.Set(key, value)
	return b
}

// WithRequestTransform appends a request transform.
func (b *Builder) WithRequestTransform(t RequestTransform) *Builder {
	b.requestTransforms = append(b.requestTransforms, t)
	return b
}

// WithResponseTransform appends a response transform.
func (b *Builder) WithResponseTransform(t ResponseTransform) *Builder {
	b.responseTransforms = append(b.responseTransforms, t)
	return b
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func (b *Builder) WithTracerProvider(tp oteltrace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// Build creates the client with the configured options
func (b *Builder) Build() Client {
	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Transport: b.transport}
	}

	return &client{
		httpClient:         hc,
		logger:             b.logger,
		baseURL:            b.baseURL,
		timeout:            b.timeout,
		defaultHeaders:     b.defaultHeaders.Clone(),
		requestTransforms:  append([]RequestTransform(nil), b.requestTransforms...),
		responseTransforms: append([]ResponseTransform(nil), b.responseTransforms...),
		tracker:            tracking.New(b.meterProvider, b.tracerProvider),
	}
}

// Send performs one attempt of d. Success returns the body bytes; anything
// else returns *Error.
func (c *client) Send(ctx context.Context, d *Descriptor) (json.RawMessage, error) {
	if d == nil {
		return nil, newUnknownError("request descriptor is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, c.contextError(ctx, err)
	}

	requestID := trace.EnsureRequestID(ctx)
	ctx = trace.WithRequestID(ctx, requestID)

	timeout := c.timeout
	if t := d.Timeout(); t > 0 {
		timeout = t
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	attemptCtx, call := c.tracker.Start(attemptCtx, d.Method(), d.Route(), requestID)

	httpReq, reqBody, berr := c.buildRequest(attemptCtx, d)
	if berr != nil {
		c.finish(ctx, call, d, 0, berr)
		return nil, berr
	}
	c.logRequest(d, requestID, reqBody)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cerr := c.transportError(ctx, err)
		c.finish(ctx, call, d, 0, cerr)
		return nil, cerr
	}

	body, err := c.readResponse(attemptCtx, httpReq, httpResp)
	if err != nil {
		var cerr *Error
		if !errors.As(err, &cerr) {
			cerr = c.transportError(ctx, err)
		}
		c.finish(ctx, call, d, httpResp.StatusCode, cerr)
		return nil, cerr
	}

	if isSuccessStatus(httpResp.StatusCode) {
		elapsed := c.finish(ctx, call, d, httpResp.StatusCode, nil)
		c.logResponse(d, requestID, httpResp.StatusCode, elapsed, body)
		return json.RawMessage(body), nil
	}

	apiErr := newStatusError(httpResp.StatusCode, body)
	elapsed := c.finish(ctx, call, d, httpResp.StatusCode, apiErr)
	c.logResponse(d, requestID, httpResp.StatusCode, elapsed, body)
	return nil, apiErr
}

// buildRequest constructs an *http.Request, applies headers, and runs request transforms.
func (c *client) buildRequest(ctx context.Context, d *Descriptor) (*http.Request, []byte, *Error) {
	target, err := c.resolve(d)
	if err != nil {
		return nil, nil, newUnknownError("invalid request url", err)
	}

	body, logged, contentType, err := d.encodeBody()
	if err != nil {
		return nil, nil, newUnknownError("failed to encode request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method(), target, body)
	if err != nil {
		return nil, nil, newUnknownError("failed to create request", err)
	}

	for key, values := range c.defaultHeaders {
		req.Header[key] = append([]string(nil), values...)
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	if contentType != "" {
		req.Header.Set(headerCType, contentType)
	}

	for _, transform := range c.requestTransforms {
		if err := transform(ctx, req); err != nil {
			return nil, nil, newUnknownError("request transform failed", err)
		}
	}
	return req, logged, nil
}

// resolve joins the base URL and descriptor path the way a browser client
// does: exactly one slash between them.
func (c *client) resolve(d *Descriptor) (string, error) {
	path := d.Path()
	var raw string
	switch {
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		raw = path
	case c.baseURL == "":
		raw = path
	default:
		raw = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if q := d.Query(); len(q) > 0 {
		merged := u.Query()
		for k, vs := range q {
			merged[k] = vs
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

// readResponse runs response transforms and reads the body.
func (c *client) readResponse(ctx context.Context, req *http.Request, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	for _, transform := range c.responseTransforms {
		if err := transform(ctx, req, resp); err != nil {
			return nil, newUnknownError("response transform failed", err)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// transportError maps a failure without a usable response. Caller
// cancellation is reported as such; deadlines and connection failures are
// network errors.
func (c *client) transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		return newCanceledError(ctxErr)
	}
	return newNetworkError(err)
}

func (c *client) contextError(_ context.Context, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return newCanceledError(err)
	}
	return newNetworkError(err)
}

// finish closes the span, records metrics and the per-context call tally.
func (c *client) finish(ctx context.Context, call *tracking.Call, d *Descriptor, status int, err *Error) time.Duration {
	errType := ""
	if err != nil {
		errType = string(err.Kind)
		c.logger.Debug().
			Str("method", d.Method()).
			Str("path", d.Path()).
			Str("kind", errType).
			Int("status", status).
			Msg("API request failed")
	}
	elapsed := call.End(ctx, status, errType)
	logger.RecordAPICall(ctx, elapsed)
	return elapsed
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// logRequest logs the outgoing request
func (c *client) logRequest(d *Descriptor, requestID string, body []byte) {
	logEvent := c.logger.Info().
		Str("direction", "outbound").
		Str("method", d.Method()).
		Str("path", d.Path()).
		Str("request_id", requestID)

	if q := d.Query(); len(q) > 0 {
		logEvent = logEvent.Str("query", q.Encode())
	}
	if len(body) > 0 {
		logEvent = logEvent.Bytes("body", body)
	}

	logEvent.Msg("API request")
}

// logResponse logs the incoming response
func (c *client) logResponse(d *Descriptor, requestID string, status int, elapsed time.Duration, body []byte) {
	logEvent := c.logger.Info()
	if !isSuccessStatus(status) {
		logEvent = c.logger.Warn()
	}

	logEvent = logEvent.
		Str("direction", "inbound").
		Str("method", d.Method()).
		Str("path", d.Path()).
		Str("request_id", requestID).
		Int("status", status).
		Dur("elapsed", elapsed)

	if len(body) > 0 {
		logEvent = logEvent.Bytes("body", body)
	}

	logEvent.Msg("API response")
}

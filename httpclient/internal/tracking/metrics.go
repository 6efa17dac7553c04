// Package tracking records OpenTelemetry spans and metrics for outbound API calls.
package tracking

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/manhhung3004/Gentsshop/httpclient"

	// Metric names following OpenTelemetry semantic conventions
	MetricRequestDuration = "http.client.request.duration" // Histogram in seconds
	MetricRequestErrors   = "http.client.request.errors"   // Counter

	// Attribute keys per OTel semantic conventions
	attrMethod     = "http.request.method"
	attrStatusCode = "http.response.status_code"
	attrRoute      = "url.template"
	attrErrorType  = "error.type"
	attrRequestID  = "http.request.id"
)

// Tracker owns the instruments for one client.
type Tracker struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// logMetricError logs a metric initialization error to stderr.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize http client metric %s: %v\n", metricName, err)
	}
}

// New creates a Tracker. Nil providers fall back to the global ones.
func New(mp metric.MeterProvider, tp trace.TracerProvider) *Tracker {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &Tracker{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.duration, err = meter.Float64Histogram(
		MetricRequestDuration,
		metric.WithDescription("Duration of outbound API requests"),
		metric.WithUnit("s"),
	)
	logMetricError(MetricRequestDuration, err)

	t.errors, err = meter.Int64Counter(
		MetricRequestErrors,
		metric.WithDescription("Number of failed outbound API requests"),
		metric.WithUnit("{error}"),
	)
	logMetricError(MetricRequestErrors, err)

	return t
}

// Call is one in-flight request.
type Call struct {
	tracker *Tracker
	span    trace.Span
	start   time.Time
	attrs   []attribute.KeyValue
}

// Start opens a client span named "METHOD route".
func (t *Tracker) Start(ctx context.Context, method, route, requestID string) (context.Context, *Call) {
	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrRoute, route),
	}
	ctx, span := t.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
		trace.WithAttributes(attribute.String(attrRequestID, requestID)),
	)
	return ctx, &Call{tracker: t, span: span, start: time.Now(), attrs: attrs}
}

// End records duration and closes the span. status is 0 when no response
// arrived; errorType is empty on success.
func (c *Call) End(ctx context.Context, status int, errorType string) time.Duration {
	elapsed := time.Since(c.start)

	attrs := append([]attribute.KeyValue(nil), c.attrs...)
	if status > 0 {
		attrs = append(attrs, attribute.Int(attrStatusCode, status))
		c.span.SetAttributes(attribute.Int(attrStatusCode, status))
	}
	if errorType != "" {
		attrs = append(attrs, attribute.String(attrErrorType, errorType))
		c.span.SetAttributes(attribute.String(attrErrorType, errorType))
		c.span.SetStatus(codes.Error, errorType)
		if c.tracker.errors != nil {
			c.tracker.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		c.span.SetStatus(codes.Ok, "")
	}

	if c.tracker.duration != nil {
		c.tracker.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	}
	c.span.End()
	return elapsed
}

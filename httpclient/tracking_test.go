package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/manhhung3004/Gentsshop/httpclient/internal/tracking"
)

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestSendRecordsSpansAndMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/product/missing" {
			writeJSON(w, http.StatusNotFound, `{"message":"Product not found."}`)
			return
		}
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer srv.Close()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	c := NewBuilder(nil).
		WithBaseURL(srv.URL).
		WithMeterProvider(mp).
		WithTracerProvider(tp).
		Build()

	ctx := context.Background()
	_, err := c.Send(ctx, NewDescriptor(http.MethodGet, "/api/v1/product/p1", WithRoute("/api/v1/product/:id")))
	require.NoError(t, err)
	_, err = c.Send(ctx, NewDescriptor(http.MethodGet, "/api/v1/product/missing", WithRoute("/api/v1/product/:id")))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /api/v1/product/:id", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("error.type", string(KindAPI)))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	duration, ok := findMetric(rm, tracking.MetricRequestDuration)
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	errorsMetric, ok := findMetric(rm, tracking.MetricRequestErrors)
	require.True(t, ok)
	sum, ok := errorsMetric.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	status, found := sum.DataPoints[0].Attributes.Value("http.response.status_code")
	require.True(t, found)
	assert.Equal(t, int64(404), status.AsInt64())
}

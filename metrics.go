package got

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for request orchestration.
type metrics struct {
	// requestDuration measures the total logical request duration in
	// seconds, redirect hops included.
	requestDuration metric.Float64Histogram

	// activeRequests tracks the number of in-flight logical requests.
	activeRequests metric.Int64UpDownCounter

	// superseded counts requests cancelled by a same-named successor.
	superseded metric.Int64Counter

	// redirectHops counts manual redirect re-issues.
	redirectHops metric.Int64Counter

	// redirectExhausted counts requests that spent their redirect
	// budget. A non-zero value usually means a redirect loop upstream.
	redirectExhausted metric.Int64Counter

	// responseErrors counts non-success responses by status code.
	responseErrors metric.Int64Counter
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of logical HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	m.activeRequests, err = meter.Int64UpDownCounter(
		"http.client.active_requests",
		metric.WithDescription("Number of in-flight logical requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.superseded, err = meter.Int64Counter(
		"http.client.request.superseded",
		metric.WithDescription("Number of requests cancelled by a same-named successor"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.redirectHops, err = meter.Int64Counter(
		"http.client.redirect.hops",
		metric.WithDescription("Number of manually re-issued redirect hops"),
		metric.WithUnit("{hop}"),
	)
	if err != nil {
		return nil, err
	}

	m.redirectExhausted, err = meter.Int64Counter(
		"http.client.redirect.exhausted",
		metric.WithDescription("Number of requests that exhausted their redirect budget"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.responseErrors, err = meter.Int64Counter(
		"http.client.response.error",
		metric.WithDescription("Number of non-success HTTP responses"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) recordRequestDuration(
	ctx context.Context,
	duration time.Duration,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *metrics) recordActiveRequestStart(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.activeRequests == nil {
		return
	}
	m.activeRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordActiveRequestEnd(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.activeRequests == nil {
		return
	}
	m.activeRequests.Add(ctx, -1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordSuperseded(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.superseded == nil {
		return
	}
	m.superseded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordRedirectHop(ctx context.Context, attrs []attribute.KeyValue, hop int) {
	if m == nil || m.redirectHops == nil {
		return
	}
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs, attribute.Int("redirect.hop", hop))
	m.redirectHops.Add(ctx, 1, metric.WithAttributes(allAttrs...))
}

func (m *metrics) recordRedirectExhausted(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.redirectExhausted == nil {
		return
	}
	m.redirectExhausted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordResponseError(
	ctx context.Context,
	attrs []attribute.KeyValue,
	statusCode int,
) {
	if m == nil || m.responseErrors == nil {
		return
	}
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs, attribute.Int("http.response.status_code", statusCode))
	m.responseErrors.Add(ctx, 1, metric.WithAttributes(allAttrs...))
}

package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ServerMetrics holds metric instruments for HTTP server telemetry.
type ServerMetrics struct {
	RequestCounter  metric.Int64Counter     // Total HTTP requests
	RequestDuration metric.Float64Histogram // HTTP request latency
	ErrorCounter    metric.Int64Counter     // Total HTTP errors (5xx)
}

// NewServerMetrics creates the HTTP instruments on the global meter provider.
func NewServerMetrics() (*ServerMetrics, error) {
	meter := otel.Meter("consoleapi/http")

	requestCounter, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s
	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"http.server.error.count",
		metric.WithDescription("Total number of HTTP server errors (5xx)"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &ServerMetrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		ErrorCounter:    errorCounter,
	}, nil
}

// RecordRequest records an HTTP request with method, route, status, and duration.
func (m *ServerMetrics) RecordRequest(ctx context.Context, method, route, status string, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.String(AttrHTTPStatusCode, status),
	)

	m.RequestCounter.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, durationMs, attrs)

	if len(status) > 0 && status[0] == '5' {
		m.ErrorCounter.Add(ctx, 1, attrs)
	}
}

// Middleware records every request served by a chi router. The route
// attribute is the matched chi pattern, so path parameters do not blow up
// cardinality.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RecordRequest(r.Context(), r.Method, route, strconv.Itoa(status),
			float64(time.Since(start).Microseconds())/1000)
	})
}

// NavigationMetrics counts guarded navigations and their redirect hops.
type NavigationMetrics struct {
	Navigations metric.Int64Counter
	Redirects   metric.Int64Counter
	Duration    metric.Float64Histogram
}

// NewNavigationMetrics creates the router instruments.
func NewNavigationMetrics() (*NavigationMetrics, error) {
	meter := otel.Meter(TracerRouter)

	navigations, err := meter.Int64Counter(
		"console.navigation.count",
		metric.WithDescription("Navigations settled by the router, by outcome"),
		metric.WithUnit("{navigation}"),
	)
	if err != nil {
		return nil, err
	}

	redirects, err := meter.Int64Counter(
		"console.navigation.redirect.count",
		metric.WithDescription("Redirect hops taken by the navigation guard"),
		metric.WithUnit("{redirect}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"console.navigation.duration",
		metric.WithDescription("Time from navigation start to settle"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return nil, err
	}

	return &NavigationMetrics{Navigations: navigations, Redirects: redirects, Duration: duration}, nil
}

// RecordNavigation records one settled navigation.
func (n *NavigationMetrics) RecordNavigation(ctx context.Context, route, outcome string, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String(AttrNavRoute, route),
		attribute.String(AttrNavOutcome, outcome),
	)
	n.Navigations.Add(ctx, 1, attrs)
	n.Duration.Record(ctx, durationMs, attrs)
}

// RecordRedirect records one redirect hop towards route.
func (n *NavigationMetrics) RecordRedirect(ctx context.Context, route string) {
	n.Redirects.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrRedirectTo, route)))
}

// BackendMetrics counts calls forwarded to the backend API.
type BackendMetrics struct {
	Requests     metric.Int64Counter
	Unauthorized metric.Int64Counter
}

// NewBackendMetrics creates the backend proxy instruments.
func NewBackendMetrics() (*BackendMetrics, error) {
	meter := otel.Meter(TracerBackend)

	requests, err := meter.Int64Counter(
		"console.backend.request.count",
		metric.WithDescription("Requests forwarded to the backend API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	unauthorized, err := meter.Int64Counter(
		"console.backend.unauthorized.count",
		metric.WithDescription("Backend 401 answers that cleared the session"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	return &BackendMetrics{Requests: requests, Unauthorized: unauthorized}, nil
}

// RecordRequest records one forwarded request and its status.
func (b *BackendMetrics) RecordRequest(ctx context.Context, method string, status int) {
	b.Requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPStatusCode, strconv.Itoa(status)),
	))
}

// RecordUnauthorized records a 401 that cleared the session.
func (b *BackendMetrics) RecordUnauthorized(ctx context.Context) {
	b.Unauthorized.Add(ctx, 1)
}

// Metric attribute keys
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"
)

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan creates a new span on the named tracer.
//
//	ctx, span := telemetry.StartSpan(ctx, TracerRouter, "router.Navigate",
//	    attribute.String(AttrNavTarget, target),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records err on the span and marks the span failed.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Tracer names
const (
	TracerRouter  = "consoleapi/router"
	TracerBackend = "consoleapi/backend"
)

// Span attribute keys
const (
	AttrNavTarget    = "nav.target"
	AttrNavRoute     = "nav.route"
	AttrNavFullPath  = "nav.full_path"
	AttrNavOutcome   = "nav.outcome"
	AttrNavRedirects = "nav.redirects"
	AttrRedirectTo   = "nav.redirect_to"

	AttrSessionDriver = "session.driver"
	AttrBackendPath   = "backend.path"
)

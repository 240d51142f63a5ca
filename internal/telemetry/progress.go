package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goodsone/console/internal/router"
)

// NavigationProgress is the router's progress indicator on the server: a
// span per navigation, an event per redirect hop, and the navigation
// counters.
type NavigationProgress struct {
	metrics *NavigationMetrics
}

var _ router.Progress = (*NavigationProgress)(nil)

// NewNavigationProgress creates the indicator. metrics may be nil.
func NewNavigationProgress(metrics *NavigationMetrics) *NavigationProgress {
	return &NavigationProgress{metrics: metrics}
}

// Start opens the navigation span.
func (p *NavigationProgress) Start(ctx context.Context, target string) (context.Context, func(router.Result)) {
	start := time.Now()
	ctx, span := StartSpan(ctx, TracerRouter, "router.Navigate",
		attribute.String(AttrNavTarget, target),
	)

	return ctx, func(res router.Result) {
		defer span.End()

		outcome := res.Outcome()
		span.SetAttributes(
			attribute.String(AttrNavOutcome, string(outcome)),
			attribute.Int(AttrNavRedirects, res.Redirects),
		)

		route := ""
		if res.Final != nil {
			route = res.Final.Name
			span.SetAttributes(
				attribute.String(AttrNavRoute, route),
				attribute.String(AttrNavFullPath, res.Final.FullPath),
			)
		}
		if outcome == router.OutcomeFailed {
			RecordError(span, res.Err)
		}

		if p.metrics != nil {
			p.metrics.RecordNavigation(ctx, route, string(outcome),
				float64(time.Since(start).Microseconds())/1000)
		}
	}
}

// OnRedirect is a router.Options.OnRedirect hook adding a span event and
// counting the hop.
func (p *NavigationProgress) OnRedirect(ctx context.Context, from *router.Location, to router.Target) {
	AddEvent(trace.SpanFromContext(ctx), "navigation.redirect",
		attribute.String(AttrNavFullPath, from.FullPath),
		attribute.String(AttrRedirectTo, to.String()),
	)
	if p.metrics != nil {
		p.metrics.RecordRedirect(ctx, redirectName(to))
	}
}

func redirectName(to router.Target) string {
	if to.Name != "" {
		return to.Name
	}
	return to.Path
}

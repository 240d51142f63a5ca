package router

import (
	"context"
	"errors"
)

// Outcome classifies how a navigation settled.
type Outcome string

const (
	OutcomeCommitted  Outcome = "committed"
	OutcomeRedirected Outcome = "redirected"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeFailed     Outcome = "failed"
)

// Result describes a settled navigation.
type Result struct {
	Target    string
	Final     *Location
	Redirects int
	Err       error
}

// Outcome derives the outcome of r.
func (r Result) Outcome() Outcome {
	switch {
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return OutcomeCancelled
	case r.Err != nil:
		return OutcomeFailed
	case r.Redirects > 0:
		return OutcomeRedirected
	default:
		return OutcomeCommitted
	}
}

// Progress is the indicator started at the beginning of every navigation.
// The returned done func is called exactly once when the navigation
// settles, whatever the outcome.
type Progress interface {
	Start(ctx context.Context, target string) (context.Context, func(Result))
}

// NopProgress shows nothing.
type NopProgress struct{}

func (NopProgress) Start(ctx context.Context, _ string) (context.Context, func(Result)) {
	return ctx, func(Result) {}
}

// Chain starts every indicator in order and finishes them in reverse.
func Chain(ps ...Progress) Progress {
	return chain(ps)
}

type chain []Progress

func (c chain) Start(ctx context.Context, target string) (context.Context, func(Result)) {
	dones := make([]func(Result), 0, len(c))
	for _, p := range c {
		var done func(Result)
		ctx, done = p.Start(ctx, target)
		dones = append(dones, done)
	}
	return ctx, func(r Result) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](r)
		}
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/goodsone/console/internal/router"
)

// spinnerProgress shows a terminal spinner while a navigation runs.
type spinnerProgress struct{}

func (spinnerProgress) Start(ctx context.Context, target string) (context.Context, func(router.Result)) {
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start("Navigating to " + target)
	if err != nil {
		return ctx, func(router.Result) {}
	}
	return ctx, func(res router.Result) {
		msg := describe(res)
		switch res.Outcome() {
		case router.OutcomeFailed:
			spinner.Fail(msg)
		case router.OutcomeCancelled:
			spinner.Warning(msg)
		default:
			spinner.Success(msg)
		}
	}
}

func describe(res router.Result) string {
	switch res.Outcome() {
	case router.OutcomeFailed, router.OutcomeCancelled:
		return fmt.Sprintf("%s: %v", res.Target, res.Err)
	case router.OutcomeRedirected:
		return fmt.Sprintf("%s -> %s (%d redirects)", res.Target, res.Final.FullPath, res.Redirects)
	default:
		return res.Final.FullPath
	}
}

func printRedirect(_ context.Context, from *router.Location, to router.Target) {
	pterm.Info.Printf("redirect %s -> %s\n", from.FullPath, to.String())
}

package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/goodsone/console/pkg/sdk"
)

const defaultMaxRedirects = 10

// Options configures a Router.
type Options struct {
	Guard           *Guard
	Progress        Progress
	PrivilegedRoles []string
	MaxRedirects    int
	// OnRedirect observes every redirect hop. ctx is the one returned by
	// Progress.Start.
	OnRedirect func(ctx context.Context, from *Location, to Target)
}

// Router commits navigations for one session. The session is read from
// the store at every navigation, so a login or a 401 in between is picked
// up by the next guard evaluation.
type Router struct {
	table *Table
	store sdk.SessionStore
	opts  Options

	mu      sync.Mutex
	current *Location
}

var _ sdk.Navigator = (*Router)(nil)

func New(table *Table, store sdk.SessionStore, opts Options) *Router {
	if opts.Guard == nil {
		opts.Guard = NewGuard(nil)
	}
	if opts.Progress == nil {
		opts.Progress = NopProgress{}
	}
	if opts.PrivilegedRoles == nil {
		opts.PrivilegedRoles = []string{DefaultPrivilegedRole}
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = defaultMaxRedirects
	}
	return &Router{table: table, store: store, opts: opts}
}

// Push navigates to target and discards the final location.
func (r *Router) Push(ctx context.Context, target string) error {
	_, err := r.Navigate(ctx, target)
	return err
}

// Current is the last committed location, nil before the first one.
func (r *Router) Current() *Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// Navigate resolves target, follows the root redirect and the guard's
// redirects, and commits the final location.
func (r *Router) Navigate(ctx context.Context, target string) (loc *Location, err error) {
	ctx, done := r.opts.Progress.Start(ctx, target)
	redirects := 0
	defer func() {
		done(Result{Target: target, Final: loc, Redirects: redirects, Err: err})
	}()

	loc, err = r.table.Resolve(target)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		session, err := sdk.LoadSession(ctx, r.store)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}

		var next *Target
		if loc.IsRoot() {
			t := RootRedirect(loc, session, r.opts.PrivilegedRoles)
			next = &t
		} else {
			next, err = r.opts.Guard.Evaluate(loc, session)
			if err != nil {
				return nil, err
			}
		}

		if next == nil {
			r.commit(loc)
			return loc, nil
		}

		if redirects >= r.opts.MaxRedirects {
			return nil, fmt.Errorf("%w: stopped at %s", ErrRedirectLoop, next)
		}
		redirects++
		if r.opts.OnRedirect != nil {
			r.opts.OnRedirect(ctx, loc, *next)
		}

		loc, err = r.table.Target(*next)
		if err != nil {
			return nil, fmt.Errorf("redirect to %s: %w", next, err)
		}
	}
}

func (r *Router) commit(loc *Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = loc
}

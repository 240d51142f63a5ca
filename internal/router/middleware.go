package router

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey struct{}

// WithLocation stores the committed location in ctx.
func WithLocation(ctx context.Context, loc *Location) context.Context {
	return context.WithValue(ctx, contextKey{}, loc)
}

// LocationFrom returns the location committed by Middleware.
func LocationFrom(ctx context.Context) (*Location, bool) {
	loc, ok := ctx.Value(contextKey{}).(*Location)
	return loc, ok && loc != nil
}

// RouterFor returns the router that navigates on behalf of a request,
// bound to that request's session.
type RouterFor func(w http.ResponseWriter, r *http.Request) (*Router, error)

// Middleware guards page requests. The request URI is navigated through
// the router; when the navigation ends somewhere else the client gets a
// 302 to the final location, otherwise the committed location is put in
// the request context for the page handler. Unknown paths pass through.
func Middleware(routerFor RouterFor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rt, err := routerFor(w, r)
			if err != nil {
				log.Printf("router: session for %s: %v", r.URL.Path, err)
				writeError(w, http.StatusInternalServerError, "session unavailable")
				return
			}

			target := r.URL.RequestURI()
			if _, err := rt.Table().Resolve(target); errors.Is(err, ErrRouteNotFound) {
				next.ServeHTTP(w, r)
				return
			}

			loc, err := rt.Navigate(r.Context(), target)
			switch {
			case errors.Is(err, ErrRedirectLoop):
				log.Printf("router: %s: %v", target, err)
				writeError(w, http.StatusLoopDetected, err.Error())
				return
			case errors.Is(err, context.Canceled):
				return
			case err != nil:
				log.Printf("router: %s: %v", target, err)
				writeError(w, http.StatusInternalServerError, "navigation failed")
				return
			}

			if loc.FullPath != canonical(r) {
				http.Redirect(w, r, loc.FullPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLocation(r.Context(), loc)))
		})
	}
}

// canonical is the request URI in the form Location.FullPath uses.
func canonical(r *http.Request) string {
	p := r.URL.Path
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if q := r.URL.Query(); len(q) > 0 {
		return p + "?" + q.Encode()
	}
	return p
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

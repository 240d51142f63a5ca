package session

import (
	"context"
	"net/http"

	"github.com/goodsone/console/pkg/sdk"
)

// Source resolves the session store of an HTTP request.
type Source interface {
	Store(w http.ResponseWriter, r *http.Request) (sdk.SessionStore, error)
}

// BackendSource keeps entries in a Backend, keyed by the id carried in a
// signed cookie.
type BackendSource struct {
	Backend Backend
	Cookies *Cookies
}

func (s BackendSource) Store(w http.ResponseWriter, r *http.Request) (sdk.SessionStore, error) {
	sid, err := s.Cookies.ID(w, r)
	if err != nil {
		return nil, err
	}
	return Scope(s.Backend, sid), nil
}

// CookieSource keeps the entries themselves in signed cookies.
type CookieSource struct {
	Cookies *Cookies
}

func (s CookieSource) Store(w http.ResponseWriter, r *http.Request) (sdk.SessionStore, error) {
	return s.Cookies.Bind(w, r), nil
}

type storeKey struct{}

// Middleware resolves the store once per request and makes it available
// through FromContext, so every handler of a request sees the same session
// id even when the id cookie is issued by this request.
func Middleware(src Source) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, err := src.Store(w, r)
			if err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), storeKey{}, store)))
		})
	}
}

// FromContext returns the store installed by Middleware.
func FromContext(ctx context.Context) (sdk.SessionStore, bool) {
	store, ok := ctx.Value(storeKey{}).(sdk.SessionStore)
	return store, ok
}

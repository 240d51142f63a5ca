// Package server assembles the consoleapi HTTP surface: session endpoints,
// navigation menus, validators, the backend proxy and the guarded page
// routes.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/internal/session"
	"github.com/goodsone/console/internal/telemetry"
	"github.com/goodsone/console/pkg/sdk"
)

// RouterOptions controls the construction of the console HTTP router.
// The zero value is valid: in-memory sessions, the built-in route table and
// menus, and the default backend.
type RouterOptions struct {
	Sessions  session.Source
	Table     *router.Table
	Menus     *navigation.Menus
	Abilities *ability.Cache

	// Backend API base URL and the login path a 401 redirects to
	APIBaseURL string
	LoginPath  string
	// HTTPClient sends backend requests; its transport is wrapped with the
	// bearer token injection.
	HTTPClient *http.Client

	PrivilegedRoles []string
	MaxRedirects    int

	Progress       *telemetry.NavigationProgress
	HTTPMetrics    *telemetry.ServerMetrics
	BackendMetrics *telemetry.BackendMetrics

	CORSOptions *cors.Options
	Middleware  []func(http.Handler) http.Handler
}

// DefaultCORSOptions returns the development CORS policy for the console
// frontend.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with the shared middleware, CORS policy
// and the console handlers mounted.
func NewRouter(opts RouterOptions) (chi.Router, error) {
	h, err := newHandlers(opts)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	if opts.HTTPMetrics != nil {
		r.Use(opts.HTTPMetrics.Middleware)
	}
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/health", defaultHealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(h.opts.Sessions))

		r.Route("/api", func(r chi.Router) {
			r.Get("/navigation", h.navigation)
			r.Get("/session", h.getSession)
			r.Post("/session", h.postSession)
			r.Delete("/session", h.deleteSession)
			r.Post("/validate", h.validate)
			r.Get("/validators", h.validatorNames)
		})

		r.HandleFunc("/backend/*", h.backend)

		r.With(router.Middleware(h.routerFor)).Get("/*", h.page)
	})

	return r, nil
}

// handlers holds the resolved dependencies shared by every request.
type handlers struct {
	opts       RouterOptions
	table      *router.Table
	menus      *navigation.Menus
	abilities  *ability.Cache
	routerOpts router.Options
}

func newHandlers(opts RouterOptions) (*handlers, error) {
	h := &handlers{opts: opts, table: opts.Table, menus: opts.Menus, abilities: opts.Abilities}
	if h.table == nil {
		h.table = router.DefaultTable()
	}
	if h.menus == nil {
		h.menus = navigation.Default()
	}
	if h.abilities == nil {
		cache, err := ability.NewCache(256)
		if err != nil {
			return nil, err
		}
		h.abilities = cache
	}
	if h.opts.APIBaseURL == "" {
		h.opts.APIBaseURL = sdk.DefaultBaseURL
	}
	if h.opts.LoginPath == "" {
		h.opts.LoginPath = sdk.DefaultLoginPath
	}
	if h.opts.Sessions == nil {
		h.opts.Sessions = session.BackendSource{
			Backend: session.NewMemory(session.MemoryConfig{}),
			Cookies: session.NewCookies(session.CookieConfig{}),
		}
		log.Println("WARNING: no session source configured, using in-memory sessions")
	}

	for _, p := range navigation.Check(h.menus.Vertical, h.table.Has) {
		log.Printf("navigation: vertical menu: %s", p)
	}
	for _, p := range navigation.Check(h.menus.Horizontal, h.table.Has) {
		log.Printf("navigation: horizontal menu: %s", p)
	}

	h.routerOpts = router.Options{
		Guard:           router.NewGuard(h.abilities.ForSession),
		PrivilegedRoles: opts.PrivilegedRoles,
		MaxRedirects:    opts.MaxRedirects,
	}
	if opts.Progress != nil {
		h.routerOpts.Progress = opts.Progress
		h.routerOpts.OnRedirect = opts.Progress.OnRedirect
	}
	return h, nil
}

type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

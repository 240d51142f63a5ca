package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/session"
	"github.com/goodsone/console/pkg/sdk"
)

func newStore(t *testing.T, s *sdk.Session) sdk.SessionStore {
	t.Helper()
	store := session.Scope(session.NewMemory(session.MemoryConfig{}), session.NewID())
	if s != nil {
		require.NoError(t, sdk.SaveSession(context.Background(), store, s))
	}
	return store
}

func loggedIn(roles []any, rules ...sdk.AbilityRule) *sdk.Session {
	return &sdk.Session{
		Role:        "admin",
		UserData:    &sdk.UserData{ID: 1, FullName: "Ayu Lestari", Roles: roles},
		AccessToken: "token-1",
		Abilities:   rules,
	}
}

func rule(action, subject string) sdk.AbilityRule {
	return sdk.AbilityRule{Action: action, Subject: subject}
}

var manageAll = rule("manage", "all")

func TestTableResolve(t *testing.T) {
	table := DefaultTable()

	loc, err := table.Resolve("/vendors/view/3?tab=2")
	require.NoError(t, err)
	assert.Equal(t, "vendors-view-id", loc.Name)
	assert.Equal(t, "/vendors/view/3", loc.Path)
	assert.Equal(t, "/vendors/view/3?tab=2", loc.FullPath)
	assert.Equal(t, map[string]string{"id": "3"}, loc.Params)
	assert.Equal(t, "2", loc.Query.Get("tab"))

	loc, err = table.Resolve("/settings/sales/")
	require.NoError(t, err)
	assert.Equal(t, "settings-sales", loc.Name)
	assert.Equal(t, []ability.Capability{
		{Action: "read", Subject: "Settings"},
		{Action: "read", Subject: "Sales Settings"},
	}, loc.Matched)

	loc, err = table.Resolve("/")
	require.NoError(t, err)
	assert.True(t, loc.IsRoot())
	assert.Equal(t, RouteIndex, loc.Name)

	_, err = table.Resolve("/nowhere")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestTableResolveName(t *testing.T) {
	table := DefaultTable()

	loc, err := table.ResolveName("users-view-id", map[string]string{"id": "42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/users/view/42", loc.FullPath)

	_, err = table.ResolveName("users-view-id", nil, nil)
	assert.ErrorContains(t, err, "missing param id")

	_, err = table.ResolveName("dashboards-wedding", nil, nil)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	pattern, ok := table.Pattern("settings-vehicle")
	assert.True(t, ok)
	assert.Equal(t, "/settings/vehicle", pattern)
	_, ok = table.Pattern("dashboards-wedding")
	assert.False(t, ok)
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Route{
		{Name: "a", Path: "/a"},
		{Name: "a", Path: "/b"},
	})
	assert.ErrorContains(t, err, "duplicate route name")

	_, err = NewTable([]Route{
		{Name: "a", Path: "/a"},
		{Name: "b", Path: "/a"},
	})
	assert.ErrorContains(t, err, "duplicate route path")
}

func TestMenusLinkKnownRoutes(t *testing.T) {
	table := DefaultTable()
	menus := navigation.Default()

	assert.Empty(t, navigation.Check(menus.Vertical, table.Has))

	problems := navigation.Check(menus.Horizontal, table.Has)
	require.Len(t, problems, 2)
	assert.Equal(t, "dashboards-reviewsssssss", problems[0].To)
	assert.Equal(t, "dashboards-wedding", problems[1].To)
}

func TestTableViewable(t *testing.T) {
	table := DefaultTable()

	vendors, err := ability.New([]sdk.AbilityRule{rule("read", "Vendors")})
	require.NoError(t, err)
	canView := table.Viewable(vendors)
	assert.True(t, canView("vendors-list"))
	assert.False(t, canView("users-list"))
	assert.False(t, canView("dashboards-wedding"))

	admin, err := ability.New([]sdk.AbilityRule{manageAll})
	require.NoError(t, err)
	assert.True(t, table.Viewable(admin)("dashboards-wedding"))
}

func TestGuardEvaluate(t *testing.T) {
	table := DefaultTable()
	guard := NewGuard(nil)

	resolve := func(p string) *Location {
		loc, err := table.Resolve(p)
		require.NoError(t, err)
		return loc
	}

	tests := []struct {
		name    string
		to      string
		session *sdk.Session
		want    *Target
	}{
		{
			name:    "allowed route proceeds",
			to:      "/vendors/list",
			session: loggedIn(nil, rule("read", "Vendors")),
		},
		{
			name:    "guest page while logged in goes home",
			to:      "/auth/login",
			session: loggedIn(nil, manageAll),
			want:    &Target{Path: "/"},
		},
		{
			name:    "guest page while logged out proceeds",
			to:      "/auth/login",
			session: &sdk.Session{},
		},
		{
			name:    "logged in without permission",
			to:      "/users/list",
			session: loggedIn(nil, rule("read", "Vendors")),
			want:    &Target{Name: RouteNotAuthorized},
		},
		{
			name:    "logged out is sent to login with the intended path",
			to:      "/users/view/7?tab=roles",
			session: &sdk.Session{},
			want: &Target{Name: RouteLogin, Query: map[string][]string{
				"to": {"/users/view/7?tab=roles"},
			}},
		},
		{
			name:    "logged out from index carries no path",
			to:      "/",
			session: nil,
			want:    &Target{Name: RouteLogin, Query: map[string][]string{}},
		},
		{
			name:    "child route allowed by its parent",
			to:      "/settings/vehicle",
			session: loggedIn(nil, rule("read", "Settings")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Evaluate(resolve(tt.to), tt.session)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootRedirect(t *testing.T) {
	loc, err := DefaultTable().Resolve("/?utm=mail")
	require.NoError(t, err)

	admin := loggedIn([]any{map[string]any{"name": "Super Admin"}}, manageAll)
	got := RootRedirect(loc, admin, []string{DefaultPrivilegedRole})
	assert.Equal(t, Target{Name: RouteDashboardsApproval}, got)

	got = RootRedirect(loc, loggedIn([]any{"Sales"}), []string{DefaultPrivilegedRole})
	assert.Equal(t, RouteAuthLogin, got.Name)
	assert.Equal(t, "mail", got.Query.Get("utm"))

	got = RootRedirect(loc, nil, []string{DefaultPrivilegedRole})
	assert.Equal(t, RouteAuthLogin, got.Name)
}

type recorder struct {
	started []string
	results []Result
}

func (p *recorder) Start(ctx context.Context, target string) (context.Context, func(Result)) {
	p.started = append(p.started, target)
	return ctx, func(r Result) { p.results = append(p.results, r) }
}

func TestNavigate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		session   *sdk.Session
		target    string
		wantPath  string
		redirects int
	}{
		{
			name:     "allowed",
			session:  loggedIn(nil, rule("read", "Vendors")),
			target:   "/vendors/list",
			wantPath: "/vendors/list",
		},
		{
			name:      "logged out to protected page",
			target:    "/vendors/view/9",
			wantPath:  "/login?to=%2Fvendors%2Fview%2F9",
			redirects: 1,
		},
		{
			name:      "logged out at root",
			target:    "/?ref=mail",
			wantPath:  "/auth/login?ref=mail",
			redirects: 1,
		},
		{
			name:      "super admin at root",
			session:   loggedIn([]any{"Super Admin"}, manageAll),
			target:    "/",
			wantPath:  "/dashboards/waiting-approval",
			redirects: 1,
		},
		{
			name:      "super admin at login goes through root",
			session:   loggedIn([]any{"Super Admin"}, manageAll),
			target:    "/auth/login",
			wantPath:  "/dashboards/waiting-approval",
			redirects: 2,
		},
		{
			name:      "missing permission",
			session:   loggedIn(nil, rule("read", "Vendors"), rule("read", "Auth")),
			target:    "/users/list",
			wantPath:  "/not-authorized",
			redirects: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := &recorder{}
			var hops []Target
			r := New(DefaultTable(), newStore(t, tt.session), Options{
				Progress:   progress,
				OnRedirect: func(_ context.Context, _ *Location, to Target) { hops = append(hops, to) },
			})

			loc, err := r.Navigate(ctx, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, loc.FullPath)
			assert.Same(t, loc, r.Current())
			assert.Len(t, hops, tt.redirects)

			require.Len(t, progress.results, 1)
			res := progress.results[0]
			assert.Equal(t, tt.target, res.Target)
			assert.Equal(t, tt.redirects, res.Redirects)
			if tt.redirects > 0 {
				assert.Equal(t, OutcomeRedirected, res.Outcome())
			} else {
				assert.Equal(t, OutcomeCommitted, res.Outcome())
			}
		})
	}
}

func TestNavigateRedirectLoop(t *testing.T) {
	progress := &recorder{}
	// Logged in without read Auth: not-authorized keeps redirecting to itself.
	store := newStore(t, loggedIn(nil, rule("read", "Vendors")))
	r := New(DefaultTable(), store, Options{Progress: progress, MaxRedirects: 3})

	_, err := r.Navigate(context.Background(), "/users/list")
	assert.ErrorIs(t, err, ErrRedirectLoop)
	assert.Nil(t, r.Current())

	require.Len(t, progress.results, 1)
	assert.Equal(t, OutcomeFailed, progress.results[0].Outcome())
	assert.Equal(t, 3, progress.results[0].Redirects)
}

func TestNavigateRootLoopForUnprivilegedUser(t *testing.T) {
	store := newStore(t, loggedIn([]any{"Sales"}, manageAll))
	r := New(DefaultTable(), store, Options{})

	_, err := r.Navigate(context.Background(), "/")
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestNavigateNotFoundAndCancel(t *testing.T) {
	progress := &recorder{}
	r := New(DefaultTable(), newStore(t, nil), Options{Progress: progress})

	_, err := r.Navigate(context.Background(), "/missing")
	assert.ErrorIs(t, err, ErrRouteNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Navigate(ctx, "/vendors/list")
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, progress.results, 2)
	assert.Equal(t, OutcomeFailed, progress.results[0].Outcome())
	assert.Equal(t, OutcomeCancelled, progress.results[1].Outcome())
}

func TestNavigateReadsSessionEachTime(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil)
	r := New(DefaultTable(), store, Options{})

	loc, err := r.Navigate(ctx, "/vendors/list")
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, loc.Name)

	require.NoError(t, sdk.SaveSession(ctx, store, loggedIn(nil, rule("read", "Vendors"))))
	loc, err = r.Navigate(ctx, "/vendors/list")
	require.NoError(t, err)
	assert.Equal(t, "vendors-list", loc.Name)

	require.NoError(t, sdk.ClearSession(ctx, store))
	require.NoError(t, r.Push(ctx, "/vendors/list"))
	assert.Equal(t, RouteLogin, r.Current().Name)
}

func TestChainFinishesInReverse(t *testing.T) {
	var order []string
	mk := func(name string) Progress {
		return progressFunc(func(ctx context.Context, _ string) (context.Context, func(Result)) {
			order = append(order, "start "+name)
			return ctx, func(Result) { order = append(order, "done "+name) }
		})
	}

	_, done := Chain(mk("a"), mk("b")).Start(context.Background(), "/")
	done(Result{})
	assert.Equal(t, []string{"start a", "start b", "done b", "done a"}, order)
}

type progressFunc func(context.Context, string) (context.Context, func(Result))

func (f progressFunc) Start(ctx context.Context, target string) (context.Context, func(Result)) {
	return f(ctx, target)
}

func TestMiddleware(t *testing.T) {
	backend := session.NewMemory(session.MemoryConfig{})
	ctx := context.Background()
	require.NoError(t, sdk.SaveSession(ctx, session.Scope(backend, "vendor-reader"),
		loggedIn(nil, rule("read", "Vendors"))))

	table := DefaultTable()
	routerFor := func(_ http.ResponseWriter, r *http.Request) (*Router, error) {
		sid := r.Header.Get("X-Session")
		if sid == "" {
			sid = "anonymous"
		}
		return New(table, session.Scope(backend, sid), Options{}), nil
	}

	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc, ok := LocationFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(loc.Name))
	})
	h := Middleware(routerFor)(page)

	serve := func(method, target, sid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		if sid != "" {
			req.Header.Set("X-Session", sid)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodGet, "/vendors/list", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?to=%2Fvendors%2Flist", rec.Header().Get("Location"))

	rec = serve(http.MethodGet, "/vendors/list", "vendor-reader")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vendors-list", rec.Body.String())

	rec = serve(http.MethodGet, "/login?to=%2Fvendors%2Flist", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, RouteLogin, rec.Body.String())

	rec = serve(http.MethodGet, "/assets/app.js", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(http.MethodPost, "/vendors/list", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(http.MethodGet, "/users/list", "vendor-reader")
	assert.Equal(t, http.StatusLoopDetected, rec.Code)
}

package config

import (
	"context"
	"fmt"

	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/internal/session"
	"github.com/goodsone/console/pkg/sdk"
)

type contextKey string

const configKey contextKey = "consolectl-config"

// GlobalConfig holds shared configuration for all consolectl commands.
// This is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	APIBaseURL      string
	LoginPath       string
	SessionDir      string
	PrivilegedRoles []string
	MaxRedirects    int
	NonInteractive  bool
}

// SessionStore opens the session file under SessionDir.
func (c *GlobalConfig) SessionStore() (*session.FileStore, error) {
	store, err := session.NewFileStore(c.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return store, nil
}

// Router returns a router over the console route table for store.
func (c *GlobalConfig) Router(store sdk.SessionStore, opts router.Options) *router.Router {
	if opts.PrivilegedRoles == nil {
		opts.PrivilegedRoles = c.PrivilegedRoles
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = c.MaxRedirects
	}
	return router.New(router.DefaultTable(), store, opts)
}

// Client returns a backend client authenticated by store. A 401 clears the
// session and navigates nav to the login page.
func (c *GlobalConfig) Client(store sdk.SessionStore, nav sdk.Navigator) (*sdk.Client, error) {
	opts := []sdk.ClientOption{sdk.WithLoginPath(c.LoginPath)}
	if nav != nil {
		opts = append(opts, sdk.WithNavigator(nav))
	}
	return sdk.NewClient(c.APIBaseURL, store, opts...)
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics. Only for RunE
// functions, which run after the root command injected it.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("consolectl: config not found in context - this is a bug in consolectl")
	}
	return cfg
}

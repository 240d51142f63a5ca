package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/goodsone/console/internal/config"
	"github.com/goodsone/console/internal/db/bunx"
	"github.com/goodsone/console/internal/session"
)

// openSessions builds the session source selected by cfg.Driver. The
// returned backend is nil for the cookie driver.
func openSessions(ctx context.Context, cfg config.SessionConfig) (session.Source, session.Backend, error) {
	if cfg.HashKey == "" {
		log.Println("WARNING: session.hash_key not set, sessions will not survive a restart")
	}
	cookieCfg := session.CookieConfig{
		IDCookie: cfg.CookieName,
		HashKey:  []byte(cfg.HashKey),
		MaxAge:   cfg.TTL,
		Secure:   cfg.Secure,
	}
	if cfg.BlockKey != "" {
		cookieCfg.BlockKey = []byte(cfg.BlockKey)
	}
	cookies := session.NewCookies(cookieCfg)

	if cfg.Driver == "cookie" {
		return session.CookieSource{Cookies: cookies}, nil, nil
	}

	backend, err := session.Open(ctx, session.Options{
		Driver:        cfg.Driver,
		DSN:           cfg.DSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		TTL:           cfg.TTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s session backend: %w", cfg.Driver, err)
	}
	return session.BackendSource{Backend: backend, Cookies: cookies}, backend, nil
}

// pruneIdle deletes idle SQL sessions every interval until ctx ends. Memory
// and redis expire sessions on their own.
func pruneIdle(ctx context.Context, store *session.Bun, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.DeleteIdle(ctx, now.Add(-ttl))
			if err != nil {
				log.Printf("ERROR: session prune failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Pruned %d idle session entries", n)
			}
		}
	}
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session store maintenance",
	Long:  `Commands for the SQL session store: creating its table and pruning idle sessions.`,
}

var sessionsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending session store migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sqlDB(cmd.Context())
		if err != nil {
			return err
		}
		defer bunx.Close(db)

		group, err := session.NewBun(db).Migrate(cmd.Context())
		if err != nil {
			return err
		}
		if group.ID == 0 {
			log.Printf("No new migrations to apply")
		} else {
			log.Printf("Applied migration group %d", group.ID)
		}
		return nil
	},
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions idle for longer than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			olderThan = cfg.Session.TTL
		}
		if olderThan <= 0 {
			return fmt.Errorf("--older-than is required when session.ttl is 0")
		}

		db, err := sqlDB(cmd.Context())
		if err != nil {
			return err
		}
		defer bunx.Close(db)

		n, err := session.NewBun(db).DeleteIdle(cmd.Context(), time.Now().Add(-olderThan))
		if err != nil {
			return err
		}
		log.Printf("Deleted %d session entries idle for more than %s", n, olderThan)
		return nil
	},
}

func sqlDB(ctx context.Context) (*bun.DB, error) {
	if cfg.Session.Driver != "sql" {
		return nil, fmt.Errorf("session.driver is %q, these commands need the sql driver", cfg.Session.Driver)
	}
	db, err := bunx.Open(ctx, cfg.Session.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func init() {
	sessionsPruneCmd.Flags().Duration("older-than", 0, "Idle time after which a session is deleted (default session.ttl)")
	sessionsCmd.AddCommand(sessionsMigrateCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
}

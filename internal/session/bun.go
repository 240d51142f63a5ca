package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/goodsone/console/internal/db/bunx"
	"github.com/goodsone/console/pkg/sdk"
)

// entry is one stored key of one session.
type entry struct {
	bun.BaseModel `bun:"table:console_session_entries,alias:e"`

	SessionID string    `bun:"session_id,pk"`
	Key       string    `bun:"entry_key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Bun is a Backend on a SQL database (Postgres or SQLite) through bun.
type Bun struct {
	db    *bun.DB
	owned bool
	now   func() time.Time
}

var _ Backend = (*Bun)(nil)

// OpenBun connects to dsn and prepares the entries table.
func OpenBun(ctx context.Context, dsn string) (*Bun, error) {
	db, err := bunx.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	store := &Bun{db: db, owned: true, now: time.Now}
	if _, err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewBun wraps an existing database. The caller keeps ownership of db.
func NewBun(db *bun.DB) *Bun {
	return &Bun{db: db, now: time.Now}
}

// Migrate applies the pending schema migrations under the migration lock.
// The returned group has ID 0 when nothing was applied.
func (b *Bun) Migrate(ctx context.Context) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(b.db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}

	// Acquire lock to prevent concurrent migrations
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Printf("Warning: failed to release migration lock: %v", err)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return group, nil
}

func (b *Bun) Get(ctx context.Context, sid, key string) (string, error) {
	e := new(entry)
	err := b.db.NewSelect().
		Model(e).
		Where("session_id = ?", sid).
		Where("entry_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sdk.ErrKeyNotFound
		}
		return "", fmt.Errorf("get session entry: %w", err)
	}
	return e.Value, nil
}

func (b *Bun) Set(ctx context.Context, sid, key, value string) error {
	e := &entry{SessionID: sid, Key: key, Value: value, UpdatedAt: b.now()}
	_, err := b.db.NewInsert().
		Model(e).
		On("CONFLICT (session_id, entry_key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set session entry: %w", err)
	}
	return nil
}

func (b *Bun) Remove(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := b.db.NewDelete().
		Model((*entry)(nil)).
		Where("session_id = ?", sid).
		Where("entry_key IN (?)", bun.In(keys)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove session entries: %w", err)
	}
	return nil
}

// DeleteIdle removes sessions whose newest entry is older than cutoff and
// returns the number of entries deleted.
func (b *Bun) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	stale := b.db.NewSelect().
		Model((*entry)(nil)).
		Column("session_id").
		Group("session_id").
		Having("MAX(updated_at) < ?", cutoff)

	res, err := b.db.NewDelete().
		Model((*entry)(nil)).
		Where("session_id IN (?)", stale).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (b *Bun) Close() error {
	if !b.owned || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Package session holds the storage backends behind sdk.SessionStore.
//
// The CLI keeps a single session in a JSON file (FileStore). The gateway
// serves many browsers, so its backends (memory, SQL, redis) are keyed by a
// session id carried in a signed cookie; Scope binds a backend to one id.
// CookieStore keeps the entries in the browser itself, one signed cookie per
// key.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goodsone/console/pkg/sdk"
)

// Backend stores session entries for many sessions at once.
type Backend interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Remove(ctx context.Context, sid string, keys ...string) error
	Close() error
}

// ErrEmptySessionID is returned by Scope users when no id was assigned.
var ErrEmptySessionID = errors.New("empty session id")

// Scope returns the sdk.SessionStore view of one session in backend.
func Scope(backend Backend, sid string) sdk.SessionStore {
	return &scoped{backend: backend, sid: sid}
}

type scoped struct {
	backend Backend
	sid     string
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	if s.sid == "" {
		return "", sdk.ErrKeyNotFound
	}
	return s.backend.Get(ctx, s.sid, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	if s.sid == "" {
		return ErrEmptySessionID
	}
	return s.backend.Set(ctx, s.sid, key, value)
}

func (s *scoped) Remove(ctx context.Context, keys ...string) error {
	if s.sid == "" {
		return nil
	}
	return s.backend.Remove(ctx, s.sid, keys...)
}

// NewID returns a fresh, time-ordered session id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Options selects and configures a gateway backend.
type Options struct {
	// Driver is one of "memory", "sql", "redis".
	Driver string
	// DSN is the database DSN for the sql driver.
	DSN string
	// RedisAddr, RedisPassword and RedisDB configure the redis driver.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// TTL bounds session idle time for memory and redis. Zero keeps
	// sessions until removed.
	TTL time.Duration
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(MemoryConfig{TTL: opts.TTL}), nil
	case "sql":
		return OpenBun(ctx, opts.DSN)
	case "redis":
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown session driver %q", opts.Driver)
	}
}

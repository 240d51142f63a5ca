package session

import (
	"context"
	"sync"
	"time"

	"github.com/goodsone/console/pkg/sdk"
)

// MemoryConfig configures the in-process backend.
type MemoryConfig struct {
	TTL time.Duration
	Now func() time.Time
}

// Memory is a process-local Backend. Entries are lost on restart.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]*memorySession
}

type memorySession struct {
	values    map[string]string
	touchedAt time.Time
}

var _ Backend = (*Memory)(nil)

func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Memory{
		ttl:  cfg.TTL,
		now:  cfg.Now,
		data: make(map[string]*memorySession),
	}
}

func (m *Memory) Get(_ context.Context, sid, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.live(sid)
	if sess == nil {
		return "", sdk.ErrKeyNotFound
	}
	v, ok := sess.values[key]
	if !ok {
		return "", sdk.ErrKeyNotFound
	}
	sess.touchedAt = m.now()
	return v, nil
}

func (m *Memory) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.live(sid)
	if sess == nil {
		m.gc()
		sess = &memorySession{values: make(map[string]string)}
		m.data[sid] = sess
	}
	sess.values[key] = value
	sess.touchedAt = m.now()
	return nil
}

func (m *Memory) Remove(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.data[sid]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess.values, k)
	}
	if len(sess.values) == 0 {
		delete(m.data, sid)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gc()
	return len(m.data)
}

// live returns the session for sid, dropping it when idle past the TTL.
// Callers hold m.mu.
func (m *Memory) live(sid string) *memorySession {
	sess, ok := m.data[sid]
	if !ok {
		return nil
	}
	if m.expired(sess) {
		delete(m.data, sid)
		return nil
	}
	return sess
}

func (m *Memory) expired(sess *memorySession) bool {
	return m.ttl > 0 && m.now().Sub(sess.touchedAt) > m.ttl
}

func (m *Memory) gc() {
	if m.ttl <= 0 {
		return
	}
	for sid, sess := range m.data {
		if m.expired(sess) {
			delete(m.data, sid)
		}
	}
}

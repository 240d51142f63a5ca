package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/goodsone/console/pkg/sdk"
)

// DefaultIDCookie names the cookie carrying the server-side session id.
const DefaultIDCookie = "console_sid"

// CookieConfig configures signed cookies. HashKey is required; BlockKey
// additionally encrypts the value.
type CookieConfig struct {
	// IDCookie names the session id cookie, DefaultIDCookie when empty.
	IDCookie string
	HashKey  []byte
	BlockKey []byte
	MaxAge   time.Duration
	Secure   bool
	Path     string
}

// Cookies signs and verifies session cookies.
type Cookies struct {
	idName string
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
	path   string
}

// NewCookies builds a codec. A missing hash key is replaced by a random one,
// which invalidates cookies on restart.
func NewCookies(cfg CookieConfig) *Cookies {
	if len(cfg.HashKey) == 0 {
		cfg.HashKey = securecookie.GenerateRandomKey(32)
	}
	if len(cfg.BlockKey) == 0 {
		// securecookie treats only a nil block key as "no encryption"
		cfg.BlockKey = nil
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.IDCookie == "" {
		cfg.IDCookie = DefaultIDCookie
	}
	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	if cfg.MaxAge > 0 {
		codec.MaxAge(int(cfg.MaxAge.Seconds()))
	}
	return &Cookies{idName: cfg.IDCookie, codec: codec, maxAge: cfg.MaxAge, secure: cfg.Secure, path: cfg.Path}
}

// ID returns the verified session id of r, issuing a new id cookie on w when
// r has none or its signature does not verify.
func (c *Cookies) ID(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(c.idName); err == nil {
		var sid string
		if err := c.codec.Decode(c.idName, cookie.Value, &sid); err == nil && sid != "" {
			return sid, nil
		}
	}

	sid := NewID()
	if err := c.write(w, c.idName, sid); err != nil {
		return "", err
	}
	return sid, nil
}

// Bind returns a store whose entries live in signed cookies of the request
// and response. Writes are visible to later reads through the same store.
func (c *Cookies) Bind(w http.ResponseWriter, r *http.Request) sdk.SessionStore {
	return &cookieStore{cookies: c, w: w, r: r, pending: map[string]*string{}}
}

func (c *Cookies) write(w http.ResponseWriter, name, value string) error {
	encoded, err := c.codec.Encode(name, value)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     c.path,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.maxAge > 0 {
		cookie.MaxAge = int(c.maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

func (c *Cookies) expire(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
	})
}

type cookieStore struct {
	cookies *Cookies
	w       http.ResponseWriter
	r       *http.Request

	mu sync.Mutex
	// pending overrides request cookies; nil marks a removed key
	pending map[string]*string
}

func (s *cookieStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", sdk.ErrKeyNotFound
		}
		return *v, nil
	}

	cookie, err := s.r.Cookie(key)
	if err != nil {
		return "", sdk.ErrKeyNotFound
	}
	var value string
	if err := s.cookies.codec.Decode(key, cookie.Value, &value); err != nil {
		// tampered or expired cookies count as absent
		return "", sdk.ErrKeyNotFound
	}
	return value, nil
}

func (s *cookieStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cookies.write(s.w, key, value); err != nil {
		return err
	}
	s.pending[key] = &value
	return nil
}

func (s *cookieStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.cookies.expire(s.w, key)
		s.pending[key] = nil
	}
	return nil
}

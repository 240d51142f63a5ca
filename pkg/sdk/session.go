package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Session storage keys. Every store persists the session as these four
// string entries.
const (
	KeyRole          = "role"
	KeyUserData      = "userData"
	KeyAccessToken   = "accessToken"
	KeyUserAbilities = "userAbilities"
)

// SessionKeys lists every key a session occupies.
var SessionKeys = []string{KeyRole, KeyUserData, KeyAccessToken, KeyUserAbilities}

// authKeys are removed when the backend rejects the token. The role entry
// survives a 401.
var authKeys = []string{KeyUserData, KeyAccessToken, KeyUserAbilities}

// ErrKeyNotFound is returned by SessionStore.Get for absent keys.
var ErrKeyNotFound = errors.New("session key not found")

// SessionStore is a string key/value store holding the session entries.
// Implementations must be safe for concurrent use; writes are
// last-write-wins per key.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// AbilityRule grants an action on a subject. "manage" and "all" are the
// action and subject wildcards.
type AbilityRule struct {
	Action  string `json:"action"`
	Subject string `json:"subject"`
}

// UserData is the profile returned by the login endpoint. Roles stays
// loosely typed because the backend sends either names or role objects; use
// RoleNames to read it.
type UserData struct {
	ID       any    `json:"id,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Roles    any    `json:"roles,omitempty"`

	// Raw keeps every field of the stored document, including the ones
	// without a struct field.
	Raw map[string]any `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the full document in Raw.
func (u *UserData) UnmarshalJSON(data []byte) error {
	type plain UserData
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UserData(p)
	u.Raw = raw
	return nil
}

// MarshalJSON writes Raw overlaid with the typed fields.
func (u UserData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Raw)+5)
	for k, v := range u.Raw {
		out[k] = v
	}
	set := func(key string, value any, present bool) {
		if present {
			out[key] = value
		}
	}
	set("id", u.ID, u.ID != nil)
	set("fullName", u.FullName, u.FullName != "")
	set("username", u.Username, u.Username != "")
	set("email", u.Email, u.Email != "")
	set("roles", u.Roles, u.Roles != nil)
	return json.Marshal(out)
}

// Session is the decoded snapshot of the four stored entries.
type Session struct {
	Role        string        `json:"role,omitempty"`
	UserData    *UserData     `json:"userData,omitempty"`
	AccessToken string        `json:"accessToken,omitempty"`
	Abilities   []AbilityRule `json:"userAbilities,omitempty"`
}

// IsLoggedIn reports whether both the profile and the token are present.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.UserData != nil && s.AccessToken != ""
}

// RoleNames returns the names of the roles attached to the profile.
func (s *Session) RoleNames() []string {
	if s == nil || s.UserData == nil {
		return nil
	}
	return RoleNames(s.UserData.Roles)
}

// LoadSession reads the session snapshot from store. Missing keys leave the
// matching field empty; malformed userData or userAbilities JSON is treated
// as absent.
func LoadSession(ctx context.Context, store SessionStore) (*Session, error) {
	var s Session

	role, err := getOptional(ctx, store, KeyRole)
	if err != nil {
		return nil, err
	}
	s.Role = role

	token, err := getOptional(ctx, store, KeyAccessToken)
	if err != nil {
		return nil, err
	}
	s.AccessToken = token

	rawUser, err := getOptional(ctx, store, KeyUserData)
	if err != nil {
		return nil, err
	}
	if rawUser != "" {
		var u UserData
		if json.Unmarshal([]byte(rawUser), &u) == nil && u.Raw != nil {
			s.UserData = &u
		}
	}

	rawAbilities, err := getOptional(ctx, store, KeyUserAbilities)
	if err != nil {
		return nil, err
	}
	if rawAbilities != "" {
		var rules []AbilityRule
		if json.Unmarshal([]byte(rawAbilities), &rules) == nil {
			s.Abilities = rules
		}
	}

	return &s, nil
}

// SaveSession writes every non-empty field of s into store.
func SaveSession(ctx context.Context, store SessionStore, s *Session) error {
	if s == nil {
		return errors.New("session is nil")
	}

	if s.Role != "" {
		if err := store.Set(ctx, KeyRole, s.Role); err != nil {
			return fmt.Errorf("store role: %w", err)
		}
	}
	if s.UserData != nil {
		data, err := json.Marshal(s.UserData)
		if err != nil {
			return fmt.Errorf("encode user data: %w", err)
		}
		if err := store.Set(ctx, KeyUserData, string(data)); err != nil {
			return fmt.Errorf("store user data: %w", err)
		}
	}
	if s.AccessToken != "" {
		if err := store.Set(ctx, KeyAccessToken, s.AccessToken); err != nil {
			return fmt.Errorf("store access token: %w", err)
		}
	}
	if s.Abilities != nil {
		data, err := json.Marshal(s.Abilities)
		if err != nil {
			return fmt.Errorf("encode abilities: %w", err)
		}
		if err := store.Set(ctx, KeyUserAbilities, string(data)); err != nil {
			return fmt.Errorf("store abilities: %w", err)
		}
	}
	return nil
}

// ClearSession removes the profile, token and abilities. This is what a 401
// from the backend triggers.
func ClearSession(ctx context.Context, store SessionStore) error {
	return store.Remove(ctx, authKeys...)
}

// DestroySession removes every session key, role included.
func DestroySession(ctx context.Context, store SessionStore) error {
	return store.Remove(ctx, SessionKeys...)
}

// IsLoggedIn checks the store directly without decoding the profile.
func IsLoggedIn(ctx context.Context, store SessionStore) (bool, error) {
	user, err := getOptional(ctx, store, KeyUserData)
	if err != nil {
		return false, err
	}
	token, err := getOptional(ctx, store, KeyAccessToken)
	if err != nil {
		return false, err
	}
	return user != "" && token != "", nil
}

func getOptional(ctx context.Context, store SessionStore, key string) (string, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

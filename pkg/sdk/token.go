package sdk

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the claims read from a JWT access token. The signature
// is not checked; the backend remains the authority on validity.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// InspectToken reads the claims of a JWT without verifying it. Opaque
// tokens yield nil.
func InspectToken(token string, now time.Time) *TokenInfo {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil
	}

	info := &TokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
		info.Expired = !now.Before(t)
	}
	return info
}

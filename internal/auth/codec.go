package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by both session tokens. Access and refresh
// tokens share this shape and the signing key; only their lifetimes differ.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       string `json:"id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with an injected secret. It is the
// only place the signing key lives; nothing here touches storage.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a Codec with the given HMAC secret and token lifetimes
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL == 0 {
		accessTTL = time.Hour
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs claims with the supplied time-to-live
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// IssueAccess signs claims as a short-lived access token
func (c *Codec) IssueAccess(claims Claims) (string, error) {
	return c.Issue(claims, c.accessTTL)
}

// IssueRefresh signs claims as a long-lived refresh token
func (c *Codec) IssueRefresh(claims Claims) (string, error) {
	return c.Issue(claims, c.refreshTTL)
}

// AccessTTL returns the configured access-token lifetime
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

// RefreshTTL returns the configured refresh-token lifetime
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Expiry is reported as jwt.ErrTokenExpired so callers can tell a refreshable
// failure from a fatal one.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected token signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

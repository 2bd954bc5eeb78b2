// Package auth issues and verifies the signed session credential. Tokens are
// self-contained; the server keeps no session table and no revocation list, so
// logout is purely a client-side discard and a stolen token stays valid until
// its natural expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned for every verification failure: malformed
// token, bad signature, or expiry. Callers cannot tell these apart.
var ErrInvalidSession = errors.New("invalid session")

// Claims defines the session token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Authority mints and verifies session tokens with a symmetric process-wide secret.
type Authority struct {
	secret   []byte
	validity time.Duration
}

// NewAuthority creates an Authority. Tokens it issues expire validity after issuance.
func NewAuthority(secret []byte, validity time.Duration) *Authority {
	return &Authority{secret: secret, validity: validity}
}

// Validity returns the lifetime of issued tokens.
func (a *Authority) Validity() time.Duration {
	return a.validity
}

// Issue creates a signed token bound to the given identity. The signature
// covers the timestamps, so tampering with expiry is detectable.
func (a *Authority) Issue(email, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify checks the signature and expiry of a token string and returns its
// claims. All failures collapse to ErrInvalidSession.
func (a *Authority) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

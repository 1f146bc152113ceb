// Package session encodes the acting user's identifier into the user_id cookie
// and recovers it from incoming requests.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session value.
const CookieName = "user_id"

// ErrInvalidSession is returned for cookie values that cannot be trusted.
var ErrInvalidSession = errors.New("invalid session")

// Codec converts between a user identifier and a cookie value.
type Codec interface {
	Encode(userID string) (string, error)
	Decode(value string) (string, error)
	TTL() time.Duration
}

// PlainCodec stores the identifier itself in the cookie. Anyone able to set a
// cookie can act as any user, so it is only meant for local prototyping.
type PlainCodec struct{}

func (PlainCodec) Encode(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidSession
	}
	return userID, nil
}

func (PlainCodec) Decode(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrInvalidSession
	}
	return value, nil
}

func (PlainCodec) TTL() time.Duration { return 0 }

// JWTCodec signs the identifier into an HS256 token with an expiry.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *JWTCodec) TTL() time.Duration { return c.ttl }

func (c *JWTCodec) Encode(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidSession
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

var (
	_ Codec = PlainCodec{}
	_ Codec = (*JWTCodec)(nil)
)

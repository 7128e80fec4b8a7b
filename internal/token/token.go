// Package token issues and verifies the signed, time-limited identity tokens
// that carry a caller's identity across stateless requests.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the validity window of every issued token. There is no revocation:
// a token stays valid for its full lifetime regardless of account changes.
const TTL = time.Hour

// ErrInvalidToken is returned when a token is malformed, its signature does
// not verify, or it has expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload embedded in a signed token.
type Claims struct {
	UserID    uint
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// KeyProvider resolves signing secrets. Tokens carry a key identifier in the
// header so keys can rotate without invalidating outstanding tokens.
type KeyProvider interface {
	// SigningKey returns the key used for newly issued tokens.
	SigningKey() (kid string, secret []byte)
	// VerificationKey resolves a token's key identifier to its secret.
	VerificationKey(kid string) ([]byte, error)
}

// StaticKeyProvider serves a single fixed key. It is the default provider;
// swap it out for a rotating provider when revocation/rotation is required.
type StaticKeyProvider struct {
	KID    string
	Secret []byte
}

// SigningKey returns the static key.
func (p StaticKeyProvider) SigningKey() (string, []byte) {
	return p.KID, p.Secret
}

// VerificationKey returns the static key for its own identifier. Tokens
// without a key identifier are accepted for compatibility with tokens issued
// before rotation support.
func (p StaticKeyProvider) VerificationKey(kid string) ([]byte, error) {
	if kid != "" && kid != p.KID {
		return nil, fmt.Errorf("%w: unknown key id %q", ErrInvalidToken, kid)
	}
	return p.Secret, nil
}

// Codec issues and verifies identity tokens.
type Codec struct {
	keys KeyProvider
	now  func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the codec's time source. Used by tests to probe the
// expiry boundary.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec returns a Codec backed by the given key provider.
func NewCodec(keys KeyProvider, opts ...Option) *Codec {
	c := &Codec{
		keys: keys,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for the given identity, expiring exactly one hour
// after issuance.
func (c *Codec) Issue(userID uint, email string) (string, error) {
	now := c.now()
	kid, secret := c.keys.SigningKey()

	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(TTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = kid
	return t.SignedString(secret)
}

// Verify validates signature and expiry and returns the exact claims that
// were signed. Any tampering, malformed input, or expired token yields
// ErrInvalidToken.
func (c *Codec) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		return c.keys.VerificationKey(kid)
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)

	claims := &Claims{
		UserID: uint(userID),
		Email:  email,
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

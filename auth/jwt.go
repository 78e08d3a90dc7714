package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	DefaultTTL = 30 * 24 * time.Hour
	issuer     = "itemo"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// T mints and verifies member tokens. It holds no per-token state and is
// safe for concurrent use.
type T struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*T)

func WithSecret(secret string) Option {
	return func(t *T) { t.secret = []byte(secret) }
}

func WithTTL(ttl time.Duration) Option {
	return func(t *T) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// NewT signs with the secret from the environment unless WithSecret is given.
func NewT(opts ...Option) *T {
	t := &T{
		secret: GetSecret(),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create signs a token whose subject is memberID.
func (t *T) Create(memberID string) (string, error) {
	if memberID == "" {
		return "", errors.New("empty member id")
	}

	now := t.now()
	claims := jwt.StandardClaims{
		Subject:   memberID,
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(t.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the member id.
func (t *T) Verify(token string) (string, error) {
	var claims jwt.StandardClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Issuer != issuer {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Extract returns the token of an "Authorization: Bearer <token>" header.
func (t *T) Extract(header string) (string, error) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

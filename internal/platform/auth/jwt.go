package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// CookieName carries the signed identity token.
const CookieName = "userId"

type ctxKeyIdentity struct{}

// Identity is the acting user for a single request.
type Identity struct {
	UserID string
	Name   string
}

// WithIdentity injects the identity into context. Useful for testing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return "", false
	}
	return id.UserID, true
}

// WithUserID injects a bare user id into context. Useful for testing.
func WithUserID(ctx context.Context, uid string) context.Context {
	return WithIdentity(ctx, Identity{UserID: uid})
}

type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// CookieSigner issues and verifies HS256 identity tokens stored in CookieName.
type CookieSigner struct {
	Secret []byte
	TTL    time.Duration
}

func (s CookieSigner) ttl() time.Duration {
	if s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s CookieSigner) Sign(id Identity, now time.Time) (string, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return "", errors.New("identity has no user id")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
		Name: id.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s CookieSigner) Parse(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, errors.New("token has no subject")
	}
	return Identity{UserID: claims.Subject, Name: claims.Name}, nil
}

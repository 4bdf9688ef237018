package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/policy"
)

// ErrInvalidToken is returned when a token is malformed, expired or carries a
// bad signature. The middleware maps an absent token to a distinct error kind.
var ErrInvalidToken = errors.New("invalid token")

// Issue creates a signed HS256 identity token carrying the user id and role id.
func Issue(cfg *config.Config, ident policy.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":     ident.ID,
		"roleId": ident.RoleID,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// Verifier validates a raw bearer token and extracts the caller identity.
type Verifier interface {
	Verify(ctx context.Context, raw string) (policy.Identity, error)
}

// HS256Verifier verifies tokens issued by Issue with the shared process secret.
type HS256Verifier struct {
	secret []byte
}

func NewVerifier(cfg *config.Config) *HS256Verifier {
	return &HS256Verifier{secret: []byte(cfg.JWT.Secret)}
}

func (v *HS256Verifier) Verify(ctx context.Context, raw string) (policy.Identity, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !parsed.Valid {
		return policy.Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Identity{}, ErrInvalidToken
	}
	ident := policy.Identity{
		ID:     claimInt64(claims, "id"),
		RoleID: claimInt64(claims, "roleId"),
	}
	if ident.ID <= 0 || ident.RoleID <= 0 {
		return policy.Identity{}, ErrInvalidToken
	}
	return ident, nil
}

// claimInt64 reads a numeric claim; JSON numbers decode as float64.
func claimInt64(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

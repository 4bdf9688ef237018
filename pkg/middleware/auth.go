package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docuvault/docuvault/internal/policy"
	"github.com/docuvault/docuvault/internal/sessions"
)

// IdentityKey is the gin context key carrying the verified caller identity.
const IdentityKey = "identity"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (policy.Identity, error)
}

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Failed to authenticate token"
)

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the
// provided verifier. An absent credential and an unverifiable one are distinct
// failures, but both reject with 403 before any business logic runs.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, present := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgNoToken})
			return
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		// tokens revoked at logout stay rejected until their natural expiry
		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), raw); err == nil && black {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		ident, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		c.Set(IdentityKey, ident)
		c.Next()
	}
}

// bearerToken extracts the credential. The legacy client sends the header as
// "Authorisation", so both spellings are accepted.
func bearerToken(c *gin.Context) (token string, present bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		auth = c.GetHeader("Authorisation")
	}
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// Identity returns the verified identity set by AuthMiddleware.
func Identity(c *gin.Context) (policy.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return policy.Identity{}, false
	}
	ident, ok := v.(policy.Identity)
	return ident, ok
}

// RawToken returns the bearer credential on the current request, if any.
func RawToken(c *gin.Context) string {
	tok, _ := bearerToken(c)
	return tok
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/docuvault/docuvault/internal/policy"
)

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/a", RateLimitMiddleware(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		rw := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/a", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		g.ServeHTTP(rw, req)
		require.Equal(t, http.StatusOK, rw.Code, "request %d should be allowed", i)
	}
}

func TestRateLimitMiddleware_RejectsBeyondBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/b", RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/b", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)

	rw = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/b", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	g.ServeHTTP(rw, req)
	require.Equal(t, http.StatusTooManyRequests, rw.Code)
	require.Equal(t, "1", rw.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_KeysByIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	// inject distinct identities; each user gets an independent bucket
	g.GET("/c", func(c *gin.Context) {
		id := int64(1)
		if c.Query("u") == "2" {
			id = 2
		}
		c.Set(IdentityKey, policy.Identity{ID: id, RoleID: 2})
	}, RateLimitMiddleware(0.001, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	// user 1 exhausts their bucket
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/c?u=1", nil))
	require.Equal(t, http.StatusOK, rw.Code)

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/c?u=1", nil))
	require.Equal(t, http.StatusTooManyRequests, rw.Code)

	// user 2 is unaffected
	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/c?u=2", nil))
	require.Equal(t, http.StatusOK, rw.Code)
}

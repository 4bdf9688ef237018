package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSwaggerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterSwagger(g)

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	require.Equal(t, http.StatusMovedPermanently, rw.Code)

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, rw.Code)
	require.Contains(t, rw.Body.String(), "swagger-ui")
}

func TestSwaggerSpecIsValidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterSwagger(g)

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rw.Code)

	var spec struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &spec))
	require.Equal(t, "3.0.3", spec.OpenAPI)
	for _, p := range []string{"/documents", "/documents/{id}", "/public-documents", "/role-documents", "/my-documents", "/search/documents", "/users", "/users/login"} {
		require.Contains(t, spec.Paths, p)
	}
}

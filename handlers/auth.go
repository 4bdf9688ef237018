package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/policy"
	"github.com/docuvault/docuvault/internal/sessions"
	"github.com/docuvault/docuvault/internal/tokens"
	"github.com/docuvault/docuvault/internal/users"
	"github.com/docuvault/docuvault/pkg/logger"
	"github.com/docuvault/docuvault/pkg/middleware"
)

// AuthHandler serves user lifecycle and session endpoints.
type AuthHandler struct {
	cfg      *config.Config
	pol      *policy.Policy
	users    *users.Service
	sessions *sessions.Service
}

func NewAuthHandler(cfg *config.Config, pol *policy.Policy, us *users.Service, ss *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, pol: pol, users: us, sessions: ss}
}

// RegisterPublicRoutes attaches the endpoints that must work without a token.
func (h *AuthHandler) RegisterPublicRoutes(g *gin.RouterGroup) {
	g.POST("/users", h.Register)
	g.POST("/users/login", h.Login)
	g.POST("/users/refresh", h.Refresh)
}

// RegisterProtectedRoutes attaches the endpoints that require a verified identity.
func (h *AuthHandler) RegisterProtectedRoutes(g *gin.RouterGroup) {
	g.POST("/users/logout", h.Logout)
	g.GET("/users", h.List)
	g.GET("/users/:id", h.Get)
	g.PUT("/users/:id", h.Update)
	g.DELETE("/users/:id", h.Delete)
	g.GET("/search/users", h.Search)
}

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// issueTokens mints the access token and opens a refresh session.
func (h *AuthHandler) issueTokens(c *gin.Context, ident policy.Identity) (access, refresh string, err error) {
	access, err = tokens.Issue(h.cfg, ident, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = h.sessions.CreateSession(c.Request.Context(), ident.ID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (h *AuthHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrMissingFields),
		errors.Is(err, users.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, users.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"message": "Email or username is already taken"})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid login credentials"})
	default:
		logger.Errorf("auth handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req users.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	access, refresh, err := h.issueTokens(c, policy.Identity{ID: u.ID, RoleID: u.RoleID})
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "User was created successfully",
		"user":         u,
		"token":        access,
		"refreshToken": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	login := req.Login
	if login == "" {
		login = req.Email
	}
	if login == "" {
		login = req.UserName
	}
	u, err := h.users.Authenticate(c.Request.Context(), login, req.Password)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	access, refresh, err := h.issueTokens(c, policy.Identity{ID: u.ID, RoleID: u.RoleID})
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "User was logged in successfully",
		"user":         u,
		"token":        access,
		"refreshToken": refresh,
	})
}

// Logout revokes the presented access token until its natural expiry and drops
// the refresh session when one is supplied.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := middleware.RawToken(c); raw != "" {
		if ttl := remainingTokenTTL(h.cfg, raw); ttl > 0 {
			if err := sessions.BlacklistAccessToken(c.Request.Context(), raw, ttl); err != nil {
				logger.Warnf("blacklist access token: %v", err)
			}
		}
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		if err := h.sessions.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
			logger.Warnf("delete refresh session: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "User is logged out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No refresh token provided"})
		return
	}
	sess, err := h.sessions.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token"})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	access, err := tokens.Issue(h.cfg, policy.Identity{ID: u.ID, RoleID: u.RoleID}, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access})
}

func (h *AuthHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	rows, count, err := h.users.List(c.Request.Context(), page, size)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Users were retrieved successfully",
		"users": gin.H{
			"count": count,
			"rows":  rows,
		},
	})
}

func (h *AuthHandler) Get(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) Update(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		return
	}
	if !h.selfOrAdmin(c, id) {
		return
	}
	var req users.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	// only an admin can grant roles
	ident, _ := middleware.Identity(c)
	if req.RoleID > 0 && !h.pol.IsAdmin(ident) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only an admin can change roles"})
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Username: %s was updated successfully", u.UserName),
		"user":    u,
	})
}

func (h *AuthHandler) Delete(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		return
	}
	if !h.selfOrAdmin(c, id) {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User was successfully deleted"})
}

func (h *AuthHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No search query provided"})
		return
	}
	found, err := h.users.Search(c.Request.Context(), query)
	if err != nil {
		h.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": found})
}

// parseUserID validates the :id path parameter, writing the error response itself.
func parseUserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Id must be numeric"})
		return 0, err
	}
	if id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Id must be greater than zero"})
		return 0, errors.New("non-positive id")
	}
	return id, nil
}

// selfOrAdmin permits the operation for the target user and for admins,
// writing the rejection itself.
func (h *AuthHandler) selfOrAdmin(c *gin.Context, id int64) bool {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Failed to authenticate token"})
		return false
	}
	if ident.ID == id || h.pol.IsAdmin(ident) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"message": "You do not have access to this user"})
	return false
}

// remainingTokenTTL returns how long the access token is still valid, so a
// revocation entry never outlives the token itself.
func remainingTokenTTL(cfg *config.Config, raw string) time.Duration {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return []byte(cfg.JWT.Secret), nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !parsed.Valid {
		return 0
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}

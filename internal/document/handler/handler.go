package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docuvault/docuvault/internal/document"
	"github.com/docuvault/docuvault/internal/document/service"
	"github.com/docuvault/docuvault/pkg/logger"
	"github.com/docuvault/docuvault/pkg/middleware"
)

// Handler exposes the document routes. Every route runs behind AuthMiddleware,
// so an identity is always present.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches the document endpoints to the given group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/documents", h.Create)
	g.GET("/documents", h.ListAll)
	g.GET("/documents/:id", h.Get)
	g.PUT("/documents/:id", h.Update)
	g.DELETE("/documents/:id", h.Delete)
	g.GET("/public-documents", h.ListPublic)
	g.GET("/role-documents", h.ListByRole)
	g.GET("/my-documents", h.ListOwned)
	g.GET("/search/documents", h.Search)
}

func pageFromQuery(c *gin.Context) document.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return document.Page{Number: page, Size: size}.Normalize()
}

// pageMeta mirrors the pagination metadata the clients expect alongside
// every listing.
func pageMeta(p document.Page, total int64) gin.H {
	pageCount := total / int64(p.Size)
	if total%int64(p.Size) != 0 {
		pageCount++
	}
	if pageCount == 0 {
		pageCount = 1
	}
	return gin.H{
		"page":       p.Number,
		"pageCount":  pageCount,
		"pageSize":   p.Size,
		"totalCount": total,
	}
}

func listPayload(p document.Page, res *document.PageResult) gin.H {
	return gin.H{
		"documents": gin.H{
			"count": res.Count,
			"rows":  res.Rows,
		},
		"pageMetaData": pageMeta(p, res.Count),
	}
}

// respondError maps service errors onto the stable status/message contract.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Id must be numeric"})
	case errors.Is(err, service.ErrNonPositiveID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Id must be greater than zero"})
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No document data provided"})
	case errors.Is(err, service.ErrNoTitle):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Document must have a title"})
	case errors.Is(err, service.ErrBadAccess):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Access level must be public, private or role"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "You do not have access to this document"})
	case errors.Is(err, service.ErrNotAdmin):
		c.JSON(http.StatusForbidden, gin.H{"message": "User is not an admin"})
	default:
		logger.Errorf("document handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func (h *Handler) Create(c *gin.Context) {
	ident, _ := middleware.Identity(c)

	var req service.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	doc, err := h.svc.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Document created",
		"newDocument": doc,
	})
}

func (h *Handler) Get(c *gin.Context) {
	ident, _ := middleware.Identity(c)

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := h.svc.Get(c.Request.Context(), ident, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) Update(c *gin.Context) {
	ident, _ := middleware.Identity(c)

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var upd document.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No document data provided"})
		return
	}
	doc, err := h.svc.Update(c.Request.Context(), ident, id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Document updated",
		"document": doc,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	ident, _ := middleware.Identity(c)

	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), ident, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

func (h *Handler) ListAll(c *gin.Context) {
	ident, _ := middleware.Identity(c)
	page := pageFromQuery(c)

	res, err := h.svc.ListAll(c.Request.Context(), ident, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(page, res))
}

func (h *Handler) ListPublic(c *gin.Context) {
	page := pageFromQuery(c)

	res, err := h.svc.ListPublic(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(page, res))
}

func (h *Handler) ListByRole(c *gin.Context) {
	ident, _ := middleware.Identity(c)
	page := pageFromQuery(c)

	res, err := h.svc.ListByRole(c.Request.Context(), ident, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(page, res))
}

func (h *Handler) ListOwned(c *gin.Context) {
	ident, _ := middleware.Identity(c)
	page := pageFromQuery(c)

	res, err := h.svc.ListOwned(c.Request.Context(), ident, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listPayload(page, res))
}

func (h *Handler) Search(c *gin.Context) {
	ident, _ := middleware.Identity(c)

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No search query provided"})
		return
	}
	docs, err := h.svc.Search(c.Request.Context(), ident, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

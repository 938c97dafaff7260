// Package crud mounts the uniform create/list/get/update/delete/search
// surface every flat entity shares. One generic handler over the generic
// repository replaces the per-entity copies.
package crud

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collecthub/internal/auth"
	"collecthub/internal/httpapi"
	"collecthub/internal/store"
)

type auditable interface {
	Stamp(userID string, now time.Time)
}

// Handler serves the standard CRUD routes for one entity collection.
type Handler[T any] struct {
	Repo *store.Repo[T]
}

func NewHandler[T any](repo *store.Repo[T]) *Handler[T] {
	return &Handler[T]{Repo: repo}
}

func (h *Handler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/search", h.search)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

func (h *Handler[T]) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if a, ok := any(&doc).(auditable); ok {
		a.Stamp(claims.UserID, time.Now().UTC())
	}

	id, err := h.Repo.Create(c.Request.Context(), &doc)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	created, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler[T]) list(c *gin.Context) {
	out, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler[T]) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query parameter required"})
		return
	}

	out, err := h.Repo.Search(c.Request.Context(), query)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler[T]) get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler[T]) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "no fields to update"})
		return
	}

	update := bson.M{}
	for k, v := range fields {
		switch k {
		case "id", "_id", "created_at", "created_by":
			// immutable
		default:
			update[k] = v
		}
	}
	update["updated_by"] = claims.UserID
	update["updated_at"] = time.Now().UTC()

	if err := h.Repo.Update(c.Request.Context(), id, update); err != nil {
		httpapi.Error(c, err)
		return
	}

	doc, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler[T]) remove(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted successfully"})
}

func (h *Handler[T]) parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

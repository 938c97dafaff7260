package books

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collecthub/internal/auth"
	"collecthub/internal/httpapi"
	"collecthub/pkg/models"
)

type Handler struct {
	Repo    *MongoBooks
	Service *Service
}

func NewHandler(repo *MongoBooks, service *Service) *Handler {
	return &Handler{Repo: repo, Service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/search", h.search)
	rg.GET("/series/:id", h.bySeries)
	rg.POST("/scrape", h.scrape)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
	rg.PATCH("/:id/status", h.updateStatus)
	rg.PATCH("/:id/rating", h.updateRating)
}

func (h *Handler) scrape(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "url query parameter required"})
		return
	}

	downloadCover := true
	if raw := c.Query("download_cover"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "download_cover must be a boolean"})
			return
		}
		downloadCover = v
	}

	book, err := h.Service.ImportFromURL(c.Request.Context(), url, claims.UserID, downloadCover)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	var book models.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid json"})
		return
	}
	if strings.TrimSpace(book.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "title is required"})
		return
	}
	if book.Status == "" {
		book.Status = "owned"
	}
	book.ID = primitive.NilObjectID
	book.Stamp(claims.UserID, time.Now().UTC())

	id, err := h.Repo.Insert(c.Request.Context(), &book)
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

func (h *Handler) list(c *gin.Context) {
	out, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) search(c *gin.Context) {
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

func (h *Handler) bySeries(c *gin.Context) {
	seriesID, ok := parseID(c)
	if !ok {
		return
	}

	out, err := h.Repo.BySeries(c.Request.Context(), seriesID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	id, ok := parseID(c)
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

	book, err := h.Service.UpdateBook(c.Request.Context(), id, fields, claims.UserID)
	if err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": valErr.Detail})
			return
		}
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteBook(c.Request.Context(), id, claims.UserID); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (h *Handler) updateStatus(c *gin.Context) {
	h.patchField(c, "status", func(raw string) (any, error) {
		return raw, nil
	})
}

func (h *Handler) updateRating(c *gin.Context) {
	h.patchField(c, "rating", func(raw string) (any, error) {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			return nil, &ValidationError{Detail: "rating must be an integer between 1 and 5"}
		}
		return n, nil
	})
}

func (h *Handler) patchField(c *gin.Context, field string, parse func(string) (any, error)) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	raw := strings.TrimSpace(c.Query(field))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": field + " query parameter required"})
		return
	}

	value, err := parse(raw)
	if err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": valErr.Detail})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	book, err := h.Service.UpdateBook(c.Request.Context(), id, map[string]any{field: value}, claims.UserID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

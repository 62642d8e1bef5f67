package http

import (
	"context"
	"net/http"

	"github.com/foodscan/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// SearchService is the usecase-layer contract the handlers depend on.
type SearchService interface {
	Search(ctx context.Context, rawInput string) []domain.Product
}

// ProductFetcher resolves a single product by barcode.
type ProductFetcher interface {
	FetchByIdentifier(ctx context.Context, code string) (*domain.Product, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search  SearchService
	fetcher ProductFetcher
}

// NewHandler creates a new HTTP handler
func NewHandler(search SearchService, fetcher ProductFetcher) *Handler {
	return &Handler{
		search:  search,
		fetcher: fetcher,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodscan-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /api/v1/products/search?q=...
// Upstream failures never surface as errors here: the response is always
// 200 with a possibly empty product list, so "no results" is the only
// observable failure state.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'q' is required",
		})
		return
	}

	products := h.search.Search(c.Request.Context(), query)

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"count":    len(products),
		"products": products,
	})
}

// GetProductByCode handles GET /api/v1/products/:code — a direct barcode
// lookup that bypasses ranking.
func (h *Handler) GetProductByCode(c *gin.Context) {
	code := c.Param("code")

	product, err := h.fetcher.FetchByIdentifier(c.Request.Context(), code)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "product not found",
			"code":  code,
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

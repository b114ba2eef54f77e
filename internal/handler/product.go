package handler

import (
	"errors"
	"net/http"
	"strconv"

	"core/internal/model"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductHandler handles catalog read endpoints
type ProductHandler struct {
	searchService *service.SearchService
}

// NewProductHandler creates a new product handler
func NewProductHandler(searchService *service.SearchService) *ProductHandler {
	return &ProductHandler{
		searchService: searchService,
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	query := &model.ProductListQuery{
		Category:       optionalString(c.Query("category")),
		RoomType:       optionalString(c.Query("roomType")),
		Style:          optionalString(c.Query("style")),
		Color:          optionalString(c.Query("color")),
		Search:         optionalString(c.Query("search")),
		SpaceEfficient: c.Query("spaceEfficient") == "true",
		SortBy:         c.Query("sortBy"),
	}

	var err error
	if query.MinPrice, err = optionalFloat(c.Query("minPrice")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minPrice"})
		return
	}
	if query.MaxPrice, err = optionalFloat(c.Query("maxPrice")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxPrice"})
		return
	}

	products, err := h.searchService.ListProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ProductListResponse{
		Count:    len(products),
		Products: products,
	})
}

// GetByID handles GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.searchService.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product: " + err.Error()})
		return
	}

	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Similar handles GET /api/v1/products/:id/similar
func (h *ProductHandler) Similar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	products, err := h.searchService.SimilarProducts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get similar products: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// TopSelling handles GET /api/v1/products/featured/top-selling
func (h *ProductHandler) TopSelling(c *gin.Context) {
	products, err := h.searchService.TopSelling(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get top selling: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// OnSale handles GET /api/v1/products/featured/on-sale
func (h *ProductHandler) OnSale(c *gin.Context) {
	products, err := h.searchService.OnSale(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get on-sale products: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

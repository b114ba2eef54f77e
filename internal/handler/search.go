package handler

import (
	"io"
	"net/http"
	"strings"

	"core/internal/model"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
	maxImageBytes int64
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, maxImageBytes int64) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		maxImageBytes: maxImageBytes,
	}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	response, err := h.searchService.TextSearch(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ImageSearch handles POST /api/v1/search/image
func (h *SearchHandler) ImageSearch(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image"})
		return
	}

	if fileHeader.Size > h.maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large (max 5MB)"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only images allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image: " + err.Error()})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image: " + err.Error()})
		return
	}

	response, err := h.searchService.ImageSearch(c.Request.Context(), image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ImageSearchTest handles GET /api/v1/search/image/test
func (h *SearchHandler) ImageSearchTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Image search working!",
		"usingAI": h.searchService.ImageSearchEnabled(),
	})
}

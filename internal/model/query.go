package model

// SearchRequest represents a text search request
type SearchRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SearchResponse represents a ranked text search result
type SearchResponse struct {
	SearchID          string          `json:"searchId"`
	Prompt            string          `json:"prompt"`
	ExtractedCriteria *SearchIntent   `json:"extractedCriteria"`
	Count             int             `json:"count"`
	Products          []ScoredProduct `json:"products"`
	PoweredBy         string          `json:"poweredBy"`
	Took              int64           `json:"took_ms"`
}

// ImageSearchResponse represents a ranked image search result
type ImageSearchResponse struct {
	SearchID          string          `json:"searchId"`
	DetectedLabels    []string        `json:"detectedLabels"`
	DetectedColors    []string        `json:"detectedColors"`
	DetectedFurniture []string        `json:"detectedFurniture"`
	Count             int             `json:"count"`
	Products          []ScoredProduct `json:"products"`
	UsingAI           bool            `json:"usingAI"`
	Took              int64           `json:"took_ms"`
}

// CatalogFilter is the predicate handed to the product repository. Clauses
// are conjunctive; TypeTerms is a disjunction of case-insensitive substring
// matches across name, description, subcategory and tags. In-stock-only is
// implicit and always applied.
type CatalogFilter struct {
	MaxPrice       *float64
	Category       *string
	SpaceEfficient bool
	Colors         []string
	TypeTerms      []string
}

// ProductListQuery holds the optional filters of the catalog listing endpoint
type ProductListQuery struct {
	Category       *string
	RoomType       *string
	MinPrice       *float64
	MaxPrice       *float64
	Style          *string
	Color          *string
	Search         *string
	SpaceEfficient bool
	SortBy         string
}

// ProductListResponse represents a catalog listing response
type ProductListResponse struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

// SearchLogEntry captures one search execution for later analysis
type SearchLogEntry struct {
	SearchID   string
	Source     string // "text" or "image"
	Query      string
	Intent     *SearchIntent
	Count      int
	ProductIDs []int64
	Took       int64
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with product info
type EmbeddingItem struct {
	ProductID int64     `json:"product_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
	Text      string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents user feedback/action
type FeedbackRequest struct {
	SearchID  string `json:"search_id" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"` // click, contact, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

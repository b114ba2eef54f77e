package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Product represents a catalog item
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Category       string    `json:"category" db:"category"`
	Subcategory    *string   `json:"subcategory,omitempty" db:"subcategory"`
	Price          float64   `json:"price" db:"price"`
	CostPrice      float64   `json:"-" db:"cost_price"`
	Discount       float64   `json:"discount" db:"discount"`
	Tags           JSONArray `json:"tags,omitempty" db:"tags"`
	RoomType       *string   `json:"roomType,omitempty" db:"room_type"`
	Colors         JSONArray `json:"colors,omitempty" db:"colors"`
	Styles         JSONArray `json:"styles,omitempty" db:"styles"`
	SpaceEfficient bool      `json:"spaceEfficient" db:"space_efficient"`
	Views          int       `json:"views" db:"views"`
	SalesCount     int       `json:"salesCount" db:"sales_count"`
	WishlistCount  int       `json:"wishlistCount" db:"wishlist_count"`
	InStock        bool      `json:"inStock" db:"in_stock"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ScoredProduct is a product paired with its relevance score for one request.
// Scores are computed fresh per search and never persisted.
type ScoredProduct struct {
	Product
	RelevanceScore int `json:"relevanceScore"`
}

// JSONArray represents a JSONB array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}

package model

import "strings"

// SearchIntent is the structured shopping intent extracted from a text prompt
// or an uploaded image. Token lists never contain case-insensitive duplicates;
// insertion order is the order of extraction.
type SearchIntent struct {
	FurnitureTypes []string `json:"furnitureTypes"`
	Colors         []string `json:"colors"`
	Styles         []string `json:"styles"`
	MaxPrice       *float64 `json:"maxPrice,omitempty"`
	Category       *string  `json:"category,omitempty"`
	SpaceEfficient bool     `json:"spaceEfficient"`
}

// NewSearchIntent creates an empty intent with non-nil token lists
func NewSearchIntent() *SearchIntent {
	return &SearchIntent{
		FurnitureTypes: []string{},
		Colors:         []string{},
		Styles:         []string{},
	}
}

// AddFurnitureType appends a furniture type token if not already present
func (i *SearchIntent) AddFurnitureType(token string) {
	i.FurnitureTypes = appendUnique(i.FurnitureTypes, token)
}

// AddColor appends a color token if not already present
func (i *SearchIntent) AddColor(token string) {
	i.Colors = appendUnique(i.Colors, token)
}

// AddStyle appends a style token if not already present
func (i *SearchIntent) AddStyle(token string) {
	i.Styles = appendUnique(i.Styles, token)
}

// IsEmpty reports whether the intent carries no extracted signal at all
func (i *SearchIntent) IsEmpty() bool {
	return len(i.FurnitureTypes) == 0 && len(i.Colors) == 0 && len(i.Styles) == 0 &&
		i.MaxPrice == nil && i.Category == nil && !i.SpaceEfficient
}

func appendUnique(list []string, token string) []string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, token) {
			return list
		}
	}
	return append(list, token)
}

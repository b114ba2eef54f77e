package service

import (
	"core/internal/model"
)

// BuildCatalogFilter maps an extracted intent onto the repository predicate.
// Each clause is optional and conjunctive; furniture types become one
// OR-of-substrings clause. An empty intent degrades to in-stock-only, which
// the repository always enforces.
func BuildCatalogFilter(intent *model.SearchIntent) *model.CatalogFilter {
	filter := &model.CatalogFilter{}
	if intent == nil {
		return filter
	}

	filter.MaxPrice = intent.MaxPrice
	filter.Category = intent.Category
	filter.SpaceEfficient = intent.SpaceEfficient

	if len(intent.Colors) > 0 {
		filter.Colors = append([]string(nil), intent.Colors...)
	}
	if len(intent.FurnitureTypes) > 0 {
		filter.TypeTerms = append([]string(nil), intent.FurnitureTypes...)
	}

	return filter
}

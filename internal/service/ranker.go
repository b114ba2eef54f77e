package service

import (
	"sort"
	"strings"

	"core/internal/config"
	"core/internal/model"
)

// Ranker assigns relevance scores to candidate products and orders results.
// Scoring is additive and uncapped; a zero score keeps a product eligible on
// the text path.
type Ranker struct {
	cfg config.RankingConfig
}

// NewRanker creates a ranker with the configured point values
func NewRanker(cfg config.RankingConfig) *Ranker {
	return &Ranker{cfg: cfg}
}

// Score computes the relevance of one product against the intent
func (r *Ranker) Score(product *model.Product, intent *model.SearchIntent) int {
	score := 0
	name := strings.ToLower(product.Name)
	description := strings.ToLower(product.Description)

	for _, token := range intent.FurnitureTypes {
		if strings.Contains(name, token) {
			score += r.cfg.TypeInName
		}
		if strings.Contains(description, token) {
			score += r.cfg.TypeInDescription
		}
	}

	for _, color := range intent.Colors {
		for _, productColor := range product.Colors {
			if strings.Contains(strings.ToLower(productColor), color) {
				score += r.cfg.ColorMatch
				break
			}
		}
	}

	for _, style := range intent.Styles {
		for _, productStyle := range product.Styles {
			if strings.Contains(strings.ToLower(productStyle), style) {
				score += r.cfg.StyleMatch
				break
			}
		}
	}

	if intent.Category != nil && *intent.Category == product.Category {
		score += r.cfg.CategoryBonus
	}

	return score
}

// Rank scores every candidate and sorts descending by score. The sort is
// stable so that ties keep the fetch order and runs are deterministic.
func (r *Ranker) Rank(products []model.Product, intent *model.SearchIntent) []model.ScoredProduct {
	scored := make([]model.ScoredProduct, 0, len(products))
	for _, product := range products {
		scored = append(scored, model.ScoredProduct{
			Product:        product,
			RelevanceScore: r.Score(&product, intent),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	return scored
}

// SelectTop truncates a ranked list to the presentation limit
func SelectTop(scored []model.ScoredProduct, limit int) []model.ScoredProduct {
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// SelectWithFloor drops results scoring at or below floor, then truncates to
// limit. When the floor empties the set it falls back to the top fallbackLimit
// by score, zeros included: image signals are noisy, so weak matches are
// hidden, but never at the cost of returning nothing.
func SelectWithFloor(scored []model.ScoredProduct, floor, limit, fallbackLimit int) []model.ScoredProduct {
	filtered := make([]model.ScoredProduct, 0, len(scored))
	for _, s := range scored {
		if s.RelevanceScore > floor {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) > 0 {
		return SelectTop(filtered, limit)
	}
	return SelectTop(scored, fallbackLimit)
}

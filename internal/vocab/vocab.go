// Package vocab holds the shared shopping vocabulary consulted by every
// extraction strategy. Both the AI-backed and the pattern-matching extractors
// are injected with the same Table so the token lists cannot drift apart.
package vocab

import "strings"

// Synonym maps a canonical furniture type to the surface forms shoppers use
type Synonym struct {
	Canonical string
	Surfaces  []string
}

// Table is the versioned lookup table for intent extraction
type Table struct {
	surfaceForms  []string
	synonyms      []Synonym
	colors        []string
	styles        []string
	spaceKeywords []string
	labelKeywords []string
}

// Default returns the current vocabulary
func Default() *Table {
	return &Table{
		surfaceForms: []string{
			"sofa", "couch", "chair", "table", "desk", "bed",
			"cabinet", "shelf", "dresser", "wardrobe", "nightstand",
			"armchair", "loveseat", "sectional", "bookcase",
		},
		synonyms: []Synonym{
			{Canonical: "sofa", Surfaces: []string{"sofa", "couch"}},
			{Canonical: "loveseat", Surfaces: []string{"loveseat"}},
			{Canonical: "sectional", Surfaces: []string{"sectional"}},
			{Canonical: "chair", Surfaces: []string{"chair", "armchair", "recliner"}},
			{Canonical: "table", Surfaces: []string{"table", "coffee table", "dining table", "side table"}},
			{Canonical: "desk", Surfaces: []string{"desk"}},
			{Canonical: "bed", Surfaces: []string{"bed"}},
			{Canonical: "dresser", Surfaces: []string{"dresser", "drawer"}},
			{Canonical: "cabinet", Surfaces: []string{"cabinet"}},
			{Canonical: "shelf", Surfaces: []string{"shelf", "bookcase", "bookshelf"}},
		},
		colors: []string{
			"grey", "gray", "beige", "white", "black", "blue", "navy",
			"green", "brown", "pink", "red", "yellow", "charcoal", "cream",
			"sage", "mustard", "terracotta",
		},
		styles: []string{
			"modern", "minimalist", "scandinavian", "industrial",
			"contemporary", "traditional", "rustic", "vintage",
		},
		spaceKeywords: []string{"small", "compact", "studio", "apartment", "tiny", "space"},
		labelKeywords: []string{
			"furniture", "chair", "table", "sofa", "couch", "bed", "desk",
			"cabinet", "shelf", "storage", "dresser", "nightstand", "wardrobe",
		},
	}
}

// SurfaceTypesIn returns every furniture surface form contained in text,
// in table order. Used against entity names returned by the NLP service.
func (t *Table) SurfaceTypesIn(text string) []string {
	return containedTokens(t.surfaceForms, text)
}

// CanonicalTypesIn returns the canonical furniture types whose surface forms
// appear in text. Used by the pattern-matching fallback.
func (t *Table) CanonicalTypesIn(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, syn := range t.synonyms {
		for _, surface := range syn.Surfaces {
			if strings.Contains(lower, surface) {
				matched = append(matched, syn.Canonical)
				break
			}
		}
	}
	return matched
}

// ColorsIn returns every color token contained in text, in table order
func (t *Table) ColorsIn(text string) []string {
	return containedTokens(t.colors, text)
}

// StylesIn returns every style token contained in text, in table order
func (t *Table) StylesIn(text string) []string {
	return containedTokens(t.styles, text)
}

// MentionsSmallSpace reports whether text asks for space-efficient furniture
func (t *Table) MentionsSmallSpace(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range t.spaceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsFurnitureLabel reports whether an image label describes furniture
func (t *Table) IsFurnitureLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, kw := range t.labelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func containedTokens(vocabulary []string, text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, token := range vocabulary {
		if strings.Contains(lower, token) {
			matched = append(matched, token)
		}
	}
	return matched
}

// ColorNameFromRGB maps a dominant RGB sample to a vocabulary color name.
// Rules are evaluated in order, most specific first; tuning the cut points
// is a behavior change that requires sign-off.
func ColorNameFromRGB(r, g, b int) string {
	switch {
	case r < 50 && g < 50 && b < 50:
		return "black"
	case r > 200 && g > 200 && b > 200:
		return "white"
	case r > 150 && g < 100 && b < 100:
		return "red"
	case r < 100 && g > 150 && b < 100:
		return "green"
	case r < 100 && g < 100 && b > 150:
		return "blue"
	case r > 150 && g > 150 && b < 100:
		return "yellow"
	case r > 120 && g > 80 && b < 80:
		return "brown"
	case r > 100 && g > 100 && b > 100:
		return "grey"
	case r > 150 && g > 120 && b < 100:
		return "beige"
	default:
		return "neutral"
	}
}

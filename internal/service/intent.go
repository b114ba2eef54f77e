package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"core/internal/model"
	"core/internal/utils"
	"core/internal/vocab"
)

// Provenance values reported alongside search results
const (
	ProvenanceNLP     = "Google Cloud NLP"
	ProvenancePattern = "Pattern Matching"
)

// Defaults returned when image analysis is unavailable
var (
	DefaultImageLabels    = []string{"Furniture", "Interior"}
	DefaultImageColors    = []string{"Brown", "Neutral"}
	DefaultImageFurniture = []string{"furniture"}
)

// IntentExtractor turns raw user input into a structured SearchIntent. The
// AI-backed strategy is attempted first; any failure or empty furniture-type
// result falls back to deterministic pattern matching. Extraction never fails
// the request.
type IntentExtractor struct {
	nlp    EntityAnalyzer
	vision ImageAnnotator
	vocab  *vocab.Table
}

// NewIntentExtractor creates an extractor; nlp and vision may be nil
func NewIntentExtractor(nlp EntityAnalyzer, vision ImageAnnotator, vt *vocab.Table) *IntentExtractor {
	return &IntentExtractor{
		nlp:    nlp,
		vision: vision,
		vocab:  vt,
	}
}

// FromText extracts a SearchIntent from a free-text prompt and reports which
// strategy produced it.
func (e *IntentExtractor) FromText(ctx context.Context, prompt string) (*model.SearchIntent, string) {
	intent := model.NewSearchIntent()
	provenance := ProvenancePattern

	if e.nlp != nil && e.nlp.IsEnabled() {
		entities, err := e.nlp.AnalyzeEntities(ctx, prompt)
		if err != nil {
			log.Printf("Google NLP error: %v, falling back to pattern matching", err)
		} else {
			for _, entity := range entities {
				name := strings.ToLower(entity.Name)
				for _, token := range e.vocab.SurfaceTypesIn(name) {
					intent.AddFurnitureType(token)
				}
				for _, token := range e.vocab.ColorsIn(name) {
					intent.AddColor(token)
				}
				for _, token := range e.vocab.StylesIn(name) {
					intent.AddStyle(token)
				}
			}

			intent.MaxPrice = utils.ExtractMaxPrice(prompt)

			// Entities can miss colors mentioned as plain adjectives
			for _, token := range e.vocab.ColorsIn(prompt) {
				intent.AddColor(token)
			}

			intent.SpaceEfficient = e.vocab.MentionsSmallSpace(prompt)
			provenance = ProvenanceNLP
		}
	}

	// Fallback pattern matching when the AI pass found no furniture types
	if len(intent.FurnitureTypes) == 0 {
		e.patternFallback(prompt, intent)
		provenance = ProvenancePattern
	}

	return intent, provenance
}

// patternFallback runs the deterministic local strategy on the prompt
func (e *IntentExtractor) patternFallback(prompt string, intent *model.SearchIntent) {
	for _, canonical := range e.vocab.CanonicalTypesIn(prompt) {
		intent.AddFurnitureType(canonical)
	}
	for _, token := range e.vocab.ColorsIn(prompt) {
		intent.AddColor(token)
	}
	if intent.MaxPrice == nil {
		intent.MaxPrice = utils.ExtractMaxPrice(prompt)
	}
}

// ImageExtraction carries the raw detection signals for the image response
type ImageExtraction struct {
	Labels    []string
	Colors    []string
	Furniture []string
	UsingAI   bool
}

// DefaultImageExtraction is returned when vision is unavailable
func DefaultImageExtraction() *ImageExtraction {
	return &ImageExtraction{
		Labels:    DefaultImageLabels,
		Colors:    DefaultImageColors,
		Furniture: DefaultImageFurniture,
		UsingAI:   false,
	}
}

// FromImage extracts a SearchIntent from raw image bytes. When the vision
// service is unconfigured or errors, a nil intent and the default extraction
// are returned; the caller serves the degraded result instead of failing.
func (e *IntentExtractor) FromImage(ctx context.Context, image []byte) (*model.SearchIntent, *ImageExtraction) {
	if e.vision == nil || !e.vision.IsEnabled() {
		return nil, DefaultImageExtraction()
	}

	analysis, err := e.vision.Annotate(ctx, image)
	if err != nil {
		log.Printf("Google Vision error: %v, serving default image result", err)
		return nil, DefaultImageExtraction()
	}

	intent := model.NewSearchIntent()
	ext := &ImageExtraction{UsingAI: true}

	for _, label := range analysis.Labels {
		ext.Labels = append(ext.Labels, label.Description)
		if e.vocab.IsFurnitureLabel(label.Description) {
			term := strings.ToLower(label.Description)
			ext.Furniture = append(ext.Furniture, term)
			intent.AddFurnitureType(term)
		}
	}

	// Top three dominant colors by score
	colors := make([]DominantColor, len(analysis.Colors))
	copy(colors, analysis.Colors)
	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Score > colors[j].Score
	})
	if len(colors) > 3 {
		colors = colors[:3]
	}
	for _, dc := range colors {
		name := vocab.ColorNameFromRGB(dc.Red, dc.Green, dc.Blue)
		ext.Colors = append(ext.Colors, name)
		intent.AddColor(name)
	}

	return intent, ext
}

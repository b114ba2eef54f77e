package service

import (
	"context"
)

// Entity is a single entity returned by the text analysis service
type Entity struct {
	Name     string
	Type     string
	Salience float64
}

// EntityAnalyzer is the interface for the text entity analysis service.
// Implementations are optional collaborators: when disabled or failing, the
// intent extractor falls back to pattern matching.
type EntityAnalyzer interface {
	// AnalyzeEntities extracts named entities from free text
	AnalyzeEntities(ctx context.Context, text string) ([]Entity, error)

	// IsEnabled returns whether the analyzer is configured and ready
	IsEnabled() bool
}

// LabelAnnotation is a single label detected in an image
type LabelAnnotation struct {
	Description string
	Score       float64
}

// DominantColor is one dominant RGB sample detected in an image
type DominantColor struct {
	Red   int
	Green int
	Blue  int
	Score float64
}

// ImageAnalysis bundles the label and color signals for one image
type ImageAnalysis struct {
	Labels []LabelAnnotation
	Colors []DominantColor
}

// ImageAnnotator is the interface for the vision service. Like the entity
// analyzer it is optional; absence degrades image search to a default result.
type ImageAnnotator interface {
	// Annotate runs label and dominant-color detection on raw image bytes
	Annotate(ctx context.Context, image []byte) (*ImageAnalysis, error)

	// IsEnabled returns whether the annotator is configured and ready
	IsEnabled() bool
}

// Ensure the Google clients implement the interfaces
var (
	_ EntityAnalyzer = (*GoogleNLPClient)(nil)
	_ ImageAnnotator = (*GoogleVisionClient)(nil)
)

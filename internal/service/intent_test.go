package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"core/internal/vocab"
)

// fakeAnalyzer is a canned EntityAnalyzer for extractor tests
type fakeAnalyzer struct {
	entities []Entity
	err      error
	enabled  bool
}

func (f *fakeAnalyzer) AnalyzeEntities(ctx context.Context, text string) ([]Entity, error) {
	return f.entities, f.err
}

func (f *fakeAnalyzer) IsEnabled() bool { return f.enabled }

// fakeAnnotator is a canned ImageAnnotator for extractor tests
type fakeAnnotator struct {
	analysis *ImageAnalysis
	err      error
	enabled  bool
}

func (f *fakeAnnotator) Annotate(ctx context.Context, image []byte) (*ImageAnalysis, error) {
	return f.analysis, f.err
}

func (f *fakeAnnotator) IsEnabled() bool { return f.enabled }

func TestIntentExtractor_FromText_PatternFallback(t *testing.T) {
	extractor := NewIntentExtractor(nil, nil, vocab.Default())

	tests := []struct {
		name       string
		prompt     string
		wantTypes  []string
		wantColors []string
		wantPrice  *float64
	}{
		{
			name:       "couch resolves to sofa with color and price",
			prompt:     "white couch under 2000",
			wantTypes:  []string{"sofa"},
			wantColors: []string{"white"},
			wantPrice:  float64Ptr(2000),
		},
		{
			name:       "armchair resolves to chair",
			prompt:     "grey armchair max 3000",
			wantTypes:  []string{"chair"},
			wantColors: []string{"grey"},
			wantPrice:  float64Ptr(3000),
		},
		{
			name:       "no signals",
			prompt:     "something for the lounge",
			wantTypes:  []string{},
			wantColors: []string{},
			wantPrice:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, provenance := extractor.FromText(context.Background(), tt.prompt)

			if provenance != ProvenancePattern {
				t.Errorf("Expected provenance %q, got %q", ProvenancePattern, provenance)
			}
			if !reflect.DeepEqual(intent.FurnitureTypes, tt.wantTypes) {
				t.Errorf("FurnitureTypes = %v, want %v", intent.FurnitureTypes, tt.wantTypes)
			}
			if !reflect.DeepEqual(intent.Colors, tt.wantColors) {
				t.Errorf("Colors = %v, want %v", intent.Colors, tt.wantColors)
			}
			if tt.wantPrice == nil {
				if intent.MaxPrice != nil {
					t.Errorf("Expected no max price, got %.2f", *intent.MaxPrice)
				}
			} else if intent.MaxPrice == nil || *intent.MaxPrice != *tt.wantPrice {
				t.Errorf("MaxPrice = %v, want %.2f", intent.MaxPrice, *tt.wantPrice)
			}
			if intent.SpaceEfficient {
				t.Error("Pattern fallback must not set SpaceEfficient")
			}
		})
	}
}

func TestIntentExtractor_FromText_WithEntities(t *testing.T) {
	analyzer := &fakeAnalyzer{
		enabled: true,
		entities: []Entity{
			{Name: "grey sofa", Type: "CONSUMER_GOOD", Salience: 0.8},
			{Name: "scandinavian", Type: "OTHER", Salience: 0.2},
		},
	}
	extractor := NewIntentExtractor(analyzer, nil, vocab.Default())

	intent, provenance := extractor.FromText(context.Background(), "grey sofa for a small apartment under R4000, scandinavian look")

	if provenance != ProvenanceNLP {
		t.Fatalf("Expected provenance %q, got %q", ProvenanceNLP, provenance)
	}
	if !reflect.DeepEqual(intent.FurnitureTypes, []string{"sofa"}) {
		t.Errorf("FurnitureTypes = %v, want [sofa]", intent.FurnitureTypes)
	}
	if !reflect.DeepEqual(intent.Colors, []string{"grey"}) {
		t.Errorf("Colors = %v, want [grey]", intent.Colors)
	}
	if !reflect.DeepEqual(intent.Styles, []string{"scandinavian"}) {
		t.Errorf("Styles = %v, want [scandinavian]", intent.Styles)
	}
	if intent.MaxPrice == nil || *intent.MaxPrice != 4000 {
		t.Errorf("MaxPrice = %v, want 4000", intent.MaxPrice)
	}
	if !intent.SpaceEfficient {
		t.Error("Expected SpaceEfficient for a small apartment prompt")
	}
}

func TestIntentExtractor_FromText_AnalyzerErrorFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{enabled: true, err: errors.New("quota exceeded")}
	extractor := NewIntentExtractor(analyzer, nil, vocab.Default())

	intent, provenance := extractor.FromText(context.Background(), "blue couch")

	if provenance != ProvenancePattern {
		t.Fatalf("Expected provenance %q after analyzer error, got %q", ProvenancePattern, provenance)
	}
	if !reflect.DeepEqual(intent.FurnitureTypes, []string{"sofa"}) {
		t.Errorf("FurnitureTypes = %v, want [sofa]", intent.FurnitureTypes)
	}
	if !reflect.DeepEqual(intent.Colors, []string{"blue"}) {
		t.Errorf("Colors = %v, want [blue]", intent.Colors)
	}
}

func TestIntentExtractor_FromText_EmptyEntitiesFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{enabled: true, entities: []Entity{{Name: "lounge", Type: "LOCATION"}}}
	extractor := NewIntentExtractor(analyzer, nil, vocab.Default())

	_, provenance := extractor.FromText(context.Background(), "dresser for the bedroom")

	if provenance != ProvenancePattern {
		t.Errorf("Expected fallback provenance when entities hold no furniture, got %q", provenance)
	}
}

func TestIntentExtractor_FromImage_Disabled(t *testing.T) {
	extractor := NewIntentExtractor(nil, nil, vocab.Default())

	intent, ext := extractor.FromImage(context.Background(), []byte{0xFF, 0xD8})

	if intent != nil {
		t.Errorf("Expected nil intent when vision is disabled, got %+v", intent)
	}
	if ext.UsingAI {
		t.Error("Expected UsingAI to be false")
	}
	if !reflect.DeepEqual(ext.Labels, DefaultImageLabels) {
		t.Errorf("Labels = %v, want defaults", ext.Labels)
	}
	if !reflect.DeepEqual(ext.Furniture, DefaultImageFurniture) {
		t.Errorf("Furniture = %v, want defaults", ext.Furniture)
	}
}

func TestIntentExtractor_FromImage_AnnotatorErrorDegrades(t *testing.T) {
	annotator := &fakeAnnotator{enabled: true, err: errors.New("invalid image")}
	extractor := NewIntentExtractor(nil, annotator, vocab.Default())

	intent, ext := extractor.FromImage(context.Background(), []byte{0x00})

	if intent != nil {
		t.Errorf("Expected nil intent on annotator error, got %+v", intent)
	}
	if ext.UsingAI {
		t.Error("Expected UsingAI to be false on annotator error")
	}
}

func TestIntentExtractor_FromImage_LabelsAndColors(t *testing.T) {
	annotator := &fakeAnnotator{
		enabled: true,
		analysis: &ImageAnalysis{
			Labels: []LabelAnnotation{
				{Description: "Couch", Score: 0.95},
				{Description: "Living room", Score: 0.90},
				{Description: "Coffee table", Score: 0.85},
			},
			Colors: []DominantColor{
				{Red: 128, Green: 128, Blue: 128, Score: 0.2},
				{Red: 20, Green: 20, Blue: 20, Score: 0.5},
				{Red: 140, Green: 100, Blue: 60, Score: 0.4},
				{Red: 230, Green: 230, Blue: 230, Score: 0.1},
			},
		},
	}
	extractor := NewIntentExtractor(nil, annotator, vocab.Default())

	intent, ext := extractor.FromImage(context.Background(), []byte{0xFF})

	if !ext.UsingAI {
		t.Fatal("Expected UsingAI to be true")
	}
	if !reflect.DeepEqual(ext.Labels, []string{"Couch", "Living room", "Coffee table"}) {
		t.Errorf("Labels = %v", ext.Labels)
	}
	if !reflect.DeepEqual(ext.Furniture, []string{"couch", "coffee table"}) {
		t.Errorf("Furniture = %v, want [couch, coffee table]", ext.Furniture)
	}
	if !reflect.DeepEqual(intent.FurnitureTypes, []string{"couch", "coffee table"}) {
		t.Errorf("FurnitureTypes = %v", intent.FurnitureTypes)
	}

	// Top three colors by score: black, brown, grey
	if !reflect.DeepEqual(ext.Colors, []string{"black", "brown", "grey"}) {
		t.Errorf("Colors = %v, want [black brown grey]", ext.Colors)
	}
	if !reflect.DeepEqual(intent.Colors, []string{"black", "brown", "grey"}) {
		t.Errorf("Intent colors = %v", intent.Colors)
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

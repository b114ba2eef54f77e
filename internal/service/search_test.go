package service

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"core/internal/config"
	"core/internal/model"
	"core/internal/vocab"
)

// fakeRepo is an in-memory ProductRepository for service tests
type fakeRepo struct {
	products []model.Product

	lastFilter *model.CatalogFilter
	lastLimit  int
	findErr    error
}

func (f *fakeRepo) FindProducts(ctx context.Context, filter *model.CatalogFilter, limit int) ([]model.Product, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.products) > limit {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakeRepo) ListProducts(ctx context.Context, query *model.ProductListQuery) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) IncrementViews(ctx context.Context, id int64) error { return nil }

func (f *fakeRepo) SimilarProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error) {
	var similar []model.Product
	for _, p := range f.products {
		if p.ID != product.ID && len(similar) < limit {
			similar = append(similar, p)
		}
	}
	return similar, nil
}

func (f *fakeRepo) TopSelling(ctx context.Context, limit int) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) OnSale(ctx context.Context, limit int) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return len(items), nil
}

func (f *fakeRepo) LogSearch(ctx context.Context, entry *model.SearchLogEntry) error { return nil }

func (f *fakeRepo) LogFeedback(ctx context.Context, searchID string, productID int64, action string) error {
	return nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		CandidateLimit:     50,
		ResultLimit:        20,
		ImageScoreFloor:    5,
		ImageFloorFallback: 8,
		ImageFallbackLimit: 12,
		SimilarLimit:       4,
		FeaturedLimit:      8,
	}
}

func newTestService(repo ProductRepository, nlp EntityAnalyzer, vision ImageAnnotator) *SearchService {
	extractor := NewIntentExtractor(nlp, vision, vocab.Default())
	ranker := NewRanker(testRankingConfig())
	return NewSearchService(repo, extractor, ranker, testSearchConfig())
}

func catalogProducts(n int) []model.Product {
	products := make([]model.Product, n)
	for i := range products {
		products[i] = model.Product{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("Product %d", i+1),
			Category: "Living Room",
			InStock:  true,
		}
	}
	return products
}

func TestSearchService_TextSearch(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		{ID: 1, Name: "Milan Leather Sofa", Description: "A grey leather sofa", Colors: model.JSONArray{"Grey"}, InStock: true},
		{ID: 2, Name: "Pine Desk", Description: "A plain desk", InStock: true},
		{ID: 3, Name: "Oslo Sofa Bed", Description: "Converts in seconds", InStock: true},
	}}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.TextSearch(context.Background(), "grey couch under 2000")
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}

	if resp.PoweredBy != ProvenancePattern {
		t.Errorf("PoweredBy = %q, want %q", resp.PoweredBy, ProvenancePattern)
	}
	if resp.SearchID == "" {
		t.Error("Expected a search id")
	}
	if resp.Count != 3 || len(resp.Products) != 3 {
		t.Fatalf("Expected 3 products, got count=%d len=%d", resp.Count, len(resp.Products))
	}

	// Product 1 matches type and color, product 3 matches type only
	if resp.Products[0].ID != 1 {
		t.Errorf("Expected product 1 first, got %d", resp.Products[0].ID)
	}
	if resp.Products[0].RelevanceScore != 45 {
		t.Errorf("Expected score 45 for product 1, got %d", resp.Products[0].RelevanceScore)
	}
	if resp.Products[1].ID != 3 || resp.Products[1].RelevanceScore != 20 {
		t.Errorf("Expected product 3 with score 20 second, got %d/%d",
			resp.Products[1].ID, resp.Products[1].RelevanceScore)
	}

	// The extracted criteria are echoed back and drive the repository filter
	if resp.ExtractedCriteria == nil || resp.ExtractedCriteria.MaxPrice == nil || *resp.ExtractedCriteria.MaxPrice != 2000 {
		t.Errorf("ExtractedCriteria = %+v, want max price 2000", resp.ExtractedCriteria)
	}
	if repo.lastLimit != 50 {
		t.Errorf("Expected candidate limit 50, got %d", repo.lastLimit)
	}
	if repo.lastFilter.MaxPrice == nil || *repo.lastFilter.MaxPrice != 2000 {
		t.Errorf("Filter max price = %v, want 2000", repo.lastFilter.MaxPrice)
	}
	if !reflect.DeepEqual(repo.lastFilter.TypeTerms, []string{"sofa"}) {
		t.Errorf("Filter type terms = %v, want [sofa]", repo.lastFilter.TypeTerms)
	}
}

func TestSearchService_TextSearch_ResultBound(t *testing.T) {
	repo := &fakeRepo{products: catalogProducts(50)}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.TextSearch(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}

	if len(resp.Products) != 20 {
		t.Errorf("Expected results capped at 20, got %d", len(resp.Products))
	}
	if resp.Count != 20 {
		t.Errorf("Count = %d, want 20", resp.Count)
	}
}

func TestSearchService_TextSearch_Deterministic(t *testing.T) {
	repo := &fakeRepo{products: catalogProducts(10)}
	svc := newTestService(repo, nil, nil)

	first, err := svc.TextSearch(context.Background(), "sofa")
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}
	second, err := svc.TextSearch(context.Background(), "sofa")
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}

	if !reflect.DeepEqual(productIDs(first.Products), productIDs(second.Products)) {
		t.Errorf("Repeated searches returned different orders: %v vs %v",
			productIDs(first.Products), productIDs(second.Products))
	}
}

func TestSearchService_ImageSearch_FallbackWithoutVision(t *testing.T) {
	repo := &fakeRepo{products: catalogProducts(30)}
	svc := newTestService(repo, nil, nil)

	if svc.ImageSearchEnabled() {
		t.Fatal("Expected image search to report disabled")
	}

	resp, err := svc.ImageSearch(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("ImageSearch failed: %v", err)
	}

	if resp.UsingAI {
		t.Error("Expected UsingAI to be false")
	}
	if len(resp.Products) != 12 {
		t.Fatalf("Expected 12 fallback products, got %d", len(resp.Products))
	}
	for _, p := range resp.Products {
		if p.RelevanceScore != 50 {
			t.Errorf("Product %d: expected default score 50, got %d", p.ID, p.RelevanceScore)
		}
	}
	if !reflect.DeepEqual(resp.DetectedLabels, DefaultImageLabels) {
		t.Errorf("DetectedLabels = %v, want defaults", resp.DetectedLabels)
	}
	if repo.lastLimit != 12 {
		t.Errorf("Expected fallback fetch limit 12, got %d", repo.lastLimit)
	}
}

func TestSearchService_ImageSearch_FiltersOnFurnitureOnly(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		{ID: 1, Name: "Brown Leather Couch", Description: "A soft brown leather couch", Colors: model.JSONArray{"Brown"}, InStock: true},
		{ID: 2, Name: "Glass Vase", Description: "Decorative", InStock: true},
	}}
	annotator := &fakeAnnotator{
		enabled: true,
		analysis: &ImageAnalysis{
			Labels: []LabelAnnotation{{Description: "Couch", Score: 0.9}},
			Colors: []DominantColor{{Red: 140, Green: 100, Blue: 60, Score: 0.6}},
		},
	}
	svc := newTestService(repo, nil, annotator)

	resp, err := svc.ImageSearch(context.Background(), []byte{0xFF})
	if err != nil {
		t.Fatalf("ImageSearch failed: %v", err)
	}

	if !resp.UsingAI {
		t.Fatal("Expected UsingAI to be true")
	}
	if !reflect.DeepEqual(repo.lastFilter.TypeTerms, []string{"couch"}) {
		t.Errorf("Filter type terms = %v, want [couch]", repo.lastFilter.TypeTerms)
	}
	if len(repo.lastFilter.Colors) != 0 {
		t.Errorf("Image filter must not constrain on colors, got %v", repo.lastFilter.Colors)
	}

	// Couch in name and description plus the brown color match
	if len(resp.Products) == 0 || resp.Products[0].ID != 1 {
		t.Fatalf("Expected product 1 first, got %+v", resp.Products)
	}
	if resp.Products[0].RelevanceScore != 45 {
		t.Errorf("Expected score 45, got %d", resp.Products[0].RelevanceScore)
	}
}

func TestSearchService_ImageSearch_FloorFallback(t *testing.T) {
	// Candidates that score zero against the detected intent still come back,
	// capped at the floor-fallback size.
	repo := &fakeRepo{products: catalogProducts(30)}
	annotator := &fakeAnnotator{
		enabled: true,
		analysis: &ImageAnalysis{
			Labels: []LabelAnnotation{{Description: "Wardrobe", Score: 0.9}},
		},
	}
	svc := newTestService(repo, nil, annotator)

	resp, err := svc.ImageSearch(context.Background(), []byte{0xFF})
	if err != nil {
		t.Fatalf("ImageSearch failed: %v", err)
	}

	if len(resp.Products) != 8 {
		t.Errorf("Expected 8 floor-fallback products, got %d", len(resp.Products))
	}
}

func TestSearchService_GetProduct(t *testing.T) {
	repo := &fakeRepo{products: catalogProducts(3)}
	svc := newTestService(repo, nil, nil)

	product, err := svc.GetProduct(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product == nil || product.ID != 2 {
		t.Fatalf("Expected product 2, got %+v", product)
	}

	missing, err := svc.GetProduct(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown product, got %+v", missing)
	}
}

func TestSearchService_SimilarProducts(t *testing.T) {
	repo := &fakeRepo{products: catalogProducts(10)}
	svc := newTestService(repo, nil, nil)

	similar, err := svc.SimilarProducts(context.Background(), 1)
	if err != nil {
		t.Fatalf("SimilarProducts failed: %v", err)
	}
	if len(similar) != 4 {
		t.Errorf("Expected 4 similar products, got %d", len(similar))
	}

	if _, err := svc.SimilarProducts(context.Background(), 99); err != ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

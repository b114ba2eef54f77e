package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"core/internal/config"
	"core/internal/model"
)

// ErrProductNotFound is reported when an operation references a product id
// that does not exist in the catalog.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the catalog collaborator consumed by the search core
type ProductRepository interface {
	FindProducts(ctx context.Context, filter *model.CatalogFilter, limit int) ([]model.Product, error)
	ListProducts(ctx context.Context, query *model.ProductListQuery) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	IncrementViews(ctx context.Context, id int64) error
	SimilarProducts(ctx context.Context, product *model.Product, limit int) ([]model.Product, error)
	TopSelling(ctx context.Context, limit int) ([]model.Product, error)
	OnSale(ctx context.Context, limit int) ([]model.Product, error)
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	LogSearch(ctx context.Context, entry *model.SearchLogEntry) error
	LogFeedback(ctx context.Context, searchID string, productID int64, action string) error
}

// SearchService handles search business logic
type SearchService struct {
	repo      ProductRepository
	extractor *IntentExtractor
	ranker    *Ranker
	cfg       config.SearchConfig
}

// NewSearchService creates a new search service
func NewSearchService(
	repo ProductRepository,
	extractor *IntentExtractor,
	ranker *Ranker,
	cfg config.SearchConfig,
) *SearchService {
	return &SearchService{
		repo:      repo,
		extractor: extractor,
		ranker:    ranker,
		cfg:       cfg,
	}
}

// TextSearch performs a complete text search: intent extraction, filtering,
// candidate fetch, scoring and selection.
func (s *SearchService) TextSearch(ctx context.Context, prompt string) (*model.SearchResponse, error) {
	startTime := time.Now()

	intent, provenance := s.extractor.FromText(ctx, prompt)
	log.Printf("🔎 Search %q -> types=%v colors=%v styles=%v maxPrice=%v (%s)",
		prompt, intent.FurnitureTypes, intent.Colors, intent.Styles, intent.MaxPrice, provenance)

	filter := BuildCatalogFilter(intent)
	candidates, err := s.repo.FindProducts(ctx, filter, s.cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}

	scored := s.ranker.Rank(candidates, intent)
	final := SelectTop(scored, s.cfg.ResultLimit)

	took := time.Since(startTime).Milliseconds()
	searchID := uuid.NewString()
	s.logSearchAsync(&model.SearchLogEntry{
		SearchID:   searchID,
		Source:     "text",
		Query:      prompt,
		Intent:     intent,
		Count:      len(final),
		ProductIDs: productIDs(final),
		Took:       took,
	})

	return &model.SearchResponse{
		SearchID:          searchID,
		Prompt:            prompt,
		ExtractedCriteria: intent,
		Count:             len(final),
		Products:          final,
		PoweredBy:         provenance,
		Took:              took,
	}, nil
}

// ImageSearch performs a search from uploaded image bytes. Vision failures
// and missing credentials degrade to a default in-stock selection; only
// repository errors fail the request.
func (s *SearchService) ImageSearch(ctx context.Context, image []byte) (*model.ImageSearchResponse, error) {
	startTime := time.Now()

	intent, extraction := s.extractor.FromImage(ctx, image)
	if !extraction.UsingAI {
		return s.imageSearchFallback(ctx, startTime, extraction)
	}

	// The image filter matches on detected furniture terms only; dominant
	// colors are too noisy to filter on and contribute through scoring.
	filter := &model.CatalogFilter{TypeTerms: intent.FurnitureTypes}
	candidates, err := s.repo.FindProducts(ctx, filter, s.cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}

	scored := s.ranker.Rank(candidates, intent)
	final := SelectWithFloor(scored, s.cfg.ImageScoreFloor, s.cfg.ResultLimit, s.cfg.ImageFloorFallback)

	took := time.Since(startTime).Milliseconds()
	searchID := uuid.NewString()
	s.logSearchAsync(&model.SearchLogEntry{
		SearchID:   searchID,
		Source:     "image",
		Intent:     intent,
		Count:      len(final),
		ProductIDs: productIDs(final),
		Took:       took,
	})

	return &model.ImageSearchResponse{
		SearchID:          searchID,
		DetectedLabels:    extraction.Labels,
		DetectedColors:    extraction.Colors,
		DetectedFurniture: extraction.Furniture,
		Count:             len(final),
		Products:          final,
		UsingAI:           true,
		Took:              took,
	}, nil
}

// imageSearchFallback serves the degraded image result: a bounded in-stock
// selection with a flat default score.
func (s *SearchService) imageSearchFallback(ctx context.Context, startTime time.Time, extraction *ImageExtraction) (*model.ImageSearchResponse, error) {
	products, err := s.repo.FindProducts(ctx, &model.CatalogFilter{}, s.cfg.ImageFallbackLimit)
	if err != nil {
		return nil, err
	}

	scored := make([]model.ScoredProduct, 0, len(products))
	for _, p := range products {
		scored = append(scored, model.ScoredProduct{
			Product:        p,
			RelevanceScore: s.ranker.cfg.DefaultImageScore,
		})
	}

	took := time.Since(startTime).Milliseconds()
	return &model.ImageSearchResponse{
		SearchID:          uuid.NewString(),
		DetectedLabels:    extraction.Labels,
		DetectedColors:    extraction.Colors,
		DetectedFurniture: extraction.Furniture,
		Count:             len(scored),
		Products:          scored,
		UsingAI:           false,
		Took:              took,
	}, nil
}

// ImageSearchEnabled reports whether the vision-backed path is configured
func (s *SearchService) ImageSearchEnabled() bool {
	return s.extractor.vision != nil && s.extractor.vision.IsEnabled()
}

// ListProducts returns the filtered catalog listing
func (s *SearchService) ListProducts(ctx context.Context, query *model.ProductListQuery) ([]model.Product, error) {
	return s.repo.ListProducts(ctx, query)
}

// GetProduct retrieves a single product and bumps its view counter
func (s *SearchService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	go func() {
		if err := s.repo.IncrementViews(context.Background(), id); err != nil {
			log.Printf("Failed to increment views for product %d: %v", id, err)
		}
	}()

	return product, nil
}

// SimilarProducts returns products close to the given one. It reports
// ErrProductNotFound when the anchor product does not exist.
func (s *SearchService) SimilarProducts(ctx context.Context, id int64) ([]model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.repo.SimilarProducts(ctx, product, s.cfg.SimilarLimit)
}

// TopSelling returns the best-selling in-stock products
func (s *SearchService) TopSelling(ctx context.Context) ([]model.Product, error) {
	return s.repo.TopSelling(ctx, s.cfg.FeaturedLimit)
}

// OnSale returns discounted in-stock products
func (s *SearchService) OnSale(ctx context.Context) ([]model.Product, error) {
	return s.repo.OnSale(ctx, s.cfg.FeaturedLimit)
}

// UpdateEmbeddings updates embeddings for multiple products
func (s *SearchService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return s.repo.BatchUpdateEmbeddings(ctx, items)
}

// LogFeedback logs user feedback/action against a search id
func (s *SearchService) LogFeedback(ctx context.Context, searchID string, productID int64, action string) error {
	return s.repo.LogFeedback(ctx, searchID, productID, action)
}

// logSearchAsync records the search without blocking the response
func (s *SearchService) logSearchAsync(entry *model.SearchLogEntry) {
	go func() {
		if err := s.repo.LogSearch(context.Background(), entry); err != nil {
			log.Printf("Failed to log search %s: %v", entry.SearchID, err)
		}
	}()
}

func productIDs(scored []model.ScoredProduct) []int64 {
	ids := make([]int64, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	return ids
}

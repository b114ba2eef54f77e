package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"core/internal/config"
	"core/internal/handler"
	"core/internal/repository"
	"core/internal/service"
	"core/internal/vocab"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Elite Interiors Search Engine")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize Google API clients. Both are optional: missing keys leave
	// the deterministic fallback strategies in charge.
	nlpClient := service.NewGoogleNLPClient(&cfg.Google)
	visionClient := service.NewGoogleVisionClient(&cfg.Google)

	if cfg.Google.NLPEnabled {
		log.Println("✅ Google NLP client initialized")
	} else {
		log.Println("⚠️  Google NLP is disabled - text search will use pattern matching")
		log.Println("   Set GOOGLE_NLP_API_KEY environment variable to enable it")
	}
	if cfg.Google.VisionEnabled {
		log.Println("✅ Google Vision client initialized")
	} else {
		log.Println("⚠️  Google Vision is disabled - image search will return a default selection")
		log.Println("   Set GOOGLE_VISION_API_KEY environment variable to enable it")
	}

	// Initialize services
	extractor := service.NewIntentExtractor(nlpClient, visionClient, vocab.Default())
	ranker := service.NewRanker(cfg.Ranking)
	searchService := service.NewSearchService(repo, extractor, ranker, cfg.Search)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchService, cfg.Search.MaxImageBytes)
	productHandler := handler.NewProductHandler(searchService)
	embeddingHandler := handler.NewEmbeddingHandler(searchService, cfg.Search.EmbeddingDimensions)
	feedbackHandler := handler.NewFeedbackHandler(searchService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "elite-interiors-search",
			"version": Version,
			"nlp":     cfg.Google.NLPEnabled,
			"vision":  cfg.Google.VisionEnabled,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Search endpoints
		apiV1.POST("/search", searchHandler.Search)
		apiV1.POST("/search/image", searchHandler.ImageSearch)
		apiV1.GET("/search/image/test", searchHandler.ImageSearchTest)

		// Catalog endpoints
		apiV1.GET("/products", productHandler.List)
		apiV1.GET("/products/:id", productHandler.GetByID)
		apiV1.GET("/products/:id/similar", productHandler.Similar)
		apiV1.GET("/products/featured/top-selling", productHandler.TopSelling)
		apiV1.GET("/products/featured/on-sale", productHandler.OnSale)

		// Embedding endpoints
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)

		// Feedback endpoint
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

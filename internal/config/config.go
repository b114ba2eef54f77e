package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	Ranking    RankingConfig
	Google     GoogleConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds search-related limits
type SearchConfig struct {
	CandidateLimit      int   // max rows fetched for scoring
	ResultLimit         int   // presentation limit for ranked results
	ImageScoreFloor     int   // image path drops results scoring at or below this
	ImageFloorFallback  int   // top-N returned when the floor empties the set
	ImageFallbackLimit  int   // products returned when vision is unavailable
	SimilarLimit        int
	FeaturedLimit       int
	MaxImageBytes       int64
	EmbeddingDimensions int
}

// RankingConfig holds the relevance point values
type RankingConfig struct {
	TypeInName        int
	TypeInDescription int
	ColorMatch        int
	StyleMatch        int
	CategoryBonus     int
	DefaultImageScore int // assigned when vision is unavailable
}

// GoogleConfig holds Google Cloud API configuration
type GoogleConfig struct {
	NLPAPIKey      string
	NLPEndpoint    string
	VisionAPIKey   string
	VisionEndpoint string
	Timeout        int // seconds
	NLPEnabled     bool
	VisionEnabled  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "elite_interiors"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Search: SearchConfig{
			CandidateLimit:      getEnvAsInt("SEARCH_CANDIDATE_LIMIT", 50),
			ResultLimit:         getEnvAsInt("SEARCH_RESULT_LIMIT", 20),
			ImageScoreFloor:     getEnvAsInt("SEARCH_IMAGE_SCORE_FLOOR", 5),
			ImageFloorFallback:  getEnvAsInt("SEARCH_IMAGE_FLOOR_FALLBACK", 8),
			ImageFallbackLimit:  getEnvAsInt("SEARCH_IMAGE_FALLBACK_LIMIT", 12),
			SimilarLimit:        getEnvAsInt("SEARCH_SIMILAR_LIMIT", 4),
			FeaturedLimit:       getEnvAsInt("SEARCH_FEATURED_LIMIT", 8),
			MaxImageBytes:       int64(getEnvAsInt("SEARCH_MAX_IMAGE_BYTES", 5*1024*1024)),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1024),
		},
		Ranking: RankingConfig{
			TypeInName:        getEnvAsInt("RANK_TYPE_IN_NAME", 20),
			TypeInDescription: getEnvAsInt("RANK_TYPE_IN_DESCRIPTION", 10),
			ColorMatch:        getEnvAsInt("RANK_COLOR_MATCH", 15),
			StyleMatch:        getEnvAsInt("RANK_STYLE_MATCH", 10),
			CategoryBonus:     getEnvAsInt("RANK_CATEGORY_BONUS", 15),
			DefaultImageScore: getEnvAsInt("RANK_DEFAULT_IMAGE_SCORE", 50),
		},
		Google: GoogleConfig{
			NLPAPIKey:      getEnv("GOOGLE_NLP_API_KEY", ""),
			NLPEndpoint:    getEnv("GOOGLE_NLP_ENDPOINT", "https://language.googleapis.com/v1"),
			VisionAPIKey:   getEnv("GOOGLE_VISION_API_KEY", ""),
			VisionEndpoint: getEnv("GOOGLE_VISION_ENDPOINT", "https://vision.googleapis.com/v1"),
			Timeout:        getEnvAsInt("GOOGLE_API_TIMEOUT", 10),
			NLPEnabled:     getEnv("GOOGLE_NLP_API_KEY", "") != "",
			VisionEnabled:  getEnv("GOOGLE_VISION_API_KEY", "") != "",
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

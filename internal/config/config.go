package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Gemini API
	GeminiAPIKey   string
	ChatModel      string
	EmbeddingModel string
	VisionModel    string
	GeminiTier     string

	// MongoDB (remote hybrid vector index)
	MongoURI         string
	DBName           string
	CollectionName   string
	SearchIndexName  string
	VectorIndexName  string
	VectorDimensions int

	// HTTP server
	Port        string
	GinMode     string
	CORSOrigins []string

	// Upload handling
	MaxFileSize    int64
	AllowedTypes   []string
	FileStorageDir string

	// Redis (task queue + rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Chunking
	MaxChunkSize int
	ChunkOverlap int

	// Retrieval
	RetrievalTopK int
	HybridAlpha   float64

	// Chunk storage compression ("none", "gzip", "zlib")
	ChunkCompression string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ChatModel:      getEnv("CHAT_MODEL", "gemini-2.0-flash"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		VisionModel:    getEnv("VISION_MODEL", "gemini-2.0-flash"),
		GeminiTier:     getEnv("GEMINI_TIER", "free"),

		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017/lecture_rag"),
		DBName:           getEnv("DB_NAME", "lecture_rag"),
		CollectionName:   getEnv("COLLECTION_NAME", "lecture_documents"),
		SearchIndexName:  getEnv("SEARCH_INDEX_NAME", "chunks_text"),
		VectorIndexName:  getEnv("VECTOR_INDEX_NAME", "chunks_vector"),
		VectorDimensions: getEnvInt("VECTOR_DIMENSIONS", 768),

		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 104857600), // 100MB
		AllowedTypes:   strings.Split(getEnv("ALLOWED_FILE_TYPES", "application/pdf"), ","),
		FileStorageDir: getEnv("FILE_STORAGE_DIR", "./storage"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		MaxChunkSize: getEnvInt("MAX_CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),

		RetrievalTopK: getEnvInt("RETRIEVAL_TOP_K", 4),
		HybridAlpha:   getEnvFloat("HYBRID_ALPHA", 0.5),

		ChunkCompression: getEnv("CHUNK_COMPRESSION", "none"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.ChunkOverlap >= cfg.MaxChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than MAX_CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.MaxChunkSize)
	}
	if cfg.HybridAlpha < 0 || cfg.HybridAlpha > 1 {
		return nil, fmt.Errorf("HYBRID_ALPHA must be in [0,1], got %v", cfg.HybridAlpha)
	}

	return cfg, nil
}

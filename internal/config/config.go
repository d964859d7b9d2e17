package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	LLM        LLMConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Qdrant     QdrantConfig
	Worker     WorkerConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

type LLMConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type StorageConfig struct {
	Driver          string
	UploadPath      string
	MaxFileSize     int64
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type MonitoringConfig struct {
	SentryDSN string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment")
	}

	port := getEnv("PORT", "3000")

	return &Config{
		Server: ServerConfig{
			Port:          port,
			Env:           getEnv("ENV", "development"),
			PublicBaseURL: strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "talent_scout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderGateway)),
			BaseURL:  getEnv("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
			APIKey:   getEnv("LLM_API_KEY", getEnv("LOVABLE_API_KEY", "")),
			Model:    getEnv("LLM_MODEL", "google/gemini-2.5-flash"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
			UploadPath:      getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			Bucket:          getEnv("S3_BUCKET", "resumes"),
			Prefix:          getEnv("S3_PREFIX", "resumes"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			PublicBaseURL:   strings.TrimSuffix(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "candidate_profiles"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("INDEX_WORKER_CONCURRENCY", 2),
			QueueSize:   getEnvAsInt("INDEX_QUEUE_SIZE", 100),
		},
		Monitoring: MonitoringConfig{
			SentryDSN: getEnv("SENTRY_DSN", ""),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IndexEnabled reports whether the candidate similarity index can run. It
// needs both a Qdrant endpoint and a Gemini key for embeddings.
func (c *Config) IndexEnabled() bool {
	return c.Qdrant.URL != "" && c.Gemini.APIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

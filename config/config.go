package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with
// an optional .env file.
type Config struct {
	App       AppConfig
	OpenAI    OpenAIConfig
	Pinecone  PineconeConfig
	Store     StoreConfig
	Pipeline  PipelineConfig
	Ingestion IngestionConfig
}

type AppConfig struct {
	Port        string
	Environment string
}

type OpenAIConfig struct {
	APIKey         string `validate:"required"`
	ChatModel      string
	EmbeddingModel string
}

type PineconeConfig struct {
	APIKey    string
	IndexHost string
	Namespace string
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Backend is "pinecone" or "chromem".
	Backend string `validate:"oneof=pinecone chromem"`
	// ChromemPath is the persistence directory for the embedded backend.
	ChromemPath string
}

type PipelineConfig struct {
	TopK           int
	Rerank         bool
	Temperature    float64
	MaxTokens      int
	AnswerLanguage string
	ScoreThreshold float64
	RangeMin       float64
	RangeMax       float64
}

type IngestionConfig struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
}

const (
	BackendPinecone = "pinecone"
	BackendChromem  = "chromem"
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8000"),
			Environment: getEnv("GO_ENV", "development"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Pinecone: PineconeConfig{
			APIKey:    getEnv("PINECONE_API_KEY", ""),
			IndexHost: getEnv("PINECONE_INDEX_HOST", ""),
			Namespace: getEnv("PINECONE_NAMESPACE", ""),
		},
		Store: StoreConfig{
			Backend:     getEnv("VECTOR_STORE_BACKEND", BackendPinecone),
			ChromemPath: getEnv("CHROMEM_PATH", "./chromem-data"),
		},
		Pipeline: PipelineConfig{
			TopK:           getEnvAsInt("PIPELINE_TOP_K", 10),
			Rerank:         getEnvAsBool("PIPELINE_RERANK", true),
			Temperature:    getEnvAsFloat("PIPELINE_TEMPERATURE", 0.3),
			MaxTokens:      getEnvAsInt("PIPELINE_MAX_TOKENS", 500),
			AnswerLanguage: getEnv("PIPELINE_ANSWER_LANGUAGE", "English"),
			ScoreThreshold: getEnvAsFloat("CONFIDENCE_SCORE_THRESHOLD", 0.20),
			RangeMin:       getEnvAsFloat("CONFIDENCE_RANGE_MIN", 0.20),
			RangeMax:       getEnvAsFloat("CONFIDENCE_RANGE_MAX", 0.70),
		},
		Ingestion: IngestionConfig{
			DataDir:      getEnv("INGESTION_DATA_DIR", "./data"),
			ChunkSize:    getEnvAsInt("INGESTION_CHUNK_SIZE", 750),
			ChunkOverlap: getEnvAsInt("INGESTION_CHUNK_OVERLAP", 150),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and cross-field constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Store.Backend == BackendPinecone {
		if c.Pinecone.APIKey == "" {
			return fmt.Errorf("invalid configuration: PINECONE_API_KEY is required for the pinecone backend")
		}
		if c.Pinecone.IndexHost == "" {
			return fmt.Errorf("invalid configuration: PINECONE_INDEX_HOST is required for the pinecone backend")
		}
	}
	if c.Pipeline.RangeMax <= c.Pipeline.RangeMin {
		return fmt.Errorf("invalid configuration: CONFIDENCE_RANGE_MAX must be greater than CONFIDENCE_RANGE_MIN")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

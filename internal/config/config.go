package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`
	BcryptCost  int    `envconfig:"BCRYPT_COST" default:"12"`

	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns        int32         `envconfig:"DB_MIN_CONNS" default:"0"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`

	APIKeyTTL            time.Duration `envconfig:"API_KEY_TTL" default:"24h"`
	KeyCacheTTL          time.Duration `envconfig:"KEY_CACHE_TTL" default:"60s"`
	KeyReconcileInterval time.Duration `envconfig:"KEY_RECONCILE_INTERVAL" default:"1m"`

	ModelProvider   string        `envconfig:"MODEL_PROVIDER" default:"openai"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL   string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	EmbeddingModel  string        `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	CompletionModel string        `envconfig:"COMPLETION_MODEL" default:"gpt-4o-mini"`
	ModelTimeout    time.Duration `envconfig:"MODEL_TIMEOUT" default:"60s"`

	ChunkSize    int `envconfig:"RAG_CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"RAG_CHUNK_OVERLAP" default:"50"`
	TopK         int `envconfig:"RAG_TOP_K" default:"3"`
}

// Load reads an optional .env file and then the environment into a Config.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

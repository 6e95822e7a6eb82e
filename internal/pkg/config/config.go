package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Groq  GroqConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=telemedicine"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GroqConfig configures the hosted completion provider.
type GroqConfig struct {
	APIKey     string        `env:"GROQ_API_KEY"`
	BaseURL    string        `env:"GROQ_BASE_URL,    default=https://api.groq.com/openai/v1"`
	Model      string        `env:"GROQ_MODEL,       default=meta-llama/llama-4-maverick-17b-128e-instruct"`
	Timeout    time.Duration `env:"GROQ_TIMEOUT,     default=30s"`
	MaxRetries int           `env:"GROQ_MAX_RETRIES, default=3"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

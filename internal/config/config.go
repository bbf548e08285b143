package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by NEXUS_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("NEXUS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 3001
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// RedisAddr returns the Redis address backing the analysis cache.
// Defaults to localhost:6379.
func RedisAddr() string {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return "localhost:6379"
	}
	return addr
}

func RedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}

func RedisDB() int {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		return 0
	}
	return db
}

// OllamaURL returns the base URL of the Ollama server.
func OllamaURL() string {
	u := os.Getenv("OLLAMA_URL")
	if u == "" {
		return "http://localhost:11434"
	}
	return u
}

// OllamaModel returns the model used for reasoning calls.
func OllamaModel() string {
	m := os.Getenv("OLLAMA_MODEL")
	if m == "" {
		return "llama3.1:8b"
	}
	return m
}

// OllamaEmbedModel returns the model used for embeddings.
func OllamaEmbedModel() string {
	m := os.Getenv("OLLAMA_EMBED_MODEL")
	if m == "" {
		return "nomic-embed-text"
	}
	return m
}

// EmbeddingDim returns the embedding dimensionality the memory index is
// created with. Must match the embed model (nomic-embed-text = 768).
func EmbeddingDim() int {
	dim, err := strconv.Atoi(os.Getenv("EMBEDDING_DIM"))
	if err != nil || dim <= 0 {
		return 768
	}
	return dim
}

// OracleRPS returns the outbound requests-per-second budget for the
// reasoning oracle. Defaults to 5.
func OracleRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("ORACLE_RATE_RPS"), 64)
	if err != nil || rps <= 0 {
		return 5
	}
	return rps
}

// RateLimitRPS returns requests per second limit for the HTTP surface.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

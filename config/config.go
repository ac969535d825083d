package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TokenSymbol   string
	SteemAPIURL   string
	ScotAPIURL    string
	EngineRPCURL  string
	EngineAPIURL  string
	ServiceName   string
	MetricsAddr   string
	NumWorkers    int
	HTTPTimeout   time.Duration
	StateCacheTTL time.Duration

	// Worker backends; everything below is optional except the input queue
	// when running the worker command.
	AWSRegion      string
	InputQueueURL  string
	OutputQueueURL string
	RedisHost      string
	RedisPort      string
	DatabaseURL    string
	DBBatchSize    int
	DynamoDBTable  string
	OpenSearchURL  string
	OpenSearchIdx  string
	SnapshotBucket string
}

// LoadEnv loads .env files from the working directory when present
func LoadEnv(logger *logrus.Logger) {
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			logger.WithError(err).Warnf("Failed to load %s", file)
			continue
		}
		logger.Debugf("Loaded env file %s", file)
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		TokenSymbol:    strings.ToUpper(getEnv("TOKEN_SYMBOL", "SCT")),
		SteemAPIURL:    getEnv("STEEM_API_URL", "https://api.steemit.com"),
		ScotAPIURL:     strings.TrimRight(getEnv("SCOT_API_URL", "https://scot-api.steem-engine.com"), "/"),
		EngineRPCURL:   strings.TrimRight(getEnv("ENGINE_RPC_URL", "https://api.steem-engine.com/rpc"), "/"),
		EngineAPIURL:   strings.TrimRight(getEnv("ENGINE_API_URL", "https://api.steem-engine.com"), "/"),
		ServiceName:    getEnv("SERVICE_NAME", "enricher-worker"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		NumWorkers:     getEnvInt("NUM_WORKERS", 20),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 0),
		StateCacheTTL:  getEnvDuration("STATE_CACHE_TTL", 30*time.Second),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		InputQueueURL:  os.Getenv("INPUT_QUEUE_URL"),
		OutputQueueURL: os.Getenv("OUTPUT_QUEUE_URL"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBBatchSize:    getEnvInt("DB_BATCH_SIZE", 25),
		DynamoDBTable:  os.Getenv("DYNAMODB_TABLE"),
		OpenSearchURL:  os.Getenv("OPENSEARCH_URL"),
		OpenSearchIdx:  getEnv("OPENSEARCH_INDEX", "enriched_posts"),
		SnapshotBucket: os.Getenv("SNAPSHOT_BUCKET"),
	}

	if cfg.TokenSymbol == "" {
		return nil, fmt.Errorf("TOKEN_SYMBOL is required")
	}
	if cfg.NumWorkers <= 0 {
		return nil, fmt.Errorf("NUM_WORKERS must be positive, got %d", cfg.NumWorkers)
	}
	if cfg.DBBatchSize <= 0 {
		cfg.DBBatchSize = 25
	}

	return cfg, nil
}

// RequireWorker validates the settings only the queue worker needs
func (c *Config) RequireWorker() error {
	if c.InputQueueURL == "" {
		return fmt.Errorf("INPUT_QUEUE_URL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

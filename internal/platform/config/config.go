package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration. Defaults favor a
// self-contained development run: no Redis means in-memory submission state,
// no Kafka means the audit trail goes straight to its store, no Postgres
// means audit events stay in memory.
type Server struct {
	Addr string

	// Rule sources. When RegistryURL is empty the engine serves rules from
	// the precomputed table at RulesTablePath.
	RulesTablePath  string
	RegistryURL     string
	RegistryAPIKey  string
	RegistryTimeout time.Duration

	// Text extraction service.
	OCRURL           string
	OCRTimeout       time.Duration
	OCRMinTextLength int

	// Program retrieval service. Empty disables POST /programs/recommend.
	RetrievalURL     string
	RetrievalAPIKey  string
	RetrievalTimeout time.Duration

	// Session handling.
	SessionSigningKey string
	SessionTTL        time.Duration

	// Optional backing services.
	RedisURL     string
	PostgresDSN  string
	KafkaBrokers []string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             envOr("SAHAAY_ADDR", ":8080"),
		RulesTablePath:   envOr("RULES_TABLE_PATH", "configs/precomputed_rules.json"),
		RegistryURL:      os.Getenv("REGISTRY_URL"),
		RegistryAPIKey:   os.Getenv("REGISTRY_API_KEY"),
		RegistryTimeout:  durationOr("REGISTRY_TIMEOUT", 5*time.Second),
		OCRURL:           envOr("OCR_URL", "http://localhost:8090"),
		OCRTimeout:       durationOr("OCR_TIMEOUT", 30*time.Second),
		OCRMinTextLength: intOr("OCR_MIN_TEXT_LENGTH", 10),
		RetrievalURL:     os.Getenv("RETRIEVAL_URL"),
		RetrievalAPIKey:  os.Getenv("RETRIEVAL_API_KEY"),
		RetrievalTimeout: durationOr("RETRIEVAL_TIMEOUT", 5*time.Second),
		SessionSigningKey: envOr("SESSION_SIGNING_KEY",
			// Development default - must be overridden in production.
			"dev-secret-key-change-in-production"),
		SessionTTL:  durationOr("SESSION_TTL", 24*time.Hour),
		RedisURL:    os.Getenv("REDIS_URL"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

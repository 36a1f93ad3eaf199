// Package config provides environment configuration for the agent server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Database settings
	DatabaseURL string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings (admin API)
	JWTSecret string

	// LLM settings
	AnthropicAPIKey     string
	OpenAIAPIKey        string
	DefaultLLM          string
	CompletionModel     string
	CompletionMaxTokens int
	CompletionTimeout   time.Duration

	// Messaging gateway
	GreenAPIBaseURL string

	// Catalog / prompt
	CatalogLimit    int
	PromptRegisters map[string]string

	// Rate limiting (admin API)
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment. A local .env file is loaded
// first when present so development matches deployed behavior.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		DefaultLLM:          getEnv("DEFAULT_LLM", "anthropic"),
		CompletionModel:     getEnv("LLM_MODEL", ""),
		CompletionMaxTokens: getIntEnv("COMPLETION_MAX_TOKENS", 1000),
		CompletionTimeout:   getDurationEnv("COMPLETION_TIMEOUT", 60*time.Second),

		// Messaging gateway
		GreenAPIBaseURL: getEnv("GREEN_API_BASE_URL", "https://api.green-api.com"),

		// Catalog / prompt
		CatalogLimit:    getIntEnv("CATALOG_LIMIT", 10),
		PromptRegisters: getMapEnv("PROMPT_REGISTERS", map[string]string{
			"Uruguay":   "uruguayo",
			"Argentina": "argentino",
		}),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getMapEnv parses "key=value,key=value" pairs, falling back to the default
// map when the variable is unset or has no parseable pairs.
func getMapEnv(key string, defaultValue map[string]string) map[string]string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && kv[0] != "" {
			parsed[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	if len(parsed) == 0 {
		return defaultValue
	}
	return parsed
}

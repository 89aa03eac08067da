// Package config provides environment configuration for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	PublicBaseURL      string

	// LLM settings
	LLMProvider     string
	LLMModel        string
	LLMMaxTokens    int
	GoogleAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	SSMParamPrefix  string

	// History settings
	HistoryBackend       string
	HistoryFile          string
	HistorySQLitePath    string
	HistoryDynamoDBTable string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string
	NATSKVBucket string

	// Upload settings
	UploadBackend  string
	UploadDir      string
	UploadURLPath  string
	UploadMaxBytes int64
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3UsePathStyle bool

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// CORS; empty allows any http or https origin
	CORSAllowedOrigins []string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. Values from an
// optional YAML file named by CONFIG_FILE act as defaults that the
// environment overrides. A .env file in the working directory is loaded first.
func Load() (*Config, error) {
	loadEnvFiles()

	src := source{file: map[string]string{}}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readYAML(path)
		if err != nil {
			return nil, err
		}
		src.file = values
	}

	return src.build(), nil
}

func (s source) build() *Config {
	return &Config{
		// Server
		ServerPort:         s.getEnv("PORT", "8080"),
		ServerReadTimeout:  s.getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: s.getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
		PublicBaseURL:      s.getEnv("PUBLIC_BASE_URL", ""),

		// LLM
		LLMProvider:     s.getEnv("LLM_PROVIDER", "gemini"),
		LLMModel:        s.getEnv("LLM_MODEL", ""),
		LLMMaxTokens:    s.getIntEnv("LLM_MAX_TOKENS", 8192),
		GoogleAPIKey:    s.getEnv("GOOGLE_API_KEY", ""),
		AnthropicAPIKey: s.getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    s.getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   s.getEnv("OPENAI_BASE_URL", ""),
		SSMParamPrefix:  s.getEnv("SSM_PARAM_PREFIX", ""),

		// History
		HistoryBackend:       s.getEnv("HISTORY_BACKEND", "file"),
		HistoryFile:          s.getEnv("HISTORY_FILE", "data/history.json"),
		HistorySQLitePath:    s.getEnv("HISTORY_SQLITE_PATH", "data/history.db"),
		HistoryDynamoDBTable: s.getEnv("HISTORY_DYNAMODB_TABLE", ""),

		// NATS
		NATSURL:      s.getEnv("NATS_URL", ""),
		NATSCAFile:   s.getEnv("NATS_CA_FILE", ""),
		NATSCertFile: s.getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  s.getEnv("NATS_KEY_FILE", ""),
		NATSToken:    s.getEnv("NATS_TOKEN", ""),
		NATSKVBucket: s.getEnv("NATS_KV_BUCKET", "slides_history"),

		// Uploads
		UploadBackend:  s.getEnv("UPLOAD_BACKEND", "local"),
		UploadDir:      s.getEnv("UPLOAD_DIR", "public/temp_pptx"),
		UploadURLPath:  s.getEnv("UPLOAD_URL_PATH", "/temp_pptx"),
		UploadMaxBytes: int64(s.getIntEnv("UPLOAD_MAX_BYTES", 32<<20)),
		S3Bucket:       s.getEnv("S3_BUCKET", ""),
		S3Region:       s.getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     s.getEnv("S3_ENDPOINT", ""),
		S3UsePathStyle: s.getBoolEnv("S3_USE_PATH_STYLE", false),

		// Rate limiting
		RateLimitRequests: s.getIntEnv("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:   s.getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		CORSAllowedOrigins: s.getListEnv("CORS_ALLOWED_ORIGINS"),

		// Logging
		LogLevel: s.getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: s.getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  s.getBoolEnv("TRACING_ENABLED", false),
	}
}

// APIKey returns the credential configured for provider.
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// APIKeyEnv returns the environment variable that holds the credential for provider.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

func loadEnvFiles() {
	for _, path := range []string{".env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

// readYAML reads a flat mapping of environment-style keys to scalar values.
func readYAML(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	values := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s source) getEnv(key, defaultValue string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping blank entries.
func (s source) getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(s.lookup(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s source) getIntEnv(key string, defaultValue int) int {
	if value := s.lookup(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (s source) getBoolEnv(key string, defaultValue bool) bool {
	if value := s.lookup(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (s source) getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := s.lookup(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string

	// Inference providers, tried in order: primary first, then fallback.
	OpenAIAPIKey     string
	OpenAIModel      string
	AnthropicAPIKey  string
	AnthropicModel   string
	ProviderTimeout  time.Duration
	SummaryMaxTokens int

	// Admission filters for incoming meetings.
	MinDurationMinutes int
	MaxDurationMinutes int
	MinParticipants    int
	MaxParticipants    int

	// Minimum interval between accepted analysis submissions per user.
	SubmitInterval time.Duration

	// Background execution: "inline" spawns a goroutine in-process,
	// "nats" publishes to a NATS subject consumed by cmd/worker.
	QueueBackend string
	NATSURL      string
	NATSSubject  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		ProviderTimeout:  getEnvDuration("PROVIDER_TIMEOUT", 120*time.Second),
		SummaryMaxTokens: getEnvInt("SUMMARY_MAX_TOKENS", 4000),

		MinDurationMinutes: getEnvInt("FILTER_MIN_DURATION_MINUTES", 15),
		MaxDurationMinutes: getEnvInt("FILTER_MAX_DURATION_MINUTES", 0),
		MinParticipants:    getEnvInt("FILTER_MIN_PARTICIPANTS", 1),
		MaxParticipants:    getEnvInt("FILTER_MAX_PARTICIPANTS", 0),

		SubmitInterval: getEnvDuration("SUBMIT_INTERVAL", 30*time.Second),

		QueueBackend: normalizeQueueBackend(getEnv("QUEUE_BACKEND", "inline")),
		NATSURL:      getEnv("NATS_URL", "nats://127.0.0.1:4222"),
		NATSSubject:  getEnv("NATS_SUBJECT", "meetings.analyze"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeQueueBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "nats":
		return "nats"
	default:
		return "inline"
	}
}

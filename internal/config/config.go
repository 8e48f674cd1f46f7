package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// GeminiKeyVars lists the environment variables that may hold the Gemini
// credential, highest priority first.
var GeminiKeyVars = []string{
	"GOOGLE_GENERATIVE_AI_API_KEY",
	"GOOGLE_API_KEY",
	"GEMINI_API_KEY",
}

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey     string
	GeminiModel      string
	GeminiTimeout    time.Duration
	GeminiMaxRetries int
	GeminiRetryBase  time.Duration
	AIRequestsPerMin int
	MaxImageBytes    int64

	// Weather
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherCacheTTL    time.Duration

	// Redis
	RedisURL string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	apiKey, _ := ResolveAPIKey(os.Getenv, GeminiKeyVars...)

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:       apiKey,
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		GeminiTimeout:      time.Duration(getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 30)) * time.Second,
		GeminiMaxRetries:   getEnvAsIntOrDefault("GEMINI_MAX_RETRIES", 2),
		GeminiRetryBase:    time.Duration(getEnvAsIntOrDefault("GEMINI_RETRY_BASE_MS", 500)) * time.Millisecond,
		AIRequestsPerMin:   getEnvAsIntOrDefault("AI_RATE_LIMIT_PER_MINUTE", 20),
		MaxImageBytes:      int64(getEnvAsIntOrDefault("MAX_IMAGE_BYTES", 10<<20)),
		OpenWeatherAPIKey:  getEnvOrDefault("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
		WeatherCacheTTL:    time.Duration(getEnvAsIntOrDefault("WEATHER_CACHE_TTL_SECONDS", 600)) * time.Second,
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	if cfg.GeminiMaxRetries < 0 {
		cfg.GeminiMaxRetries = 0
	}

	return cfg
}

// HasGeminiKey reports whether a Gemini credential was resolved.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

// ResolveAPIKey returns the first non-empty value among names, in order.
func ResolveAPIKey(lookup func(string) string, names ...string) (string, bool) {
	for _, name := range names {
		if val := lookup(name); val != "" {
			return val, true
		}
	}
	return "", false
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"marina-frontdesk/internal/models"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis (optional, enables the staff booking feed)
	RedisURL string

	// JWT
	JWTSecret string

	// Reasoning
	ReasonerProvider     string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	OpenAIModel          string
	MaxToolRounds        int

	// Media (empty model disables the feature)
	SpeechModel string
	SpeechVoice string
	ImageModel  string

	// Logging
	LogLevel  string
	LogFormat string

	// Hotel
	HotelProfilePath string

	// Guest chat requests per client per minute
	ChatRateLimit int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:            getEnvOrDefault("JWT_SECRET", ""),
		ReasonerProvider:     getEnvOrDefault("REASONER_PROVIDER", ProviderGemini),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:         getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		MaxToolRounds:        getEnvAsIntOrDefault("MAX_TOOL_ROUNDS", 10),
		SpeechModel:          getEnvOrDefault("SPEECH_MODEL", ""),
		SpeechVoice:          getEnvOrDefault("SPEECH_VOICE", "Kore"),
		ImageModel:           getEnvOrDefault("IMAGE_MODEL", ""),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		HotelProfilePath:     getEnvOrDefault("HOTEL_PROFILE", ""),
		ChatRateLimit:        getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// LoadJWTSecret reads only the staff token secret, for commands that never open the store.
func LoadJWTSecret() string {
	godotenv.Load()
	return getEnvOrDefault("JWT_SECRET", "")
}

// Validate checks the settings the selected reasoner and media features depend on.
func (c *Config) Validate() error {
	var errs []error

	switch c.ReasonerProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini reasoner"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai reasoner"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown REASONER_PROVIDER %q", c.ReasonerProvider))
	}

	if c.MediaEnabled() && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required when SPEECH_MODEL or IMAGE_MODEL is set"))
	}
	if c.MaxToolRounds < 0 {
		errs = append(errs, errors.New("MAX_TOOL_ROUNDS must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) MediaEnabled() bool {
	return c.SpeechModel != "" || c.ImageModel != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadHotelProfile reads a YAML profile. Fields left empty fall back to the default hotel.
// An empty path returns the default profile.
func LoadHotelProfile(path string) (models.HotelProfile, error) {
	profile := models.DefaultHotelProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read hotel profile: %w", err)
	}

	var loaded models.HotelProfile
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return profile, fmt.Errorf("parse hotel profile: %w", err)
	}

	// Apply defaults
	if loaded.Name != "" {
		profile.Name = loaded.Name
	}
	if loaded.Description != "" {
		profile.Description = loaded.Description
	}
	if loaded.City != "" {
		profile.City = loaded.City
	}
	profile.Persona = loaded.Persona

	return profile, nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
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

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AdvisorAPIKey  string
	AdvisorBaseURL string
	AdvisorModel   string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdvisorAPIKey:  getEnv("ADVISOR_API_KEY", ""),
		AdvisorBaseURL: getEnv("ADVISOR_BASE_URL", "https://api.x.ai/v1"),
		AdvisorModel:   getEnv("ADVISOR_MODEL", "grok-3-mini"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.AdvisorAPIKey == "" {
		log.Fatal("ADVISOR_API_KEY is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the server.
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	NominatimURL string
	UserAgent    string
	LogPath      string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", ":8080"),
		DBPath:       getEnv("DB_PATH", "./data/placelog.db"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:    getEnv("GEOCODER_USER_AGENT", "placelog/1.0 (significant-location backend)"),
		LogPath:      getEnv("LOG_PATH", "./logs/placelog.log"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

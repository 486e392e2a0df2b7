package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// config is the server configuration, read from the environment (and an
// optional .env file).
type config struct {
	DBURL          string
	Port           string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	GinMode        string
}

// loadConfig reads the environment. A missing .env file is fine; the server
// is usually configured by its host.
func loadConfig() config {
	_ = godotenv.Load()

	return config{
		DBURL:          os.Getenv("DB_URL"),
		Port:           getenv("PORT", "3000"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "json"),
		AllowedOrigins: splitOrigins(getenv("CORS_ALLOWED_ORIGINS", "*")),
		GinMode:        os.Getenv("GIN_MODE"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Package config reads the process configuration from the environment, with
// an optional .env file for development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	MongoURI       string
	MongoDatabase  string
	WordsFile      string
	OllamaURL      string
	OllamaModel    string
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "3000"),
		GinMode:       getenv("GIN_MODE", "debug"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "quickdoodle"),
		WordsFile:     getenv("WORDS_FILE", "./words.txt"),
		OllamaURL:     getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getenv("OLLAMA_MODEL", "llama3"),
	}

	origins := getenv("ALLOWED_ORIGINS", "")
	if origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

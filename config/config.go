package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	LogDir      string
	ArchiveCron string

	RestBaseURL string
	Token       string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	HTTPPort string
}

// Load reads .env when present and falls back to the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LogDir:        getenv("LOG_DIR", "logs"),
		ArchiveCron:   os.Getenv("ARCHIVE_CRON"),
		RestBaseURL:   getenv("REST_BASE_URL", "https://discord.com/api/v10"),
		Token:         os.Getenv("TOKEN"),
		Neo4jURI:      os.Getenv("NEO4J_DATABASE_URL"),
		Neo4jUser:     os.Getenv("NEO4J_DATABASE_USER"),
		Neo4jPassword: os.Getenv("NEO4J_DATABASE_PASSWORD"),
		HTTPPort:      getenv("PORT", "8080"),
	}
}

func (c Config) HasNeo4j() bool {
	return c.Neo4jURI != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

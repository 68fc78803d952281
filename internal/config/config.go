package config

import (
	"os"
	"time"
)

type Config struct {
	ProjectID   string
	Region      string
	LogLevel    string
	Port        string
	VertexModel string
	AITTL       time.Duration
}

func New() *Config {
	return &Config{
		ProjectID:   os.Getenv("PROJECTID"),
		Region:      os.Getenv("REGION"),
		LogLevel:    os.Getenv("LOGLEVEL"),
		Port:        getPort(os.Getenv("PORT")),
		VertexModel: os.Getenv("VERTEXMODEL"),
		AITTL:       getAITTL(os.Getenv("AITTL")),
	}
}

func getPort(port string) string {
	if port == "" {
		return "8080"
	}
	return port
}

// getAITTL parses the assistant message retention window; sessions default to
// 30 days.
func getAITTL(ttl string) time.Duration {
	if ttl == "" {
		return 30 * 24 * time.Hour
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

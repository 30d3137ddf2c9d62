package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all environment variables for the catalog service. It is
// passed explicitly at construction time rather than read from ambient
// globals, so tests can point at isolated instances.
type Config struct {
	Port          string        // Listening port (default: 5000)
	MongoURI      string        // Connection string; "<db_password>" is substituted from DatabasePassword
	DBName        string        // Database name (default: catalog)
	UploadDir     string        // Content directory for uploaded images (default: uploads)
	RedisURL      string        // Optional; empty disables response caching
	SweepInterval time.Duration // Optional; zero disables the orphan sweeper
}

// LoadConfig loads environment variables into a Config struct and validates
// them. DATABASE may contain a "<db_password>" placeholder that is replaced
// with DATABASE_PASSWORD.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      os.Getenv("PORT"),
		MongoURI:  os.Getenv("DATABASE"),
		DBName:    os.Getenv("DATABASE_NAME"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
		RedisURL:  os.Getenv("REDIS_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.DBName == "" {
		cfg.DBName = "catalog"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("DATABASE is required")
	}
	cfg.MongoURI = strings.Replace(cfg.MongoURI, "<db_password>", os.Getenv("DATABASE_PASSWORD"), 1)

	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
		}
		cfg.SweepInterval = interval
	}

	return cfg, nil
}

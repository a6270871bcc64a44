package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const Version = "0.1.0"

type Config struct {
	Port                string
	TraceStoreURL       string
	TraceStorePublicKey string
	TraceStoreSecretKey string
	RedisURL            string
	Version             string
}

func Load() (*Config, error) {
	// A missing .env is fine; production sets real environment variables.
	godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8192"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	cfg := &Config{
		Port:                port,
		TraceStoreURL:       os.Getenv("TRACE_STORE_URL"),
		TraceStorePublicKey: os.Getenv("TRACE_STORE_PUBLIC_KEY"),
		TraceStoreSecretKey: os.Getenv("TRACE_STORE_SECRET_KEY"),
		RedisURL:            redisURL,
		Version:             Version,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.TraceStoreURL == "" {
		return fmt.Errorf("trace store url is required")
	}
	if c.TraceStorePublicKey == "" || c.TraceStoreSecretKey == "" {
		return fmt.Errorf("trace store credentials are required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("redis url is required")
	}
	return nil
}

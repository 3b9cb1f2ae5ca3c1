// Package config reads function settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/launchsync/launchsync/pkg/caller"
)

// DefaultTable is used when TABLE_NAME is unset
const DefaultTable = "AppDataTable"

// DefaultFetchTimeout bounds the upstream query
const DefaultFetchTimeout = 20 * time.Second

// Config holds function settings
type Config struct {
	TableName     string
	Region        string
	Endpoint      string
	SourceURL     string
	FetchTimeout  time.Duration
	ScanPageLimit int32
	LogLevel      string
	Environment   string
}

// Load reads the environment, falling back to defaults for unset values
func Load() (Config, error) {

	c := Config{
		TableName:    getEnv("TABLE_NAME", DefaultTable),
		Region:       os.Getenv("AWS_REGION"),
		Endpoint:     os.Getenv("DYNAMODB_ENDPOINT"),
		SourceURL:    getEnv("SPACEX_API_URL", caller.DefaultBaseURL),
		FetchTimeout: DefaultFetchTimeout,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Environment:  getEnv("ENVIRONMENT", "development"),
	}

	if v, ok := os.LookupEnv("FETCH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q: %v", v, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q: must be positive", v)
		}
		c.FetchTimeout = d
	}

	if v, ok := os.LookupEnv("SCAN_PAGE_LIMIT"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid SCAN_PAGE_LIMIT %q", v)
		}
		c.ScanPageLimit = int32(n)
	}

	return c, nil
}

// InLambda reports whether the process runs inside AWS Lambda
func InLambda() bool {
	_, ok := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")
	return ok
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

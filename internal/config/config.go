// Package config loads run settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/output"
)

// Config holds the settings flags default to.
type Config struct {
	Output          string
	DefaultCurrency string
	Dialect         string
	Format          string
	Strict          bool
	UsePrintArea    bool
	HeaderScanRows  int
	SQLitePath      string
	PostgresDSN     string
	MetricsFile     string
	LogFormat       string
}

// Load reads envFile (ignored when missing; "" means ".env") into the
// process environment without overriding variables already set, then builds
// a Config from XLINVOICE_* variables.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the environment alone.
func FromEnv() *Config {
	return &Config{
		Output:          getEnv("XLINVOICE_OUTPUT", "migration.sql"),
		DefaultCurrency: strings.ToUpper(getEnv("XLINVOICE_DEFAULT_CURRENCY", "USD")),
		Dialect:         getEnv("XLINVOICE_DIALECT", string(output.SQLite)),
		Format:          getEnv("XLINVOICE_FORMAT", "sql"),
		Strict:          getEnvAsBool("XLINVOICE_STRICT", false),
		UsePrintArea:    getEnvAsBool("XLINVOICE_USE_PRINT_AREA", false),
		HeaderScanRows:  getEnvAsInt("XLINVOICE_HEADER_SCAN_ROWS", 50),
		SQLitePath:      getEnv("XLINVOICE_SQLITE_PATH", ""),
		PostgresDSN:     getEnv("XLINVOICE_POSTGRES_DSN", ""),
		MetricsFile:     getEnv("XLINVOICE_METRICS_FILE", ""),
		LogFormat:       getEnv("XLINVOICE_LOG_FORMAT", "text"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

var reCurrencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate rejects settings the converter cannot act on.
func (c *Config) Validate() error {
	if !reCurrencyCode.MatchString(c.DefaultCurrency) {
		return fmt.Errorf("default currency %q is not a 3-letter code", c.DefaultCurrency)
	}
	if _, err := output.ParseDialect(c.Dialect); err != nil {
		return err
	}
	switch c.Format {
	case "sql", "json":
	default:
		return fmt.Errorf("format %q must be sql or json", c.Format)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.LogFormat)
	}
	if c.HeaderScanRows <= 0 {
		return fmt.Errorf("header scan rows must be positive, got %d", c.HeaderScanRows)
	}
	return nil
}
